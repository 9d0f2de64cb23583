// Package models contains data structures for the application's domain models.
package models

import (
	"fmt"
	"time"
)

// Role is the closed set of user roles.
type Role string

// User roles, ordered by privilege: admin > moderator > user.
const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

// ParseRole converts a string into a Role, rejecting anything outside the enum.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleModerator, RoleUser:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// Valid reports whether the role is one of the defined enum values.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// User represents a registered account in the PhotoShare application.
//
// RefreshToken holds the currently valid refresh token; nil means the user is
// logged out and any presented refresh token must be rejected.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:250;uniqueIndex;not null" json:"email"`
	Password     string    `gorm:"size:255;not null" json:"-"`
	Role         Role      `gorm:"size:20;not null;default:user" json:"role"`
	Avatar       string    `gorm:"size:255" json:"avatar,omitempty"`
	RefreshToken *string   `gorm:"size:512" json:"-"`
	Confirmed    bool      `gorm:"not null;default:false" json:"confirmed"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	Posts        []Post    `gorm:"foreignKey:AuthorID" json:"posts,omitempty"`
}

// IsPrivileged reports whether the user may exercise moderator-level overrides.
func (u *User) IsPrivileged() bool {
	return u.Role == RoleAdmin || u.Role == RoleModerator
}

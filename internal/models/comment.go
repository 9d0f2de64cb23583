package models

import "time"

// Comment is a user comment on a post. UpdatedAt stays nil until the first
// edit, so autoUpdateTime is disabled and the service layer sets it explicitly.
type Comment struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Text      string     `gorm:"size:2000;not null" json:"text"`
	ImageID   uint       `gorm:"index;not null" json:"image_id"`
	Image     *Post      `gorm:"foreignKey:ImageID;constraint:OnDelete:CASCADE" json:"-"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	User      *User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false" json:"updated_at"`
}

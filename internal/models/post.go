package models

import "time"

// Post represents an uploaded image with its CDN-hosted URL and the QR code
// pointing at it. Transformations never mutate a post; they create a new one.
type Post struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Description string    `gorm:"size:500" json:"description"`
	ImageURL    string    `gorm:"size:512;not null" json:"image_url"`
	QRCodeURL   string    `gorm:"size:512" json:"qr_code_url"`
	AuthorID    uint      `gorm:"index;not null" json:"author_id"`
	Author      *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Hashtags    []Hashtag `gorm:"many2many:post_hashtags;constraint:OnDelete:CASCADE" json:"hashtags,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Hashtag is a named tag attached to posts. Names are unique; lookups use
// get-or-create semantics so concurrent requests for the same name converge
// on a single row.
type Hashtag struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Posts []Post `gorm:"many2many:post_hashtags" json:"-"`
}

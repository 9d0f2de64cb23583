package models

// Rating is a single 1-5 score a user gave to a post. The composite unique
// index backs the one-rating-per-(user, image) invariant even under
// concurrent inserts.
type Rating struct {
	ID      uint  `gorm:"primaryKey" json:"id"`
	Rating  int   `gorm:"not null" json:"rating"`
	UserID  uint  `gorm:"not null;uniqueIndex:idx_ratings_user_image" json:"user_id"`
	User    *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	ImageID uint  `gorm:"not null;uniqueIndex:idx_ratings_user_image" json:"image_id"`
	Image   *Post `gorm:"foreignKey:ImageID;constraint:OnDelete:CASCADE" json:"-"`
}

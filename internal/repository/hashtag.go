package repository

import (
	"context"
	"errors"

	"photoshare/internal/models"

	"gorm.io/gorm"
)

// HashtagRepository resolves tag names to hashtag rows.
type HashtagRepository interface {
	GetOrCreate(ctx context.Context, names []string) ([]models.Hashtag, error)
	List(ctx context.Context, limit, offset int) ([]models.Hashtag, error)
}

type hashtagRepository struct {
	db *gorm.DB
}

// NewHashtagRepository creates a new hashtag repository.
func NewHashtagRepository(db *gorm.DB) HashtagRepository {
	return &hashtagRepository{db: db}
}

// GetOrCreate resolves each name to an existing hashtag or creates it.
// A concurrent create of the same name is retried as a lookup.
func (r *hashtagRepository) GetOrCreate(ctx context.Context, names []string) ([]models.Hashtag, error) {
	tags := make([]models.Hashtag, 0, len(names))
	for _, name := range names {
		var tag models.Hashtag
		err := r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			tag = models.Hashtag{Name: name}
			err = r.db.WithContext(ctx).Create(&tag).Error
			if err != nil && isUniqueConstraintError(err) {
				err = r.db.WithContext(ctx).Where("name = ?", name).First(&tag).Error
			}
		}
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (r *hashtagRepository) List(ctx context.Context, limit, offset int) ([]models.Hashtag, error) {
	var tags []models.Hashtag
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&tags).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return tags, nil
}

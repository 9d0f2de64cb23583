package repository

import (
	"context"
	"errors"

	"photoshare/internal/models"

	"gorm.io/gorm"
)

// RatingRepository defines persistence operations for image ratings.
type RatingRepository interface {
	Create(ctx context.Context, rating *models.Rating) error
	GetByID(ctx context.Context, id uint) (*models.Rating, error)
	GetByUserAndImage(ctx context.Context, userID, imageID uint) (*models.Rating, error)
	ListByImage(ctx context.Context, imageID uint) ([]*models.Rating, error)
	AverageForImage(ctx context.Context, imageID uint) (float64, error)
	Delete(ctx context.Context, id uint) error
}

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository creates a new rating repository.
func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

// Create inserts the rating. A duplicate (user, image) pair trips the
// unique index and comes back as a CONFLICT, which also covers the race
// where two requests rate the same image at once.
func (r *ratingRepository) Create(ctx context.Context, rating *models.Rating) error {
	if err := r.db.WithContext(ctx).Create(rating).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Image already rated")
		}
		return models.NewInternalError(err)
	}
	return nil
}

func (r *ratingRepository) GetByID(ctx context.Context, id uint) (*models.Rating, error) {
	var rating models.Rating
	if err := r.db.WithContext(ctx).First(&rating, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Rating", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &rating, nil
}

// GetByUserAndImage returns (nil, nil) when the user has not rated the image.
func (r *ratingRepository) GetByUserAndImage(ctx context.Context, userID, imageID uint) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND image_id = ?", userID, imageID).
		First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &rating, nil
}

func (r *ratingRepository) ListByImage(ctx context.Context, imageID uint) ([]*models.Rating, error) {
	var ratings []*models.Rating
	err := r.db.WithContext(ctx).
		Where("image_id = ?", imageID).
		Find(&ratings).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return ratings, nil
}

// AverageForImage returns 0.0 for an image with no ratings.
func (r *ratingRepository) AverageForImage(ctx context.Context, imageID uint) (float64, error) {
	var avg float64
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Where("image_id = ?", imageID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return avg, nil
}

func (r *ratingRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Rating{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

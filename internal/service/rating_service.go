package service

import (
	"context"

	"photoshare/internal/models"
	"photoshare/internal/policy"
	"photoshare/internal/repository"
)

// RatingService implements image rating: one 1-5 score per user per image.
type RatingService struct {
	ratings repository.RatingRepository
	posts   repository.PostRepository
}

// NewRatingService creates a RatingService.
func NewRatingService(ratings repository.RatingRepository, posts repository.PostRepository) *RatingService {
	return &RatingService{
		ratings: ratings,
		posts:   posts,
	}
}

// Rate records the actor's score for an image. Authors cannot rate their own
// images, and a second rating for the same image is a conflict. The unique
// index catches the race where two requests from the same user arrive
// together, so the pre-check here is a fast path, not the enforcement.
func (s *RatingService) Rate(ctx context.Context, actor *models.User, imageID uint, value int) (*models.Rating, error) {
	if value < 1 || value > 5 {
		return nil, models.NewValidationError("Rating must be between 1 and 5")
	}

	post, err := s.posts.GetByID(ctx, imageID)
	if err != nil {
		return nil, err
	}
	if !policy.CanRate(actor, post.AuthorID) {
		return nil, models.NewPermissionDeniedError("You cannot rate your own image")
	}

	existing, err := s.ratings.GetByUserAndImage(ctx, actor.ID, imageID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, models.NewConflictError("Image already rated")
	}

	rating := &models.Rating{
		Rating:  value,
		UserID:  actor.ID,
		ImageID: imageID,
	}
	if err := s.ratings.Create(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}

// DeleteRating removes a rating. The rating's owner or a privileged user
// may delete it.
func (s *RatingService) DeleteRating(ctx context.Context, actor *models.User, ratingID uint) error {
	rating, err := s.ratings.GetByID(ctx, ratingID)
	if err != nil {
		return err
	}
	if !policy.CanDeleteRating(actor, rating.UserID) {
		return models.NewPermissionDeniedError("You cannot delete this rating")
	}
	return s.ratings.Delete(ctx, ratingID)
}

// Average returns the mean rating of an image, 0.0 when nobody has rated it.
func (s *RatingService) Average(ctx context.Context, imageID uint) (float64, error) {
	if _, err := s.posts.GetByID(ctx, imageID); err != nil {
		return 0, err
	}
	return s.ratings.AverageForImage(ctx, imageID)
}

// ListByImage returns all individual ratings of an image.
func (s *RatingService) ListByImage(ctx context.Context, imageID uint) ([]*models.Rating, error) {
	if _, err := s.posts.GetByID(ctx, imageID); err != nil {
		return nil, err
	}
	return s.ratings.ListByImage(ctx, imageID)
}

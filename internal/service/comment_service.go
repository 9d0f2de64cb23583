package service

import (
	"context"
	"strings"
	"time"

	"photoshare/internal/models"
	"photoshare/internal/policy"
	"photoshare/internal/repository"
)

const maxCommentLen = 2000

// CommentService implements comment creation, editing, and moderation.
type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
}

type CreateCommentInput struct {
	ImageID uint
	Text    string
}

type UpdateCommentInput struct {
	CommentID uint
	Text      string
}

// NewCommentService creates a CommentService.
func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository) *CommentService {
	return &CommentService{
		comments: comments,
		posts:    posts,
	}
}

func validateCommentText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", models.NewValidationError("Text is required")
	}
	if len(text) > maxCommentLen {
		return "", models.NewValidationError("Comment too long (max 2000 characters)")
	}
	return text, nil
}

func (s *CommentService) CreateComment(ctx context.Context, actor *models.User, in CreateCommentInput) (*models.Comment, error) {
	text, err := validateCommentText(in.Text)
	if err != nil {
		return nil, err
	}
	if _, err := s.posts.GetByID(ctx, in.ImageID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:    text,
		ImageID: in.ImageID,
		UserID:  actor.ID,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, comment.ID)
}

// UpdateComment edits the comment text. Only the author may edit; even
// admins cannot rewrite someone else's words. The edit is recorded by
// setting UpdatedAt.
func (s *CommentService) UpdateComment(ctx context.Context, actor *models.User, in UpdateCommentInput) (*models.Comment, error) {
	text, err := validateCommentText(in.Text)
	if err != nil {
		return nil, err
	}

	comment, err := s.comments.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if !policy.CanEditComment(actor, comment.UserID) {
		return nil, models.NewPermissionDeniedError("Only the author can edit a comment")
	}

	now := time.Now()
	comment.Text = text
	comment.UpdatedAt = &now
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, comment.ID)
}

// DeleteComment removes a comment. Deletion is a moderation action: only
// moderators and admins may delete, the author may not.
func (s *CommentService) DeleteComment(ctx context.Context, actor *models.User, commentID uint) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if !policy.CanDeleteComment(actor) {
		return nil, models.NewPermissionDeniedError("Only moderators can delete comments")
	}

	if err := s.comments.Delete(ctx, commentID); err != nil {
		return nil, err
	}
	return comment, nil
}

// GetComment returns a single comment by id.
func (s *CommentService) GetComment(ctx context.Context, commentID uint) (*models.Comment, error) {
	return s.comments.GetByID(ctx, commentID)
}

// ListByImage returns the comments on an image, oldest first.
func (s *CommentService) ListByImage(ctx context.Context, imageID uint, limit, offset int) ([]*models.Comment, error) {
	if _, err := s.posts.GetByID(ctx, imageID); err != nil {
		return nil, err
	}
	return s.comments.ListByImage(ctx, imageID, clampLimit(limit), offset)
}

// ListByUserForImage returns one user's comments on an image.
func (s *CommentService) ListByUserForImage(ctx context.Context, userID, imageID uint) ([]*models.Comment, error) {
	if _, err := s.posts.GetByID(ctx, imageID); err != nil {
		return nil, err
	}
	return s.comments.ListByUserForImage(ctx, userID, imageID)
}

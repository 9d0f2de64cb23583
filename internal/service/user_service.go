package service

import (
	"bytes"
	"context"
	"fmt"

	"photoshare/internal/media"
	"photoshare/internal/models"
	"photoshare/internal/repository"

	"github.com/google/uuid"
)

// UserService implements profile reads and avatar management.
type UserService struct {
	users  repository.UserRepository
	store  media.Store
	folder string
}

// Profile is a public view of an account.
type Profile struct {
	ID        uint        `json:"id"`
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	Avatar    string      `json:"avatar,omitempty"`
	Role      models.Role `json:"role"`
	IsActive  bool        `json:"is_active"`
	CreatedAt string      `json:"created_at"`
	PostCount int64       `json:"post_count"`
}

// NewUserService creates a UserService.
func NewUserService(users repository.UserRepository, store media.Store, folder string) *UserService {
	return &UserService{
		users:  users,
		store:  store,
		folder: folder,
	}
}

// GetProfile returns the public profile for a username, including how many
// images the account has posted.
func (s *UserService) GetProfile(ctx context.Context, username string) (*Profile, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", username)
	}

	count, err := s.users.CountPostsByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	return &Profile{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Avatar:    user.Avatar,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		PostCount: count,
	}, nil
}

// UpdateAvatar uploads a new avatar image and stores its square-thumbnail
// delivery URL on the account.
func (s *UserService) UpdateAvatar(ctx context.Context, actor *models.User, image []byte) (*models.User, error) {
	if _, err := validateUpload(image); err != nil {
		return nil, err
	}

	publicID := fmt.Sprintf("%s/avatars/%s", s.folder, uuid.New().String())
	if _, err := s.store.Upload(ctx, bytes.NewReader(image), publicID); err != nil {
		return nil, err
	}

	url, err := s.store.TransformedURL(publicID, media.AvatarTransformation)
	if err != nil {
		return nil, err
	}

	actor.Avatar = url
	if err := s.users.Update(ctx, actor); err != nil {
		return nil, err
	}
	return actor, nil
}

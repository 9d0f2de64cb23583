package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"photoshare/internal/media"
	"photoshare/internal/middleware"
	"photoshare/internal/models"
	"photoshare/internal/observability"
	"photoshare/internal/policy"
	"photoshare/internal/repository"
	"photoshare/internal/validation"

	"github.com/google/uuid"
)

const (
	maxTags           = 5
	maxDescriptionLen = 500
)

// PostService implements the image post lifecycle: upload, transform,
// describe, and delete.
type PostService struct {
	posts    repository.PostRepository
	hashtags repository.HashtagRepository
	store    media.Store
	folder   string
}

type CreatePostInput struct {
	Description string
	Tags        string // comma-separated, at most 5
	Image       []byte
}

type TransformPostInput struct {
	PostID         uint
	Description    string // optional; the source's description is carried when empty
	Transformation media.Transformation
}

// NewPostService creates a PostService. folder prefixes all CDN public IDs.
func NewPostService(posts repository.PostRepository, hashtags repository.HashtagRepository, store media.Store, folder string) *PostService {
	return &PostService{
		posts:    posts,
		hashtags: hashtags,
		store:    store,
		folder:   folder,
	}
}

// parseTags splits the comma-separated tag string, trims and deduplicates
// names, and enforces the tag limit.
func parseTags(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	seen := map[string]struct{}{}
	var names []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	if len(names) > maxTags {
		return nil, models.NewValidationError(fmt.Sprintf("Maximum %d tags allowed", maxTags))
	}
	return names, nil
}

// validateUpload wraps image validation into the service error taxonomy.
func validateUpload(data []byte) (string, error) {
	format, err := validation.ValidateImage(data)
	if err != nil {
		return "", models.NewValidationError(err.Error())
	}
	return format, nil
}

// CreatePost validates and uploads the image, generates its QR code, and
// stores the post with its tags.
func (s *PostService) CreatePost(ctx context.Context, actor *models.User, in CreatePostInput) (*models.Post, error) {
	if len(in.Description) > maxDescriptionLen {
		return nil, models.NewValidationError(fmt.Sprintf("Description too long (max %d characters)", maxDescriptionLen))
	}

	names, err := parseTags(in.Tags)
	if err != nil {
		return nil, err
	}

	if _, err := validateUpload(in.Image); err != nil {
		observability.ImageUploadsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	tags, err := s.hashtags.GetOrCreate(ctx, names)
	if err != nil {
		return nil, err
	}

	publicID := fmt.Sprintf("%s/%s", s.folder, uuid.New().String())
	imageURL, err := s.store.Upload(ctx, bytes.NewReader(in.Image), publicID)
	if err != nil {
		observability.ImageUploadsTotal.WithLabelValues("failed").Inc()
		return nil, err
	}

	qrURL, err := s.uploadQR(ctx, imageURL)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		Description: in.Description,
		ImageURL:    imageURL,
		QRCodeURL:   qrURL,
		AuthorID:    actor.ID,
		Hashtags:    tags,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		// The CDN asset is now orphaned; clean it up on a best-effort basis.
		s.destroyQuietly(ctx, imageURL)
		s.destroyQuietly(ctx, qrURL)
		return nil, err
	}

	observability.ImageUploadsTotal.WithLabelValues("accepted").Inc()
	return s.posts.GetByID(ctx, post.ID)
}

// uploadQR encodes url as a QR code and stores it on the CDN.
func (s *PostService) uploadQR(ctx context.Context, url string) (string, error) {
	png, err := media.EncodeQR(url)
	if err != nil {
		return "", err
	}
	publicID := fmt.Sprintf("%s/qrcodes/%s", s.folder, uuid.New().String())
	return s.store.Upload(ctx, bytes.NewReader(png), publicID)
}

func (s *PostService) destroyQuietly(ctx context.Context, url string) {
	publicID := media.PublicIDFromURL(url)
	if publicID == "" {
		return
	}
	if err := s.store.Destroy(ctx, publicID); err != nil {
		middleware.Logger.WarnContext(ctx, "Failed to remove CDN asset",
			slog.String("public_id", publicID),
			slog.String("error", err.Error()),
		)
	}
}

// TransformPost derives a transformed copy of an existing post. The result
// is a brand new post owned by the actor carrying the source post's tags;
// the source post is never modified.
func (s *PostService) TransformPost(ctx context.Context, actor *models.User, in TransformPostInput) (*models.Post, error) {
	source, err := s.posts.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !policy.CanTransformPost(actor, source.AuthorID) {
		return nil, models.NewPermissionDeniedError("You cannot transform this image")
	}

	publicID := media.PublicIDFromURL(source.ImageURL)
	if publicID == "" {
		return nil, models.NewInternalError(fmt.Errorf("post %d has no CDN-backed image URL", source.ID))
	}

	transformedURL, err := s.store.TransformedURL(publicID, in.Transformation)
	if err != nil {
		return nil, err
	}

	qrURL, err := s.uploadQR(ctx, transformedURL)
	if err != nil {
		return nil, err
	}

	description := in.Description
	if description == "" {
		description = source.Description
	}

	post := &models.Post{
		Description: description,
		ImageURL:    transformedURL,
		QRCodeURL:   qrURL,
		AuthorID:    actor.ID,
		Hashtags:    source.Hashtags,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		s.destroyQuietly(ctx, qrURL)
		return nil, err
	}

	observability.TransformationsTotal.WithLabelValues(in.Transformation.Kind).Inc()
	return s.posts.GetByID(ctx, post.ID)
}

// UpdateDescription edits the post's description in place.
func (s *PostService) UpdateDescription(ctx context.Context, actor *models.User, postID uint, description string) (*models.Post, error) {
	if len(description) > maxDescriptionLen {
		return nil, models.NewValidationError(fmt.Sprintf("Description too long (max %d characters)", maxDescriptionLen))
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !policy.CanEditPost(actor, post.AuthorID) {
		return nil, models.NewPermissionDeniedError("You cannot edit this image")
	}

	post.Description = description
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.posts.GetByID(ctx, postID)
}

// DeletePost removes the post. The database row goes first; CDN cleanup is
// best effort afterwards, since a dangling CDN asset is harmless while a
// dangling database row is not.
func (s *PostService) DeletePost(ctx context.Context, actor *models.User, postID uint) error {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if !policy.CanDeletePost(actor, post.AuthorID) {
		return models.NewPermissionDeniedError("You cannot delete this image")
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		return err
	}

	s.destroyQuietly(ctx, post.ImageURL)
	if post.QRCodeURL != "" {
		s.destroyQuietly(ctx, post.QRCodeURL)
	}
	return nil
}

func (s *PostService) GetPost(ctx context.Context, postID uint) (*models.Post, error) {
	return s.posts.GetByID(ctx, postID)
}

func (s *PostService) ListPosts(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.posts.List(ctx, clampLimit(limit), offset)
}

func (s *PostService) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	return s.posts.ListByAuthor(ctx, authorID, clampLimit(limit), offset)
}

// Search finds posts whose description contains the keyword. A keyword
// starting with '#' searches by exact tag name instead.
func (s *PostService) Search(ctx context.Context, keyword string, limit, offset int) ([]*models.Post, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, models.NewValidationError("Search keyword is required")
	}
	if tag, ok := strings.CutPrefix(keyword, "#"); ok {
		return s.posts.SearchByTag(ctx, strings.ToLower(tag), clampLimit(limit), offset)
	}
	return s.posts.Search(ctx, keyword, clampLimit(limit), offset)
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	if limit > 100 {
		return 100
	}
	return limit
}

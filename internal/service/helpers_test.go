package service

import (
	"context"
	"io"
	"testing"

	"photoshare/internal/media"
	"photoshare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
}

func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertErrorCode(t, err, models.CodeValidation)
}

func assertPermissionDenied(t *testing.T, err error) {
	t.Helper()
	assertErrorCode(t, err, models.CodePermissionDenied)
}

func assertUnauthenticated(t *testing.T, err error) {
	t.Helper()
	assertErrorCode(t, err, models.CodeUnauthenticated)
}

func assertConflict(t *testing.T, err error) {
	t.Helper()
	assertErrorCode(t, err, models.CodeConflict)
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn            func(context.Context, uint) (*models.User, error)
	getByEmailFn         func(context.Context, string) (*models.User, error)
	getByUsernameFn      func(context.Context, string) (*models.User, error)
	createFn             func(context.Context, *models.User) error
	updateFn             func(context.Context, *models.User) error
	countFn              func(context.Context) (int64, error)
	countPostsByAuthorFn func(context.Context, uint) (int64, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}
func (s *userRepoStub) CountPostsByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.countPostsByAuthorFn(ctx, authorID)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:            func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:         func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn:      func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:             func(_ context.Context, _ *models.User) error { return nil },
		updateFn:             func(_ context.Context, _ *models.User) error { return nil },
		countFn:              func(_ context.Context) (int64, error) { return 1, nil },
		countPostsByAuthorFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn       func(context.Context, *models.Post) error
	getByIDFn      func(context.Context, uint) (*models.Post, error)
	listFn         func(context.Context, int, int) ([]*models.Post, error)
	listByAuthorFn func(context.Context, uint, int, int) ([]*models.Post, error)
	searchFn       func(context.Context, string, int, int) ([]*models.Post, error)
	searchByTagFn  func(context.Context, string, int, int) ([]*models.Post, error)
	updateFn       func(context.Context, *models.Post) error
	deleteFn       func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, limit, offset int) ([]*models.Post, error) {
	return s.listFn(ctx, limit, offset)
}
func (s *postRepoStub) ListByAuthor(ctx context.Context, authorID uint, limit, offset int) ([]*models.Post, error) {
	return s.listByAuthorFn(ctx, authorID, limit, offset)
}
func (s *postRepoStub) Search(ctx context.Context, keyword string, limit, offset int) ([]*models.Post, error) {
	return s.searchFn(ctx, keyword, limit, offset)
}
func (s *postRepoStub) SearchByTag(ctx context.Context, tag string, limit, offset int) ([]*models.Post, error) {
	return s.searchByTagFn(ctx, tag, limit, offset)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn:    func(_ context.Context, _, _ int) ([]*models.Post, error) { return nil, nil },
		listByAuthorFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Post, error) {
			return nil, nil
		},
		searchFn:      func(_ context.Context, _ string, _, _ int) ([]*models.Post, error) { return nil, nil },
		searchByTagFn: func(_ context.Context, _ string, _, _ int) ([]*models.Post, error) { return nil, nil },
		updateFn:      func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:      func(_ context.Context, _ uint) error { return nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn             func(context.Context, *models.Comment) error
	getByIDFn            func(context.Context, uint) (*models.Comment, error)
	listByImageFn        func(context.Context, uint, int, int) ([]*models.Comment, error)
	listByUserForImageFn func(context.Context, uint, uint) ([]*models.Comment, error)
	updateFn             func(context.Context, *models.Comment) error
	deleteFn             func(context.Context, uint) error
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	return s.getByIDFn(ctx, id)
}
func (s *commentRepoStub) ListByImage(ctx context.Context, imageID uint, limit, offset int) ([]*models.Comment, error) {
	return s.listByImageFn(ctx, imageID, limit, offset)
}
func (s *commentRepoStub) ListByUserForImage(ctx context.Context, userID, imageID uint) ([]*models.Comment, error) {
	return s.listByUserForImageFn(ctx, userID, imageID)
}
func (s *commentRepoStub) Update(ctx context.Context, comment *models.Comment) error {
	return s.updateFn(ctx, comment)
}
func (s *commentRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:  func(_ context.Context, _ *models.Comment) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Comment, error) { return &models.Comment{ID: id}, nil },
		listByImageFn: func(_ context.Context, _ uint, _, _ int) ([]*models.Comment, error) {
			return nil, nil
		},
		listByUserForImageFn: func(_ context.Context, _, _ uint) ([]*models.Comment, error) {
			return nil, nil
		},
		updateFn: func(_ context.Context, _ *models.Comment) error { return nil },
		deleteFn: func(_ context.Context, _ uint) error { return nil },
	}
}

// ratingRepoStub is a stub for repository.RatingRepository.
type ratingRepoStub struct {
	createFn            func(context.Context, *models.Rating) error
	getByIDFn           func(context.Context, uint) (*models.Rating, error)
	getByUserAndImageFn func(context.Context, uint, uint) (*models.Rating, error)
	listByImageFn       func(context.Context, uint) ([]*models.Rating, error)
	averageForImageFn   func(context.Context, uint) (float64, error)
	deleteFn            func(context.Context, uint) error
}

func (s *ratingRepoStub) Create(ctx context.Context, rating *models.Rating) error {
	return s.createFn(ctx, rating)
}
func (s *ratingRepoStub) GetByID(ctx context.Context, id uint) (*models.Rating, error) {
	return s.getByIDFn(ctx, id)
}
func (s *ratingRepoStub) GetByUserAndImage(ctx context.Context, userID, imageID uint) (*models.Rating, error) {
	return s.getByUserAndImageFn(ctx, userID, imageID)
}
func (s *ratingRepoStub) ListByImage(ctx context.Context, imageID uint) ([]*models.Rating, error) {
	return s.listByImageFn(ctx, imageID)
}
func (s *ratingRepoStub) AverageForImage(ctx context.Context, imageID uint) (float64, error) {
	return s.averageForImageFn(ctx, imageID)
}
func (s *ratingRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopRatingRepo() *ratingRepoStub {
	return &ratingRepoStub{
		createFn:            func(_ context.Context, _ *models.Rating) error { return nil },
		getByIDFn:           func(_ context.Context, id uint) (*models.Rating, error) { return &models.Rating{ID: id}, nil },
		getByUserAndImageFn: func(_ context.Context, _, _ uint) (*models.Rating, error) { return nil, nil },
		listByImageFn:       func(_ context.Context, _ uint) ([]*models.Rating, error) { return nil, nil },
		averageForImageFn:   func(_ context.Context, _ uint) (float64, error) { return 0, nil },
		deleteFn:            func(_ context.Context, _ uint) error { return nil },
	}
}

// hashtagRepoStub is a stub for repository.HashtagRepository.
type hashtagRepoStub struct {
	getOrCreateFn func(context.Context, []string) ([]models.Hashtag, error)
	listFn        func(context.Context, int, int) ([]models.Hashtag, error)
}

func (s *hashtagRepoStub) GetOrCreate(ctx context.Context, names []string) ([]models.Hashtag, error) {
	return s.getOrCreateFn(ctx, names)
}
func (s *hashtagRepoStub) List(ctx context.Context, limit, offset int) ([]models.Hashtag, error) {
	return s.listFn(ctx, limit, offset)
}

func noopHashtagRepo() *hashtagRepoStub {
	return &hashtagRepoStub{
		getOrCreateFn: func(_ context.Context, names []string) ([]models.Hashtag, error) {
			tags := make([]models.Hashtag, len(names))
			for i, n := range names {
				tags[i] = models.Hashtag{ID: uint(i + 1), Name: n}
			}
			return tags, nil
		},
		listFn: func(_ context.Context, _, _ int) ([]models.Hashtag, error) { return nil, nil },
	}
}

// storeStub is a stub for media.Store.
type storeStub struct {
	uploadFn         func(context.Context, io.Reader, string) (string, error)
	transformedURLFn func(string, media.Transformation) (string, error)
	destroyFn        func(context.Context, string) error

	uploads   []string // public IDs passed to Upload
	destroyed []string // public IDs passed to Destroy
}

func (s *storeStub) Upload(ctx context.Context, content io.Reader, publicID string) (string, error) {
	s.uploads = append(s.uploads, publicID)
	return s.uploadFn(ctx, content, publicID)
}
func (s *storeStub) TransformedURL(publicID string, t media.Transformation) (string, error) {
	return s.transformedURLFn(publicID, t)
}
func (s *storeStub) Destroy(ctx context.Context, publicID string) error {
	s.destroyed = append(s.destroyed, publicID)
	return s.destroyFn(ctx, publicID)
}

func noopStore() *storeStub {
	return &storeStub{
		uploadFn: func(_ context.Context, _ io.Reader, publicID string) (string, error) {
			return "https://res.cloudinary.com/demo/image/upload/" + publicID + ".png", nil
		},
		transformedURLFn: func(publicID string, _ media.Transformation) (string, error) {
			return "https://res.cloudinary.com/demo/image/upload/t/" + publicID + ".png", nil
		},
		destroyFn: func(_ context.Context, _ string) error { return nil },
	}
}

// mailerStub records confirmation emails instead of sending them.
type mailerStub struct {
	sent []string // recipient emails
	err  error
}

func (m *mailerStub) SendConfirmation(_ context.Context, email, _, _, _ string) error {
	m.sent = append(m.sent, email)
	return m.err
}

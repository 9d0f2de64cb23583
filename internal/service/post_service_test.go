package service

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"

	"photoshare/internal/media"
	"photoshare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestParseTags(t *testing.T) {
	t.Parallel()

	t.Run("splits, trims, lowercases, dedupes", func(t *testing.T) {
		names, err := parseTags(" Nature, sunset , NATURE ,beach")
		require.NoError(t, err)
		assert.Equal(t, []string{"nature", "sunset", "beach"}, names)
	})

	t.Run("empty string yields no tags", func(t *testing.T) {
		names, err := parseTags("   ")
		require.NoError(t, err)
		assert.Empty(t, names)
	})

	t.Run("more than five tags is rejected", func(t *testing.T) {
		_, err := parseTags("a,b,c,d,e,f")
		assertValidationError(t, err)
	})

	t.Run("exactly five tags is fine", func(t *testing.T) {
		names, err := parseTags("a,b,c,d,e")
		require.NoError(t, err)
		assert.Len(t, names, 5)
	})
}

func TestPostService_CreatePost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	actor := &models.User{ID: 7, Role: models.RoleUser}

	t.Run("uploads image and QR code and stores tags", func(t *testing.T) {
		t.Parallel()
		var created *models.Post
		posts := noopPostRepo()
		posts.createFn = func(_ context.Context, p *models.Post) error {
			p.ID = 11
			created = p
			return nil
		}
		posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			require.NotNil(t, created)
			return created, nil
		}
		store := noopStore()

		svc := NewPostService(posts, noopHashtagRepo(), store, "photoshare")
		post, err := svc.CreatePost(ctx, actor, CreatePostInput{
			Description: "golden hour",
			Tags:        "nature,sunset",
			Image:       pngBytes(t),
		})
		require.NoError(t, err)

		assert.Equal(t, uint(7), post.AuthorID)
		assert.Len(t, post.Hashtags, 2)
		assert.NotEmpty(t, post.ImageURL)
		assert.NotEmpty(t, post.QRCodeURL)

		// One upload for the image, one for the QR code.
		require.Len(t, store.uploads, 2)
		assert.True(t, strings.HasPrefix(store.uploads[0], "photoshare/"))
		assert.True(t, strings.HasPrefix(store.uploads[1], "photoshare/qrcodes/"))
	})

	t.Run("rejects non-image payload", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), noopHashtagRepo(), noopStore(), "photoshare")
		_, err := svc.CreatePost(ctx, actor, CreatePostInput{Image: []byte("not an image")})
		assertValidationError(t, err)
	})

	t.Run("rejects too many tags before touching the CDN", func(t *testing.T) {
		t.Parallel()
		store := noopStore()
		svc := NewPostService(noopPostRepo(), noopHashtagRepo(), store, "photoshare")
		_, err := svc.CreatePost(ctx, actor, CreatePostInput{
			Tags:  "a,b,c,d,e,f",
			Image: pngBytes(t),
		})
		assertValidationError(t, err)
		assert.Empty(t, store.uploads)
	})

	t.Run("cleans up CDN assets when the database insert fails", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.createFn = func(_ context.Context, _ *models.Post) error {
			return models.NewInternalError(assert.AnError)
		}
		store := noopStore()

		svc := NewPostService(posts, noopHashtagRepo(), store, "photoshare")
		_, err := svc.CreatePost(ctx, actor, CreatePostInput{Image: pngBytes(t)})
		require.Error(t, err)
		assert.Len(t, store.destroyed, 2)
	})
}

func TestPostService_TransformPost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	source := &models.Post{
		ID:          20,
		Description: "original",
		ImageURL:    "https://res.cloudinary.com/demo/image/upload/v1/photoshare/source.png",
		AuthorID:    7,
		Hashtags:    []models.Hashtag{{ID: 1, Name: "nature"}},
	}

	newService := func(posts *postRepoStub, store *storeStub) *PostService {
		return NewPostService(posts, noopHashtagRepo(), store, "photoshare")
	}

	t.Run("stranger cannot transform", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) { return source, nil }

		svc := newService(posts, noopStore())
		_, err := svc.TransformPost(ctx, &models.User{ID: 99, Role: models.RoleUser}, TransformPostInput{
			PostID:         20,
			Transformation: media.Transformation{Kind: "sepia"},
		})
		assertPermissionDenied(t, err)
	})

	t.Run("author gets a new post carrying the source tags", func(t *testing.T) {
		t.Parallel()
		var created *models.Post
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			if created != nil && id == created.ID {
				return created, nil
			}
			return source, nil
		}
		posts.createFn = func(_ context.Context, p *models.Post) error {
			p.ID = 21
			created = p
			return nil
		}

		svc := newService(posts, noopStore())
		post, err := svc.TransformPost(ctx, &models.User{ID: 7, Role: models.RoleUser}, TransformPostInput{
			PostID:         20,
			Transformation: media.Transformation{Kind: "grayscale"},
		})
		require.NoError(t, err)

		assert.NotEqual(t, source.ID, post.ID)
		assert.Equal(t, source.Description, post.Description)
		assert.Equal(t, source.Hashtags, post.Hashtags)
		assert.NotEqual(t, source.ImageURL, post.ImageURL)
		assert.NotEmpty(t, post.QRCodeURL)
	})

	t.Run("moderator can transform someone else's post", func(t *testing.T) {
		t.Parallel()
		var created *models.Post
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
			if created != nil && id == created.ID {
				return created, nil
			}
			return source, nil
		}
		posts.createFn = func(_ context.Context, p *models.Post) error {
			p.ID = 22
			created = p
			return nil
		}

		mod := &models.User{ID: 50, Role: models.RoleModerator}
		svc := newService(posts, noopStore())
		post, err := svc.TransformPost(ctx, mod, TransformPostInput{
			PostID:         20,
			Transformation: media.Transformation{Kind: "crop", Width: 100, Height: 100},
		})
		require.NoError(t, err)
		// The derived post belongs to whoever requested the transformation.
		assert.Equal(t, mod.ID, post.AuthorID)
	})

	t.Run("invalid transformation parameters", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) { return source, nil }

		svc := newService(posts, noopStore())
		_, err := svc.TransformPost(ctx, &models.User{ID: 7}, TransformPostInput{
			PostID:         20,
			Transformation: media.Transformation{Kind: "crop"},
		})
		assertValidationError(t, err)
	})
}

func TestPostService_UpdateDescription(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	post := &models.Post{ID: 30, AuthorID: 7, Description: "before"}

	t.Run("stranger cannot edit", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) {
			return &models.Post{ID: 30, AuthorID: 7}, nil
		}
		svc := NewPostService(posts, noopHashtagRepo(), noopStore(), "photoshare")
		_, err := svc.UpdateDescription(ctx, &models.User{ID: 8, Role: models.RoleUser}, 30, "after")
		assertPermissionDenied(t, err)
	})

	t.Run("author edits in place", func(t *testing.T) {
		t.Parallel()
		stored := *post
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) { return &stored, nil }
		posts.updateFn = func(_ context.Context, p *models.Post) error {
			stored = *p
			return nil
		}

		svc := NewPostService(posts, noopHashtagRepo(), noopStore(), "photoshare")
		updated, err := svc.UpdateDescription(ctx, &models.User{ID: 7, Role: models.RoleUser}, 30, "after")
		require.NoError(t, err)
		assert.Equal(t, "after", updated.Description)
		assert.Equal(t, uint(30), updated.ID)
	})

	t.Run("overlong description", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), noopHashtagRepo(), noopStore(), "photoshare")
		_, err := svc.UpdateDescription(ctx, &models.User{ID: 7}, 30, strings.Repeat("x", maxDescriptionLen+1))
		assertValidationError(t, err)
	})
}

func TestPostService_DeletePost(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	post := &models.Post{
		ID:        40,
		AuthorID:  7,
		ImageURL:  "https://res.cloudinary.com/demo/image/upload/v1/photoshare/img.png",
		QRCodeURL: "https://res.cloudinary.com/demo/image/upload/v1/photoshare/qrcodes/qr.png",
	}

	t.Run("stranger cannot delete", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) { return post, nil }
		svc := NewPostService(posts, noopHashtagRepo(), noopStore(), "photoshare")
		err := svc.DeletePost(ctx, &models.User{ID: 99, Role: models.RoleUser}, 40)
		assertPermissionDenied(t, err)
	})

	t.Run("author delete removes CDN assets", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) { return post, nil }
		store := noopStore()

		svc := NewPostService(posts, noopHashtagRepo(), store, "photoshare")
		require.NoError(t, svc.DeletePost(ctx, &models.User{ID: 7, Role: models.RoleUser}, 40))
		assert.Equal(t, []string{"photoshare/img", "photoshare/qrcodes/qr"}, store.destroyed)
	})

	t.Run("CDN failure does not fail the delete", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) { return post, nil }
		store := noopStore()
		store.destroyFn = func(_ context.Context, _ string) error {
			return models.NewUpstreamError("down", assert.AnError)
		}

		svc := NewPostService(posts, noopHashtagRepo(), store, "photoshare")
		assert.NoError(t, svc.DeletePost(ctx, &models.User{ID: 7, Role: models.RoleUser}, 40))
	})

	t.Run("admin can delete anything", func(t *testing.T) {
		t.Parallel()
		posts := noopPostRepo()
		posts.getByIDFn = func(_ context.Context, _ uint) (*models.Post, error) { return post, nil }
		svc := NewPostService(posts, noopHashtagRepo(), noopStore(), "photoshare")
		assert.NoError(t, svc.DeletePost(ctx, &models.User{ID: 1, Role: models.RoleAdmin}, 40))
	})
}

func TestPostService_Search(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("empty keyword", func(t *testing.T) {
		t.Parallel()
		svc := NewPostService(noopPostRepo(), noopHashtagRepo(), noopStore(), "photoshare")
		_, err := svc.Search(ctx, "  ", 10, 0)
		assertValidationError(t, err)
	})

	t.Run("hash prefix searches by tag", func(t *testing.T) {
		t.Parallel()
		var gotTag string
		posts := noopPostRepo()
		posts.searchByTagFn = func(_ context.Context, tag string, _, _ int) ([]*models.Post, error) {
			gotTag = tag
			return nil, nil
		}
		svc := NewPostService(posts, noopHashtagRepo(), noopStore(), "photoshare")
		_, err := svc.Search(ctx, "#Nature", 10, 0)
		require.NoError(t, err)
		assert.Equal(t, "nature", gotTag)
	})

	t.Run("plain keyword searches descriptions", func(t *testing.T) {
		t.Parallel()
		var gotKeyword string
		posts := noopPostRepo()
		posts.searchFn = func(_ context.Context, keyword string, _, _ int) ([]*models.Post, error) {
			gotKeyword = keyword
			return nil, nil
		}
		svc := NewPostService(posts, noopHashtagRepo(), noopStore(), "photoshare")
		_, err := svc.Search(ctx, "sunset", 10, 0)
		require.NoError(t, err)
		assert.Equal(t, "sunset", gotKeyword)
	})
}

// Package seed provides helpers to create demo data for the application
// database. These helpers are intended for development and testing only.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"photoshare/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the login password of every seeded account.
const DefaultPassword = "Seed$Password123"

// tagPool is the set of hashtag names posts draw from. Keeping the pool
// small guarantees tag reuse, which makes tag search results interesting.
var tagPool = []string{
	"sunset", "portrait", "street", "macro", "landscape", "blackandwhite",
	"architecture", "travel", "food", "wildlife", "night", "analog",
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand

	// passwordHash caches the bcrypt hash of DefaultPassword so seeding
	// thousands of users does not pay the bcrypt cost per user.
	passwordHash string
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB, opts Options) (*Factory, error) {
	gofakeit.Seed(time.Now().UnixNano())

	f := &Factory{
		db:   db,
		opts: opts,
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if opts.SkipBcrypt {
		f.passwordHash = DefaultPassword
	} else {
		hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash seed password: %w", err)
		}
		f.passwordHash = string(hash)
	}

	return f, nil
}

// pastTime returns a random timestamp within the configured day window.
func (f *Factory) pastTime() time.Time {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}
	back := time.Duration(f.rng.Intn(maxDays))*24*time.Hour +
		time.Duration(f.rng.Intn(24))*time.Hour +
		time.Duration(f.rng.Intn(60))*time.Minute
	return time.Now().Add(-back)
}

// CreateUser constructs and persists a sample account. Optional override
// functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	user := &models.User{
		Username:  fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:     gofakeit.Email(),
		Password:  f.passwordHash,
		Role:      models.RoleUser,
		Avatar:    fmt.Sprintf("https://i.pravatar.cc/250?u=%s", gofakeit.UUID()),
		Confirmed: true,
		IsActive:  true,
		CreatedAt: f.pastTime(),
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("seed user %q: %w", user.Username, err)
	}
	return user, nil
}

// CreatePost persists a post owned by author with one or two pooled tags.
func (f *Factory) CreatePost(author *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	seed := gofakeit.UUID()
	post := &models.Post{
		Description: gofakeit.Sentence(f.rng.Intn(8) + 3),
		ImageURL:    fmt.Sprintf("https://picsum.photos/seed/%s/800/800", seed),
		QRCodeURL:   fmt.Sprintf("https://picsum.photos/seed/qr-%s/256/256", seed),
		AuthorID:    author.ID,
		CreatedAt:   f.pastTime(),
	}

	tags, err := f.pickTags(f.rng.Intn(3))
	if err != nil {
		return nil, err
	}
	post.Hashtags = tags

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, fmt.Errorf("seed post for user %d: %w", author.ID, err)
	}
	return post, nil
}

// pickTags returns n distinct hashtags from the pool, creating rows on
// first use.
func (f *Factory) pickTags(n int) ([]models.Hashtag, error) {
	if n <= 0 {
		return nil, nil
	}

	picked := f.rng.Perm(len(tagPool))[:n]
	tags := make([]models.Hashtag, 0, n)
	for _, i := range picked {
		var tag models.Hashtag
		err := f.db.Where(models.Hashtag{Name: tagPool[i]}).FirstOrCreate(&tag).Error
		if err != nil {
			return nil, fmt.Errorf("seed hashtag %q: %w", tagPool[i], err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// CreateComment persists a comment by user on post. UpdatedAt stays nil:
// seeded comments have never been edited.
func (f *Factory) CreateComment(user *models.User, post *models.Post) (*models.Comment, error) {
	comment := &models.Comment{
		Text:      gofakeit.Sentence(f.rng.Intn(12) + 2),
		ImageID:   post.ID,
		UserID:    user.ID,
		CreatedAt: f.pastTime(),
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, fmt.Errorf("seed comment on post %d: %w", post.ID, err)
	}
	return comment, nil
}

// RateImage persists a rating by user on post. Authors never rate their own
// images and a (user, image) pair is rated at most once; violations are
// skipped silently so callers can loop over random pairs.
func (f *Factory) RateImage(user *models.User, post *models.Post) (*models.Rating, error) {
	if user.ID == post.AuthorID {
		return nil, nil
	}

	var existing int64
	err := f.db.Model(&models.Rating{}).
		Where("user_id = ? AND image_id = ?", user.ID, post.ID).
		Count(&existing).Error
	if err != nil {
		return nil, fmt.Errorf("check existing rating: %w", err)
	}
	if existing > 0 {
		return nil, nil
	}

	rating := &models.Rating{
		Rating:  f.rng.Intn(5) + 1,
		UserID:  user.ID,
		ImageID: post.ID,
	}
	if err := f.db.Create(rating).Error; err != nil {
		return nil, fmt.Errorf("seed rating on post %d: %w", post.ID, err)
	}
	return rating, nil
}

// logProgress prints a progress line every step items.
func logProgress(what string, done, total, step int) {
	if step > 0 && done%step == 0 {
		log.Printf("seeded %d/%d %s", done, total, what)
	}
}

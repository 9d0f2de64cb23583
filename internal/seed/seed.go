package seed

import (
	"fmt"
	"log"

	"photoshare/internal/models"

	"gorm.io/gorm"
)

// Options configure a seeding run.
type Options struct {
	NumUsers        int `yaml:"users"`
	PostsPerUser    int `yaml:"posts_per_user"`
	CommentsPerPost int `yaml:"comments_per_post"`
	RatingsPerPost  int `yaml:"ratings_per_post"`
	MaxDays         int `yaml:"max_days"`

	// Clean drops all existing rows before seeding.
	Clean bool `yaml:"clean"`
	// SkipBcrypt stores the password in plain text. Fast, development only;
	// seeded accounts cannot log in when this is set.
	SkipBcrypt bool `yaml:"skip_bcrypt"`
}

// DefaultOptions is a medium-sized data set suitable for local development.
var DefaultOptions = Options{
	NumUsers:        25,
	PostsPerUser:    4,
	CommentsPerPost: 3,
	RatingsPerPost:  5,
	MaxDays:         90,
	Clean:           true,
}

// Summary reports what a seeding run created.
type Summary struct {
	Users    int
	Posts    int
	Comments int
	Ratings  int
}

// Seeder orchestrates factory calls into a coherent data set.
type Seeder struct {
	db      *gorm.DB
	opts    Options
	factory *Factory
}

// NewSeeder creates a Seeder for the given database.
func NewSeeder(db *gorm.DB, opts Options) (*Seeder, error) {
	factory, err := NewFactory(db, opts)
	if err != nil {
		return nil, err
	}
	return &Seeder{db: db, opts: opts, factory: factory}, nil
}

// ClearAll removes every domain row. Deletion order follows the foreign
// keys: ratings and comments first, then posts, tags, and users.
func (s *Seeder) ClearAll() error {
	statements := []string{
		"DELETE FROM ratings",
		"DELETE FROM comments",
		"DELETE FROM post_hashtags",
		"DELETE FROM posts",
		"DELETE FROM hashtags",
		"DELETE FROM users",
	}
	for _, stmt := range statements {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("cleanup (%s): %w", stmt, err)
		}
	}
	log.Println("database cleared")
	return nil
}

// Run executes the full seeding pass. The first created user is the
// bootstrap admin; roughly one in ten of the rest becomes a moderator.
func (s *Seeder) Run() (*Summary, error) {
	if s.opts.Clean {
		if err := s.ClearAll(); err != nil {
			return nil, err
		}
	}

	summary := &Summary{}

	users, err := s.seedUsers()
	if err != nil {
		return nil, err
	}
	summary.Users = len(users)

	posts := make([]*models.Post, 0, len(users)*s.opts.PostsPerUser)
	for _, user := range users {
		for i := 0; i < s.opts.PostsPerUser; i++ {
			post, err := s.factory.CreatePost(user)
			if err != nil {
				return nil, err
			}
			posts = append(posts, post)
			logProgress("posts", len(posts), len(users)*s.opts.PostsPerUser, 100)
		}
	}
	summary.Posts = len(posts)

	for _, post := range posts {
		for i := 0; i < s.opts.CommentsPerPost; i++ {
			commenter := users[s.factory.rng.Intn(len(users))]
			if _, err := s.factory.CreateComment(commenter, post); err != nil {
				return nil, err
			}
			summary.Comments++
		}

		for i := 0; i < s.opts.RatingsPerPost; i++ {
			rater := users[s.factory.rng.Intn(len(users))]
			rating, err := s.factory.RateImage(rater, post)
			if err != nil {
				return nil, err
			}
			if rating != nil {
				summary.Ratings++
			}
		}
	}

	log.Printf("seeding complete: %d users, %d posts, %d comments, %d ratings",
		summary.Users, summary.Posts, summary.Comments, summary.Ratings)
	return summary, nil
}

// seedUsers creates the account population. The bootstrap admin is created
// first so it lands on ID 1 in a clean database.
func (s *Seeder) seedUsers() ([]*models.User, error) {
	count := s.opts.NumUsers
	if count < 1 {
		count = 1
	}

	users := make([]*models.User, 0, count)

	admin, err := s.factory.CreateUser(func(u *models.User) {
		u.Username = "admin"
		u.Email = "admin@photoshare.local"
		u.Role = models.RoleAdmin
	})
	if err != nil {
		return nil, err
	}
	users = append(users, admin)

	for i := 1; i < count; i++ {
		role := models.RoleUser
		if i%10 == 0 {
			role = models.RoleModerator
		}
		user, err := s.factory.CreateUser(func(u *models.User) {
			u.Role = role
		})
		if err != nil {
			return nil, err
		}
		users = append(users, user)
		logProgress("users", len(users), count, 50)
	}

	return users, nil
}

// Command seed populates the database with demo data.
package main

import (
	"flag"
	"log"

	"photoshare/internal/config"
	"photoshare/internal/database"
	"photoshare/internal/seed"
)

func main() {
	numUsers := flag.Int("users", seed.DefaultOptions.NumUsers, "Number of users to create")
	postsPerUser := flag.Int("posts", seed.DefaultOptions.PostsPerUser, "Posts per user")
	commentsPerPost := flag.Int("comments", seed.DefaultOptions.CommentsPerPost, "Comments per post")
	ratingsPerPost := flag.Int("ratings", seed.DefaultOptions.RatingsPerPost, "Rating attempts per post")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	skipBcrypt := flag.Bool("skip-bcrypt", false, "Store plain-text passwords (fast, accounts cannot log in)")
	preset := flag.String("preset", "", "Apply a named preset instead of individual flags (tiny, default, large)")
	presetFile := flag.String("preset-file", "", "YAML file with additional preset definitions")
	flag.Parse()

	opts := seed.Options{
		NumUsers:        *numUsers,
		PostsPerUser:    *postsPerUser,
		CommentsPerPost: *commentsPerPost,
		RatingsPerPost:  *ratingsPerPost,
		Clean:           *shouldClean,
		SkipBcrypt:      *skipBcrypt,
	}

	if *preset != "" {
		loaded, err := seed.LoadPreset(*preset, *presetFile)
		if err != nil {
			log.Fatalf("Preset: %v", err)
		}
		opts = loaded
		log.Printf("Applying preset %q (ignoring other flags)", *preset)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	seeder, err := seed.NewSeeder(db, opts)
	if err != nil {
		log.Fatalf("Seeder init failed: %v", err)
	}

	summary, err := seeder.Run()
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}

	log.Printf("Done: %d users, %d posts, %d comments, %d ratings",
		summary.Users, summary.Posts, summary.Comments, summary.Ratings)
	if !opts.SkipBcrypt {
		log.Printf("All seeded accounts use the password %q", seed.DefaultPassword)
	}
}

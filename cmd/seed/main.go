// Command main fills the database with demo categories, users and posts.
package main

import (
	"flag"
	"log"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 100, "Number of posts to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	published := flag.Float64("published", 0.7, "Share of posts marked published")
	maxDays := flag.Int("days", 90, "Spread post timestamps over this many days")
	fast := flag.Bool("fast", false, "Skip bcrypt; seeded users cannot log in")
	dryRun := flag.Bool("dry-run", false, "Log what would be created without writing")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d posts, clean=%v\n", *numUsers, *numPosts, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("❌ Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	res, err := seed.Seed(db, seed.Options{
		NumUsers:       *numUsers,
		NumPosts:       *numPosts,
		ShouldClean:    *shouldClean,
		SkipBcrypt:     *fast,
		DryRun:         *dryRun,
		MaxDays:        *maxDays,
		PublishedRatio: *published,
	})
	if err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Printf("✨ All done! %d categories, %d users, %d posts.", len(res.Categories), len(res.Users), len(res.Posts))
	if !*fast {
		log.Printf("📧 All seeded users have the password: %s", seed.DefaultPassword)
	}
}

package seed

import (
	"errors"
	"fmt"
	"log"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// Result summarizes a Seed run.
type Result struct {
	Users      []*models.User
	Categories []models.Category
	Posts      []*models.Post
}

// ClearAll removes every post and category and all non-admin users.
func ClearAll(db *gorm.DB) error {
	log.Println("🧹 Cleaning database...")
	return db.Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&models.Post{}).Error; err != nil {
			return fmt.Errorf("clear posts: %w", err)
		}
		if err := all.Delete(&models.Category{}).Error; err != nil {
			return fmt.Errorf("clear categories: %w", err)
		}
		if err := tx.Where("is_admin = ?", false).Delete(&models.User{}).Error; err != nil {
			return fmt.Errorf("clear users: %w", err)
		}
		return nil
	})
}

// Seed fills the database with the built-in categories plus fake users and posts.
// Posts are spread across the built-in categories and the generated users.
func Seed(db *gorm.DB, opts Options) (*Result, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}
	if opts.NumUsers < 0 || opts.NumPosts < 0 {
		return nil, errors.New("user and post counts must not be negative")
	}
	if opts.NumPosts > 0 && opts.NumUsers == 0 {
		return nil, errors.New("posts need at least one user")
	}

	if opts.ShouldClean && !opts.DryRun {
		if err := ClearAll(db); err != nil {
			return nil, err
		}
	}

	f := NewFactory(db, opts)
	res := &Result{}

	fixtures, err := BuiltinCategories()
	if err != nil {
		return nil, err
	}
	if opts.DryRun {
		for _, fx := range fixtures {
			cat, err := f.CreateCategory(func(c *models.Category) {
				c.Name = fx.Name
				c.Description = fx.Description
			})
			if err != nil {
				return nil, err
			}
			res.Categories = append(res.Categories, *cat)
		}
	} else if res.Categories, err = UpsertCategories(db, fixtures); err != nil {
		return nil, err
	}

	for i := 0; i < opts.NumUsers; i++ {
		user, err := f.CreateUser()
		if err != nil {
			return nil, err
		}
		res.Users = append(res.Users, user)
	}
	log.Printf("✓ Created %d users", len(res.Users))

	if len(res.Categories) == 0 && opts.NumPosts > 0 {
		return nil, errors.New("posts need at least one category")
	}
	for i := 0; i < opts.NumPosts; i++ {
		author := res.Users[f.rng.Intn(len(res.Users))]
		category := &res.Categories[f.rng.Intn(len(res.Categories))]
		res.Posts = append(res.Posts, f.BuildPost(author, category))
	}
	if err := f.CreatePostsBatch(res.Posts); err != nil {
		return nil, fmt.Errorf("create posts: %w", err)
	}
	log.Printf("✓ Created %d posts", len(res.Posts))

	return res, nil
}

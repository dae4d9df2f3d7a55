// Package seed creates demo data for local development and tests.
package seed

import (
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"inkwell/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded user.
const DefaultPassword = "password123"

// Options controls what Seed generates.
type Options struct {
	NumUsers    int
	NumPosts    int
	ShouldClean bool
	// SkipBcrypt stores a cheap hash-free password; logins will not work.
	SkipBcrypt bool
	DryRun     bool
	// MaxDays bounds how far back post timestamps are spread.
	MaxDays int
	// PublishedRatio is the share of generated posts marked published.
	PublishedRatio float64
}

// Factory builds domain entities and persists them to the database.
type Factory struct {
	db   *gorm.DB
	opts Options
	rng  *rand.Rand
	// synthetic ID counter for DryRun mode
	nextID uint
	seq    int
}

// NewFactory creates a Factory bound to db.
func NewFactory(db *gorm.DB, opts Options) *Factory {
	seed := time.Now().UnixNano()
	gofakeit.Seed(seed)
	return &Factory{db: db, opts: opts, rng: rand.New(rand.NewSource(seed)), nextID: 1000}
}

func (f *Factory) passwordHash() (string, error) {
	if f.opts.SkipBcrypt {
		return DefaultPassword, nil
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// CreateUser persists a fake user. Overrides run before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	f.seq++
	username := fmt.Sprintf("%s%d%d", strings.ToLower(gofakeit.Username()), gofakeit.Number(10, 99), f.seq)
	user := &models.User{
		Username:  username,
		Email:     username + "@example.com",
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
	}

	hashed, err := f.passwordHash()
	if err != nil {
		return nil, err
	}
	user.Password = hashed

	for _, override := range overrides {
		override(user)
	}

	if f.opts.DryRun {
		f.nextID++
		user.ID = f.nextID
		log.Printf("[dry-run] CreateUser: %s", user.Username)
		return user, nil
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user %s: %w", user.Username, err)
	}
	return user, nil
}

// CreateCategory persists a fake category.
func (f *Factory) CreateCategory(overrides ...func(*models.Category)) (*models.Category, error) {
	category := &models.Category{
		Name:        strings.TrimSuffix(gofakeit.HipsterSentence(2), "."),
		Description: gofakeit.Sentence(8),
	}
	for _, override := range overrides {
		override(category)
	}

	if f.opts.DryRun {
		f.nextID++
		category.ID = f.nextID
		log.Printf("[dry-run] CreateCategory: %s", category.Name)
		return category, nil
	}
	if err := f.db.Create(category).Error; err != nil {
		return nil, fmt.Errorf("create category %q: %w", category.Name, err)
	}
	return category, nil
}

// BuildPost constructs an unsaved post with a created_at spread over the last
// MaxDays days.
func (f *Factory) BuildPost(author *models.User, category *models.Category, overrides ...func(*models.Post)) *models.Post {
	maxDays := f.opts.MaxDays
	if maxDays <= 0 {
		maxDays = 90
	}

	post := &models.Post{
		Title:      strings.TrimSuffix(gofakeit.Sentence(5), "."),
		Content:    gofakeit.Paragraph(2, 4, 12, "\n\n"),
		CategoryID: category.ID,
		AuthorID:   author.ID,
		Published:  f.rng.Float64() < f.opts.PublishedRatio,
	}
	post.CreatedAt = time.Now().
		Add(-time.Duration(f.rng.Intn(maxDays)) * 24 * time.Hour).
		Add(-time.Duration(f.rng.Intn(24*60)) * time.Minute)
	post.UpdatedAt = post.CreatedAt

	for _, override := range overrides {
		override(post)
	}
	return post
}

// CreatePostsBatch persists posts in batches.
func (f *Factory) CreatePostsBatch(posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	if f.opts.DryRun {
		for _, p := range posts {
			f.nextID++
			p.ID = f.nextID
		}
		log.Printf("[dry-run] CreatePostsBatch: %d posts (no DB write)", len(posts))
		return nil
	}
	return f.db.CreateInBatches(posts, 100).Error
}

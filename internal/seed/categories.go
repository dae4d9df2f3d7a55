package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"log"
	"strings"

	"inkwell/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed categories.yml
var builtinCategoriesYAML []byte

// CategoryFixture is one entry of a category fixture file.
type CategoryFixture struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type categoryFile struct {
	Categories []CategoryFixture `yaml:"categories"`
}

// ParseCategories decodes a YAML category fixture document.
func ParseCategories(data []byte) ([]CategoryFixture, error) {
	var file categoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode category fixtures: %w", err)
	}

	seen := make(map[string]struct{}, len(file.Categories))
	out := make([]CategoryFixture, 0, len(file.Categories))
	for i, fx := range file.Categories {
		fx.Name = strings.TrimSpace(fx.Name)
		fx.Description = strings.TrimSpace(fx.Description)
		if fx.Name == "" {
			return nil, fmt.Errorf("category fixture %d: name is required", i)
		}
		if len(fx.Name) > 100 {
			return nil, fmt.Errorf("category fixture %q: name exceeds 100 characters", fx.Name)
		}
		if _, dup := seen[fx.Name]; dup {
			return nil, fmt.Errorf("category fixture %q is listed twice", fx.Name)
		}
		seen[fx.Name] = struct{}{}
		out = append(out, fx)
	}
	return out, nil
}

// BuiltinCategories returns the categories embedded in the binary.
func BuiltinCategories() ([]CategoryFixture, error) {
	return ParseCategories(builtinCategoriesYAML)
}

// Categories ensures the built-in categories exist.
func Categories(db *gorm.DB) error {
	fixtures, err := BuiltinCategories()
	if err != nil {
		return err
	}
	_, err = UpsertCategories(db, fixtures)
	return err
}

// UpsertCategories creates any fixture whose name is not yet taken and returns
// the matching rows in fixture order. Existing rows are left untouched.
func UpsertCategories(db *gorm.DB, fixtures []CategoryFixture) ([]models.Category, error) {
	if db == nil {
		return nil, errors.New("database is required")
	}

	categories := make([]models.Category, 0, len(fixtures))
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, fx := range fixtures {
			var cat models.Category
			if err := tx.Where("name = ?", fx.Name).
				Order("id ASC").
				Attrs(models.Category{Name: fx.Name, Description: fx.Description}).
				FirstOrCreate(&cat).Error; err != nil {
				return fmt.Errorf("ensure category %q: %w", fx.Name, err)
			}
			categories = append(categories, cat)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✓ Ensured %d built-in categories", len(categories))
	return categories, nil
}

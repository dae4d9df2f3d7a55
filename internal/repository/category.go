package repository

import (
	"context"
	"strings"
	"time"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// CategoryFilter narrows an administrative category search. Zero values are ignored.
type CategoryFilter struct {
	Query         string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	UpdatedAfter  *time.Time
	UpdatedBefore *time.Time
}

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]*models.Category, error)
	Search(ctx context.Context, filter CategoryFilter) ([]*models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	Exists(ctx context.Context, id uint) (bool, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uint) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository returns a new CategoryRepository implementation.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// withPostsCount selects every category column plus the live number of posts.
func withPostsCount(db *gorm.DB) *gorm.DB {
	return db.Select("categories.*, " +
		"(SELECT COUNT(*) FROM posts WHERE posts.category_id = categories.id) AS posts_count")
}

func (r *categoryRepository) List(ctx context.Context) ([]*models.Category, error) {
	return r.Search(ctx, CategoryFilter{})
}

func (r *categoryRepository) Search(ctx context.Context, filter CategoryFilter) ([]*models.Category, error) {
	q := withPostsCount(r.db.WithContext(ctx).Model(&models.Category{}))

	if term := strings.TrimSpace(filter.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("(LOWER(categories.name) LIKE ? OR LOWER(categories.description) LIKE ?)", like, like)
	}
	q = applyTimeRange(q, "categories.created_at", filter.CreatedAfter, filter.CreatedBefore)
	q = applyTimeRange(q, "categories.updated_at", filter.UpdatedAfter, filter.UpdatedBefore)

	var categories []*models.Category
	if err := q.Order("categories.name ASC").Order("categories.id ASC").Find(&categories).Error; err != nil {
		return nil, mapDBError(err, "Category", nil)
	}
	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	var category models.Category
	if err := withPostsCount(r.db.WithContext(ctx)).First(&category, id).Error; err != nil {
		return nil, mapDBError(err, "Category", id)
	}
	return &category, nil
}

func (r *categoryRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, mapDBError(err, "Category", id)
	}
	return count > 0, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Omit("Posts").Create(category).Error; err != nil {
		return mapDBError(err, "Category", nil)
	}
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	res := r.db.WithContext(ctx).
		Model(category).
		Select("name", "description", "updated_at").
		Updates(category)
	if res.Error != nil {
		return mapDBError(res.Error, "Category", category.ID)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Category", category.ID)
	}
	return nil
}

// Delete removes the category and all of its posts in one transaction, so the
// cascade holds even where the database does not enforce foreign keys.
func (r *categoryRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&models.Post{}).Error; err != nil {
			return mapDBError(err, "Post", nil)
		}
		res := tx.Delete(&models.Category{}, id)
		if res.Error != nil {
			return mapDBError(res.Error, "Category", id)
		}
		if res.RowsAffected == 0 {
			return models.NewNotFoundError("Category", id)
		}
		return nil
	})
}

func applyTimeRange(q *gorm.DB, column string, after, before *time.Time) *gorm.DB {
	if after != nil {
		q = q.Where(column+" >= ?", *after)
	}
	if before != nil {
		q = q.Where(column+" <= ?", *before)
	}
	return q
}

package repository

import (
	"context"
	"strings"
	"time"

	"inkwell/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PostFilter narrows a post listing. Nil pointers and empty strings are ignored;
// all set fields combine with AND.
type PostFilter struct {
	CategoryID    *uint
	AuthorID      *uint
	Published     *bool
	Query         string
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	UpdatedAfter  *time.Time
	UpdatedBefore *time.Time
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context, filter PostFilter) ([]*models.Post, error)
	GetByCategoryID(ctx context.Context, categoryID uint) ([]*models.Post, error)
	GetByAuthorID(ctx context.Context, authorID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	SetPublished(ctx context.Context, id uint, published bool) error
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// withRelations loads the nested category (with its live count) and the author.
func withRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Category", func(tx *gorm.DB) *gorm.DB { return withPostsCount(tx) }).
		Preload("Author")
}

func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("posts.created_at DESC").Order("posts.id DESC")
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(post).Error; err != nil {
		return mapDBError(err, "Post", nil)
	}
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	var post models.Post
	if err := withRelations(r.db.WithContext(ctx)).First(&post, id).Error; err != nil {
		return nil, mapDBError(err, "Post", id)
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context, filter PostFilter) ([]*models.Post, error) {
	q := withRelations(r.db.WithContext(ctx).Model(&models.Post{}))

	if filter.CategoryID != nil {
		q = q.Where("posts.category_id = ?", *filter.CategoryID)
	}
	if filter.AuthorID != nil {
		q = q.Where("posts.author_id = ?", *filter.AuthorID)
	}
	if filter.Published != nil {
		q = q.Where("posts.published = ?", *filter.Published)
	}
	if term := strings.TrimSpace(filter.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("(LOWER(posts.title) LIKE ? OR LOWER(posts.content) LIKE ?)", like, like)
	}
	q = applyTimeRange(q, "posts.created_at", filter.CreatedAfter, filter.CreatedBefore)
	q = applyTimeRange(q, "posts.updated_at", filter.UpdatedAfter, filter.UpdatedBefore)

	var posts []*models.Post
	if err := newestFirst(q).Find(&posts).Error; err != nil {
		return nil, mapDBError(err, "Post", nil)
	}
	return posts, nil
}

func (r *postRepository) GetByCategoryID(ctx context.Context, categoryID uint) ([]*models.Post, error) {
	return r.List(ctx, PostFilter{CategoryID: &categoryID})
}

func (r *postRepository) GetByAuthorID(ctx context.Context, authorID uint) ([]*models.Post, error) {
	return r.List(ctx, PostFilter{AuthorID: &authorID})
}

// Update writes the editable columns only. author_id and created_at are never
// part of the statement.
func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	res := r.db.WithContext(ctx).
		Model(post).
		Select("title", "content", "category_id", "published", "updated_at").
		Omit(clause.Associations).
		Updates(post)
	if res.Error != nil {
		return mapDBError(res.Error, "Post", post.ID)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", post.ID)
	}
	return nil
}

func (r *postRepository) SetPublished(ctx context.Context, id uint, published bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"published": published, "updated_at": time.Now()})
	if res.Error != nil {
		return mapDBError(res.Error, "Post", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

func (r *postRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Post{}, id)
	if res.Error != nil {
		return mapDBError(res.Error, "Post", id)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Post", id)
	}
	return nil
}

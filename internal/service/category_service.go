// Package service holds the business rules that sit between handlers and repositories.
package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
)

type CategoryService struct {
	categoryRepo repository.CategoryRepository
	postRepo     repository.PostRepository
}

type UpdateCategoryInput struct {
	CategoryID uint
	Request    models.CategoryRequest
	// Partial is true for PATCH: absent fields keep their current values.
	Partial bool
}

func NewCategoryService(categoryRepo repository.CategoryRepository, postRepo repository.PostRepository) *CategoryService {
	return &CategoryService{
		categoryRepo: categoryRepo,
		postRepo:     postRepo,
	}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]*models.Category, error) {
	return s.categoryRepo.List(ctx)
}

// SearchCategories backs the administrative listing.
func (s *CategoryService) SearchCategories(ctx context.Context, filter repository.CategoryFilter) ([]*models.Category, error) {
	return s.categoryRepo.Search(ctx, filter)
}

func (s *CategoryService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return s.categoryRepo.GetByID(ctx, id)
}

// ListCategoryPosts returns every post in the category, or NOT_FOUND if the
// category itself does not exist.
func (s *CategoryService) ListCategoryPosts(ctx context.Context, id uint) ([]*models.Post, error) {
	exists, err := s.categoryRepo.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.NewNotFoundError("Category", id)
	}
	return s.postRepo.GetByCategoryID(ctx, id)
}

func (s *CategoryService) CreateCategory(ctx context.Context, req models.CategoryRequest) (_ *models.Category, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "CategoryService", "CreateCategory")
	defer func() { observability.EndSpan(span, err) }()

	if err := req.Validate(false); err != nil {
		return nil, err
	}

	category := &models.Category{}
	req.Apply(category)
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	observability.RecordMutation("category", "create")

	return s.categoryRepo.GetByID(ctx, category.ID)
}

func (s *CategoryService) UpdateCategory(ctx context.Context, in UpdateCategoryInput) (_ *models.Category, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "CategoryService", "UpdateCategory")
	defer func() { observability.EndSpan(span, err) }()

	category, err := s.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}
	if err := in.Request.Validate(in.Partial); err != nil {
		return nil, err
	}

	in.Request.Apply(category)
	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}
	observability.RecordMutation("category", "update")

	return s.categoryRepo.GetByID(ctx, category.ID)
}

// DeleteCategory removes the category together with all of its posts.
func (s *CategoryService) DeleteCategory(ctx context.Context, id uint) (err error) {
	ctx, span := observability.StartServiceSpan(ctx, "CategoryService", "DeleteCategory")
	defer func() { observability.EndSpan(span, err) }()

	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		return err
	}
	observability.RecordMutation("category", "delete")
	return nil
}

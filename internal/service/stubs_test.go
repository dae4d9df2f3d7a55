package service

import (
	"context"
	"errors"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn          func(context.Context, *models.Post) error
	getByIDFn         func(context.Context, uint) (*models.Post, error)
	listFn            func(context.Context, repository.PostFilter) ([]*models.Post, error)
	getByCategoryIDFn func(context.Context, uint) ([]*models.Post, error)
	getByAuthorIDFn   func(context.Context, uint) ([]*models.Post, error)
	updateFn          func(context.Context, *models.Post) error
	setPublishedFn    func(context.Context, uint, bool) error
	deleteFn          func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, filter repository.PostFilter) ([]*models.Post, error) {
	return s.listFn(ctx, filter)
}
func (s *postRepoStub) GetByCategoryID(ctx context.Context, categoryID uint) ([]*models.Post, error) {
	return s.getByCategoryIDFn(ctx, categoryID)
}
func (s *postRepoStub) GetByAuthorID(ctx context.Context, authorID uint) ([]*models.Post, error) {
	return s.getByAuthorIDFn(ctx, authorID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) SetPublished(ctx context.Context, id uint, published bool) error {
	return s.setPublishedFn(ctx, id, published)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:          func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn:         func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn:            func(_ context.Context, _ repository.PostFilter) ([]*models.Post, error) { return nil, nil },
		getByCategoryIDFn: func(_ context.Context, _ uint) ([]*models.Post, error) { return nil, nil },
		getByAuthorIDFn:   func(_ context.Context, _ uint) ([]*models.Post, error) { return nil, nil },
		updateFn:          func(_ context.Context, _ *models.Post) error { return nil },
		setPublishedFn:    func(_ context.Context, _ uint, _ bool) error { return nil },
		deleteFn:          func(_ context.Context, _ uint) error { return nil },
	}
}

// categoryRepoStub is a stub for repository.CategoryRepository.
type categoryRepoStub struct {
	listFn    func(context.Context) ([]*models.Category, error)
	searchFn  func(context.Context, repository.CategoryFilter) ([]*models.Category, error)
	getByIDFn func(context.Context, uint) (*models.Category, error)
	existsFn  func(context.Context, uint) (bool, error)
	createFn  func(context.Context, *models.Category) error
	updateFn  func(context.Context, *models.Category) error
	deleteFn  func(context.Context, uint) error
}

func (s *categoryRepoStub) List(ctx context.Context) ([]*models.Category, error) {
	return s.listFn(ctx)
}
func (s *categoryRepoStub) Search(ctx context.Context, filter repository.CategoryFilter) ([]*models.Category, error) {
	return s.searchFn(ctx, filter)
}
func (s *categoryRepoStub) GetByID(ctx context.Context, id uint) (*models.Category, error) {
	return s.getByIDFn(ctx, id)
}
func (s *categoryRepoStub) Exists(ctx context.Context, id uint) (bool, error) {
	return s.existsFn(ctx, id)
}
func (s *categoryRepoStub) Create(ctx context.Context, category *models.Category) error {
	return s.createFn(ctx, category)
}
func (s *categoryRepoStub) Update(ctx context.Context, category *models.Category) error {
	return s.updateFn(ctx, category)
}
func (s *categoryRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopCategoryRepo() *categoryRepoStub {
	return &categoryRepoStub{
		listFn:    func(_ context.Context) ([]*models.Category, error) { return nil, nil },
		searchFn:  func(_ context.Context, _ repository.CategoryFilter) ([]*models.Category, error) { return nil, nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Category, error) { return &models.Category{ID: id}, nil },
		existsFn:  func(_ context.Context, _ uint) (bool, error) { return true, nil },
		createFn:  func(_ context.Context, _ *models.Category) error { return nil },
		updateFn:  func(_ context.Context, _ *models.Category) error { return nil },
		deleteFn:  func(_ context.Context, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	getByIDFn       func(context.Context, uint) (*models.User, error)
	getByEmailFn    func(context.Context, string) (*models.User, error)
	getByUsernameFn func(context.Context, string) (*models.User, error)
	createFn        func(context.Context, *models.User) error
	updateFn        func(context.Context, *models.User) error
	setAdminFn      func(context.Context, uint, bool) error
	listFn          func(context.Context) ([]models.User, error)
	listAdminsFn    func(context.Context) ([]models.User, error)
}

func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.getByEmailFn(ctx, email)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) Update(ctx context.Context, user *models.User) error {
	return s.updateFn(ctx, user)
}
func (s *userRepoStub) SetAdmin(ctx context.Context, id uint, isAdmin bool) error {
	return s.setAdminFn(ctx, id, isAdmin)
}
func (s *userRepoStub) List(ctx context.Context) ([]models.User, error) {
	return s.listFn(ctx)
}
func (s *userRepoStub) ListAdmins(ctx context.Context) ([]models.User, error) {
	return s.listAdminsFn(ctx)
}

func noopUserRepo() *userRepoStub {
	return &userRepoStub{
		getByIDFn:       func(_ context.Context, id uint) (*models.User, error) { return &models.User{ID: id}, nil },
		getByEmailFn:    func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		getByUsernameFn: func(_ context.Context, _ string) (*models.User, error) { return nil, nil },
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		updateFn:        func(_ context.Context, _ *models.User) error { return nil },
		setAdminFn:      func(_ context.Context, _ uint, _ bool) error { return nil },
		listFn:          func(_ context.Context) ([]models.User, error) { return nil, nil },
		listAdminsFn:    func(_ context.Context) ([]models.User, error) { return nil, nil },
	}
}

// assertAppErrorCode asserts that err is an AppError with the given code.
func assertAppErrorCode(t *testing.T, err error, code string) *models.AppError {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func strPtr(s string) *string { return &s }
func uintPtr(v uint) *uint    { return &v }
func boolPtr(v bool) *bool    { return &v }

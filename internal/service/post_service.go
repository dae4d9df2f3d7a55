package service

import (
	"context"
	"fmt"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
)

type PostService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
}

type CreatePostInput struct {
	// AuthorID is the authenticated caller. It always wins over anything the client sent.
	AuthorID uint
	Request  models.PostRequest
}

type UpdatePostInput struct {
	PostID  uint
	Request models.PostRequest
	Partial bool
}

// ListPostsInput carries the public list filters. Nil means "not filtered".
type ListPostsInput struct {
	CategoryID *uint
	Published  *bool
}

func NewPostService(postRepo repository.PostRepository, categoryRepo repository.CategoryRepository) *PostService {
	return &PostService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
	}
}

func (s *PostService) ListPosts(ctx context.Context, in ListPostsInput) ([]*models.Post, error) {
	return s.postRepo.List(ctx, repository.PostFilter{
		CategoryID: in.CategoryID,
		Published:  in.Published,
	})
}

// SearchPosts backs the administrative listing.
func (s *PostService) SearchPosts(ctx context.Context, filter repository.PostFilter) ([]*models.Post, error) {
	return s.postRepo.List(ctx, filter)
}

func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.postRepo.GetByID(ctx, id)
}

// GetAuthorPosts returns the posts written by authorID, newest first.
func (s *PostService) GetAuthorPosts(ctx context.Context, authorID uint) ([]*models.Post, error) {
	return s.postRepo.GetByAuthorID(ctx, authorID)
}

// assignAuthor runs before a new post is persisted.
func assignAuthor(post *models.Post, authorID uint) {
	post.AuthorID = authorID
}

// resolveCategory turns a write-only category_id into an existing category or a field error.
func (s *PostService) resolveCategory(ctx context.Context, categoryID *uint) error {
	if categoryID == nil {
		return nil
	}
	exists, err := s.categoryRepo.Exists(ctx, *categoryID)
	if err != nil {
		return err
	}
	if !exists {
		return models.NewFieldValidationError(map[string]string{
			"category_id": fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *categoryID),
		})
	}
	return nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (_ *models.Post, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "CreatePost")
	defer func() { observability.EndSpan(span, err) }()

	if in.AuthorID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if err := in.Request.Validate(false); err != nil {
		return nil, err
	}
	if err := s.resolveCategory(ctx, in.Request.CategoryID); err != nil {
		return nil, err
	}

	post := &models.Post{}
	in.Request.Apply(post)
	assignAuthor(post, in.AuthorID)

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	observability.RecordMutation("post", "create")

	return s.postRepo.GetByID(ctx, post.ID)
}

// UpdatePost applies the request to an existing post. The author is never touched.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (_ *models.Post, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "UpdatePost")
	defer func() { observability.EndSpan(span, err) }()

	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if err := in.Request.Validate(in.Partial); err != nil {
		return nil, err
	}
	if err := s.resolveCategory(ctx, in.Request.CategoryID); err != nil {
		return nil, err
	}

	in.Request.Apply(post)
	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	observability.RecordMutation("post", "update")

	return s.postRepo.GetByID(ctx, post.ID)
}

func (s *PostService) SetPublished(ctx context.Context, id uint, published bool) (_ *models.Post, err error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "SetPublished")
	defer func() { observability.EndSpan(span, err) }()

	if err := s.postRepo.SetPublished(ctx, id, published); err != nil {
		return nil, err
	}
	observability.RecordMutation("post", "publish")

	return s.postRepo.GetByID(ctx, id)
}

func (s *PostService) DeletePost(ctx context.Context, id uint) (err error) {
	ctx, span := observability.StartServiceSpan(ctx, "PostService", "DeletePost")
	defer func() { observability.EndSpan(span, err) }()

	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}
	observability.RecordMutation("post", "delete")
	return nil
}

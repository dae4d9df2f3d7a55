package server

import (
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// timeRange holds the created/updated bounds shared by the admin listings.
type timeRange struct {
	CreatedAfter  *time.Time
	CreatedBefore *time.Time
	UpdatedAfter  *time.Time
	UpdatedBefore *time.Time
}

func parseTimeRange(c *fiber.Ctx) (timeRange, error) {
	var tr timeRange
	var err error
	if tr.CreatedAfter, err = queryTime(c, "created_after"); err != nil {
		return tr, err
	}
	if tr.CreatedBefore, err = queryTime(c, "created_before"); err != nil {
		return tr, err
	}
	if tr.UpdatedAfter, err = queryTime(c, "updated_after"); err != nil {
		return tr, err
	}
	if tr.UpdatedBefore, err = queryTime(c, "updated_before"); err != nil {
		return tr, err
	}
	return tr, nil
}

// AdminListCategories handles GET /api/admin/categories
// @Summary Search categories
// @Description q matches name or description. Date bounds accept RFC 3339 or YYYY-MM-DD.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search text"
// @Param created_after query string false "Lower bound on created_at"
// @Param created_before query string false "Upper bound on created_at"
// @Param updated_after query string false "Lower bound on updated_at"
// @Param updated_before query string false "Upper bound on updated_at"
// @Success 200 {array} models.CategoryResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/categories [get]
func (s *Server) AdminListCategories(c *fiber.Ctx) error {
	tr, err := parseTimeRange(c)
	if err != nil {
		return s.mapServiceError(c, err)
	}

	categories, err := s.categoryService.SearchCategories(c.UserContext(), repository.CategoryFilter{
		Query:         strings.TrimSpace(c.Query("q")),
		CreatedAfter:  tr.CreatedAfter,
		CreatedBefore: tr.CreatedBefore,
		UpdatedAfter:  tr.UpdatedAfter,
		UpdatedBefore: tr.UpdatedBefore,
	})
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.JSON(models.NewCategoryResponses(categories))
}

// AdminListPosts handles GET /api/admin/posts
// @Summary Search posts
// @Description q matches title or content; filters combine with AND.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param q query string false "Search text"
// @Param published query string false "Published flag"
// @Param category query int false "Category ID"
// @Param author query int false "Author ID"
// @Param created_after query string false "Lower bound on created_at"
// @Param created_before query string false "Upper bound on created_at"
// @Param updated_after query string false "Lower bound on updated_at"
// @Param updated_before query string false "Upper bound on updated_at"
// @Success 200 {array} models.PostResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/posts [get]
func (s *Server) AdminListPosts(c *fiber.Ctx) error {
	categoryID, err := queryUint(c, "category")
	if err != nil {
		return s.mapServiceError(c, err)
	}
	authorID, err := queryUint(c, "author")
	if err != nil {
		return s.mapServiceError(c, err)
	}
	tr, err := parseTimeRange(c)
	if err != nil {
		return s.mapServiceError(c, err)
	}

	posts, err := s.postService.SearchPosts(c.UserContext(), repository.PostFilter{
		CategoryID:    categoryID,
		AuthorID:      authorID,
		Published:     queryPublished(c),
		Query:         strings.TrimSpace(c.Query("q")),
		CreatedAfter:  tr.CreatedAfter,
		CreatedBefore: tr.CreatedBefore,
		UpdatedAfter:  tr.UpdatedAfter,
		UpdatedBefore: tr.UpdatedBefore,
	})
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.JSON(models.NewPostResponses(posts))
}

// AdminCreatePost handles POST /api/admin/posts
// @Summary Create post as admin
// @Description The acting admin becomes the author.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.PostRequest true "Post"
// @Success 201 {object} models.PostResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/posts [post]
func (s *Server) AdminCreatePost(c *fiber.Ctx) error {
	adminID, _ := currentUserID(c)

	var req models.PostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID: adminID,
		Request:  req,
	})
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.NewPostResponse(post))
}

// AdminSetPostPublished handles PATCH /api/admin/posts/:id/published
// @Summary Toggle post publication
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body object{published=bool} true "Publication flag"
// @Success 200 {object} models.PostResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /admin/posts/{id}/published [patch]
func (s *Server) AdminSetPostPublished(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Published *bool `json:"published"`
	}
	if err := parseBody(c, &req); err != nil {
		return nil
	}
	if req.Published == nil {
		return s.mapServiceError(c, models.NewFieldValidationError(map[string]string{
			"published": "This field is required.",
		}))
	}

	post, err := s.postService.SetPublished(c.UserContext(), id, *req.Published)
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.JSON(models.NewPostResponse(post))
}

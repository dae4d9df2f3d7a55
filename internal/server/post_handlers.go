package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// @Summary List posts
// @Description Newest first. published matches true only for the value "true" (any case).
// @Tags posts
// @Produce json
// @Param category query int false "Category ID"
// @Param published query string false "Published flag"
// @Success 200 {array} models.PostResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /posts/ [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	categoryID, err := queryUint(c, "category")
	if err != nil {
		return s.mapServiceError(c, err)
	}

	posts, err := s.postService.ListPosts(c.UserContext(), service.ListPostsInput{
		CategoryID: categoryID,
		Published:  queryPublished(c),
	})
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.JSON(models.NewPostResponses(posts))
}

// CreatePost handles POST /api/posts
// @Summary Create post
// @Description The author is always the caller; any author in the body is ignored.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.PostRequest true "Post"
// @Success 201 {object} models.PostResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /posts/ [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)

	var req models.PostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID: userID,
		Request:  req,
	})
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.NewPostResponse(post))
}

// GetPost handles GET /api/posts/:id
// @Summary Get post
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.PostResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/ [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.UserContext(), id)
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.JSON(models.NewPostResponse(post))
}

// UpdatePost handles PUT /api/posts/:id
// @Summary Replace post
// @Description title, content and category_id are required. The author never changes.
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body models.PostRequest true "Post"
// @Success 200 {object} models.PostResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/ [put]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	return s.updatePost(c, false)
}

// PatchPost handles PATCH /api/posts/:id
// @Summary Partially update post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body models.PostRequest true "Fields to change"
// @Success 200 {object} models.PostResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/ [patch]
func (s *Server) PatchPost(c *fiber.Ctx) error {
	return s.updatePost(c, true)
}

func (s *Server) updatePost(c *fiber.Ctx, partial bool) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req models.PostRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		PostID:  id,
		Request: req,
		Partial: partial,
	})
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.JSON(models.NewPostResponse(post))
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete post
// @Tags posts
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/ [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.UserContext(), id); err != nil {
		return s.mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetMyPosts handles GET /api/posts/my_posts
// @Summary List the caller's posts
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.PostResponse
// @Failure 401 {object} object{detail=string}
// @Router /posts/my_posts/ [get]
func (s *Server) GetMyPosts(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"detail": "Authentication required",
		})
	}

	posts, err := s.postService.GetAuthorPosts(c.UserContext(), userID)
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.JSON(models.NewPostResponses(posts))
}

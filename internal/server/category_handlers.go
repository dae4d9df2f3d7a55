package server

import (
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetCategories handles GET /api/categories
// @Summary List categories
// @Description All categories ordered by name, each with a live posts_count
// @Tags categories
// @Produce json
// @Success 200 {array} models.CategoryResponse
// @Router /categories/ [get]
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.categoryService.ListCategories(c.UserContext())
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.JSON(models.NewCategoryResponses(categories))
}

// CreateCategory handles POST /api/categories
// @Summary Create category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.CategoryRequest true "Category"
// @Success 201 {object} models.CategoryResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /categories/ [post]
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req models.CategoryRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	category, err := s.categoryService.CreateCategory(c.UserContext(), req)
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.NewCategoryResponse(category))
}

// GetCategory handles GET /api/categories/:id
// @Summary Get category
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {object} models.CategoryResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /categories/{id}/ [get]
func (s *Server) GetCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	category, err := s.categoryService.GetCategory(c.UserContext(), id)
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.JSON(models.NewCategoryResponse(category))
}

// UpdateCategory handles PUT /api/categories/:id
// @Summary Replace category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body models.CategoryRequest true "Category"
// @Success 200 {object} models.CategoryResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /categories/{id}/ [put]
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	return s.updateCategory(c, false)
}

// PatchCategory handles PATCH /api/categories/:id
// @Summary Partially update category
// @Tags categories
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body models.CategoryRequest true "Fields to change"
// @Success 200 {object} models.CategoryResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /categories/{id}/ [patch]
func (s *Server) PatchCategory(c *fiber.Ctx) error {
	return s.updateCategory(c, true)
}

func (s *Server) updateCategory(c *fiber.Ctx, partial bool) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req models.CategoryRequest
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	category, err := s.categoryService.UpdateCategory(c.UserContext(), service.UpdateCategoryInput{
		CategoryID: id,
		Request:    req,
		Partial:    partial,
	})
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.JSON(models.NewCategoryResponse(category))
}

// DeleteCategory handles DELETE /api/categories/:id
// @Summary Delete category
// @Description Deletes the category and every post in it
// @Tags categories
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 204
// @Failure 404 {object} models.ErrorResponse
// @Router /categories/{id}/ [delete]
func (s *Server) DeleteCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.categoryService.DeleteCategory(c.UserContext(), id); err != nil {
		return s.mapServiceError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetCategoryPosts handles GET /api/categories/:id/posts
// @Summary List posts in a category
// @Tags categories
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {array} models.PostResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /categories/{id}/posts/ [get]
func (s *Server) GetCategoryPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	posts, err := s.categoryService.ListCategoryPosts(c.UserContext(), id)
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.JSON(models.NewPostResponses(posts))
}

package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetUsers handles GET /api/users
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.UserResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /users/ [get]
func (s *Server) GetUsers(c *fiber.Ctx) error {
	users, err := s.userService.ListUsers(c.UserContext())
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.JSON(models.NewUserResponses(users))
}

// GetUser handles GET /api/users/:id
// @Summary Get user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /users/{id}/ [get]
func (s *Server) GetUser(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.UserContext(), id)
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.JSON(models.NewUserResponse(user))
}

// GetMe handles GET /api/users/me
// @Summary Get the caller's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /users/me/ [get]
func (s *Server) GetMe(c *fiber.Ctx) error {
	userID, _ := currentUserID(c)

	user, err := s.userService.GetUserByID(c.UserContext(), userID)
	if err != nil {
		return s.mapServiceError(c, err)
	}
	return c.JSON(models.NewUserResponse(user))
}

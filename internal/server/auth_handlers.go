package server

import (
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// AuthResponse is returned by signup and login.
type AuthResponse struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`
}

// Signup handles POST /api/auth/signup
// @Summary User signup
// @Description Register a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.SignupInput true "Signup request"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 429 {object} map[string]string "Too Many Requests"
// @Router /auth/signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var req service.SignupInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.authService.Signup(c.UserContext(), req)
	if err != nil {
		return s.mapServiceError(c, err)
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return s.mapServiceError(c, models.NewInternalError(err))
	}

	return c.Status(fiber.StatusCreated).JSON(AuthResponse{
		Token: token,
		User:  models.NewUserResponse(user),
	})
}

// Login handles POST /api/auth/login
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Failure 429 {object} map[string]string "Too Many Requests"
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var req service.LoginInput
	if err := parseBody(c, &req); err != nil {
		return nil
	}

	user, err := s.authService.Login(c.UserContext(), req)
	if err != nil {
		return s.mapServiceError(c, err)
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return s.mapServiceError(c, models.NewInternalError(err))
	}

	return c.JSON(AuthResponse{
		Token: token,
		User:  models.NewUserResponse(user),
	})
}

// Logout handles POST /api/auth/logout
// @Summary User logout
// @Description Revoke the bearer token used for this request
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{message=string}
// @Failure 401 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /auth/logout [post]
func (s *Server) Logout(c *fiber.Ctx) error {
	if s.redis == nil {
		return models.RespondWithError(c, fiber.StatusServiceUnavailable, &models.AppError{
			Code:    models.CodeInternal,
			Message: "Token revocation is unavailable",
		})
	}

	jti, _ := c.Locals("tokenID").(string)
	expiresAt, _ := c.Locals("tokenExpiresAt").(time.Time)
	if err := cache.RevokeToken(c.UserContext(), s.redis, jti, expiresAt); err != nil {
		return s.mapServiceError(c, models.NewInternalError(err))
	}

	return c.JSON(fiber.Map{"message": "Logged out"})
}

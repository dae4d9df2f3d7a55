// Package server contains the HTTP handlers, guards and wiring for the blog API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	_ "inkwell/docs" // swagger docs
	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config          *config.Config
	db              *gorm.DB
	redis           *redis.Client
	app             *fiber.App
	promMiddleware  *fiberprometheus.FiberPrometheus
	userRepo        repository.UserRepository
	categoryRepo    repository.CategoryRepository
	postRepo        repository.PostRepository
	authService     *service.AuthService
	categoryService *service.CategoryService
	postService     *service.PostService
	userService     *service.UserService
}

// NewServer connects to the database and Redis and builds a server on top of them.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	// Redis is optional: without it token revocation is disabled.
	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis itself.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if db == nil {
		return nil, errors.New("database is required")
	}

	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	postRepo := repository.NewPostRepository(db)

	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("inkwell-api"),
		userRepo:       userRepo,
		categoryRepo:   categoryRepo,
		postRepo:       postRepo,
	}
	s.authService = service.NewAuthService(userRepo)
	s.categoryService = service.NewCategoryService(categoryRepo, postRepo)
	s.postService = service.NewPostService(postRepo, categoryRepo)
	s.userService = service.NewUserService(userRepo)

	return s, nil
}

// NewApp builds a Fiber app with the full middleware chain and route table.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "Inkwell API",
		ErrorHandler: s.errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return app
}

// errorHandler turns errors that escape a handler into the standard error body.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return models.RespondWithError(c, fe.Code, &models.AppError{
			Code:    codeForStatus(fe.Code),
			Message: fe.Message,
		})
	}

	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "error", err)
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

func codeForStatus(status int) string {
	switch status {
	case fiber.StatusNotFound:
		return models.CodeNotFound
	case fiber.StatusUnauthorized:
		return models.CodeUnauthorized
	case fiber.StatusForbidden:
		return models.CodeForbidden
	case fiber.StatusConflict:
		return models.CodeConflict
	case fiber.StatusMethodNotAllowed:
		return models.CodeMethodNotAllowed
	}
	if status >= fiber.StatusInternalServerError {
		return models.CodeInternal
	}
	return models.CodeValidation
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Propagates request and trace IDs into the user context for logging.
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: origins != "*",
		MaxAge:           86400,
	}))
}

// SetupRoutes configures all routes for the application. Fiber's default
// non-strict routing makes every trailing slash optional.
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	api := app.Group("/api")
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Inkwell API Metrics",
	}))
	api.Get("/swagger/*", swagger.HandlerDefault)

	auth := api.Group("/auth")
	limit := s.authRateLimit()
	auth.Post("/signup", limit, s.Signup)
	auth.Post("/login", limit, s.Login)
	auth.Post("/logout", s.AuthRequired(), s.Logout)

	categories := api.Group("/categories", s.Guard(PolicyAuthenticatedOrReadOnly))
	categories.Get("/", s.GetCategories)
	categories.Post("/", s.CreateCategory)
	// Specific /:id/:resource routes before the generic /:id route.
	categories.Get("/:id/posts", s.GetCategoryPosts)
	categories.Get("/:id", s.GetCategory)
	categories.Put("/:id", s.UpdateCategory)
	categories.Patch("/:id", s.PatchCategory)
	categories.Delete("/:id", s.DeleteCategory)

	posts := api.Group("/posts", s.Guard(PolicyAuthenticatedOrReadOnly))
	posts.Get("/", s.GetPosts)
	posts.Post("/", s.CreatePost)
	// my_posts must be registered before /:id.
	posts.Get("/my_posts", s.GetMyPosts)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", s.UpdatePost)
	posts.Patch("/:id", s.PatchPost)
	posts.Delete("/:id", s.DeletePost)

	users := api.Group("/users", s.AuthRequired())
	users.Get("/", s.GetUsers)
	users.Get("/me", s.GetMe)
	users.Get("/:id", s.GetUser)

	admin := api.Group("/admin", s.AdminRequired())
	admin.Get("/categories", s.AdminListCategories)
	admin.Get("/posts", s.AdminListPosts)
	admin.Post("/posts", s.AdminCreatePost)
	admin.Patch("/posts/:id/published", s.AdminSetPostPublished)
}

// authRateLimit throttles credential endpoints outside local development.
func (s *Server) authRateLimit() fiber.Handler {
	switch s.config.Env {
	case "", "development", "test":
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	if s.config.AuthRateLimitPerMinute <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return middleware.RateLimit(s.redis, "auth", s.config.AuthRateLimitPerMinute, time.Minute, middleware.FailOpen)
}

// LivenessCheck handles liveness checks
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck reports whether the database and Redis answer a ping. Redis
// is optional: without a client it reports "unavailable" and stays ready.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Start starts the server
func (s *Server) Start() error {
	s.app = s.NewApp()

	log.Printf("Server starting on port %s...", s.config.Port)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}

// Package server wires the HTTP API: routing, middleware, and handlers.
package server

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"photoshare/internal/auth"
	"photoshare/internal/bootstrap"
	"photoshare/internal/config"
	"photoshare/internal/mail"
	"photoshare/internal/media"
	"photoshare/internal/middleware"
	"photoshare/internal/models"
	"photoshare/internal/repository"
	"photoshare/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Server holds the application state and dependencies.
type Server struct {
	config *config.Config
	db     *gorm.DB
	app    *fiber.App

	promMiddleware *fiberprometheus.FiberPrometheus

	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	hashtagRepo repository.HashtagRepository
	commentRepo repository.CommentRepository
	ratingRepo  repository.RatingRepository

	tokens *auth.TokenService

	authService    *service.AuthService
	userService    *service.UserService
	postService    *service.PostService
	commentService *service.CommentService
	ratingService  *service.RatingService
	adminService   *service.AdminService
}

// NewServer creates a new server instance, connecting to the database and CDN.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := bootstrap.InitRuntime(cfg)
	if err != nil {
		return nil, err
	}

	store, err := media.NewCloudinaryStore(cfg.CloudinaryName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret)
	if err != nil {
		return nil, err
	}

	var mailer mail.Sender = mail.NopSender{}
	if cfg.MailHost != "" {
		mailer = mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.MailHost,
			Port:     cfg.MailPort,
			Username: cfg.MailUsername,
			Password: cfg.MailPassword,
			From:     cfg.MailFrom,
		})
	}

	return NewServerWithDeps(cfg, db, store, mailer), nil
}

// NewServerWithDeps creates a server with injected dependencies for testing.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, store media.Store, mailer mail.Sender) *Server {
	s := &Server{
		config: cfg,
		db:     db,
	}

	s.userRepo = repository.NewUserRepository(db)
	s.postRepo = repository.NewPostRepository(db)
	s.hashtagRepo = repository.NewHashtagRepository(db)
	s.commentRepo = repository.NewCommentRepository(db)
	s.ratingRepo = repository.NewRatingRepository(db)

	s.tokens = auth.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	s.authService = service.NewAuthService(s.userRepo, s.tokens, mailer, cfg.AppHost)
	s.userService = service.NewUserService(s.userRepo, store, cfg.CloudinaryFolder)
	s.postService = service.NewPostService(s.postRepo, s.hashtagRepo, store, cfg.CloudinaryFolder)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo)
	s.ratingService = service.NewRatingService(s.ratingRepo, s.postRepo)
	s.adminService = service.NewAdminService(s.userRepo)

	return s
}

// SetupMiddleware configures the application-wide middleware stack. Order
// matters: recover first, then request identity, then everything that logs.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware == nil {
		s.promMiddleware = middleware.InitMetrics("photoshare-api")
	}
	app.Use(middleware.MetricsMiddleware(s.promMiddleware))

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	allowedOrigins := "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	if s.config.AllowedOrigins != "" {
		allowedOrigins = s.config.AllowedOrigins
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later",
			})
		},
	}))
}

// SetupRoutes registers all API routes.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)
	api.Get("/", s.HealthCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/dashboard", monitor.New())

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", s.Signup)
	authGroup.Post("/login", s.Login)
	authGroup.Get("/refresh_token", s.RefreshToken)
	authGroup.Get("/confirmed_email/:token", s.ConfirmEmail)
	authGroup.Post("/request_email", s.RequestEmail)
	authGroup.Post("/logout", s.AuthRequired(), s.Logout)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// User routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMe)
	users.Patch("/avatar", s.UpdateAvatar)
	users.Get("/:username", s.GetProfile)

	// Image routes. Specific /:id/:resource routes go BEFORE generic /:id.
	images := protected.Group("/images")
	images.Post("/", s.CreateImage)
	images.Get("/", s.ListImages)
	images.Get("/search", s.SearchImages)
	images.Get("/by_author/:userId", s.ListImagesByAuthor)
	images.Post("/:id/transform", s.TransformImage)
	images.Get("/:id/qr", s.GetImageQR)
	images.Post("/:id/comments", s.CreateComment)
	images.Get("/:id/comments", s.ListComments)
	images.Post("/:id/ratings", s.RateImage)
	images.Get("/:id/ratings", s.ListRatings)
	images.Get("/:id/ratings/average", s.GetAverageRating)
	// Generic /:id routes last
	images.Get("/:id", s.GetImage)
	images.Put("/:id", s.UpdateImage)
	images.Delete("/:id", s.DeleteImage)

	// Comment routes (item-level)
	comments := protected.Group("/comments")
	comments.Get("/:id", s.GetComment)
	comments.Put("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	// Rating routes (item-level)
	ratings := protected.Group("/ratings")
	ratings.Delete("/:id", s.DeleteRating)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Patch("/users/:id/role", s.ChangeRole)
	admin.Post("/users/:id/ban", s.BanUser)
	admin.Post("/users/:id/unban", s.UnbanUser)
}

// HealthCheck is a legacy/simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "PhotoShare",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns middleware that resolves the Bearer token to a user
// account and stores it in locals. Tokens with the wrong scope, unknown
// emails, and banned accounts are all rejected here so handlers only ever
// see a live, active user.
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthenticatedError("Not authenticated"))
		}

		email, err := s.tokens.Validate(tokenString, auth.ScopeAccess)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthenticatedError("Could not validate credentials"))
		}

		user, err := s.userRepo.GetByEmail(c.Context(), email)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if user == nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthenticatedError("Could not validate credentials"))
		}
		if !user.IsActive {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewPermissionDeniedError("Account is banned"))
		}

		c.Locals("currentUser", user)
		c.Locals("userID", user.ID)
		ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, user.ID)
		c.SetUserContext(ctx)

		return c.Next()
	}
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that currentUser is available.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := s.currentUser(c)
		if user == nil || user.Role != models.RoleAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewPermissionDeniedError("Admin privileges required"))
		}
		return c.Next()
	}
}

// BuildApp constructs the fiber app with middleware and routes registered.
func (s *Server) BuildApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:   "PhotoShare API",
		BodyLimit: 12 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fiberErr *fiber.Error
			if errors.As(err, &fiberErr) {
				return models.RespondWithError(c, fiberErr.Code,
					models.NewValidationError(fiberErr.Message))
			}
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})

	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// Start starts the server and blocks until it exits.
func (s *Server) Start() error {
	app := s.BuildApp()
	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server.
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

	log.Println("Server shutdown complete")
	return nil
}

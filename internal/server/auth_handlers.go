package server

import (
	"strings"

	"photoshare/internal/models"
	"photoshare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /api/auth/signup
func (s *Server) Signup(c *fiber.Ctx) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Username, email, and password are required"))
	}

	user, err := s.authService.Signup(c.Context(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":   user,
		"detail": "User successfully created. Check your email for confirmation.",
	})
}

// Login handles POST /api/auth/login
func (s *Server) Login(c *fiber.Ctx) error {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if req.Email == "" || req.Password == "" {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Email and password are required"))
	}

	pair, err := s.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(pair)
}

// RefreshToken handles GET /api/auth/refresh_token. The refresh token is
// presented as a Bearer credential, not in the body.
func (s *Server) RefreshToken(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthenticatedError("Not authenticated"))
	}

	pair, err := s.authService.Refresh(c.Context(), token)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(pair)
}

// Logout handles POST /api/auth/logout
func (s *Server) Logout(c *fiber.Ctx) error {
	user := s.currentUser(c)
	if err := s.authService.Logout(c.Context(), user); err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"detail": "Successfully logged out",
	})
}

// ConfirmEmail handles GET /api/auth/confirmed_email/:token
func (s *Server) ConfirmEmail(c *fiber.Ctx) error {
	token := c.Params("token")

	already, err := s.authService.ConfirmEmail(c.Context(), token)
	if err != nil {
		return models.RespondError(c, err)
	}

	detail := "Email confirmed"
	if already {
		detail = "Your email is already confirmed"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"detail": detail})
}

// RequestEmail handles POST /api/auth/request_email. The response never
// reveals whether the address exists.
func (s *Server) RequestEmail(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	if err := s.authService.RequestConfirmationEmail(c.Context(), req.Email); err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"detail": "Check your email for confirmation.",
	})
}

// bearerToken extracts the Bearer credential from the Authorization header.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	parts := strings.Split(authHeader, " ")
	if len(parts) == 2 && parts[0] == "Bearer" {
		return parts[1]
	}
	return ""
}

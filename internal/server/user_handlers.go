package server

import (
	"io"

	"photoshare/internal/models"
	"photoshare/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetMe handles GET /api/users/me
func (s *Server) GetMe(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(s.currentUser(c))
}

// GetProfile handles GET /api/users/:username
func (s *Server) GetProfile(c *fiber.Ctx) error {
	username := c.Params("username")

	profile, err := s.userService.GetProfile(c.Context(), username)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(profile)
}

// UpdateAvatar handles PATCH /api/users/avatar. The image arrives as a
// multipart file field named "file".
func (s *Server) UpdateAvatar(c *fiber.Ctx) error {
	data, err := s.multipartImage(c)
	if err != nil {
		return nil
	}

	user, err := s.userService.UpdateAvatar(c.Context(), s.currentUser(c), data)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

// multipartImage reads the "file" field from a multipart form, enforcing the
// size cap before the payload is buffered. On failure it writes a 400 and
// returns errResponseWritten.
func (s *Server) multipartImage(c *fiber.Ctx) ([]byte, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("An image file is required"))
		return nil, errResponseWritten
	}
	if fileHeader.Size > validation.MaxImageBytes {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image exceeds the maximum allowed size"))
		return nil, errResponseWritten
	}

	f, err := fileHeader.Open()
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read the uploaded file"))
		return nil, errResponseWritten
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(io.LimitReader(f, validation.MaxImageBytes+1))
	if err != nil {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Could not read the uploaded file"))
		return nil, errResponseWritten
	}
	if int64(len(data)) > validation.MaxImageBytes {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Image exceeds the maximum allowed size"))
		return nil, errResponseWritten
	}

	return data, nil
}

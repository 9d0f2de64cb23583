package server

import (
	"photoshare/internal/models"

	"github.com/gofiber/fiber/v2"
)

// RateImage handles POST /api/images/:id/ratings
func (s *Server) RateImage(c *fiber.Ctx) error {
	imageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Rating int `json:"rating"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	rating, err := s.ratingService.Rate(c.Context(), s.currentUser(c), imageID, req.Rating)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(rating)
}

// ListRatings handles GET /api/images/:id/ratings
func (s *Server) ListRatings(c *fiber.Ctx) error {
	imageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	ratings, err := s.ratingService.ListByImage(c.Context(), imageID)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(ratings)
}

// GetAverageRating handles GET /api/images/:id/ratings/average. An image
// with no ratings averages to 0.
func (s *Server) GetAverageRating(c *fiber.Ctx) error {
	imageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	avg, err := s.ratingService.Average(c.Context(), imageID)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"image_id": imageID,
		"average":  avg,
	})
}

// DeleteRating handles DELETE /api/ratings/:id
func (s *Server) DeleteRating(c *fiber.Ctx) error {
	ratingID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.ratingService.DeleteRating(c.Context(), s.currentUser(c), ratingID); err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"detail": "Rating deleted",
	})
}

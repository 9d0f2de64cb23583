package server

import (
	"photoshare/internal/models"
	"photoshare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateComment handles POST /api/images/:id/comments
func (s *Server) CreateComment(c *fiber.Ctx) error {
	imageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), s.currentUser(c), service.CreateCommentInput{
		ImageID: imageID,
		Text:    req.Text,
	})
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(comment)
}

// ListComments handles GET /api/images/:id/comments. With ?user_id=N it
// narrows to that user's comments on the image.
func (s *Server) ListComments(c *fiber.Ctx) error {
	imageID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if userID := c.QueryInt("user_id", 0); userID > 0 {
		comments, err := s.commentService.ListByUserForImage(c.Context(), uint(userID), imageID)
		if err != nil {
			return models.RespondError(c, err)
		}
		return c.Status(fiber.StatusOK).JSON(comments)
	}

	p := parsePagination(c, 10)
	comments, err := s.commentService.ListByImage(c.Context(), imageID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(comments)
}

// GetComment handles GET /api/comments/:id
func (s *Server) GetComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.GetComment(c.Context(), commentID)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(comment)
}

// UpdateComment handles PUT /api/comments/:id. Only the author may edit.
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.Context(), s.currentUser(c), service.UpdateCommentInput{
		CommentID: commentID,
		Text:      req.Text,
	})
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(comment)
}

// DeleteComment handles DELETE /api/comments/:id. Moderators and admins
// only; authors cannot remove their own comments.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	comment, err := s.commentService.DeleteComment(c.Context(), s.currentUser(c), commentID)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(comment)
}

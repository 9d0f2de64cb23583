package server

import (
	"photoshare/internal/media"
	"photoshare/internal/models"
	"photoshare/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateImage handles POST /api/images. The request is a multipart form with
// a "file" field plus optional "description" and "tags" (comma separated).
func (s *Server) CreateImage(c *fiber.Ctx) error {
	data, err := s.multipartImage(c)
	if err != nil {
		return nil
	}

	post, err := s.postService.CreatePost(c.Context(), s.currentUser(c), service.CreatePostInput{
		Description: c.FormValue("description"),
		Tags:        c.FormValue("tags"),
		Image:       data,
	})
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetImage handles GET /api/images/:id
func (s *Server) GetImage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(post)
}

// GetImageQR handles GET /api/images/:id/qr
func (s *Server) GetImageQR(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	post, err := s.postService.GetPost(c.Context(), id)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"qr_code_url": post.QRCodeURL,
	})
}

// ListImages handles GET /api/images
func (s *Server) ListImages(c *fiber.Ctx) error {
	p := parsePagination(c, 10)

	posts, err := s.postService.ListPosts(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

// ListImagesByAuthor handles GET /api/images/by_author/:userId
func (s *Server) ListImagesByAuthor(c *fiber.Ctx) error {
	userID, err := s.parseID(c, "userId")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 10)

	posts, err := s.postService.ListByAuthor(c.Context(), userID, p.Limit, p.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

// SearchImages handles GET /api/images/search?keyword=...
// A keyword starting with "#" searches by tag instead of description.
func (s *Server) SearchImages(c *fiber.Ctx) error {
	keyword := c.Query("keyword")
	p := parsePagination(c, 10)

	posts, err := s.postService.Search(c.Context(), keyword, p.Limit, p.Offset)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(posts)
}

// UpdateImage handles PUT /api/images/:id. Only the description can change;
// the image itself is immutable.
func (s *Server) UpdateImage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdateDescription(c.Context(), s.currentUser(c), id, req.Description)
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(post)
}

// DeleteImage handles DELETE /api/images/:id
func (s *Server) DeleteImage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), s.currentUser(c), id); err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"detail": "Image deleted",
	})
}

// TransformImage handles POST /api/images/:id/transform. A transformation
// never mutates the source; it creates a new image owned by the caller.
func (s *Server) TransformImage(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Kind        string `json:"kind"`
		Width       int    `json:"width"`
		Height      int    `json:"height"`
		Radius      int    `json:"radius"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.TransformPost(c.Context(), s.currentUser(c), service.TransformPostInput{
		PostID:      id,
		Description: req.Description,
		Transformation: media.Transformation{
			Kind:   req.Kind,
			Width:  req.Width,
			Height: req.Height,
			Radius: req.Radius,
		},
	})
	if err != nil {
		return models.RespondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

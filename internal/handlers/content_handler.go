package handlers

import (
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/dto"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ContentHandler struct {
	contentService *services.ContentService
}

func NewContentHandler(contentService *services.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

func (h *ContentHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateContentRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}

	content, err := h.contentService.Create(c.UserContext(), middleware.UserID(c), req.Text)
	if err != nil {
		return err
	}

	return c.JSON(dto.NewContentResponse(content))
}

func (h *ContentHandler) List(c *fiber.Ctx) error {
	items, err := h.contentService.List(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.JSON(items)
}

func (h *ContentHandler) Get(c *fiber.Ctx) error {
	id, err := contentID(c)
	if err != nil {
		return err
	}

	content, err := h.contentService.Get(c.UserContext(), id, middleware.UserID(c))
	if err != nil {
		return err
	}

	return c.JSON(dto.NewContentResponse(content))
}

func (h *ContentHandler) Delete(c *fiber.Ctx) error {
	id, err := contentID(c)
	if err != nil {
		return err
	}

	if err := h.contentService.Delete(c.UserContext(), id, middleware.UserID(c)); err != nil {
		return err
	}

	return c.JSON(dto.DetailResponse{Detail: "Content deleted successfully"})
}

// Analyze is public and stores nothing.
func (h *ContentHandler) Analyze(c *fiber.Ctx) error {
	var req dto.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest("Invalid request body")
	}

	res, err := h.contentService.Analyze(c.UserContext(), req.Text)
	if err != nil {
		return err
	}

	return c.JSON(dto.AnalyzeResponse{Summary: res.Summary, Sentiment: res.Sentiment})
}

func contentID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 0 {
		return 0, badRequest("Invalid content id")
	}
	return uint(id), nil
}

package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/lettersmith/newsletter-service/internal/api/dto"
	"github.com/lettersmith/newsletter-service/internal/service"
	"github.com/lettersmith/newsletter-service/pkg/util/errorutil"
)

// NewslettersHandler exposes the publish endpoint.
type NewslettersHandler struct {
	news *service.NewsletterService
}

// NewNewslettersHandler constructs handler.
func NewNewslettersHandler(news *service.NewsletterService) *NewslettersHandler {
	return &NewslettersHandler{news: news}
}

// Publish handles POST /newsletters.
func (h *NewslettersHandler) Publish(c *fiber.Ctx) error {
	var req dto.PublishNewsletterRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid json payload", nil)
	}
	if req.Title == "" || (req.Content.HTML == "" && req.Content.Text == "") {
		return errorutil.NewValidationError("title and content are required", nil)
	}

	result, err := h.news.Publish(
		c.UserContext(),
		c.Get(fiber.HeaderAuthorization),
		c.Get("Idempotency-Key"),
		req.Title,
		req.Content.HTML,
		req.Content.Text,
	)
	if err != nil {
		if errors.Is(err, service.ErrUnauthorized) {
			return errorutil.NewUnauthorizedChallenge("invalid username or password", errorutil.BasicChallenge)
		}
		return errorutil.NewInternalError(err)
	}

	return c.JSON(dto.PublishNewsletterResponse{
		Sent:      result.Sent,
		Skipped:   result.Skipped,
		Duplicate: result.Duplicate,
	})
}

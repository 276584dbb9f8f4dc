package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/lettersmith/newsletter-service/internal/api/dto"
	"github.com/lettersmith/newsletter-service/internal/service"
	"github.com/lettersmith/newsletter-service/pkg/util/errorutil"
)

// SubscriptionsHandler exposes registration and confirmation endpoints.
type SubscriptionsHandler struct {
	subs *service.SubscriptionService
}

// NewSubscriptionsHandler constructs handler.
func NewSubscriptionsHandler(subs *service.SubscriptionService) *SubscriptionsHandler {
	return &SubscriptionsHandler{subs: subs}
}

// Subscribe handles POST /subscriptions.
func (h *SubscriptionsHandler) Subscribe(c *fiber.Ctx) error {
	var req dto.SubscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return errorutil.NewValidationError("invalid form payload", nil)
	}

	if _, err := h.subs.Register(c.UserContext(), req.Name, req.Email); err != nil {
		if errors.Is(err, service.ErrValidation) {
			return errorutil.NewValidationError(err.Error(), nil)
		}
		return errorutil.NewInternalError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}

// Confirm handles GET /subscriptions/confirm.
func (h *SubscriptionsHandler) Confirm(c *fiber.Ctx) error {
	confirmationToken := c.Query("token")
	if confirmationToken == "" {
		return errorutil.NewValidationError("token query parameter is required", nil)
	}

	if err := h.subs.Confirm(c.UserContext(), confirmationToken); err != nil {
		if errors.Is(err, service.ErrUnknownToken) {
			return errorutil.NewUnauthorized("unknown confirmation token")
		}
		return errorutil.NewInternalError(err)
	}
	return c.SendStatus(fiber.StatusOK)
}

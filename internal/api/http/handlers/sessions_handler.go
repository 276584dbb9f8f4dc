package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/lettersmith/newsletter-service/internal/api/dto"
	"github.com/lettersmith/newsletter-service/internal/service"
	"github.com/lettersmith/newsletter-service/pkg/util/errorutil"
)

// SessionsHandler exchanges operator Basic credentials for session tokens.
type SessionsHandler struct {
	operators *service.OperatorService
}

// NewSessionsHandler constructs handler.
func NewSessionsHandler(operators *service.OperatorService) *SessionsHandler {
	return &SessionsHandler{operators: operators}
}

// Create handles POST /admin/sessions.
func (h *SessionsHandler) Create(c *fiber.Ctx) error {
	sessionToken, expiresAt, err := h.operators.Login(c.UserContext(), c.Get(fiber.HeaderAuthorization))
	if err != nil {
		return errorutil.NewUnauthorizedChallenge("invalid username or password", errorutil.BasicChallenge)
	}

	return c.JSON(dto.SessionResponse{Token: sessionToken, ExpiresAt: expiresAt})
}

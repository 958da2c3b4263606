package handlers

import (
	"recipeclip/domain"
	"recipeclip/internal/api/presenters"
	"recipeclip/internal/middleware"
	"recipeclip/internal/utils"
	"recipeclip/pkg/authz"

	"github.com/gofiber/fiber/v2"
)

type (
	AuthHandler interface {
		Me(c *fiber.Ctx) error
	}

	authHandler struct {
		settings *utils.Settings
	}
)

func NewAuthHandler(settings *utils.Settings) AuthHandler {
	return &authHandler{settings: settings}
}

func (h *authHandler) Me(c *fiber.Ctx) error {
	user := middleware.UserFromContext(c)
	if user == nil {
		return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrNotAuthenticated)
	}

	tier := authz.ResolveTier(user, h.settings)
	return c.Status(fiber.StatusOK).JSON(domain.AuthMeResponse{
		ID:        user.ID,
		Email:     user.Email,
		Tier:      string(tier.Tier),
		ExpiresAt: tier.ExpiresAt,
	})
}

package middleware

import (
	"recipeclip/domain"
	"recipeclip/internal/api/presenters"
	"recipeclip/internal/utils"
	"recipeclip/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// accessTokenCookie is where the frontend stores the session token.
const accessTokenCookie = "access_token"

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		// AuthMiddleware rejects requests without a valid token. In single
		// tenant mode every request is the local user.
		AuthMiddleware(jwtService jwt.JWTService) fiber.Handler
		// OptionalAuthMiddleware resolves the user when a valid token is
		// present and continues anonymously otherwise.
		OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler
	}

	middleware struct {
		settings *utils.Settings
	}
)

func NewMiddleware(settings *utils.Settings) Middleware {
	return &middleware{settings: settings}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     m.settings.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	})
}

func (m *middleware) AuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.settings.IsSingleTenant() {
			c.Locals("user", &domain.DefaultUser)
			return c.Next()
		}

		token := c.Cookies(accessTokenCookie)
		if token == "" {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, domain.ErrTokenNotFound)
		}

		user, err := jwtService.ValidateToken(c.Context(), token)
		if err != nil {
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageFailedGetToken, err)
		}

		c.Locals("user", user)
		return c.Next()
	}
}

func (m *middleware) OptionalAuthMiddleware(jwtService jwt.JWTService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.settings.IsSingleTenant() {
			c.Locals("user", &domain.DefaultUser)
			return c.Next()
		}

		token := c.Cookies(accessTokenCookie)
		if token != "" {
			if user, err := jwtService.ValidateToken(c.Context(), token); err == nil {
				c.Locals("user", user)
			}
		}
		return c.Next()
	}
}

// UserFromContext returns the authenticated user set by the middleware, or
// nil for anonymous requests.
func UserFromContext(c *fiber.Ctx) *domain.User {
	user, _ := c.Locals("user").(*domain.User)
	return user
}

package presenters

import (
	"errors"

	"recipeclip/pkg/authz"

	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, status int, message string) error {
	return c.Status(status).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	res := Response{
		Success: false,
		Message: message,
	}
	if err != nil {
		res.Error = err.Error()
	}
	return c.Status(status).JSON(res)
}

// permissionError is the body of a 403 permission denial. error_code is
// either "upgrade_required" or "subscription_expired".
type permissionError struct {
	Message      string `json:"message"`
	ErrorCode    string `json:"error_code"`
	RequiredTier string `json:"required_tier"`
	Feature      string `json:"feature"`
	ExpiredAt    string `json:"expired_at,omitempty"`
}

// PermissionErrorResponse renders a tier denial, or reports false when the
// error is not one.
func PermissionErrorResponse(c *fiber.Ctx, err error) (bool, error) {
	var upgrade *authz.UpgradeRequiredError
	if errors.As(err, &upgrade) {
		return true, c.Status(fiber.StatusForbidden).JSON(permissionError{
			Message:      upgrade.Error(),
			ErrorCode:    "upgrade_required",
			RequiredTier: string(authz.TierPro),
			Feature:      upgrade.Feature,
		})
	}

	var expired *authz.SubscriptionExpiredError
	if errors.As(err, &expired) {
		return true, c.Status(fiber.StatusForbidden).JSON(permissionError{
			Message:      expired.Error(),
			ErrorCode:    "subscription_expired",
			RequiredTier: string(authz.TierPro),
			Feature:      expired.Feature,
			ExpiredAt:    expired.ExpiredAt,
		})
	}

	return false, nil
}

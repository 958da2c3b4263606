package handlers

import (
	"errors"

	"recipeclip/domain"
	"recipeclip/internal/api/presenters"

	"github.com/gofiber/fiber/v2"
)

// serviceErrorResponse translates service errors into HTTP responses.
// parseStatus lets callers choose the status of a parsing failure: an
// extraction endpoint reports a server-side failure, a save endpoint
// reports an unprocessable source.
func serviceErrorResponse(c *fiber.Ctx, err error, message string, parseStatus int) error {
	if handled, resp := presenters.PermissionErrorResponse(c, err); handled {
		return resp
	}

	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrNetworkFailure):
		status = fiber.StatusBadGateway
	case errors.Is(err, domain.ErrRecipeNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrUserRecipeNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrRecipeParsing):
		status = parseStatus
	case errors.Is(err, domain.ErrLLMNotConfigured):
		status = fiber.StatusServiceUnavailable
	case errors.Is(err, domain.ErrLLMFailure):
		status = fiber.StatusInternalServerError
	case errors.Is(err, domain.ErrFileValidation):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrMissingSavePayload):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrJSONFormatRejected):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUnsupportedFormat):
		status = fiber.StatusBadRequest
	}

	return presenters.ErrorResponse(c, status, message, err)
}

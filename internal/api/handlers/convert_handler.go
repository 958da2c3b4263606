package handlers

import (
	"fmt"
	"strings"
	"unicode"

	"recipeclip/domain"
	"recipeclip/internal/api/presenters"
	"recipeclip/pkg/convert"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ConvertHandler interface {
		Convert(c *fiber.Ctx) error
	}

	convertHandler struct {
		validator *validator.Validate
	}
)

func NewConvertHandler(validator *validator.Validate) ConvertHandler {
	return &convertHandler{validator: validator}
}

func (h *convertHandler) Convert(c *fiber.Ctx) error {
	req := new(domain.ConvertRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedConvert, err)
	}

	out, err := convert.Convert(req.Recipe, req.Format)
	if err != nil {
		return serviceErrorResponse(c, err, domain.MessageFailedConvert, fiber.StatusInternalServerError)
	}

	filename := slugify(req.Recipe.Title) + out.Extension
	c.Set(fiber.HeaderContentType, out.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Status(fiber.StatusOK).Send(out.Data)
}

// slugify makes a safe download filename from a recipe title.
func slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteRune('-')
			lastDash = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return "recipe"
	}
	return slug
}

package handlers

import (
	"io"

	"recipeclip/domain"
	"recipeclip/internal/api/presenters"
	"recipeclip/internal/middleware"
	"recipeclip/internal/utils"
	"recipeclip/pkg/authz"
	"recipeclip/pkg/clip"
	"recipeclip/pkg/upload"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	ClipHandler interface {
		Clip(c *fiber.Ctx) error
		ClipUpload(c *fiber.Ctx) error
	}

	clipHandler struct {
		clipService clip.ClipService
		validator   *validator.Validate
		settings    *utils.Settings
	}
)

func NewClipHandler(clipService clip.ClipService, validator *validator.Validate, settings *utils.Settings) ClipHandler {
	return &clipHandler{
		clipService: clipService,
		validator:   validator,
		settings:    settings,
	}
}

func (h *clipHandler) Clip(c *fiber.Ctx) error {
	req := new(domain.ClipRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedClip, err)
	}

	user := middleware.UserFromContext(c)
	tier := authz.ResolveTier(user, h.settings)

	res, err := h.clipService.Clip(c.Context(), *req, tier)
	if err != nil {
		return serviceErrorResponse(c, err, domain.MessageFailedClip, fiber.StatusInternalServerError)
	}
	return c.Status(fiber.StatusOK).JSON(res)
}

func (h *clipHandler) ClipUpload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if fileHeader.Size > upload.MaxDocumentSize {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadClip, domain.ErrFileValidation)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadClip, err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUploadClip, err)
	}

	user := middleware.UserFromContext(c)
	tier := authz.ResolveTier(user, h.settings)

	res, err := h.clipService.ClipUpload(c.Context(), content, fileHeader.Filename, tier)
	if err != nil {
		return serviceErrorResponse(c, err, domain.MessageFailedUploadClip, fiber.StatusUnprocessableEntity)
	}
	return c.Status(fiber.StatusOK).JSON(res)
}

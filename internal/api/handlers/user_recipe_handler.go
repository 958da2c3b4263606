package handlers

import (
	"strconv"
	"strings"

	"recipeclip/domain"
	"recipeclip/internal/api/presenters"
	"recipeclip/internal/middleware"
	"recipeclip/internal/utils"
	"recipeclip/pkg/authz"
	"recipeclip/pkg/userrecipe"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	UserRecipeHandler interface {
		SaveRecipe(c *fiber.Ctx) error
		ListRecipes(c *fiber.Ctx) error
		GetRecipe(c *fiber.Ctx) error
		UpdateRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
	}

	userRecipeHandler struct {
		userRecipeService userrecipe.UserRecipeService
		validator         *validator.Validate
		settings          *utils.Settings
	}
)

func NewUserRecipeHandler(userRecipeService userrecipe.UserRecipeService, validator *validator.Validate, settings *utils.Settings) UserRecipeHandler {
	return &userRecipeHandler{
		userRecipeService: userRecipeService,
		validator:         validator,
		settings:          settings,
	}
}

func (h *userRecipeHandler) SaveRecipe(c *fiber.Ctx) error {
	req := new(domain.SaveRecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSaveRecipe, err)
	}

	user := middleware.UserFromContext(c)
	tier := authz.ResolveTier(user, h.settings)

	res, err := h.userRecipeService.SaveRecipe(c.Context(), *user, *req, tier)
	if err != nil {
		return serviceErrorResponse(c, err, domain.MessageFailedSaveRecipe, fiber.StatusUnprocessableEntity)
	}

	status := fiber.StatusOK
	if res.IsNew {
		status = fiber.StatusCreated
	}
	return c.Status(status).JSON(res)
}

func (h *userRecipeHandler) ListRecipes(c *fiber.Ctx) error {
	query := userrecipe.ListRecipesQuery{
		Cursor:       c.Query("cursor"),
		Search:       c.Query("search"),
		ModifiedOnly: c.QueryBool("modified_only"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 100 {
			return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecipes, nil)
		}
		query.Limit = limit
	}
	if tags := c.Query("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				query.Tags = append(query.Tags, tag)
			}
		}
	}

	user := middleware.UserFromContext(c)
	tier := authz.ResolveTier(user, h.settings)

	res, err := h.userRecipeService.ListRecipes(c.Context(), *user, query, tier)
	if err != nil {
		return serviceErrorResponse(c, err, domain.MessageFailedGetRecipes, fiber.StatusInternalServerError)
	}
	return c.Status(fiber.StatusOK).JSON(res)
}

func (h *userRecipeHandler) GetRecipe(c *fiber.Ctx) error {
	user := middleware.UserFromContext(c)
	tier := authz.ResolveTier(user, h.settings)

	res, err := h.userRecipeService.GetRecipe(c.Context(), *user, c.Params("id"), tier)
	if err != nil {
		return serviceErrorResponse(c, err, domain.MessageFailedGetRecipe, fiber.StatusInternalServerError)
	}
	return c.Status(fiber.StatusOK).JSON(res)
}

func (h *userRecipeHandler) UpdateRecipe(c *fiber.Ctx) error {
	req := new(domain.UpdateUserRecipeRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateRecipe, err)
	}

	user := middleware.UserFromContext(c)
	tier := authz.ResolveTier(user, h.settings)

	res, err := h.userRecipeService.UpdateRecipe(c.Context(), *user, c.Params("id"), *req, tier)
	if err != nil {
		return serviceErrorResponse(c, err, domain.MessageFailedUpdateRecipe, fiber.StatusInternalServerError)
	}
	return c.Status(fiber.StatusOK).JSON(res)
}

func (h *userRecipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	user := middleware.UserFromContext(c)
	tier := authz.ResolveTier(user, h.settings)

	if err := h.userRecipeService.DeleteRecipe(c.Context(), *user, c.Params("id"), tier); err != nil {
		return serviceErrorResponse(c, err, domain.MessageFailedDeleteRecipe, fiber.StatusInternalServerError)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}

package routes

import (
	"recipeclip/internal/api/handlers"
	"recipeclip/internal/middleware"
	"recipeclip/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App               *fiber.App
	ClipHandler       handlers.ClipHandler
	UserRecipeHandler handlers.UserRecipeHandler
	ConvertHandler    handlers.ConvertHandler
	AuthHandler       handlers.AuthHandler
	Middleware        middleware.Middleware
	JWTService        jwt.JWTService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.Clip()
	c.UserRecipes()
	c.Convert()
	c.AuthRoute()
	c.GuestRoute()
}

func (c *Config) Clip() {
	api := c.App.Group("/api")
	{
		api.Post("/clip", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.ClipHandler.Clip)
		api.Post("/clip/upload", c.Middleware.AuthMiddleware(c.JWTService), c.ClipHandler.ClipUpload)
	}
}

func (c *Config) UserRecipes() {
	recipes := c.App.Group("/api/me/recipes", c.Middleware.AuthMiddleware(c.JWTService))
	{
		recipes.Post("", c.UserRecipeHandler.SaveRecipe)
		recipes.Get("", c.UserRecipeHandler.ListRecipes)
		recipes.Get("/:id", c.UserRecipeHandler.GetRecipe)
		recipes.Put("/:id", c.UserRecipeHandler.UpdateRecipe)
		recipes.Delete("/:id", c.UserRecipeHandler.DeleteRecipe)
	}
}

func (c *Config) Convert() {
	c.App.Post("/api/convert", c.Middleware.OptionalAuthMiddleware(c.JWTService), c.ConvertHandler.Convert)
}

func (c *Config) AuthRoute() {
	c.App.Get("/api/auth/me", c.Middleware.AuthMiddleware(c.JWTService), c.AuthHandler.Me)
}

func (c *Config) GuestRoute() {
	c.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

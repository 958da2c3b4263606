package config

import (
	"context"
	"os"
	"time"

	"recipeclip/internal/api/handlers"
	"recipeclip/internal/api/routes"
	"recipeclip/internal/middleware"
	"recipeclip/internal/utils"
	"recipeclip/internal/utils/storage"
	"recipeclip/pkg/cache"
	"recipeclip/pkg/clip"
	"recipeclip/pkg/jwt"
	"recipeclip/pkg/parser"
	"recipeclip/pkg/userrecipe"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"gorm.io/gorm"
)

func NewApp(db *gorm.DB, settings *utils.Settings) (*fiber.App, error) {
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		EnablePrintRoutes: true,
		BodyLimit:         25 * 1024 * 1024,
	})
	middlewares := middleware.NewMiddleware(settings)
	validator := utils.Validate

	// setting up logging and limiter
	err := os.MkdirAll("./logs", os.ModePerm)
	if err != nil {
		log.Fatalf("error creating logs directory: %v", err)
	}
	file, err := os.OpenFile(
		"./logs/app.log",
		os.O_RDWR|os.O_CREATE|os.O_APPEND,
		0666,
	)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Output:     file,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        10,
		Expiration: 1 * time.Second,
	}))

	// utils
	s3, err := storage.NewAwsS3(context.Background(), storage.S3Config{
		Region:    settings.AWSS3Region,
		AccessKey: settings.AWSAccessKey,
		SecretKey: settings.AWSSecretKey,
		Bucket:    settings.AWSS3Bucket,
		Endpoint:  settings.AWSS3Endpoint,
		PublicURL: settings.AWSPublicURL,
	})
	if err != nil {
		return nil, err
	}

	// Repository
	cacheRepository := cache.NewCacheRepository(db)
	userRecipeRepository := userrecipe.NewUserRecipeRepository(db)

	// Service
	jwtService := jwt.NewJWTService(context.Background(), settings.SupabaseJWTSecret, settings.SupabaseURL)
	llmClient := parser.NewLLMClient(settings.AnthropicAPIKey)
	extractor := clip.NewExtractor(clip.NewFetcher(), parser.NewScraper(), llmClient, cacheRepository)
	clipService := clip.NewClipService(cacheRepository, extractor, llmClient, s3, settings.CacheEnabled)
	userRecipeService := userrecipe.NewUserRecipeService(userRecipeRepository, cacheRepository, extractor)

	// Handler
	clipHandler := handlers.NewClipHandler(clipService, validator, settings)
	userRecipeHandler := handlers.NewUserRecipeHandler(userRecipeService, validator, settings)
	convertHandler := handlers.NewConvertHandler(validator)
	authHandler := handlers.NewAuthHandler(settings)

	// routes
	routesConfig := routes.Config{
		App:               app,
		ClipHandler:       clipHandler,
		UserRecipeHandler: userRecipeHandler,
		ConvertHandler:    convertHandler,
		AuthHandler:       authHandler,
		Middleware:        middlewares,
		JWTService:        jwtService,
	}
	routesConfig.Setup()
	return app, nil
}

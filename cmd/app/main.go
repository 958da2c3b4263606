package main

import (
	"recipeclip/cmd/config"
	migration "recipeclip/cmd/database/migrate"
	"recipeclip/internal/utils"

	"github.com/gofiber/fiber/v2/log"
)

func main() {
	settings := utils.LoadSettings()

	db, err := config.ConnectDB(settings)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	if err := migration.Migrate(db); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	app, err := config.NewApp(db, settings)
	if err != nil {
		log.Fatalf("failed to build app: %v", err)
	}

	if err := app.Listen(":" + settings.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

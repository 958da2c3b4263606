package main

import (
	"recipeclip/cmd/config"
	migration "recipeclip/cmd/database/migrate"
	"recipeclip/internal/utils"

	"github.com/spf13/cobra"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := utils.LoadSettings()

			db, err := config.ConnectDB(settings)
			if err != nil {
				return err
			}
			if err := migration.Migrate(db); err != nil {
				return err
			}

			app, err := config.NewApp(db, settings)
			if err != nil {
				return err
			}
			return app.Listen(":" + settings.Port)
		},
	}
}

package config

import (
	"log"

	"recipeclip/internal/utils"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDB opens postgres when DATABASE_URL is set, otherwise an embedded
// sqlite file. Sqlite keeps single-tenant deployments dependency free.
func ConnectDB(settings *utils.Settings) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	if settings.DatabaseURL != "" {
		db, err := gorm.Open(postgres.Open(settings.DatabaseURL), gormConfig)
		if err != nil {
			log.Fatalf("Database connection failed: %v", err)
			return nil, err
		}
		return db, nil
	}

	db, err := gorm.Open(sqlite.Open(settings.CacheDBPath), gormConfig)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
		return nil, err
	}
	return db, nil
}

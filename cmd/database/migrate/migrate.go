package migration

import (
	"fmt"
	"log"

	"recipeclip/entities"

	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.ClippedRecipe{}); err != nil {
		log.Fatalf("Error migrating clipped recipe database: %v", err)
		return err
	}
	if err := db.AutoMigrate(&entities.UserRecipe{}); err != nil {
		log.Fatalf("Error migrating user recipe database: %v", err)
		return err
	}

	fmt.Println("Database migration complete")
	return nil
}

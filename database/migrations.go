package database

import (
	"tasknest-app/tasknest/models"

	"gorm.io/gorm"
)

// RunMigrations keeps the schema in step with the model structs.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Task{},
		&models.RevokedToken{},
	)
}

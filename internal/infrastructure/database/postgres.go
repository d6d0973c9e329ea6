package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Triostacksoftware/authkit/internal/infrastructure/repositories"
)

// Open creates a new database connection. TranslateError turns driver
// unique-violation errors into gorm.ErrDuplicatedKey, which the user
// repository relies on for the email uniqueness constraint.
func Open(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
}

// AutoMigrate creates the users table and its unique email index.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&repositories.DBUser{}); err != nil {
		return fmt.Errorf("failed to migrate users table: %w", err)
	}
	return nil
}

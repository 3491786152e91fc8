package database

import (
	"fmt"
	"log"

	"makemystay/internal/domain"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// Migrations lists the schema history in order. Never edit an applied entry;
// append a new one instead.
func Migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		{
			ID: "202601050001_create_users",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&domain.User{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("users")
			},
		},
		{
			ID: "202601050002_create_contacts",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&domain.Contact{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("contacts")
			},
		},
		{
			ID: "202601050003_create_properties",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(&domain.Property{}, &domain.PropertyImage{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("property_images", "properties")
			},
		},
	}
}

// Migrate applies every pending migration.
func Migrate(db *gorm.DB) error {
	log.Println("[DB] Running database migrations...")
	m := gormigrate.New(db, gormigrate.DefaultOptions, Migrations())
	if err := m.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Println("[DB] Database migrated successfully")
	return nil
}

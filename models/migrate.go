package models

import (
	"fmt"

	"gorm.io/gorm"
)

// All lists every persisted model in dependency order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Tag{},
		&Post{},
		&PostTag{},
	}
}

// SetupJoinTables registers PostTag as the join model of both sides of the
// post/tag relation. It must run before AutoMigrate or any association query.
func SetupJoinTables(db *gorm.DB) error {
	if err := db.SetupJoinTable(&Post{}, "Tags", &PostTag{}); err != nil {
		return fmt.Errorf("setup post tags join table: %w", err)
	}
	if err := db.SetupJoinTable(&Tag{}, "Posts", &PostTag{}); err != nil {
		return fmt.Errorf("setup tag posts join table: %w", err)
	}
	return nil
}

// Migrate creates or updates the schema of every model.
func Migrate(db *gorm.DB) error {
	if err := SetupJoinTables(db); err != nil {
		return err
	}
	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

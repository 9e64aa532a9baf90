package database

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Initialize(dbPath string) (*gorm.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	// Legacy tables must be rebuilt before AutoMigrate, otherwise the old
	// and new columns would coexist.
	if err := rebuildLegacyTables(db); err != nil {
		return fmt.Errorf("failed to migrate legacy schema: %w", err)
	}

	if err := db.AutoMigrate(
		&Article{},
		&Convict{},
		&Investigator{},
		&Case{},
		&CaseLink{},
		&Sentence{},
		&User{},
		&Session{},
	); err != nil {
		return err
	}

	return createIndexes(db)
}

package db

import (
	"fmt" // Error wrapping

	"expense_tracker/internal/domain" // Domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM log levels
)

// Open connects to MySQL. SQL statements are logged at warn level, errors only in production.
func Open(dsn string, isProd bool) (*gorm.DB, error) {
	level := logger.Warn
	if isProd {
		level = logger.Error
	}
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(level)})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the tables of users, wallets and transactions
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(&domain.User{}, &domain.Wallet{}, &domain.Transaction{}); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	logrus.Info("Migration completed.")
	return nil
}

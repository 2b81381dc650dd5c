package db

import (
	"errors"
	"fmt"

	"github.com/KAsare1/liftlog-server/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPSQLStorage opens the postgres connection pool described by cfg.
func NewPSQLStorage(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DBURL == "" {
		return nil, errors.New("DB_URL is not set")
	}

	db, err := gorm.Open(postgres.Open(cfg.DBURL), &gorm.Config{
		// Unique violations surface as gorm.ErrDuplicatedKey.
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("opening postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)

	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

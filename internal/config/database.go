package config

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"alfredoptarigan/ai-interviewer/internal/models"
)

// InitDatabase connects to Postgres, retrying a few times while the
// database comes up, and migrates the schema.
func InitDatabase(cfg *Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := Connect(cfg, log)
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Resume{},
		&models.Interview{},
		&models.Chat{},
		&models.ChatMessage{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info("✅ Database migration completed")

	return db, nil
}

// Connect opens the connection and pings it without migrating.
func Connect(cfg *Config, log *zap.Logger) (*gorm.DB, error) {
	dsn := cfg.GetDatabaseDSN()

	logLevel := logger.Silent
	if cfg.IsDevelopment() {
		logLevel = logger.Info
	}

	attempts := cfg.Database.ConnectRetry
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
			Logger:         logger.Default.LogMode(logLevel),
			TranslateError: true,
		})
		if err == nil {
			err = ping(db)
		}
		if err == nil {
			log.Info("✅ Database connected successfully",
				zap.String("host", cfg.Database.Host),
				zap.String("database", cfg.Database.DBName))
			return db, nil
		}

		lastErr = err
		log.Warn("Database connection failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err))

		if attempt < attempts {
			time.Sleep(cfg.Database.RetryInterval)
		}
	}

	return nil, fmt.Errorf("failed to connect to database after %d attempts: %w", attempts, lastErr)
}

func ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

package database

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/onegreenvn/outreach-dispatch-backend/internal/config"
	"github.com/onegreenvn/outreach-dispatch-backend/internal/models"
)

// InitDB opens the postgres connection and performs migrations
func InitDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	if cfg.Host == "" || cfg.Port == "" || cfg.User == "" || cfg.Password == "" || cfg.Name == "" {
		return nil, fmt.Errorf("missing required database environment variables. Please check your .env file")
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)

	// Route gorm's logger through logrus
	gormLogger := logger.New(
		logrus.StandardLogger(),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Error,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:                                   gormLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logrus.Info("Database connection established and migrations completed")
	return db, nil
}

// Migrate creates or updates the dispatch schema
func Migrate(db *gorm.DB) error {
	// gen_random_uuid() lives in pgcrypto on postgres < 13
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto").Error; err != nil {
		return fmt.Errorf("failed to enable pgcrypto extension: %w", err)
	}

	err := db.AutoMigrate(
		&models.Campaign{},
		&models.QueuedMessage{},
		&models.Instance{},
		&models.Contact{},
		&models.AuditBatch{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Older deployments created the queue without the dedup index; it must exist for
	// ON CONFLICT (campaign_id, phone) to work.
	var dedupIndexExists bool
	err = db.Raw(`
		SELECT EXISTS (
			SELECT 1
			FROM pg_indexes
			WHERE schemaname = current_schema()
			AND tablename = 'queued_messages'
			AND indexname = 'uk_queued_messages_campaign_phone'
		)
	`).Scan(&dedupIndexExists).Error
	if err != nil {
		logrus.Warnf("Failed to check if dedup index exists: %v", err)
	} else if !dedupIndexExists {
		logrus.Info("Creating unique index on queued_messages (campaign_id, phone)...")
		err = db.Exec(`
			CREATE UNIQUE INDEX IF NOT EXISTS uk_queued_messages_campaign_phone
			ON queued_messages(campaign_id, phone)
		`).Error
		if err != nil {
			return fmt.Errorf("failed to create unique index on queued_messages (campaign_id, phone): %w", err)
		}
		logrus.Info("Successfully created unique index on queued_messages (campaign_id, phone)")
	}

	return nil
}

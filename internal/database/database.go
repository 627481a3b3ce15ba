package database

import (
	"context"
	"fmt"
	"time"

	"github.com/otcheredev/axis-clinic-core/internal/models"
	"github.com/otcheredev/axis-clinic-core/internal/storage"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// DB is the global database instance
var DB *gorm.DB

// Config holds database configuration
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	LogLevel string
}

// DSN builds the postgres connection string
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Connect establishes the database connection and runs migrations
func Connect(cfg Config) (*gorm.DB, error) {
	var gormLogger logger.Interface
	switch cfg.LogLevel {
	case "silent":
		gormLogger = logger.Default.LogMode(logger.Silent)
	case "error":
		gormLogger = logger.Default.LogMode(logger.Error)
	case "warn":
		gormLogger = logger.Default.LogMode(logger.Warn)
	default:
		gormLogger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	if err := AutoMigrate(db); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	DB = db
	log.Info().Str("host", cfg.Host).Str("db", cfg.DBName).Msg("Database connected and migrated")
	return db, nil
}

// AutoMigrate runs automatic migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Doctor{},
		&models.Appointment{},
		&models.IdentityAudit{},
		&storage.SessionValue{},
	)
}

// Seed upserts reference doctors and appointments, leaving existing rows untouched
func Seed(ctx context.Context, db *gorm.DB, doctors []models.Doctor, appointments []models.Appointment) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(doctors) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&doctors).Error; err != nil {
				return fmt.Errorf("failed to seed doctors: %w", err)
			}
		}
		if len(appointments) > 0 {
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&appointments).Error; err != nil {
				return fmt.Errorf("failed to seed appointments: %w", err)
			}
		}
		return nil
	})
}

// Close closes the global database connection
func Close() error {
	if DB == nil {
		return nil
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the global database connection
func Ping(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("database not connected")
	}
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

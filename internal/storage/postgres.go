package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SessionValue is one persisted key of a PostgresStore
type SessionValue struct {
	Key       string     `gorm:"type:varchar(255);primaryKey"`
	Value     string     `gorm:"type:text;not null"`
	ExpiresAt *time.Time `gorm:"index"`
	UpdatedAt time.Time
}

// TableName overrides the table name
func (SessionValue) TableName() string {
	return "session_values"
}

// PostgresStore implements Store on a gorm connection
type PostgresStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewPostgresStore creates a store over db. The session_values table must exist.
func NewPostgresStore(db *gorm.DB, ttl time.Duration) *PostgresStore {
	return &PostgresStore{db: db, ttl: ttl, now: time.Now}
}

// Read retrieves a value that has not expired
func (p *PostgresStore) Read(ctx context.Context, key string) (string, bool, error) {
	var row SessionValue
	err := p.db.WithContext(ctx).
		Where("key = ? AND (expires_at IS NULL OR expires_at > ?)", key, p.now().UTC()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return row.Value, true, nil
}

// Write upserts a value
func (p *PostgresStore) Write(ctx context.Context, key, value string) error {
	row := SessionValue{Key: key, Value: value, UpdatedAt: p.now().UTC()}
	if p.ttl > 0 {
		exp := row.UpdatedAt.Add(p.ttl)
		row.ExpiresAt = &exp
	}

	err := p.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

// Remove deletes a value
func (p *PostgresStore) Remove(ctx context.Context, key string) error {
	if err := p.db.WithContext(ctx).Where("key = ?", key).Delete(&SessionValue{}).Error; err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}

// Ping checks the underlying connection
func (p *PostgresStore) Ping(ctx context.Context) error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return fmt.Errorf("postgres store: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close is a no-op, the connection belongs to the database package
func (p *PostgresStore) Close() error {
	return nil
}

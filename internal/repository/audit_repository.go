package repository

import (
	"context"
	"fmt"

	"github.com/otcheredev/axis-clinic-core/internal/models"
	"gorm.io/gorm"
)

// AuditRepository handles identity audit database operations
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// RecordIdentityChange stores one identity change
func (r *AuditRepository) RecordIdentityChange(ctx context.Context, entry *models.IdentityAudit) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create identity audit: %w", err)
	}
	return nil
}

// GetBySessionID retrieves identity changes for a session, newest first
func (r *AuditRepository) GetBySessionID(ctx context.Context, sessionID string, limit int) ([]models.IdentityAudit, error) {
	var entries []models.IdentityAudit
	query := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to get identity audits: %w", err)
	}
	return entries, nil
}

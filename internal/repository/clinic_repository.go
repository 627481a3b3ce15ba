package repository

import (
	"context"
	"fmt"

	"github.com/otcheredev/axis-clinic-core/internal/models"
	"gorm.io/gorm"
)

// ClinicRepository reads doctors and appointments from Postgres
type ClinicRepository struct {
	db *gorm.DB
}

// NewClinicRepository creates a new clinic repository
func NewClinicRepository(db *gorm.DB) *ClinicRepository {
	return &ClinicRepository{db: db}
}

// ListDoctors retrieves the doctor reference list
func (r *ClinicRepository) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	var doctors []models.Doctor
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&doctors).Error; err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

// ListAppointments retrieves every appointment, cancelled ones included.
// Filtering by role is not this layer's job.
func (r *ClinicRepository) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	var appointments []models.Appointment
	if err := r.db.WithContext(ctx).Order("date ASC, id ASC").Find(&appointments).Error; err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

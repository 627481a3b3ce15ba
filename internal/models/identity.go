package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DoctorID identifies a practitioner in the reference list
type DoctorID string

// Identity is who the session is currently acting as.
// ActiveDoctorID is only ever non-empty while Role is RoleDoctor.
type Identity struct {
	Role           Role     `json:"role"`
	ActiveDoctorID DoctorID `json:"active_doctor_id,omitempty"`
}

// DefaultIdentity returns the identity a fresh session starts with
func DefaultIdentity() Identity {
	return Identity{Role: DefaultRole}
}

// HasActiveDoctor reports whether a doctor-role session has picked a doctor
func (i Identity) HasActiveDoctor() bool {
	return i.Role == RoleDoctor && i.ActiveDoctorID != ""
}

// IdentityAudit records one identity change for a session
type IdentityAudit struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SessionID        string    `gorm:"type:varchar(64);not null;index" json:"session_id"`
	PreviousRole     Role      `gorm:"type:varchar(20)" json:"previous_role"`
	Role             Role      `gorm:"type:varchar(20);not null;index" json:"role"`
	PreviousDoctorID DoctorID  `gorm:"type:varchar(64)" json:"previous_doctor_id,omitempty"`
	DoctorID         DoctorID  `gorm:"type:varchar(64);index" json:"doctor_id,omitempty"`
	CreatedAt        time.Time `gorm:"index" json:"timestamp"`
}

// TableName overrides the table name
func (IdentityAudit) TableName() string {
	return "identity_audits"
}

// BeforeCreate hook
func (a *IdentityAudit) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

package models

import "time"

// VisitType says where the visit happens
type VisitType string

const (
	VisitVirtual  VisitType = "virtual"
	VisitInClinic VisitType = "in-clinic"
)

// VisitCategory separates first visits from returning patients
type VisitCategory string

const (
	VisitNewPatient VisitCategory = "new-patient"
	VisitFollowUp   VisitCategory = "follow-up"
)

// Urgency is raised by automated voice outreach. The empty value means none.
type Urgency string

const (
	UrgencyNone   Urgency = ""
	UrgencyLow    Urgency = "low"
	UrgencyMedium Urgency = "medium"
	UrgencyHigh   Urgency = "high"
)

// Rank orders urgencies, higher is more urgent
func (u Urgency) Rank() int {
	switch u {
	case UrgencyHigh:
		return 3
	case UrgencyMedium:
		return 2
	case UrgencyLow:
		return 1
	default:
		return 0
	}
}

// AppointmentStatus holds the patient-progress flags shown on every dashboard
type AppointmentStatus struct {
	Confirmed      bool `gorm:"not null" json:"confirmed"`
	IntakeComplete bool `gorm:"not null" json:"intake_complete"`
	Arrived        bool `gorm:"not null" json:"arrived"`
}

// Appointment is a single booked visit owned by exactly one provider
type Appointment struct {
	ID             string            `gorm:"type:varchar(64);primaryKey" json:"id"`
	PatientName    string            `gorm:"type:varchar(255);not null" json:"patient_name"`
	ProviderName   string            `gorm:"type:varchar(255);not null;index" json:"provider_name"`
	Date           string            `gorm:"type:varchar(32);index" json:"date"`
	Time           string            `gorm:"type:varchar(32)" json:"time"`
	VisitType      VisitType         `gorm:"type:varchar(20)" json:"visit_type"`
	VisitCategory  VisitCategory     `gorm:"type:varchar(20)" json:"visit_category"`
	Status         AppointmentStatus `gorm:"embedded;embeddedPrefix:status_" json:"status"`
	NeedsAttention bool              `gorm:"not null;index" json:"needs_attention"`
	Urgency        Urgency           `gorm:"type:varchar(10)" json:"urgency,omitempty"`
	Cancelled      bool              `gorm:"not null;index" json:"cancelled"`

	Reason string `gorm:"type:text" json:"reason,omitempty"`
	Notes  string `gorm:"type:text" json:"notes,omitempty"`
	Phone  string `gorm:"type:varchar(32)" json:"phone,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// TableName overrides the table name
func (Appointment) TableName() string {
	return "appointments"
}

// HasVoiceAlert reports whether voice outreach flagged this visit
func (a Appointment) HasVoiceAlert() bool {
	return a.Urgency.Rank() > 0
}

// DerivedMetrics are the counters computed from a visible appointment set
type DerivedMetrics struct {
	Total          int `json:"total"`
	Confirmed      int `json:"confirmed"`
	Unconfirmed    int `json:"unconfirmed"`
	IntakeComplete int `json:"intake_complete"`
	MissingIntake  int `json:"missing_intake"`
	Arrived        int `json:"arrived"`
	NeedsAttention int `json:"needs_attention"`
	VoiceAlerts    int `json:"voice_alerts"`
	Virtual        int `json:"virtual"`
	InClinic       int `json:"in_clinic"`
	NewPatients    int `json:"new_patients"`
	FollowUps      int `json:"follow_ups"`
}

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/otcheredev/axis-clinic-core/internal/identity"
	"github.com/otcheredev/axis-clinic-core/internal/metrics"
	"github.com/otcheredev/axis-clinic-core/internal/models"
	"github.com/otcheredev/axis-clinic-core/internal/visibility"
	"github.com/rs/zerolog/log"
)

var (
	// ErrUnknownDoctor is returned for a doctor id missing from the reference list
	ErrUnknownDoctor = errors.New("unknown doctor")
	// ErrForbidden is returned when a doctor session asks for another doctor's data
	ErrForbidden = errors.New("not permitted for the current identity")
)

// Dashboard read outcomes reported to metrics
const (
	outcomeOK                = "ok"
	outcomeSelectionRequired = "doctor_selection_required"
	outcomeError             = "error"
)

// AppointmentSource supplies the full, unfiltered clinic data
type AppointmentSource interface {
	ListDoctors(ctx context.Context) ([]models.Doctor, error)
	ListAppointments(ctx context.Context) ([]models.Appointment, error)
}

// AuditRecorder stores identity changes
type AuditRecorder interface {
	RecordIdentityChange(ctx context.Context, entry *models.IdentityAudit) error
}

// DashboardService builds every role-scoped view. It reads the session
// identity once per call and hands that snapshot to the visibility engine.
type DashboardService struct {
	identities *identity.Manager
	source     AppointmentSource
	audit      AuditRecorder
	metrics    *metrics.Metrics
}

// NewDashboardService creates a new dashboard service. audit and m may be nil.
func NewDashboardService(
	identities *identity.Manager,
	source AppointmentSource,
	audit AuditRecorder,
	m *metrics.Metrics,
) *DashboardService {
	return &DashboardService{
		identities: identities,
		source:     source,
		audit:      audit,
		metrics:    m,
	}
}

// Overview is the landing dashboard for any role
type Overview struct {
	Identity                models.Identity       `json:"identity"`
	Doctor                  *models.Doctor        `json:"doctor,omitempty"`
	DoctorSelectionRequired bool                  `json:"doctor_selection_required"`
	Appointments            []models.Appointment  `json:"appointments"`
	NeedsAttention          []models.Appointment  `json:"needs_attention"`
	Metrics                 models.DerivedMetrics `json:"metrics"`
	AttentionByProvider     map[string]int        `json:"attention_by_provider,omitempty"`
	PersistenceWarning      string                `json:"persistence_warning,omitempty"`
}

// Schedule is one doctor's day
type Schedule struct {
	Doctor       models.Doctor         `json:"doctor"`
	Appointments []models.Appointment  `json:"appointments"`
	Metrics      models.DerivedMetrics `json:"metrics"`
}

// VoiceAlertView lists visits flagged by voice outreach
type VoiceAlertView struct {
	Identity                models.Identity      `json:"identity"`
	DoctorSelectionRequired bool                 `json:"doctor_selection_required"`
	Alerts                  []models.Appointment `json:"alerts"`
}

// Identity returns the session's current identity
func (s *DashboardService) Identity(ctx context.Context, sessionID string) (models.Identity, error) {
	store, err := s.identities.Store(sessionID)
	if err != nil {
		return models.Identity{}, err
	}
	return store.Get(ctx), nil
}

// SetRole switches the session's role
func (s *DashboardService) SetRole(ctx context.Context, sessionID string, role models.Role) (models.Identity, error) {
	store, err := s.identities.Store(sessionID)
	if err != nil {
		return models.Identity{}, err
	}

	before, after, err := store.SetRole(ctx, role)
	if err != nil {
		return models.Identity{}, err
	}

	if after != before {
		s.metrics.ObserveRoleSwitch(after.Role.String())
		s.recordChange(ctx, sessionID, before, after)
	}
	return after, nil
}

// SetActiveDoctor scopes a doctor session to doctorID, or clears it when empty
func (s *DashboardService) SetActiveDoctor(ctx context.Context, sessionID string, doctorID models.DoctorID) (models.Identity, error) {
	store, err := s.identities.Store(sessionID)
	if err != nil {
		return models.Identity{}, err
	}

	if doctorID != "" {
		doctors, err := s.source.ListDoctors(ctx)
		if err != nil {
			return models.Identity{}, fmt.Errorf("failed to list doctors: %w", err)
		}
		if _, ok := visibility.NewEngine(doctors).Doctor(doctorID); !ok {
			return models.Identity{}, fmt.Errorf("%w: %s", ErrUnknownDoctor, doctorID)
		}
	}

	before, after := store.SetActiveDoctor(ctx, doctorID)
	if after != before {
		s.recordChange(ctx, sessionID, before, after)
	}
	return after, nil
}

// Doctors returns the reference list for the doctor picker
func (s *DashboardService) Doctors(ctx context.Context) ([]models.Doctor, error) {
	doctors, err := s.source.ListDoctors(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return visibility.NewEngine(doctors).Doctors(), nil
}

// Overview builds the landing dashboard for the session's identity
func (s *DashboardService) Overview(ctx context.Context, sessionID string) (*Overview, error) {
	store, err := s.identities.Store(sessionID)
	if err != nil {
		return nil, err
	}
	id := store.Get(ctx)

	engine, all, err := s.load(ctx)
	if err != nil {
		s.metrics.ObserveDashboardRead("overview", id.Role.String(), outcomeError)
		return nil, err
	}

	visible := engine.VisibleAppointments(id, all)
	sorted := visibility.SortByTime(visible)

	ov := &Overview{
		Identity:       id,
		Appointments:   sorted,
		NeedsAttention: visibility.NeedsAttention(sorted),
		Metrics:        visibility.DeriveMetrics(visible),
	}
	if warning := store.Warning(); warning != nil {
		ov.PersistenceWarning = "identity changes are not being saved for this session"
	}

	outcome := outcomeOK
	switch {
	case id.Role.ClinicWide():
		ov.AttentionByProvider = visibility.AttentionByProvider(visible)
	case id.Role == models.RoleDoctor:
		if doctor, ok := engine.ResolveDoctor(id); ok {
			ov.Doctor = &doctor
		} else {
			ov.DoctorSelectionRequired = true
			outcome = outcomeSelectionRequired
		}
	}

	s.metrics.ObserveDashboardRead("overview", id.Role.String(), outcome)
	return ov, nil
}

// Schedule returns doctorID's appointments for the day. Clinic-wide roles may
// open any doctor, a doctor session only the doctor it is scoped to.
func (s *DashboardService) Schedule(ctx context.Context, sessionID string, doctorID models.DoctorID) (*Schedule, error) {
	store, err := s.identities.Store(sessionID)
	if err != nil {
		return nil, err
	}
	id := store.Get(ctx)

	engine, all, err := s.load(ctx)
	if err != nil {
		s.metrics.ObserveDashboardRead("schedule", id.Role.String(), outcomeError)
		return nil, err
	}

	doctor, ok := engine.Doctor(doctorID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDoctor, doctorID)
	}
	if !id.Role.ClinicWide() && (!id.HasActiveDoctor() || id.ActiveDoctorID != doctorID) {
		return nil, ErrForbidden
	}

	appointments := visibility.FilterAppointmentsForDoctor(engine.VisibleAppointments(id, all), doctor.Name)

	s.metrics.ObserveDashboardRead("schedule", id.Role.String(), outcomeOK)
	return &Schedule{
		Doctor:       doctor,
		Appointments: visibility.SortByTime(appointments),
		Metrics:      visibility.DeriveMetrics(appointments),
	}, nil
}

// VoiceAlerts lists the visible visits flagged by voice outreach
func (s *DashboardService) VoiceAlerts(ctx context.Context, sessionID string) (*VoiceAlertView, error) {
	store, err := s.identities.Store(sessionID)
	if err != nil {
		return nil, err
	}
	id := store.Get(ctx)

	engine, all, err := s.load(ctx)
	if err != nil {
		s.metrics.ObserveDashboardRead("voice_alerts", id.Role.String(), outcomeError)
		return nil, err
	}

	view := &VoiceAlertView{
		Identity: id,
		Alerts:   visibility.VoiceAlerts(engine.VisibleAppointments(id, all)),
	}

	outcome := outcomeOK
	if id.Role == models.RoleDoctor {
		if _, ok := engine.ResolveDoctor(id); !ok {
			view.DoctorSelectionRequired = true
			outcome = outcomeSelectionRequired
		}
	}
	s.metrics.ObserveDashboardRead("voice_alerts", id.Role.String(), outcome)
	return view, nil
}

func (s *DashboardService) load(ctx context.Context) (*visibility.Engine, []models.Appointment, error) {
	doctors, err := s.source.ListDoctors(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	appointments, err := s.source.ListAppointments(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return visibility.NewEngine(doctors), appointments, nil
}

func (s *DashboardService) recordChange(ctx context.Context, sessionID string, before, after models.Identity) {
	log.Info().
		Str("session_id", sessionID).
		Str("previous_role", before.Role.String()).
		Str("role", after.Role.String()).
		Str("doctor_id", string(after.ActiveDoctorID)).
		Msg("Identity changed")

	if s.audit == nil {
		return
	}
	entry := &models.IdentityAudit{
		SessionID:        sessionID,
		PreviousRole:     before.Role,
		Role:             after.Role,
		PreviousDoctorID: before.ActiveDoctorID,
		DoctorID:         after.ActiveDoctorID,
	}
	if err := s.audit.RecordIdentityChange(ctx, entry); err != nil {
		log.Warn().Err(err).Str("session_id", sessionID).Msg("Failed to record identity change")
	}
}

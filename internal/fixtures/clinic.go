// Package fixtures holds the demo clinic the dashboards run against when no
// database is configured.
package fixtures

import (
	"context"

	"github.com/otcheredev/axis-clinic-core/internal/models"
)

// DemoDate is the schedule day every demo appointment falls on
const DemoDate = "2026-03-02"

// Doctors returns the demo reference list
func Doctors() []models.Doctor {
	return []models.Doctor{
		{ID: "dr-chen", Name: "Dr. Sarah Chen", Specialty: "Internal Medicine", Initials: "SC", Color: "#0d9488"},
		{ID: "dr-lee", Name: "Dr. Marcus Lee", Specialty: "Cardiology", Initials: "ML", Color: "#4f46e5"},
		{ID: "dr-patel", Name: "Dr. Anika Patel", Specialty: "Dermatology", Initials: "AP", Color: "#db2777"},
		{ID: "dr-okafor", Name: "Dr. James Okafor", Specialty: "Family Medicine", Initials: "JO", Color: "#ca8a04"},
	}
}

type row struct {
	id, patient, provider, at string
	visit                     models.VisitType
	category                  models.VisitCategory
	confirmed, intake, here   bool
	attention                 bool
	urgency                   models.Urgency
	cancelled                 bool
	reason                    string
}

var demoRows = []row{
	{"apt-001", "Maria Gonzalez", "Dr. Sarah Chen", "9:00 AM", models.VisitInClinic, models.VisitFollowUp, true, true, true, false, "", false, "Diabetes follow-up"},
	{"apt-002", "Robert Kim", "Dr. Sarah Chen", "9:30 AM", models.VisitVirtual, models.VisitNewPatient, true, false, false, true, models.UrgencyMedium, false, "New patient consult"},
	{"apt-003", "Linda Brooks", "Dr. Sarah Chen", "10:15 AM", models.VisitInClinic, models.VisitFollowUp, false, false, false, true, models.UrgencyHigh, false, "Medication review"},
	{"apt-004", "Ahmed Hassan", "Dr. Sarah Chen", "1:00 PM", models.VisitInClinic, models.VisitFollowUp, true, true, false, false, "", false, "Blood pressure check"},
	{"apt-005", "Emily Watson", "Dr. Sarah Chen", "2:30 PM", models.VisitVirtual, models.VisitFollowUp, false, true, false, false, "", true, "Lab results"},
	{"apt-006", "Thomas Reed", "Dr. Marcus Lee", "8:30 AM", models.VisitInClinic, models.VisitNewPatient, true, true, true, false, "", false, "Chest pain evaluation"},
	{"apt-007", "Grace Liu", "Dr. Marcus Lee", "11:00 AM", models.VisitInClinic, models.VisitFollowUp, true, false, false, true, models.UrgencyLow, false, "Echo follow-up"},
	{"apt-008", "Daniel Ortiz", "Dr. Marcus Lee", "12:00 PM", models.VisitVirtual, models.VisitFollowUp, false, false, false, false, "", false, "Holter review"},
	{"apt-009", "Sophie Martin", "Dr. Anika Patel", "10:00 AM", models.VisitInClinic, models.VisitNewPatient, true, true, false, false, "", false, "Skin check"},
	{"apt-010", "Kevin O'Brien", "Dr. Anika Patel", "3:45 PM", models.VisitVirtual, models.VisitFollowUp, false, false, false, true, models.UrgencyHigh, false, "Rash follow-up"},
	{"apt-011", "Priya Nair", "Dr. James Okafor", "9:15 AM", models.VisitInClinic, models.VisitFollowUp, true, true, true, false, "", false, "Annual physical"},
	{"apt-012", "Carlos Mendes", "Dr. James Okafor", "4:30 PM", models.VisitInClinic, models.VisitNewPatient, false, false, false, false, "", true, "New patient intake"},
}

// Appointments returns the demo schedule
func Appointments() []models.Appointment {
	out := make([]models.Appointment, 0, len(demoRows))
	for _, r := range demoRows {
		out = append(out, models.Appointment{
			ID:             r.id,
			PatientName:    r.patient,
			ProviderName:   r.provider,
			Date:           DemoDate,
			Time:           r.at,
			VisitType:      r.visit,
			VisitCategory:  r.category,
			Status:         models.AppointmentStatus{Confirmed: r.confirmed, IntakeComplete: r.intake, Arrived: r.here},
			NeedsAttention: r.attention,
			Urgency:        r.urgency,
			Cancelled:      r.cancelled,
			Reason:         r.reason,
		})
	}
	return out
}

// Source serves the demo clinic as an appointment source
type Source struct{}

func NewSource() *Source {
	return &Source{}
}

func (s *Source) ListDoctors(ctx context.Context) ([]models.Doctor, error) {
	return Doctors(), nil
}

func (s *Source) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	return Appointments(), nil
}

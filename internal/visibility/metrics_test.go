package visibility

import (
	"math/rand"
	"testing"

	"github.com/otcheredev/axis-clinic-core/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestDeriveMetricsCountsEveryFlag(t *testing.T) {
	appointments := []models.Appointment{
		{
			ProviderName:  "Dr. Chen",
			VisitType:     models.VisitVirtual,
			VisitCategory: models.VisitNewPatient,
			Status:        models.AppointmentStatus{Confirmed: true, IntakeComplete: true, Arrived: true},
			Urgency:       models.UrgencyHigh,
		},
		{
			ProviderName:   "Dr. Chen",
			VisitType:      models.VisitInClinic,
			VisitCategory:  models.VisitFollowUp,
			NeedsAttention: true,
		},
		{
			ProviderName: "Dr. Lee",
			VisitType:    models.VisitInClinic,
			Status:       models.AppointmentStatus{IntakeComplete: true},
		},
	}

	assert.Equal(t, models.DerivedMetrics{
		Total:          3,
		Confirmed:      1,
		Unconfirmed:    2,
		IntakeComplete: 2,
		MissingIntake:  1,
		Arrived:        1,
		NeedsAttention: 1,
		VoiceAlerts:    1,
		Virtual:        1,
		InClinic:       2,
		NewPatients:    1,
		FollowUps:      1,
	}, DeriveMetrics(appointments))
}

func TestCountPartition(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	e := NewEngine([]models.Doctor{drChen, drLee})
	providers := []string{"Dr. Chen", "Dr. Lee", "Dr. Patel"}

	for round := 0; round < 50; round++ {
		n := r.Intn(30)
		all := make([]models.Appointment, 0, n)
		for i := 0; i < n; i++ {
			all = append(all, models.Appointment{
				ProviderName:   providers[r.Intn(len(providers))],
				Status:         models.AppointmentStatus{Confirmed: r.Intn(2) == 0, IntakeComplete: r.Intn(2) == 0},
				NeedsAttention: r.Intn(3) == 0,
				Cancelled:      r.Intn(5) == 0,
			})
		}

		for _, id := range []models.Identity{
			{Role: models.RoleOwner},
			doctorIdentity("dr-chen"),
			doctorIdentity("dr-lee"),
		} {
			visible := e.VisibleAppointments(id, all)
			m := DeriveMetrics(visible)
			assert.Equal(t, len(visible), m.Total)
			assert.Equal(t, m.Total, m.Confirmed+m.Unconfirmed)
			assert.Equal(t, m.Total, m.IntakeComplete+m.MissingIntake)
			assert.LessOrEqual(t, m.MissingIntake, m.Total)
		}
	}
}

func TestNeedsAttentionCountSameFromEveryView(t *testing.T) {
	e := NewEngine([]models.Doctor{drChen, drLee})
	all := scenario()

	clinicWide := e.VisibleAppointments(models.Identity{Role: models.RoleAdmin}, all)
	chenView := e.VisibleAppointments(doctorIdentity("dr-chen"), all)

	assert.Equal(t, NeedsAttentionCount(chenView, ""), NeedsAttentionCount(clinicWide, "Dr. Chen"))
	assert.Equal(t, 2, NeedsAttentionCount(clinicWide, ""))
	assert.Equal(t, 0, NeedsAttentionCount(clinicWide, "Dr. Nobody"))

	assert.Equal(t, map[string]int{"Dr. Chen": 1, "Dr. Lee": 1}, AttentionByProvider(clinicWide))
	assert.Equal(t, []string{"a2", "a3"}, ids(NeedsAttention(clinicWide)))
}

func TestVoiceAlertsOrdering(t *testing.T) {
	mk := func(id, at string, u models.Urgency) models.Appointment {
		a := appt(id, "Dr. Chen", at, true, false)
		a.Urgency = u
		return a
	}
	all := []models.Appointment{
		mk("low-early", "8:00 AM", models.UrgencyLow),
		mk("none", "8:30 AM", models.UrgencyNone),
		mk("high-late", "3:00 PM", models.UrgencyHigh),
		mk("medium", "9:00 AM", models.UrgencyMedium),
		mk("high-early", "10:00 AM", models.UrgencyHigh),
	}

	assert.Equal(t, []string{"high-early", "high-late", "medium", "low-early"}, ids(VoiceAlerts(all)))
}

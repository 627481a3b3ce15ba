package visibility

import (
	"sort"

	"github.com/otcheredev/axis-clinic-core/internal/models"
)

// DeriveMetrics counts status flags over appointments, skipping cancelled ones
func DeriveMetrics(appointments []models.Appointment) models.DerivedMetrics {
	var m models.DerivedMetrics
	for _, a := range appointments {
		if a.Cancelled {
			continue
		}
		m.Total++

		if a.Status.Confirmed {
			m.Confirmed++
		} else {
			m.Unconfirmed++
		}
		if a.Status.IntakeComplete {
			m.IntakeComplete++
		} else {
			m.MissingIntake++
		}
		if a.Status.Arrived {
			m.Arrived++
		}
		if a.NeedsAttention {
			m.NeedsAttention++
		}
		if a.HasVoiceAlert() {
			m.VoiceAlerts++
		}

		switch a.VisitType {
		case models.VisitVirtual:
			m.Virtual++
		case models.VisitInClinic:
			m.InClinic++
		}
		switch a.VisitCategory {
		case models.VisitNewPatient:
			m.NewPatients++
		case models.VisitFollowUp:
			m.FollowUps++
		}
	}
	return m
}

// NeedsAttentionCount counts flagged, non-cancelled appointments. A non-empty
// providerName restricts the count to that provider.
func NeedsAttentionCount(appointments []models.Appointment, providerName string) int {
	scoped := appointments
	if providerName != "" {
		scoped = FilterAppointmentsForDoctor(appointments, providerName)
	}

	n := 0
	for _, a := range scoped {
		if !a.Cancelled && a.NeedsAttention {
			n++
		}
	}
	return n
}

// NeedsAttention returns the flagged, non-cancelled appointments in input order
func NeedsAttention(appointments []models.Appointment) []models.Appointment {
	out := []models.Appointment{}
	for _, a := range appointments {
		if !a.Cancelled && a.NeedsAttention {
			out = append(out, a)
		}
	}
	return out
}

// AttentionByProvider returns the needs-attention count of every provider
// that has at least one non-cancelled appointment
func AttentionByProvider(appointments []models.Appointment) map[string]int {
	out := make(map[string]int)
	for _, a := range appointments {
		if a.Cancelled {
			continue
		}
		if _, seen := out[a.ProviderName]; !seen {
			out[a.ProviderName] = NeedsAttentionCount(appointments, a.ProviderName)
		}
	}
	return out
}

// VoiceAlerts returns non-cancelled appointments flagged by voice outreach,
// most urgent first, then by time of day
func VoiceAlerts(appointments []models.Appointment) []models.Appointment {
	out := []models.Appointment{}
	for _, a := range appointments {
		if !a.Cancelled && a.HasVoiceAlert() {
			out = append(out, a)
		}
	}
	out = SortByTime(out)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Urgency.Rank() > out[j].Urgency.Rank()
	})
	return out
}

package fixtures

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoAppointmentsBelongToKnownDoctors(t *testing.T) {
	names := map[string]bool{}
	for _, d := range Doctors() {
		names[d.Name] = true
	}

	seen := map[string]bool{}
	for _, a := range Appointments() {
		assert.True(t, names[a.ProviderName], "unknown provider %q on %s", a.ProviderName, a.ID)
		assert.False(t, seen[a.ID], "duplicate id %s", a.ID)
		seen[a.ID] = true
	}
}

func TestSource(t *testing.T) {
	s := NewSource()
	doctors, err := s.ListDoctors(context.Background())
	require.NoError(t, err)
	assert.Len(t, doctors, 4)

	appointments, err := s.ListAppointments(context.Background())
	require.NoError(t, err)
	assert.Len(t, appointments, 12)

	// callers get their own copy
	appointments[0].ProviderName = "changed"
	again, _ := s.ListAppointments(context.Background())
	assert.Equal(t, "Dr. Sarah Chen", again[0].ProviderName)
}

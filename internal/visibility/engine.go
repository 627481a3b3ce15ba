// Package visibility decides which appointments an identity may see and
// derives the status counters every dashboard shows.
//
// Every doctor-scoped view filters through FilterAppointmentsForDoctor.
package visibility

import (
	"github.com/otcheredev/axis-clinic-core/internal/models"
)

// Engine resolves identities against the doctor reference list
type Engine struct {
	doctors map[models.DoctorID]models.Doctor
	order   []models.Doctor
}

// NewEngine creates an engine over the doctor reference list
func NewEngine(doctors []models.Doctor) *Engine {
	e := &Engine{
		doctors: make(map[models.DoctorID]models.Doctor, len(doctors)),
		order:   make([]models.Doctor, 0, len(doctors)),
	}
	for _, d := range doctors {
		if d.ID == "" {
			continue
		}
		if _, dup := e.doctors[d.ID]; dup {
			continue
		}
		e.doctors[d.ID] = d
		e.order = append(e.order, d)
	}
	return e
}

// Doctors returns the reference list in input order
func (e *Engine) Doctors() []models.Doctor {
	out := make([]models.Doctor, len(e.order))
	copy(out, e.order)
	return out
}

// Doctor looks up a doctor by id
func (e *Engine) Doctor(id models.DoctorID) (models.Doctor, bool) {
	d, ok := e.doctors[id]
	return d, ok
}

// ResolveDoctor returns the doctor a doctor-role identity is scoped to.
// It reports false for other roles, an unset doctor, or an unknown id.
func (e *Engine) ResolveDoctor(id models.Identity) (models.Doctor, bool) {
	if id.Role != models.RoleDoctor || id.ActiveDoctorID == "" {
		return models.Doctor{}, false
	}
	return e.Doctor(id.ActiveDoctorID)
}

// VisibleAppointments returns the appointments id may see, in input order.
// Clinic-wide roles see every non-cancelled appointment. A doctor sees only
// their own, and nothing at all until a known doctor is selected.
func (e *Engine) VisibleAppointments(id models.Identity, all []models.Appointment) []models.Appointment {
	switch id.Role {
	case models.RoleAdmin, models.RoleOwner:
		return Active(all)
	case models.RoleDoctor:
		doctor, ok := e.ResolveDoctor(id)
		if !ok {
			return []models.Appointment{}
		}
		return FilterAppointmentsForDoctor(all, doctor.Name)
	default:
		return []models.Appointment{}
	}
}

// FilterAppointmentsForDoctor returns the non-cancelled appointments owned by
// exactly doctorName. An empty name matches nothing.
func FilterAppointmentsForDoctor(all []models.Appointment, doctorName string) []models.Appointment {
	out := []models.Appointment{}
	if doctorName == "" {
		return out
	}
	for _, a := range all {
		if !a.Cancelled && a.ProviderName == doctorName {
			out = append(out, a)
		}
	}
	return out
}

// Active drops cancelled appointments
func Active(all []models.Appointment) []models.Appointment {
	out := make([]models.Appointment, 0, len(all))
	for _, a := range all {
		if !a.Cancelled {
			out = append(out, a)
		}
	}
	return out
}

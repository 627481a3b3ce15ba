package handlers

import (
	"github.com/go-chi/chi/v5"
	"github.com/otcheredev/axis-clinic-core/internal/middleware"
)

// RegisterAPI mounts the session-scoped dashboard routes on r
func RegisterAPI(r chi.Router, identity *IdentityHandler, dashboard *DashboardHandler) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionID)

		r.Get("/identity", identity.Get)
		r.Put("/identity/role", identity.SetRole)
		r.Put("/identity/doctor", identity.SetActiveDoctor)

		r.Get("/dashboard", dashboard.Overview)
		r.Get("/schedule/{doctorID}", dashboard.Schedule)
		r.Get("/voice-alerts", dashboard.VoiceAlerts)
	})

	r.Get("/doctors", dashboard.Doctors)
}

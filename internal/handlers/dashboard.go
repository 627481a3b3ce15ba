package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/otcheredev/axis-clinic-core/internal/middleware"
	"github.com/otcheredev/axis-clinic-core/internal/models"
	"github.com/otcheredev/axis-clinic-core/internal/services"
	"github.com/rs/zerolog/log"
)

type DashboardHandler struct {
	dashboard *services.DashboardService
}

func NewDashboardHandler(dashboard *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboard: dashboard,
	}
}

// Overview serves the landing dashboard for the acting identity
func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := middleware.GetSessionID(ctx)
	if !ok {
		http.Error(w, "Session ID not found", http.StatusBadRequest)
		return
	}

	overview, err := h.dashboard.Overview(ctx, sessionID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build overview")
		http.Error(w, "Failed to build dashboard", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, overview)
}

// Schedule serves one doctor's day
func (h *DashboardHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := middleware.GetSessionID(ctx)
	if !ok {
		http.Error(w, "Session ID not found", http.StatusBadRequest)
		return
	}

	doctorID := chi.URLParam(r, "doctorID")
	if doctorID == "" {
		http.Error(w, "Doctor ID is required", http.StatusBadRequest)
		return
	}

	schedule, err := h.dashboard.Schedule(ctx, sessionID, models.DoctorID(doctorID))
	switch {
	case errors.Is(err, services.ErrUnknownDoctor):
		http.Error(w, "Unknown doctor", http.StatusBadRequest)
		return
	case errors.Is(err, services.ErrForbidden):
		http.Error(w, "Schedule not available for the current identity", http.StatusForbidden)
		return
	case err != nil:
		log.Error().Err(err).Str("doctor_id", doctorID).Msg("Failed to build schedule")
		http.Error(w, "Failed to build schedule", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, schedule)
}

// VoiceAlerts serves visits flagged by voice outreach
func (h *DashboardHandler) VoiceAlerts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := middleware.GetSessionID(ctx)
	if !ok {
		http.Error(w, "Session ID not found", http.StatusBadRequest)
		return
	}

	view, err := h.dashboard.VoiceAlerts(ctx, sessionID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build voice alerts")
		http.Error(w, "Failed to build voice alerts", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// Doctors serves the doctor reference list
func (h *DashboardHandler) Doctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.dashboard.Doctors(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to list doctors")
		http.Error(w, "Failed to list doctors", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, doctors)
}

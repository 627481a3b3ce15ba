package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/otcheredev/axis-clinic-core/internal/middleware"
	"github.com/otcheredev/axis-clinic-core/internal/models"
	"github.com/otcheredev/axis-clinic-core/internal/services"
	"github.com/rs/zerolog/log"
)

type IdentityHandler struct {
	dashboard *services.DashboardService
}

func NewIdentityHandler(dashboard *services.DashboardService) *IdentityHandler {
	return &IdentityHandler{
		dashboard: dashboard,
	}
}

type setRoleRequest struct {
	Role string `json:"role"`
}

type setDoctorRequest struct {
	DoctorID string `json:"doctor_id"`
}

// Get returns the session's acting identity
func (h *IdentityHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := middleware.GetSessionID(ctx)
	if !ok {
		http.Error(w, "Session ID not found", http.StatusBadRequest)
		return
	}

	id, err := h.dashboard.Identity(ctx, sessionID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get identity")
		http.Error(w, "Failed to get identity", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, id)
}

// SetRole switches the session's role
func (h *IdentityHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := middleware.GetSessionID(ctx)
	if !ok {
		http.Error(w, "Session ID not found", http.StatusBadRequest)
		return
	}

	var req setRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		http.Error(w, "Role must be one of admin, doctor, owner", http.StatusBadRequest)
		return
	}

	id, err := h.dashboard.SetRole(ctx, sessionID, role)
	if err != nil {
		log.Error().Err(err).Str("role", req.Role).Msg("Failed to set role")
		http.Error(w, "Failed to set role", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, id)
}

// SetActiveDoctor scopes a doctor session, an empty doctor_id clears it
func (h *IdentityHandler) SetActiveDoctor(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID, ok := middleware.GetSessionID(ctx)
	if !ok {
		http.Error(w, "Session ID not found", http.StatusBadRequest)
		return
	}

	var req setDoctorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	id, err := h.dashboard.SetActiveDoctor(ctx, sessionID, models.DoctorID(req.DoctorID))
	if errors.Is(err, services.ErrUnknownDoctor) {
		http.Error(w, "Unknown doctor", http.StatusBadRequest)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("doctor_id", req.DoctorID).Msg("Failed to set active doctor")
		http.Error(w, "Failed to set active doctor", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, id)
}

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/citysense/citysense/internal/models"
)

// ProfileHandler handles GET and POST /api/profile. POST is the onboarding
// submit: validation failure blocks it with nothing persisted.
func (h *Handler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		stored, err := h.profiles.GetProfile(ctx)
		if err != nil {
			h.logger.Error("failed to load profile", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		if stored == nil {
			http.Error(w, "Profile not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, stored)

	case http.MethodPost:
		var incoming models.UserProfile
		if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
			http.Error(w, "Invalid JSON body", http.StatusBadRequest)
			return
		}
		if err := h.profiles.SaveProfile(ctx, &incoming); err != nil {
			var validationErr *models.ValidationError
			if errors.As(err, &validationErr) {
				http.Error(w, validationErr.Error(), http.StatusBadRequest)
				return
			}
			h.logger.Error("failed to save profile", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, incoming)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// ResetProfileHandler handles POST /api/profile/reset: removes the profile,
// user events, and saved ids so the next session onboards fresh.
func (h *Handler) ResetProfileHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.profiles.Reset(r.Context()); err != nil {
		h.logger.Error("failed to reset profile", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ResolveCityHandler handles POST /api/profile/city: geolocates and resolves
// the current city, persisting it on the profile.
func (h *Handler) ResolveCityHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()

	stored, err := h.profiles.GetProfile(ctx)
	if err != nil {
		h.logger.Error("failed to load profile", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if stored == nil {
		http.Error(w, "Profile not found", http.StatusNotFound)
		return
	}

	city := h.orchestrator.ResolveCity(ctx, stored)
	if err := h.profiles.UpdateCity(ctx, city); err != nil {
		h.logger.Warn("failed to persist resolved city", "city", city, "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]string{"city": city})
}

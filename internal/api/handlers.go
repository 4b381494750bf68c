package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/citysense/citysense/internal/ai"
	"github.com/citysense/citysense/internal/models"
	"github.com/citysense/citysense/internal/profile"
	"github.com/citysense/citysense/internal/recs"
)

type Handler struct {
	orchestrator *recs.Orchestrator
	profiles     *profile.Repository
	chat         *ai.ChatService
	logger       *slog.Logger
	startTime    time.Time
}

func NewHandler(orchestrator *recs.Orchestrator, profiles *profile.Repository, chat *ai.ChatService, logger *slog.Logger) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		profiles:     profiles,
		chat:         chat,
		logger:       logger,
		startTime:    time.Now(),
	}
}

// EventsResponse is the payload for feed and search endpoints.
type EventsResponse struct {
	Events []models.Event `json:"events"`
	Count  int            `json:"count"`
	City   string         `json:"city,omitempty"`
}

// GetEventsHandler handles GET /api/events. It returns the merged daily feed:
// cached-or-fetched recommendations behind the user's own events, optionally
// filtered by ?category= and projected to top picks with ?top=true.
func (h *Handler) GetEventsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
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
	if stored == nil || !stored.Onboarded {
		http.Error(w, "Onboarding required", http.StatusConflict)
		return
	}

	previousCity := stored.CurrentCity
	city := h.orchestrator.ResolveCity(ctx, stored)
	if city != previousCity {
		if err := h.profiles.UpdateCity(ctx, city); err != nil {
			h.logger.Warn("failed to persist resolved city", "city", city, "error", err)
		}
	}

	fetched, err := h.orchestrator.LoadDaily(ctx, *stored)
	if err != nil {
		_, message := h.orchestrator.State()
		http.Error(w, message, http.StatusBadGateway)
		return
	}

	userEvents, err := h.profiles.UserEvents(ctx)
	if err != nil {
		h.logger.Warn("failed to load user events, serving fetched only", "error", err)
		userEvents = nil
	}

	events := recs.Merge(userEvents, fetched)
	if category := r.URL.Query().Get("category"); category != "" {
		events = recs.FilterByCategory(events, category)
	}
	if r.URL.Query().Get("top") == "true" {
		events = recs.TopPicks(events)
	}

	writeJSON(w, http.StatusOK, EventsResponse{Events: events, Count: len(events), City: city})
}

// SearchEventsHandler handles GET /api/events/search?q=. Search always
// bypasses the recommendation cache; an empty result is a 200 with an empty
// list, not an error.
func (h *Handler) SearchEventsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		http.Error(w, "Query parameter q is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	city := strings.TrimSpace(r.URL.Query().Get("city"))
	if city == "" {
		stored, err := h.profiles.GetProfile(ctx)
		if err != nil || stored == nil || stored.CurrentCity == "" {
			http.Error(w, "City is required", http.StatusBadRequest)
			return
		}
		city = stored.CurrentCity
	}

	events := h.orchestrator.Search(ctx, city, query)
	writeJSON(w, http.StatusOK, EventsResponse{Events: events, Count: len(events), City: city})
}

// CreateEventHandler handles POST /api/events. User-created events never
// touch the recommendation cache.
func (h *Handler) CreateEventHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var input models.UserEventInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}

	event, err := h.profiles.AddUserEvent(r.Context(), input)
	if err != nil {
		var validationErr *models.ValidationError
		if errors.As(err, &validationErr) {
			http.Error(w, validationErr.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("failed to store user event", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// SavedEventsHandler handles GET /api/saved and POST /api/saved/{id}.
func (h *Handler) SavedEventsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	switch r.Method {
	case http.MethodGet:
		saved, err := h.profiles.SavedIDs(ctx)
		if err != nil {
			h.logger.Error("failed to load saved ids", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		ids := make([]string, 0, len(saved))
		for id := range saved {
			ids = append(ids, id)
		}
		writeJSON(w, http.StatusOK, map[string]any{"ids": ids})

	case http.MethodPost:
		id := strings.TrimPrefix(r.URL.Path, "/api/saved/")
		if id == "" || strings.Contains(id, "/") {
			http.Error(w, "Event ID required", http.StatusBadRequest)
			return
		}
		nowSaved, err := h.profiles.ToggleSaved(ctx, id)
		if err != nil {
			h.logger.Error("failed to toggle saved id", "id", id, "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"id": id, "saved": nowSaved})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// HealthHandler handles GET /api/health.
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	state, _ := h.orchestrator.State()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"state":          state,
		"uptime_seconds": int(time.Since(h.startTime).Seconds()),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Default().Error("failed to encode response", "error", err)
	}
}

package api

import (
	"net/http"
	"strings"

	"log/slog"

	"github.com/citysense/citysense/internal/ai"
	"github.com/citysense/citysense/internal/profile"
	"github.com/citysense/citysense/internal/recs"
)

// SetupRoutes configures all API routes.
func SetupRoutes(mux *http.ServeMux, orchestrator *recs.Orchestrator, profiles *profile.Repository, chat *ai.ChatService, logger *slog.Logger) {
	handler := NewHandler(orchestrator, profiles, chat, logger)

	mux.HandleFunc("/api/health", handler.HealthHandler)

	mux.HandleFunc("/api/events", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			handler.CreateEventHandler(w, r)
			return
		}
		handler.GetEventsHandler(w, r)
	})
	mux.HandleFunc("/api/events/search", handler.SearchEventsHandler)

	mux.HandleFunc("/api/saved", handler.SavedEventsHandler)
	mux.HandleFunc("/api/saved/", handler.SavedEventsHandler)

	mux.HandleFunc("/api/profile", handler.ProfileHandler)
	mux.HandleFunc("/api/profile/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/reset"):
			handler.ResetProfileHandler(w, r)
		case strings.HasSuffix(r.URL.Path, "/city"):
			handler.ResolveCityHandler(w, r)
		default:
			http.Error(w, "Not found", http.StatusNotFound)
		}
	})

	mux.HandleFunc("/api/chat", handler.ChatHandler)
}

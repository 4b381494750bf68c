package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/citysense/citysense/internal/models"
)

// ChatRequest is one inbound concierge turn.
type ChatRequest struct {
	SessionID string `json:"sessionId,omitempty"`
	City      string `json:"city,omitempty"`
	Message   string `json:"message"`
}

// ChatResponse carries the model's reply for a session.
type ChatResponse struct {
	SessionID string             `json:"sessionId"`
	Reply     models.ChatMessage `json:"reply"`
}

// ChatHandler handles POST /api/chat. A collaborator failure still returns
// 200 with an apologetic in-conversation message.
func (h *Handler) ChatHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		http.Error(w, "Message is required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()

	city := req.City
	if city == "" {
		if stored, err := h.profiles.GetProfile(ctx); err == nil && stored != nil {
			city = stored.CurrentCity
		}
	}

	sessionID, reply := h.chat.SendMessage(ctx, req.SessionID, city, req.Message)
	writeJSON(w, http.StatusOK, ChatResponse{SessionID: sessionID, Reply: reply})
}

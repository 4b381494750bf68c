package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"

	"github.com/citysense/citysense/internal/models"
	"github.com/citysense/citysense/internal/recs"
)

// apologyMessage is shown in-conversation when the collaborator fails, so a
// model outage never breaks the chat surface.
const apologyMessage = "Sorry, I'm having trouble answering right now. Please try again in a moment."

// Conversationalist produces one chat reply given the running history.
type Conversationalist interface {
	Chat(ctx context.Context, history []models.ChatMessage, userText string) (string, error)
}

// Chat sends the conversation so far plus a new user turn and returns the raw
// model reply.
func (c *Client) Chat(ctx context.Context, history []models.ChatMessage, userText string) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+2)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: chatSystemPrompt,
	})
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == models.ChatRoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Text})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: userText,
	})

	return c.complete(ctx, messages)
}

// ChatService runs the concierge conversations. Sessions are ephemeral and
// in-memory only; losing them costs context, never correctness.
type ChatService struct {
	model      Conversationalist
	normalizer *recs.Normalizer
	logger     *slog.Logger

	mu       sync.Mutex
	sessions map[string][]models.ChatMessage
}

// NewChatService creates the concierge service.
func NewChatService(model Conversationalist, normalizer *recs.Normalizer, logger *slog.Logger) *ChatService {
	return &ChatService{
		model:      model,
		normalizer: normalizer,
		logger:     logger,
		sessions:   make(map[string][]models.ChatMessage),
	}
}

// SendMessage appends a user turn to the session (creating it when sessionID
// is empty) and returns the session id plus the model's reply. Collaborator
// failures come back as an apologetic in-conversation message, never an error.
func (s *ChatService) SendMessage(ctx context.Context, sessionID, city, text string) (string, models.ChatMessage) {
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	s.mu.Lock()
	history := append([]models.ChatMessage(nil), s.sessions[sessionID]...)
	s.mu.Unlock()

	userTurn := models.ChatMessage{Role: models.ChatRoleUser, Text: text}
	if city != "" {
		userTurn.Text = fmt.Sprintf("[visiting %s] %s", city, text)
	}

	raw, err := s.model.Chat(ctx, history, userTurn.Text)

	var reply models.ChatMessage
	if err != nil {
		s.logger.Warn("chat collaborator failed", "session", sessionID, "error", err)
		reply = models.ChatMessage{Role: models.ChatRoleModel, Text: apologyMessage}
	} else {
		replyText, suggestions := s.extractSuggestions(raw, city)
		reply = models.ChatMessage{Role: models.ChatRoleModel, Text: replyText, Suggestions: suggestions}
	}

	s.mu.Lock()
	s.sessions[sessionID] = append(append(history, userTurn), reply)
	s.mu.Unlock()

	return sessionID, reply
}

// extractSuggestions pulls an optional trailing fenced JSON block of events
// out of the reply, returning the conversational text and the normalized
// suggestions separately.
func (s *ChatService) extractSuggestions(raw, city string) (string, []models.Event) {
	start := strings.Index(raw, "```")
	if start < 0 {
		return strings.TrimSpace(raw), nil
	}

	fenced := raw[start:]
	text := strings.TrimSpace(raw[:start])

	suggestions := s.normalizer.Normalize(fenced, city, "chat")
	if len(suggestions) == 0 {
		return text, nil
	}
	return text, suggestions
}

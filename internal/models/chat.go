package models

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage is one turn of the concierge conversation. Session-scoped only;
// nothing here is persisted by the core.
type ChatMessage struct {
	Role        ChatRole `json:"role"`
	Text        string   `json:"text"`
	Suggestions []Event  `json:"suggestions,omitempty"`
}

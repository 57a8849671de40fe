// Package models contains domain models for docsearch.
package models

// Turn roles. Conversations strictly alternate user/assistant.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single message in a conversation.
type Turn struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// AttachedDocument is a document selected by the caller for a chat round.
// The description carries the full extracted text of the document.
type AttachedDocument struct {
	Filename    string `json:"filename"`
	Description string `json:"description"`
	Category    string `json:"category,omitempty"`
}

// Conversation is a durable, append-only sequence of turns keyed by an id
// unique within its chat mode. Files are replaced from the caller on every
// round so the stored record always reflects the current selection.
type Conversation struct {
	ID        string             `json:"id"`
	CreatedAt string             `json:"created_at"`
	Files     []AttachedDocument `json:"files"`
	Messages  []Turn             `json:"messages"`
	UpdatedAt string             `json:"updated_at,omitempty"`
}

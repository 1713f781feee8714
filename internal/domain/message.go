// Package domain contains core domain types for the chat backend.
package domain

import (
	"time"
)

// Message roles. System messages are injected at prompt-assembly time and
// never persisted.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single chat turn within a session. Messages are append-only:
// once stored they are never mutated or deleted, and id order is the
// authoritative conversation order.
type Message struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

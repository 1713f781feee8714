// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/ashureev/chatline/internal/domain"
)

// Repository defines the interface for persisting chat messages.
// The message log is append-only; there are no update or delete operations.
type Repository interface {
	// AppendMessage inserts one message row for the session.
	AppendMessage(ctx context.Context, sessionID, role, content string) error

	// GetHistory retrieves all messages for a session in insertion order.
	// Returns an empty slice when the session is unknown.
	GetHistory(ctx context.Context, sessionID string) ([]domain.Message, error)

	// Ping verifies database connectivity and returns an error if the database is unreachable.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}

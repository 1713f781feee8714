// Package chat implements session history and prompt assembly on top of
// the message store.
package chat

import (
	"context"
	"fmt"

	"github.com/ashureev/chatline/internal/domain"
	"github.com/ashureev/chatline/internal/llm"
	"github.com/ashureev/chatline/internal/store"
)

const (
	// systemPrompt is prepended to every payload and never persisted.
	systemPrompt = "You are a helpful assistant."

	// historyWindow bounds the model context to the last N stored messages.
	// This is the entire context-management policy: no token counting, no
	// summarization.
	historyWindow = 10
)

// Service wraps the message store with history and prompt operations.
type Service struct {
	repo store.Repository
}

// NewService creates a chat service backed by the given repository.
func NewService(repo store.Repository) *Service {
	return &Service{repo: repo}
}

// RecordUserMessage persists one user turn.
func (s *Service) RecordUserMessage(ctx context.Context, sessionID, text string) error {
	return s.repo.AppendMessage(ctx, sessionID, domain.RoleUser, text)
}

// RecordAssistantMessage persists one assistant turn.
func (s *Service) RecordAssistantMessage(ctx context.Context, sessionID, text string) error {
	return s.repo.AppendMessage(ctx, sessionID, domain.RoleAssistant, text)
}

// History returns the full ordered message list for a session.
func (s *Service) History(ctx context.Context, sessionID string) ([]domain.Message, error) {
	return s.repo.GetHistory(ctx, sessionID)
}

// RecentWindow returns the last n messages in original order, or fewer when
// the history is shorter.
func (s *Service) RecentWindow(ctx context.Context, sessionID string, n int) ([]domain.Message, error) {
	history, err := s.repo.GetHistory(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if n >= len(history) {
		return history, nil
	}
	return history[len(history)-n:], nil
}

// BuildPayload assembles the outbound model context: a fixed system
// instruction followed by the most recent stored messages for the session.
func (s *Service) BuildPayload(ctx context.Context, sessionID string) ([]llm.Message, error) {
	window, err := s.RecentWindow(ctx, sessionID, historyWindow)
	if err != nil {
		return nil, fmt.Errorf("load history window: %w", err)
	}

	payload := make([]llm.Message, 0, len(window)+1)
	payload = append(payload, llm.Message{Role: domain.RoleSystem, Content: systemPrompt})
	for _, msg := range window {
		payload = append(payload, llm.Message{Role: msg.Role, Content: msg.Content})
	}
	return payload, nil
}

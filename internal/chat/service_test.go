package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ashureev/chatline/internal/domain"
)

type fakeRepo struct {
	mu       sync.Mutex
	messages []domain.Message
	nextID   int64
	failAll  bool
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{nextID: 1}
}

func (f *fakeRepo) AppendMessage(_ context.Context, sessionID, role, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return errors.New("database is locked")
	}
	f.messages = append(f.messages, domain.Message{
		ID:        f.nextID,
		SessionID: sessionID,
		Role:      role,
		Content:   content,
	})
	f.nextID++
	return nil
}

func (f *fakeRepo) GetHistory(_ context.Context, sessionID string) ([]domain.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return nil, errors.New("database is locked")
	}
	history := []domain.Message{}
	for _, msg := range f.messages {
		if msg.SessionID == sessionID {
			history = append(history, msg)
		}
	}
	return history, nil
}

func (f *fakeRepo) Ping(_ context.Context) error { return nil }
func (f *fakeRepo) Close() error                 { return nil }

func TestRecordAndHistory(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	if err := svc.RecordUserMessage(ctx, "s1", "hi"); err != nil {
		t.Fatal(err)
	}
	if err := svc.RecordAssistantMessage(ctx, "s1", "hello"); err != nil {
		t.Fatal(err)
	}

	history, err := svc.History(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(history))
	}
	if history[0].Role != domain.RoleUser || history[1].Role != domain.RoleAssistant {
		t.Errorf("unexpected roles %q, %q", history[0].Role, history[1].Role)
	}
}

func TestRecentWindowSuffix(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		if err := svc.RecordUserMessage(ctx, "s1", fmt.Sprintf("msg-%d", i)); err != nil {
			t.Fatal(err)
		}
	}

	for _, n := range []int{0, 1, 10, 15, 20} {
		window, err := svc.RecentWindow(ctx, "s1", n)
		if err != nil {
			t.Fatal(err)
		}

		want := n
		if want > 15 {
			want = 15
		}
		if len(window) != want {
			t.Errorf("n=%d: expected %d messages, got %d", n, want, len(window))
			continue
		}

		// The window must be a suffix of the full history, in order.
		full, err := svc.History(ctx, "s1")
		if err != nil {
			t.Fatal(err)
		}
		offset := len(full) - len(window)
		for i, msg := range window {
			if msg.ID != full[offset+i].ID {
				t.Errorf("n=%d: window[%d] id %d does not match history suffix", n, i, msg.ID)
			}
		}
	}
}

func TestRecentWindowShortHistory(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	if err := svc.RecordUserMessage(ctx, "s1", "only one"); err != nil {
		t.Fatal(err)
	}

	window, err := svc.RecentWindow(ctx, "s1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(window) != 1 {
		t.Errorf("expected 1 message, got %d", len(window))
	}
}

func TestBuildPayload(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		content := fmt.Sprintf("turn-%d", i)
		var err error
		if role == domain.RoleUser {
			err = svc.RecordUserMessage(ctx, "s1", content)
		} else {
			err = svc.RecordAssistantMessage(ctx, "s1", content)
		}
		if err != nil {
			t.Fatal(err)
		}
	}

	payload, err := svc.BuildPayload(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}

	// System instruction plus the last 10 of 12 turns.
	if len(payload) != 11 {
		t.Fatalf("expected 11 payload messages, got %d", len(payload))
	}
	if payload[0].Role != domain.RoleSystem || payload[0].Content != "You are a helpful assistant." {
		t.Errorf("unexpected system message %+v", payload[0])
	}
	if payload[1].Content != "turn-2" {
		t.Errorf("expected window to start at turn-2, got %q", payload[1].Content)
	}
	if payload[10].Content != "turn-11" {
		t.Errorf("expected window to end at turn-11, got %q", payload[10].Content)
	}
}

func TestBuildPayloadEmptySession(t *testing.T) {
	svc := NewService(newFakeRepo())

	payload, err := svc.BuildPayload(context.Background(), "fresh")
	if err != nil {
		t.Fatal(err)
	}
	if len(payload) != 1 {
		t.Fatalf("expected only the system message, got %d entries", len(payload))
	}
	if payload[0].Role != domain.RoleSystem {
		t.Errorf("expected system role, got %q", payload[0].Role)
	}
}

func TestBuildPayloadStoreFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.failAll = true
	svc := NewService(repo)

	if _, err := svc.BuildPayload(context.Background(), "s1"); err == nil {
		t.Fatal("expected error when the store fails")
	}
}

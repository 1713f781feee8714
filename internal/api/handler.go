// Package api provides HTTP handlers for the chat backend.
//
//nolint:revive // "api" package name is intentionally concise for this layer.
package api

import (
	"encoding/json"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ashureev/chatline/internal/chat"
	"github.com/ashureev/chatline/internal/identity"
	"github.com/ashureev/chatline/internal/llm"
	"github.com/go-chi/chi/v5"
)

// Handler serves the chat page and the chat API.
type Handler struct {
	svc       *chat.Service
	completer llm.Completer
	page      *template.Template
}

// NewHandler creates a new Handler with its dependencies.
func NewHandler(svc *chat.Service, completer llm.Completer, page *template.Template) *Handler {
	return &Handler{
		svc:       svc,
		completer: completer,
		page:      page,
	}
}

// RegisterRoutes attaches the chat routes to the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandlePage)
	r.Post("/api/chat", h.HandleChat)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

type chatRequest struct {
	Message string `json:"message"`
}

// HandleChat accepts a user message, forwards the session's recent history
// to the model, persists both turns, and returns the reply. The session
// must already exist: this route never mints tokens, so a client without a
// cookie is told to refresh the page.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	sessionID := identity.FromRequest(r)
	if sessionID == "" {
		Error(w, http.StatusBadRequest, "Session expired, please refresh page.")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		Error(w, http.StatusBadRequest, "Empty message")
		return
	}

	ctx := r.Context()

	if err := h.svc.RecordUserMessage(ctx, sessionID, message); err != nil {
		slog.Error("Failed to record user message", "session_id", sessionID, "error", err)
		Error(w, http.StatusInternalServerError, "Failed to store message")
		return
	}

	payload, err := h.svc.BuildPayload(ctx, sessionID)
	if err != nil {
		slog.Error("Failed to build prompt payload", "session_id", sessionID, "error", err)
		Error(w, http.StatusInternalServerError, "Failed to load history")
		return
	}

	reply, err := h.completer.ChatCompletion(ctx, payload)
	if err != nil {
		// The user message stays persisted: history may contain an
		// unanswered turn after a provider failure.
		slog.Error("Chat completion failed", "session_id", sessionID, "error", err)
		Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := h.svc.RecordAssistantMessage(ctx, sessionID, reply); err != nil {
		slog.Error("Failed to record assistant message", "session_id", sessionID, "error", err)
		Error(w, http.StatusInternalServerError, "Failed to store reply")
		return
	}

	JSON(w, http.StatusOK, map[string]string{"reply": reply})
}

// HandlePage renders the chat page with the session's full history. This is
// the only route that creates sessions: a fresh token is minted when the
// client has none and set as a cookie alongside the rendered body.
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	sessionID, isNew := identity.Resolve(r)

	history, err := h.svc.History(r.Context(), sessionID)
	if err != nil {
		slog.Error("Failed to load chat history", "session_id", sessionID, "error", err)
		Error(w, http.StatusInternalServerError, "Failed to load history")
		return
	}

	if isNew {
		identity.SetSessionCookie(w, sessionID)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.page.Execute(w, map[string]interface{}{"ChatHistory": history}); err != nil {
		slog.Error("Failed to render chat page", "error", err)
	}
}

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/suracI-invert/mock-frontend/internal/models"
	"github.com/suracI-invert/mock-frontend/internal/services"
	"github.com/suracI-invert/mock-frontend/internal/session"
)

type ChatHandler struct {
	chat  *services.ChatService
	store session.Store
}

func NewChatHandler(chat *services.ChatService, store session.Store) *ChatHandler {
	return &ChatHandler{chat: chat, store: store}
}

type chatStateResponse struct {
	State   models.ChatState    `json:"state"`
	Session *models.ChatSession `json:"session,omitempty"`
}

func (h *ChatHandler) State(w http.ResponseWriter, r *http.Request) {
	chat, err := h.chat.Current(r.Context(), currentSession(h.store, r))
	if err != nil {
		var notFound *services.NotFoundError
		if errors.As(err, &notFound) {
			writeJSON(w, http.StatusOK, chatStateResponse{State: models.ChatUninitialized})
			return
		}
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chatStateResponse{State: chat.State(), Session: chat})
}

func (h *ChatHandler) Resume(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	chat, err := h.chat.Resume(r.Context(), currentSession(h.store, r), req.SessionID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chatStateResponse{State: chat.State(), Session: chat})
}

func (h *ChatHandler) SelectLanguage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Lang string `json:"lang"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	chat, err := h.chat.SelectLanguage(r.Context(), currentSession(h.store, r), req.Lang)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chatStateResponse{State: chat.State(), Session: chat})
}

func (h *ChatHandler) Reset(w http.ResponseWriter, r *http.Request) {
	chat, err := h.chat.Reset(r.Context(), currentSession(h.store, r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, chatStateResponse{State: chat.State(), Session: chat})
}

// Send is the plain-HTTP fallback for clients without a websocket: the
// assistant reply is relayed as chunked text, flushed as chunks arrive.
func (h *ChatHandler) Send(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Streaming unsupported", r))
		return
	}

	started := false
	onToken := func(token string) {
		if !started {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		w.Write([]byte(token))
		flusher.Flush()
	}

	chat, err := h.chat.Send(r.Context(), currentSession(h.store, r), req.Message, onToken)
	if err != nil {
		if !started {
			handleServiceError(w, r, err)
		}
		return
	}

	// Nothing streamed means the turn degraded to the synthetic failure
	// message; surface that text so the client still renders a reply.
	if !started && len(chat.History) > 0 {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(chat.History[len(chat.History)-1].Content))
	}
}

// Kickoff synthesizes the opening assistant turn from an exercise-derived
// prompt, relayed the same way as Send.
func (h *ChatHandler) Kickoff(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Streaming unsupported", r))
		return
	}

	started := false
	onToken := func(token string) {
		if !started {
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusOK)
			started = true
		}
		w.Write([]byte(token))
		flusher.Flush()
	}

	chat, err := h.chat.Kickoff(r.Context(), currentSession(h.store, r), req.Prompt, onToken)
	if err != nil {
		if !started {
			handleServiceError(w, r, err)
		}
		return
	}

	if !started && len(chat.History) > 0 {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(chat.History[len(chat.History)-1].Content))
	}
}

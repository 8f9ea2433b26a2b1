package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/suracI-invert/mock-frontend/internal/gateway"
	"github.com/suracI-invert/mock-frontend/internal/middleware"
	"github.com/suracI-invert/mock-frontend/internal/models"
	"github.com/suracI-invert/mock-frontend/internal/services"
	"github.com/suracI-invert/mock-frontend/internal/session"
)

type UserHandler struct {
	accounts *services.AccountService
	store    session.Store
}

func NewUserHandler(accounts *services.AccountService, store session.Store) *UserHandler {
	return &UserHandler{accounts: accounts, store: store}
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var identity models.Identity
	if err := json.NewDecoder(r.Body).Decode(&identity); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	user, err := h.accounts.Login(r.Context(), currentSession(h.store, r), identity)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	force := r.URL.Query().Get("refresh") == "true"

	user, err := h.accounts.Profile(r.Context(), currentSession(h.store, r), force)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	user, err := h.accounts.UpdateProfile(r.Context(), currentSession(h.store, r), req.Name, req.Email)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Logout(r.Context(), currentSession(h.store, r)); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Shared helpers

func currentSession(store session.Store, r *http.Request) *session.Session {
	return session.New(store, middleware.GetSessionID(r.Context()))
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func errorResp(code, message string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func errorRespWithFields(code, message string, fields map[string]string, r *http.Request) models.ErrorResponse {
	return models.ErrorResponse{
		Error: models.APIError{
			Code:      code,
			Message:   message,
			Fields:    fields,
			RequestID: r.Header.Get("X-Request-ID"),
		},
	}
}

func handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var backendErr *gateway.BackendError
	switch e := err.(type) {
	case *services.ValidationError:
		writeJSON(w, http.StatusBadRequest, errorRespWithFields("VALIDATION_ERROR", "Validation failed", e.Fields, r))
	case *services.NotFoundError:
		writeJSON(w, http.StatusNotFound, errorResp("NOT_FOUND", e.Message, r))
	case *services.UnauthorizedError:
		writeJSON(w, http.StatusUnauthorized, errorResp("UNAUTHORIZED", e.Message, r))
	case *services.ConflictError:
		writeJSON(w, http.StatusConflict, errorResp("CONFLICT", e.Message, r))
	case *services.UnsupportedError:
		writeJSON(w, http.StatusUnprocessableEntity, errorResp("UNSUPPORTED", e.Message, r))
	default:
		if errors.Is(err, services.ErrStreamInProgress) {
			writeJSON(w, http.StatusConflict, errorResp("STREAM_IN_PROGRESS", err.Error(), r))
			return
		}
		if errors.As(err, &backendErr) {
			writeJSON(w, http.StatusBadGateway, errorResp("BACKEND_ERROR", backendErr.Error(), r))
			return
		}
		writeJSON(w, http.StatusInternalServerError, errorResp("INTERNAL_ERROR", "Something went wrong", r))
	}
}

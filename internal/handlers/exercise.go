package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/suracI-invert/mock-frontend/internal/services"
	"github.com/suracI-invert/mock-frontend/internal/session"
)

type ExerciseHandler struct {
	exercises *services.ExerciseService
	accounts  *services.AccountService
	store     session.Store
}

func NewExerciseHandler(exercises *services.ExerciseService, accounts *services.AccountService, store session.Store) *ExerciseHandler {
	return &ExerciseHandler{exercises: exercises, accounts: accounts, store: store}
}

func (h *ExerciseHandler) Start(w http.ResponseWriter, r *http.Request) {
	var req struct {
		LessonID int `json:"lesson_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	attempt, err := h.exercises.Start(r.Context(), currentSession(h.store, r), req.LessonID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, attempt)
}

func (h *ExerciseHandler) Current(w http.ResponseWriter, r *http.Request) {
	attempt, err := h.exercises.Current(r.Context(), currentSession(h.store, r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, attempt)
}

func (h *ExerciseHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index         int `json:"index"`
		StudentAnswer int `json:"student_answer"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	attempt, err := h.exercises.Answer(r.Context(), currentSession(h.store, r), req.Index, req.StudentAnswer)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, attempt)
}

func (h *ExerciseHandler) Submit(w http.ResponseWriter, r *http.Request) {
	sess := currentSession(h.store, r)

	user, err := h.accounts.Profile(r.Context(), sess, false)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	grade, err := h.exercises.Submit(r.Context(), sess, user.ID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, grade)
}

func (h *ExerciseHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	if err := h.exercises.Abandon(r.Context(), currentSession(h.store, r)); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Attempt discarded"})
}

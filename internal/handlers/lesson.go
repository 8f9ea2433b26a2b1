package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/suracI-invert/mock-frontend/internal/models"
	"github.com/suracI-invert/mock-frontend/internal/services"
	"github.com/suracI-invert/mock-frontend/internal/session"
)

type lessonGateway interface {
	ListLessons(ctx context.Context) ([]models.Lesson, error)
	GetLesson(ctx context.Context, id int) (*models.Lesson, error)
}

type LessonHandler struct {
	gateway  lessonGateway
	wizard   *services.WizardService
	accounts *services.AccountService
	store    session.Store
}

func NewLessonHandler(gw lessonGateway, wizard *services.WizardService, accounts *services.AccountService, store session.Store) *LessonHandler {
	return &LessonHandler{gateway: gw, wizard: wizard, accounts: accounts, store: store}
}

func (h *LessonHandler) List(w http.ResponseWriter, r *http.Request) {
	lessons, err := h.gateway.ListLessons(r.Context())
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lessons)
}

func (h *LessonHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid lesson ID", r))
		return
	}

	lesson, err := h.gateway.GetLesson(r.Context(), id)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lesson)
}

// ─── Creation wizard ───

func (h *LessonHandler) EnterDraft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Type string `json:"type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	lessonType, err := models.ParseLessonType(req.Type)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid lesson type", r))
		return
	}

	draft, err := h.wizard.Enter(r.Context(), currentSession(h.store, r), lessonType)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *LessonHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := h.wizard.Current(r.Context(), currentSession(h.store, r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *LessonHandler) UpdateDraftPassage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	draft, err := h.wizard.SetPassage(r.Context(), currentSession(h.store, r), req.Text)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *LessonHandler) UpdateDraftQuestions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Questions []models.DraftQuestion `json:"questions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	draft, err := h.wizard.SetQuestions(r.Context(), currentSession(h.store, r), req.Questions)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *LessonHandler) UpdateDraftSpeaking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Topic        string   `json:"topic"`
		MainQuestion string   `json:"main_question"`
		Guidelines   []string `json:"guidelines"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	draft, err := h.wizard.SetSpeaking(r.Context(), currentSession(h.store, r), req.Topic, req.MainQuestion, req.Guidelines)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *LessonHandler) GenerateDraft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Level string `json:"level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	level, err := models.ParseLevel(req.Level)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid level", r))
		return
	}

	draft, err := h.wizard.Generate(r.Context(), currentSession(h.store, r), level)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *LessonHandler) GenerateDraftAudio(w http.ResponseWriter, r *http.Request) {
	draft, err := h.wizard.GenerateAudio(r.Context(), currentSession(h.store, r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

func (h *LessonHandler) SubmitDraft(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Level       string `json:"level"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	level, err := models.ParseLevel(req.Level)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid level", r))
		return
	}

	sess := currentSession(h.store, r)
	author, err := h.accounts.Profile(r.Context(), sess, false)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}

	info := models.LessonInfo{Name: req.Name, Description: req.Description, Level: level}
	summary, err := h.wizard.Submit(r.Context(), sess, info, author.ID)
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *LessonHandler) DraftSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.wizard.Summary(r.Context(), currentSession(h.store, r))
	if err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *LessonHandler) CancelDraft(w http.ResponseWriter, r *http.Request) {
	if err := h.wizard.Cancel(r.Context(), currentSession(h.store, r)); err != nil {
		handleServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Draft discarded"})
}

package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/suracI-invert/mock-frontend/internal/handlers"
	"github.com/suracI-invert/mock-frontend/internal/middleware"
	"github.com/suracI-invert/mock-frontend/internal/websocket"
)

func New(
	sessions *middleware.SessionManager,
	userHandler *handlers.UserHandler,
	lessonHandler *handlers.LessonHandler,
	exerciseHandler *handlers.ExerciseHandler,
	chatHandler *handlers.ChatHandler,
	audioHandler *handlers.AudioHandler,
	chatRelay *websocket.ChatRelay,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Login rate limiter (10 req/min per IP)
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// The websocket relay validates the session cookie itself.
		r.Get("/chat/ws", chatRelay.HandleWebSocket)

		r.Group(func(r chi.Router) {
			r.Use(sessions.Middleware)

			// ──── Auth Routes ────
			r.Route("/auth", func(r chi.Router) {
				r.Group(func(r chi.Router) {
					r.Use(loginLimiter.Middleware)
					r.Post("/login", userHandler.Login)
				})
				r.Post("/logout", userHandler.Logout)
			})

			// ──── User Routes ────
			r.Route("/user", func(r chi.Router) {
				r.Get("/me", userHandler.Me)
				r.Put("/me", userHandler.UpdateMe)
			})

			// ──── Lesson & Wizard Routes ────
			r.Route("/lessons", func(r chi.Router) {
				r.Get("/", lessonHandler.List)

				r.Route("/draft", func(r chi.Router) {
					r.Post("/", lessonHandler.EnterDraft)
					r.Get("/", lessonHandler.GetDraft)
					r.Delete("/", lessonHandler.CancelDraft)
					r.Put("/passage", lessonHandler.UpdateDraftPassage)
					r.Put("/questions", lessonHandler.UpdateDraftQuestions)
					r.Put("/speaking", lessonHandler.UpdateDraftSpeaking)
					r.Post("/generate", lessonHandler.GenerateDraft)
					r.Post("/audio", lessonHandler.GenerateDraftAudio)
					r.Post("/submit", lessonHandler.SubmitDraft)
					r.Get("/summary", lessonHandler.DraftSummary)
				})

				r.Get("/{id}", lessonHandler.Get)
			})

			// ──── Exercise Routes ────
			r.Route("/exercises", func(r chi.Router) {
				r.Post("/start", exerciseHandler.Start)
				r.Get("/", exerciseHandler.Current)
				r.Delete("/", exerciseHandler.Abandon)
				r.Put("/answer", exerciseHandler.Answer)
				r.Post("/submit", exerciseHandler.Submit)
			})

			// ──── Chat Routes ────
			r.Route("/chat", func(r chi.Router) {
				r.Get("/", chatHandler.State)
				r.Post("/resume", chatHandler.Resume)
				r.Post("/language", chatHandler.SelectLanguage)
				r.Post("/reset", chatHandler.Reset)
				r.Post("/message", chatHandler.Send)
				r.Post("/kickoff", chatHandler.Kickoff)
			})

			// ──── Audio Routes ────
			r.Route("/audio", func(r chi.Router) {
				r.Post("/transcribe", audioHandler.Transcribe)
				r.Get("/{uid}", audioHandler.Fetch)
			})
		})
	})

	return r
}

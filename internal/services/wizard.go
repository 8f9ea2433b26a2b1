package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/suracI-invert/mock-frontend/internal/models"
	"github.com/suracI-invert/mock-frontend/internal/session"
)

const (
	minPassageWords = 10
	maxPassageWords = 2000
	minQuestions    = 4
	maxQuestions    = 10
	minAnswers      = 2
	maxAnswers      = 4
	minGuidelines   = 1
	maxGuidelines   = 5
)

type wizardGateway interface {
	GenerateContent(ctx context.Context, req models.GenerateContentRequest) (*models.GeneratedContent, error)
	TextToSpeech(ctx context.Context, transcript string) (string, error)
	AudioURL(uid string) string
	UploadLesson(ctx context.Context, req models.UploadLessonRequest) error
}

// WizardService assembles a lesson payload of one of the three shapes
// before a single upload call. The draft lives in the session store and is
// keyed by its type tag: entering the wizard with a different type silently
// discards the previous draft, which is documented behavior.
type WizardService struct {
	gateway wizardGateway
}

func NewWizardService(gateway wizardGateway) *WizardService {
	return &WizardService{gateway: gateway}
}

// Enter returns the draft for lessonType, resetting it when none exists or
// the stored draft carries a different type tag.
func (s *WizardService) Enter(ctx context.Context, sess *session.Session, lessonType models.LessonType) (*models.LessonDraft, error) {
	if _, err := models.ParseLessonType(string(lessonType)); err != nil {
		return nil, &ValidationError{Fields: map[string]string{"type": "Invalid lesson type"}}
	}

	draft, ok, err := sess.Draft(ctx)
	if err != nil {
		return nil, err
	}
	if ok && draft.Current == lessonType {
		return draft, nil
	}

	draft = &models.LessonDraft{Current: lessonType}
	draft.Valid = validateDraft(draft)
	if err := sess.SetDraft(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// Current returns the in-progress draft.
func (s *WizardService) Current(ctx context.Context, sess *session.Session) (*models.LessonDraft, error) {
	draft, ok, err := sess.Draft(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Message: "No lesson draft in progress"}
	}
	return draft, nil
}

// SetPassage stores the reading paragraph or listening transcript.
func (s *WizardService) SetPassage(ctx context.Context, sess *session.Session, text string) (*models.LessonDraft, error) {
	draft, err := s.Current(ctx, sess)
	if err != nil {
		return nil, err
	}
	if draft.Current == models.LessonSpeaking {
		return nil, &ConflictError{Message: "Speaking drafts have no passage"}
	}

	draft.Text = text
	return s.save(ctx, sess, draft)
}

// SetQuestions replaces the editable question list.
func (s *WizardService) SetQuestions(ctx context.Context, sess *session.Session, questions []models.DraftQuestion) (*models.LessonDraft, error) {
	draft, err := s.Current(ctx, sess)
	if err != nil {
		return nil, err
	}
	if draft.Current == models.LessonSpeaking {
		return nil, &ConflictError{Message: "Speaking drafts have no question list"}
	}

	draft.Questions = questions
	return s.save(ctx, sess, draft)
}

// SetSpeaking stores the speaking topic, main question and guidelines.
func (s *WizardService) SetSpeaking(ctx context.Context, sess *session.Session, topic, mainQuestion string, guidelines []string) (*models.LessonDraft, error) {
	draft, err := s.Current(ctx, sess)
	if err != nil {
		return nil, err
	}
	if draft.Current != models.LessonSpeaking {
		return nil, &ConflictError{Message: "Current draft is not a speaking lesson"}
	}

	draft.Topic = topic
	draft.MainQuestion = mainQuestion
	draft.Guidelines = guidelines
	return s.save(ctx, sess, draft)
}

// Generate asks the backend for candidate content and seeds the editable
// fields with it. The seed does not lock anything: the user keeps editing.
func (s *WizardService) Generate(ctx context.Context, sess *session.Session, level models.Level) (*models.LessonDraft, error) {
	draft, err := s.Current(ctx, sess)
	if err != nil {
		return nil, err
	}
	if !level.Valid() {
		return nil, &ValidationError{Fields: map[string]string{"level": "Invalid level"}}
	}

	var req models.GenerateContentRequest
	switch draft.Current {
	case models.LessonReading:
		if strings.TrimSpace(draft.Text) == "" {
			return nil, &ValidationError{Fields: map[string]string{"text": "Paragraph must not be empty"}}
		}
		req = models.GenerateContentRequest{Text: draft.Text, Level: level, Type: models.LessonReading}
	case models.LessonListening:
		if strings.TrimSpace(draft.Text) == "" {
			return nil, &ValidationError{Fields: map[string]string{"transcript": "Transcript must not be empty"}}
		}
		req = models.GenerateContentRequest{Transcript: draft.Text, Level: level, Type: models.LessonListening}
	case models.LessonSpeaking:
		if strings.TrimSpace(draft.Topic) == "" {
			return nil, &ValidationError{Fields: map[string]string{"topic": "Topic cannot be empty"}}
		}
		req = models.GenerateContentRequest{Text: draft.Topic, Level: level, Type: models.LessonSpeaking}
	}

	content, err := s.gateway.GenerateContent(ctx, req)
	if err != nil {
		return nil, err
	}

	switch draft.Current {
	case models.LessonReading, models.LessonListening:
		draft.Questions = content.Questions
	case models.LessonSpeaking:
		draft.MainQuestion = content.MainQuestion
		draft.Guidelines = content.Guidelines
	}
	return s.save(ctx, sess, draft)
}

// GenerateAudio synthesizes and attaches the listening audio asset.
func (s *WizardService) GenerateAudio(ctx context.Context, sess *session.Session) (*models.LessonDraft, error) {
	draft, err := s.Current(ctx, sess)
	if err != nil {
		return nil, err
	}
	if draft.Current != models.LessonListening {
		return nil, &ConflictError{Message: "Only listening drafts carry audio"}
	}
	if strings.TrimSpace(draft.Text) == "" {
		return nil, &ValidationError{Fields: map[string]string{"transcript": "Transcript must not be empty"}}
	}

	uid, err := s.gateway.TextToSpeech(ctx, draft.Text)
	if err != nil {
		return nil, err
	}

	draft.AudioURL = s.gateway.AudioURL(uid)
	return s.save(ctx, sess, draft)
}

// Submit validates the draft, uploads it once, and on success leaves only a
// display summary behind. A failed upload leaves the draft intact for retry.
func (s *WizardService) Submit(ctx context.Context, sess *session.Session, info models.LessonInfo, authorID int) (*models.LessonSummary, error) {
	draft, err := s.Current(ctx, sess)
	if err != nil {
		return nil, err
	}

	fieldErrors := make(map[string]string)
	if strings.TrimSpace(info.Name) == "" {
		fieldErrors["name"] = "Lesson name is required"
	}
	if strings.TrimSpace(info.Description) == "" {
		fieldErrors["description"] = "Description is required"
	}
	if !info.Level.Valid() {
		fieldErrors["level"] = "Invalid level"
	}
	draft.Valid = validateDraft(draft)
	if draft.Valid != "ok" {
		fieldErrors["draft"] = draft.Valid
	}
	if len(fieldErrors) > 0 {
		if err := sess.SetDraft(ctx, draft); err != nil {
			return nil, err
		}
		return nil, &ValidationError{Fields: fieldErrors}
	}

	var content any
	switch draft.Current {
	case models.LessonReading:
		content = models.ReadingUpload{Text: draft.Text, Questions: draft.Questions}
	case models.LessonListening:
		content = models.ListeningUpload{Transcript: draft.Text, AudioURL: draft.AudioURL, Questions: draft.Questions}
	case models.LessonSpeaking:
		content = models.SpeakingUpload{Topic: draft.Topic, MainQuestion: draft.MainQuestion, Guidelines: draft.Guidelines}
	}

	upload := models.UploadLessonRequest{
		Data: models.UploadLessonData{
			AuthorID:    authorID,
			Name:        info.Name,
			Description: info.Description,
			Type:        draft.Current,
			Level:       info.Level,
			Content:     content,
		},
	}
	if err := s.gateway.UploadLesson(ctx, upload); err != nil {
		return nil, err
	}

	summary := &models.LessonSummary{
		Name:        info.Name,
		Description: info.Description,
		Type:        string(draft.Current),
		Level:       info.Level.String(),
	}
	if err := sess.SetSummary(ctx, summary); err != nil {
		return nil, err
	}
	if err := sess.DeleteDraft(ctx); err != nil {
		return nil, err
	}
	return summary, nil
}

// Cancel discards the draft without submitting.
func (s *WizardService) Cancel(ctx context.Context, sess *session.Session) error {
	return sess.DeleteDraft(ctx)
}

// Summary returns the confirmation left by the last successful submit.
func (s *WizardService) Summary(ctx context.Context, sess *session.Session) (*models.LessonSummary, error) {
	summary, ok, err := sess.Summary(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Message: "No finished lesson to show"}
	}
	return summary, nil
}

func (s *WizardService) save(ctx context.Context, sess *session.Session, draft *models.LessonDraft) (*models.LessonDraft, error) {
	draft.Valid = validateDraft(draft)
	if err := sess.SetDraft(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// validateDraft recomputes the draft's validation message. Submission is
// allowed only when it returns "ok".
func validateDraft(draft *models.LessonDraft) string {
	switch draft.Current {
	case models.LessonReading, models.LessonListening:
		noun := "Paragraph"
		if draft.Current == models.LessonListening {
			noun = "Transcript"
		}
		words := len(strings.Fields(draft.Text))
		if words < minPassageWords {
			return fmt.Sprintf("%s must be more than %d words", noun, minPassageWords)
		}
		if words > maxPassageWords {
			return fmt.Sprintf("%s must be less than %d words", noun, maxPassageWords)
		}
		if len(draft.Questions) < minQuestions || len(draft.Questions) > maxQuestions {
			return fmt.Sprintf("Number of questions must be between %d and %d", minQuestions, maxQuestions)
		}
		for _, q := range draft.Questions {
			if strings.TrimSpace(q.Text) == "" {
				return "Question must not be empty"
			}
			if len(q.Answers) < minAnswers || len(q.Answers) > maxAnswers {
				return fmt.Sprintf("Number of answers must be between %d and %d", minAnswers, maxAnswers)
			}
			for _, a := range q.Answers {
				if strings.TrimSpace(a) == "" {
					return "Answer must not be empty"
				}
			}
			if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Answers) {
				return "Correct answer is out of range"
			}
		}
	case models.LessonSpeaking:
		if strings.TrimSpace(draft.Topic) == "" {
			return "Topic cannot be empty"
		}
		if strings.TrimSpace(draft.MainQuestion) == "" {
			return "Main question cannot be empty"
		}
		if len(draft.Guidelines) < minGuidelines || len(draft.Guidelines) > maxGuidelines {
			return fmt.Sprintf("Number of guidelines must be between %d and %d", minGuidelines, maxGuidelines)
		}
		for _, g := range draft.Guidelines {
			if strings.TrimSpace(g) == "" {
				return "Guideline cannot be empty"
			}
		}
	}
	return "ok"
}

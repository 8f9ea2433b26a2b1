package services

import (
	"context"

	"github.com/suracI-invert/mock-frontend/internal/models"
	"github.com/suracI-invert/mock-frontend/internal/session"
)

type exerciseGateway interface {
	GetLesson(ctx context.Context, id int) (*models.Lesson, error)
	GradeExercise(ctx context.Context, req models.GradeRequest) (*models.Grade, error)
}

// ExerciseService collects a student's answers for one lesson and submits
// them once for grading.
type ExerciseService struct {
	gateway exerciseGateway
}

func NewExerciseService(gateway exerciseGateway) *ExerciseService {
	return &ExerciseService{gateway: gateway}
}

// Start fetches the lesson and opens a fresh attempt. Speaking lessons fail
// closed: the stored attempt entry is cleared and no grading path exists
// for them.
func (s *ExerciseService) Start(ctx context.Context, sess *session.Session, lessonID int) (*models.ExerciseAttempt, error) {
	lesson, err := s.gateway.GetLesson(ctx, lessonID)
	if err != nil {
		if derr := sess.DeleteAttempt(ctx); derr != nil {
			return nil, derr
		}
		return nil, err
	}

	attempt := &models.ExerciseAttempt{
		LessonID:   lesson.ID,
		LessonType: lesson.Type,
		Level:      lesson.Level,
		Answers:    []models.AnswerRecord{},
	}

	switch content := lesson.Content.(type) {
	case models.ReadingContent:
		attempt.Transcript = content.Text
		attempt.Questions = presentQuestions(content.Questions)
	case models.ListeningContent:
		attempt.Transcript = content.Transcript
		attempt.AudioURL = content.AudioURL
		attempt.Questions = presentQuestions(content.Questions)
	case models.SpeakingContent:
		if err := sess.DeleteAttempt(ctx); err != nil {
			return nil, err
		}
		return nil, &UnsupportedError{Message: "Speaking exercises are not supported"}
	default:
		return nil, &UnsupportedError{Message: "Unknown lesson content"}
	}

	if err := sess.SetAttempt(ctx, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// Current returns the attempt in progress.
func (s *ExerciseService) Current(ctx context.Context, sess *session.Session) (*models.ExerciseAttempt, error) {
	attempt, ok, err := sess.Attempt(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &NotFoundError{Message: "No exercise in progress"}
	}
	return attempt, nil
}

// Answer records the student's selection for one question. Re-answering a
// question overwrites the previous record: the latest selection wins.
func (s *ExerciseService) Answer(ctx context.Context, sess *session.Session, questionIndex, studentAnswer int) (*models.ExerciseAttempt, error) {
	attempt, err := s.Current(ctx, sess)
	if err != nil {
		return nil, err
	}
	if attempt.Submitted {
		return nil, &ConflictError{Message: "Attempt already submitted"}
	}

	var question *models.ExerciseQuestion
	for i := range attempt.Questions {
		if attempt.Questions[i].Index == questionIndex {
			question = &attempt.Questions[i]
			break
		}
	}
	if question == nil {
		return nil, &ValidationError{Fields: map[string]string{"index": "No such question"}}
	}
	if studentAnswer < 0 || studentAnswer >= len(question.Answers) {
		return nil, &ValidationError{Fields: map[string]string{"student_answer": "Answer out of range"}}
	}

	record := models.AnswerRecord{
		Index:         question.Index,
		Question:      question.Question,
		Answers:       question.Answers,
		StudentAnswer: studentAnswer,
	}

	replaced := false
	for i := range attempt.Answers {
		if attempt.Answers[i].Index == questionIndex {
			attempt.Answers[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		attempt.Answers = append(attempt.Answers, record)
	}

	if err := sess.SetAttempt(ctx, attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// Submit freezes the attempt into a grading payload and hands it to the
// backend once. A failed call leaves the attempt resubmittable; a success
// closes it.
func (s *ExerciseService) Submit(ctx context.Context, sess *session.Session, userID int) (*models.Grade, error) {
	attempt, err := s.Current(ctx, sess)
	if err != nil {
		return nil, err
	}
	if attempt.Submitted {
		return nil, &ConflictError{Message: "Attempt already submitted"}
	}

	grade, err := s.gateway.GradeExercise(ctx, models.GradeRequest{
		LessonID:   attempt.LessonID,
		UserID:     userID,
		Transcript: attempt.Transcript,
		Level:      attempt.Level,
		LessonType: attempt.LessonType,
		Questions:  attempt.Answers,
	})
	if err != nil {
		return nil, err
	}

	attempt.Submitted = true
	if err := sess.SetAttempt(ctx, attempt); err != nil {
		return nil, err
	}
	return grade, nil
}

// Abandon discards the attempt without grading.
func (s *ExerciseService) Abandon(ctx context.Context, sess *session.Session) error {
	return sess.DeleteAttempt(ctx)
}

func presentQuestions(authored []models.MultipleChoiceQuestion) []models.ExerciseQuestion {
	presented := make([]models.ExerciseQuestion, 0, len(authored))
	for _, q := range authored {
		presented = append(presented, models.ExerciseQuestion{
			Index:    q.Index,
			Question: q.Question,
			Answers:  q.Answers,
		})
	}
	return presented
}

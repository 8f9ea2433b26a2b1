// Package session owns all per-browser-session state: the cached user
// profile, the active chat session, the lesson-creation draft and the
// exercise attempt. Components never share mutable state except through
// this store, and each logical entity has a typed accessor so no caller
// touches raw keys.
package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/suracI-invert/mock-frontend/internal/models"
)

// Store is session-scoped key/value storage. Values live for the duration
// of one browser session and are torn down with it.
type Store interface {
	Get(ctx context.Context, sid, key string) ([]byte, bool, error)
	Set(ctx context.Context, sid, key string, value []byte) error
	Delete(ctx context.Context, sid, key string) error
	Clear(ctx context.Context, sid string) error
}

const (
	keyProfile = "user_info"
	keyChat    = "chat_session"
	keyDraft   = "creating_lesson"
	keySummary = "creating_lesson_info"
	keyAttempt = "exercise_lesson"
)

// Session is a typed view over one session's slice of the store.
type Session struct {
	store Store
	id    string
}

func New(store Store, id string) *Session {
	return &Session{store: store, id: id}
}

func (s *Session) ID() string { return s.id }

func (s *Session) get(ctx context.Context, key string, out any) (bool, error) {
	data, ok, err := s.store.Get(ctx, s.id, key)
	if err != nil {
		return false, fmt.Errorf("session get %s: %w", key, err)
	}
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return false, fmt.Errorf("session decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Session) set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("session encode %s: %w", key, err)
	}
	if err := s.store.Set(ctx, s.id, key, data); err != nil {
		return fmt.Errorf("session set %s: %w", key, err)
	}
	return nil
}

func (s *Session) delete(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, s.id, key); err != nil {
		return fmt.Errorf("session delete %s: %w", key, err)
	}
	return nil
}

func (s *Session) Profile(ctx context.Context) (*models.User, bool, error) {
	var user models.User
	ok, err := s.get(ctx, keyProfile, &user)
	if !ok || err != nil {
		return nil, false, err
	}
	return &user, true, nil
}

func (s *Session) SetProfile(ctx context.Context, user *models.User) error {
	return s.set(ctx, keyProfile, user)
}

func (s *Session) Chat(ctx context.Context) (*models.ChatSession, bool, error) {
	var chat models.ChatSession
	ok, err := s.get(ctx, keyChat, &chat)
	if !ok || err != nil {
		return nil, false, err
	}
	return &chat, true, nil
}

func (s *Session) SetChat(ctx context.Context, chat *models.ChatSession) error {
	return s.set(ctx, keyChat, chat)
}

func (s *Session) DeleteChat(ctx context.Context) error {
	return s.delete(ctx, keyChat)
}

func (s *Session) Draft(ctx context.Context) (*models.LessonDraft, bool, error) {
	var draft models.LessonDraft
	ok, err := s.get(ctx, keyDraft, &draft)
	if !ok || err != nil {
		return nil, false, err
	}
	return &draft, true, nil
}

func (s *Session) SetDraft(ctx context.Context, draft *models.LessonDraft) error {
	return s.set(ctx, keyDraft, draft)
}

func (s *Session) DeleteDraft(ctx context.Context) error {
	return s.delete(ctx, keyDraft)
}

func (s *Session) Summary(ctx context.Context) (*models.LessonSummary, bool, error) {
	var summary models.LessonSummary
	ok, err := s.get(ctx, keySummary, &summary)
	if !ok || err != nil {
		return nil, false, err
	}
	return &summary, true, nil
}

func (s *Session) SetSummary(ctx context.Context, summary *models.LessonSummary) error {
	return s.set(ctx, keySummary, summary)
}

func (s *Session) DeleteSummary(ctx context.Context) error {
	return s.delete(ctx, keySummary)
}

func (s *Session) Attempt(ctx context.Context) (*models.ExerciseAttempt, bool, error) {
	var attempt models.ExerciseAttempt
	ok, err := s.get(ctx, keyAttempt, &attempt)
	if !ok || err != nil {
		return nil, false, err
	}
	return &attempt, true, nil
}

func (s *Session) SetAttempt(ctx context.Context, attempt *models.ExerciseAttempt) error {
	return s.set(ctx, keyAttempt, attempt)
}

func (s *Session) DeleteAttempt(ctx context.Context) error {
	return s.delete(ctx, keyAttempt)
}

// Clear drops every entry of this session, ending it.
func (s *Session) Clear(ctx context.Context) error {
	if err := s.store.Clear(ctx, s.id); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	return nil
}

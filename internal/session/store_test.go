package session

import (
	"context"
	"testing"

	"github.com/suracI-invert/mock-frontend/internal/models"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	if _, ok, err := store.Get(ctx, "s1", "k"); ok || err != nil {
		t.Fatalf("Expected miss on empty store, ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, "s1", "k", []byte("v1")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	data, ok, err := store.Get(ctx, "s1", "k")
	if err != nil || !ok || string(data) != "v1" {
		t.Fatalf("Get = %q, ok=%v, err=%v", data, ok, err)
	}

	// Sessions are isolated.
	if _, ok, _ := store.Get(ctx, "s2", "k"); ok {
		t.Error("Expected miss for another session")
	}

	if err := store.Delete(ctx, "s1", "k"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "s1", "k"); ok {
		t.Error("Expected miss after delete")
	}

	// Deleting a missing key is a no-op.
	if err := store.Delete(ctx, "s1", "missing"); err != nil {
		t.Errorf("Delete of missing key failed: %v", err)
	}

	store.Set(ctx, "s1", "a", []byte("1"))
	store.Set(ctx, "s1", "b", []byte("2"))
	store.Set(ctx, "s2", "a", []byte("3"))
	if err := store.Clear(ctx, "s1"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "s1", "a"); ok {
		t.Error("Expected s1 entries gone after clear")
	}
	if _, ok, _ := store.Get(ctx, "s2", "a"); !ok {
		t.Error("Expected s2 untouched by clearing s1")
	}
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	value := []byte("original")
	store.Set(ctx, "s1", "k", value)
	value[0] = 'X'

	data, _, _ := store.Get(ctx, "s1", "k")
	if string(data) != "original" {
		t.Errorf("Stored value mutated by caller: %q", data)
	}

	data[0] = 'Y'
	again, _, _ := store.Get(ctx, "s1", "k")
	if string(again) != "original" {
		t.Errorf("Stored value mutated through returned slice: %q", again)
	}
}

func TestSessionTypedAccessors(t *testing.T) {
	ctx := context.Background()
	sess := New(NewMemoryStore(), "sid-1")

	// Every entity starts absent.
	if _, ok, _ := sess.Profile(ctx); ok {
		t.Error("Expected no profile initially")
	}
	if _, ok, _ := sess.Chat(ctx); ok {
		t.Error("Expected no chat initially")
	}
	if _, ok, _ := sess.Draft(ctx); ok {
		t.Error("Expected no draft initially")
	}
	if _, ok, _ := sess.Attempt(ctx); ok {
		t.Error("Expected no attempt initially")
	}

	user := &models.User{ID: 7, Name: "Linh", Email: "linh@example.com", IsLoggedIn: true}
	if err := sess.SetProfile(ctx, user); err != nil {
		t.Fatalf("SetProfile failed: %v", err)
	}
	got, ok, err := sess.Profile(ctx)
	if err != nil || !ok {
		t.Fatalf("Profile ok=%v err=%v", ok, err)
	}
	if got.ID != 7 || got.Email != "linh@example.com" || !got.IsLoggedIn {
		t.Errorf("Profile round trip mismatch: %+v", got)
	}

	chat := &models.ChatSession{
		SessionID:        "conv-1",
		Lang:             "english",
		History:          []models.Message{{Role: models.RoleUser, Content: "hi"}},
		LanguageSelected: true,
	}
	if err := sess.SetChat(ctx, chat); err != nil {
		t.Fatalf("SetChat failed: %v", err)
	}
	gotChat, ok, _ := sess.Chat(ctx)
	if !ok || gotChat.SessionID != "conv-1" || len(gotChat.History) != 1 {
		t.Errorf("Chat round trip mismatch: %+v", gotChat)
	}
	if err := sess.DeleteChat(ctx); err != nil {
		t.Fatalf("DeleteChat failed: %v", err)
	}
	if _, ok, _ := sess.Chat(ctx); ok {
		t.Error("Expected chat gone after delete")
	}

	draft := &models.LessonDraft{Current: models.LessonReading, Text: "passage", Valid: "ok"}
	if err := sess.SetDraft(ctx, draft); err != nil {
		t.Fatalf("SetDraft failed: %v", err)
	}
	gotDraft, ok, _ := sess.Draft(ctx)
	if !ok || gotDraft.Current != models.LessonReading || gotDraft.Text != "passage" {
		t.Errorf("Draft round trip mismatch: %+v", gotDraft)
	}

	attempt := &models.ExerciseAttempt{
		LessonID:   3,
		LessonType: models.LessonReading,
		Level:      models.LevelB1,
		Questions:  []models.ExerciseQuestion{{Index: 0, Question: "Q1", Answers: []string{"a", "b"}}},
		Answers:    []models.AnswerRecord{{Index: 0, Question: "Q1", Answers: []string{"a", "b"}, StudentAnswer: 1}},
	}
	if err := sess.SetAttempt(ctx, attempt); err != nil {
		t.Fatalf("SetAttempt failed: %v", err)
	}
	gotAttempt, ok, _ := sess.Attempt(ctx)
	if !ok || gotAttempt.LessonID != 3 || len(gotAttempt.Answers) != 1 {
		t.Errorf("Attempt round trip mismatch: %+v", gotAttempt)
	}

	// Clear ends the session wholesale.
	if err := sess.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, ok, _ := sess.Profile(ctx); ok {
		t.Error("Expected profile gone after clear")
	}
	if _, ok, _ := sess.Draft(ctx); ok {
		t.Error("Expected draft gone after clear")
	}
	if _, ok, _ := sess.Attempt(ctx); ok {
		t.Error("Expected attempt gone after clear")
	}
}

func TestSessionIsolation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	alice := New(store, "sid-alice")
	bob := New(store, "sid-bob")

	if err := alice.SetProfile(ctx, &models.User{ID: 1, Name: "Alice"}); err != nil {
		t.Fatalf("SetProfile failed: %v", err)
	}
	if _, ok, _ := bob.Profile(ctx); ok {
		t.Error("Expected no cross-session visibility")
	}

	if err := alice.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if err := bob.SetProfile(ctx, &models.User{ID: 2, Name: "Bob"}); err != nil {
		t.Fatalf("SetProfile failed: %v", err)
	}
	got, ok, _ := bob.Profile(ctx)
	if !ok || got.Name != "Bob" {
		t.Errorf("Bob's profile affected by Alice's clear: %+v", got)
	}
}

package services

import (
	"context"
	"errors"
	"testing"

	"github.com/suracI-invert/mock-frontend/internal/models"
	"github.com/suracI-invert/mock-frontend/internal/session"
)

type fakeAccountGateway struct {
	users map[string]*models.User

	getErr    error
	createErr error
	updateErr error

	creates []models.CreateUserRequest
	updates []models.UpdateUserRequest
	nextID  int
}

func newFakeAccountGateway() *fakeAccountGateway {
	return &fakeAccountGateway{users: make(map[string]*models.User), nextID: 1}
}

func (f *fakeAccountGateway) GetUser(_ context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	user, ok := f.users[email]
	if !ok {
		return nil, errors.New("user not found")
	}
	copied := *user
	return &copied, nil
}

func (f *fakeAccountGateway) CreateUser(_ context.Context, req models.CreateUserRequest) (*models.User, error) {
	f.creates = append(f.creates, req)
	if f.createErr != nil {
		return nil, f.createErr
	}
	user := &models.User{
		ID:         f.nextID,
		Name:       req.Name,
		Email:      req.Email,
		AvatarURL:  req.AvatarURL,
		IsLoggedIn: req.IsLoggedIn,
	}
	f.nextID++
	f.users[req.Email] = user
	copied := *user
	return &copied, nil
}

func (f *fakeAccountGateway) UpdateUser(_ context.Context, req models.UpdateUserRequest) (*models.User, error) {
	f.updates = append(f.updates, req)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	user := &models.User{
		ID:         req.ID,
		Name:       req.Name,
		Email:      req.Email,
		AvatarURL:  req.AvatarURL,
		IsLoggedIn: req.IsLoggedIn,
	}
	f.users[req.Email] = user
	copied := *user
	return &copied, nil
}

func newAccountFixture(t *testing.T) (*AccountService, *fakeAccountGateway, *session.Session) {
	t.Helper()
	gw := newFakeAccountGateway()
	svc := NewAccountService(gw)
	sess := session.New(session.NewMemoryStore(), "sid-1")
	return svc, gw, sess
}

var testIdentity = models.Identity{
	Name:      "Linh",
	Email:     "linh@example.com",
	AvatarURL: "http://cdn/avatar.png",
}

func TestAccountLogin_FirstLoginCreatesUser(t *testing.T) {
	svc, gw, sess := newAccountFixture(t)
	ctx := context.Background()

	user, err := svc.Login(ctx, sess, testIdentity)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if len(gw.creates) != 1 {
		t.Fatalf("Expected one create call, got %d", len(gw.creates))
	}
	if !gw.creates[0].IsLoggedIn {
		t.Error("Expected user created as logged in")
	}
	if !user.IsLoggedIn || user.Email != testIdentity.Email {
		t.Errorf("Unexpected user: %+v", user)
	}

	cached, ok, err := sess.Profile(ctx)
	if err != nil || !ok {
		t.Fatalf("Expected cached profile, ok=%v err=%v", ok, err)
	}
	if cached.ID != user.ID {
		t.Errorf("Cached profile mismatch: %+v", cached)
	}
}

func TestAccountLogin_ReturningUserFlipsLoginFlag(t *testing.T) {
	svc, gw, sess := newAccountFixture(t)
	ctx := context.Background()
	gw.users[testIdentity.Email] = &models.User{
		ID: 7, Name: "Linh", Email: testIdentity.Email, IsLoggedIn: false,
	}

	user, err := svc.Login(ctx, sess, testIdentity)
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if len(gw.creates) != 0 {
		t.Error("Expected no create call for existing user")
	}
	if len(gw.updates) != 1 || !gw.updates[0].IsLoggedIn {
		t.Errorf("Expected one update flipping is_logged_in, got %+v", gw.updates)
	}
	if !user.IsLoggedIn {
		t.Error("Expected returned user logged in")
	}
}

func TestAccountLogin_AlreadyLoggedInSkipsUpdate(t *testing.T) {
	svc, gw, sess := newAccountFixture(t)
	gw.users[testIdentity.Email] = &models.User{
		ID: 7, Name: "Linh", Email: testIdentity.Email, IsLoggedIn: true,
	}

	if _, err := svc.Login(context.Background(), sess, testIdentity); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if len(gw.updates) != 0 {
		t.Errorf("Expected no update call, got %d", len(gw.updates))
	}
}

func TestAccountLogin_CreateFailureFailsLogin(t *testing.T) {
	svc, gw, sess := newAccountFixture(t)
	ctx := context.Background()
	gw.createErr = errors.New("backend rejected create")

	_, err := svc.Login(ctx, sess, testIdentity)
	if err == nil {
		t.Fatal("Expected login to fail when create fails")
	}

	// No half-logged-in profile may be cached.
	if _, ok, _ := sess.Profile(ctx); ok {
		t.Error("Expected no cached profile after failed login")
	}
}

func TestAccountLogin_UpdateFailureFailsLogin(t *testing.T) {
	svc, gw, sess := newAccountFixture(t)
	ctx := context.Background()
	gw.users[testIdentity.Email] = &models.User{
		ID: 7, Name: "Linh", Email: testIdentity.Email, IsLoggedIn: false,
	}
	gw.updateErr = errors.New("backend rejected update")

	if _, err := svc.Login(ctx, sess, testIdentity); err == nil {
		t.Fatal("Expected login to fail when update fails")
	}
	if _, ok, _ := sess.Profile(ctx); ok {
		t.Error("Expected no cached profile after failed login")
	}
}

func TestAccountLogin_Validation(t *testing.T) {
	tests := []struct {
		name     string
		identity models.Identity
		field    string
	}{
		{"missing name", models.Identity{Email: "a@b.co"}, "name"},
		{"bad email", models.Identity{Name: "Linh", Email: "not-an-email"}, "email"},
		{"empty email", models.Identity{Name: "Linh"}, "email"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, gw, sess := newAccountFixture(t)
			_, err := svc.Login(context.Background(), sess, tc.identity)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if _, ok := vErr.Fields[tc.field]; !ok {
				t.Errorf("Expected field %q in %v", tc.field, vErr.Fields)
			}
			if len(gw.creates)+len(gw.updates) != 0 {
				t.Error("Expected no backend calls for invalid identity")
			}
		})
	}
}

func TestAccountProfile(t *testing.T) {
	svc, gw, sess := newAccountFixture(t)
	ctx := context.Background()
	if _, err := svc.Login(ctx, sess, testIdentity); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	// Cached read does not touch the backend.
	gw.getErr = errors.New("backend down")
	user, err := svc.Profile(ctx, sess, false)
	if err != nil {
		t.Fatalf("Profile failed: %v", err)
	}
	if user.Email != testIdentity.Email {
		t.Errorf("Unexpected profile: %+v", user)
	}

	// Forced refresh falls back to the cache when the backend is down.
	user, err = svc.Profile(ctx, sess, true)
	if err != nil {
		t.Fatalf("Forced Profile failed: %v", err)
	}
	if user.Email != testIdentity.Email {
		t.Errorf("Expected cached fallback, got %+v", user)
	}

	// Forced refresh picks up backend-side changes.
	gw.getErr = nil
	gw.users[testIdentity.Email].Name = "Linh Nguyen"
	user, err = svc.Profile(ctx, sess, true)
	if err != nil {
		t.Fatalf("Forced Profile failed: %v", err)
	}
	if user.Name != "Linh Nguyen" {
		t.Errorf("Expected refreshed name, got %q", user.Name)
	}
}

func TestAccountProfile_NotLoggedIn(t *testing.T) {
	svc, _, sess := newAccountFixture(t)
	_, err := svc.Profile(context.Background(), sess, false)
	var uErr *UnauthorizedError
	if !errors.As(err, &uErr) {
		t.Fatalf("Expected UnauthorizedError, got %v", err)
	}
}

func TestAccountUpdateProfile(t *testing.T) {
	svc, gw, sess := newAccountFixture(t)
	ctx := context.Background()
	if _, err := svc.Login(ctx, sess, testIdentity); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	user, err := svc.UpdateProfile(ctx, sess, "New Name", "new@example.com")
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if user.Name != "New Name" || user.Email != "new@example.com" {
		t.Errorf("Unexpected user: %+v", user)
	}
	if len(gw.updates) != 1 || !gw.updates[0].IsLoggedIn {
		t.Errorf("Expected one logged-in update, got %+v", gw.updates)
	}

	cached, _, _ := sess.Profile(ctx)
	if cached.Name != "New Name" {
		t.Errorf("Expected cache refreshed, got %+v", cached)
	}
}

func TestAccountLogout_ClearsSession(t *testing.T) {
	svc, _, sess := newAccountFixture(t)
	ctx := context.Background()
	if _, err := svc.Login(ctx, sess, testIdentity); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if err := sess.SetChat(ctx, &models.ChatSession{SessionID: "conv-1"}); err != nil {
		t.Fatalf("SetChat failed: %v", err)
	}

	if err := svc.Logout(ctx, sess); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if _, ok, _ := sess.Profile(ctx); ok {
		t.Error("Expected profile cleared on logout")
	}
	if _, ok, _ := sess.Chat(ctx); ok {
		t.Error("Expected chat cleared on logout")
	}
}

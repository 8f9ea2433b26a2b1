package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/suracI-invert/mock-frontend/internal/models"
	"github.com/suracI-invert/mock-frontend/internal/session"
)

type accountGateway interface {
	GetUser(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, req models.UpdateUserRequest) (*models.User, error)
}

// AccountService resolves the identity handed over by the login provider
// into a backend user and keeps the profile cached in the session.
type AccountService struct {
	gateway accountGateway
}

func NewAccountService(gateway accountGateway) *AccountService {
	return &AccountService{gateway: gateway}
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Login looks the user up by email, creating the backend record on first
// login and flipping is_logged_in when needed. A failing create or update
// fails the whole login: the user is never cached as logged in.
func (s *AccountService) Login(ctx context.Context, sess *session.Session, identity models.Identity) (*models.User, error) {
	fieldErrors := make(map[string]string)
	if strings.TrimSpace(identity.Name) == "" {
		fieldErrors["name"] = "Name is required"
	}
	if !emailRegex.MatchString(identity.Email) {
		fieldErrors["email"] = "Invalid email format"
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	user, err := s.gateway.GetUser(ctx, identity.Email)
	if err != nil {
		user, err = s.gateway.CreateUser(ctx, models.CreateUserRequest{
			Name:       identity.Name,
			Email:      identity.Email,
			AvatarURL:  identity.AvatarURL,
			IsLoggedIn: true,
		})
		if err != nil {
			return nil, err
		}
	}

	if !user.IsLoggedIn {
		user, err = s.gateway.UpdateUser(ctx, models.UpdateUserRequest{
			ID:         user.ID,
			Name:       user.Name,
			Email:      user.Email,
			AvatarURL:  user.AvatarURL,
			IsLoggedIn: true,
		})
		if err != nil {
			return nil, err
		}
	}

	if err := sess.SetProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Profile returns the logged-in user. With force it re-fetches from the
// backend, falling back to the cached copy if the backend is unreachable.
func (s *AccountService) Profile(ctx context.Context, sess *session.Session, force bool) (*models.User, error) {
	cached, ok, err := sess.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &UnauthorizedError{Message: "Not logged in"}
	}
	if !force {
		return cached, nil
	}

	user, err := s.gateway.GetUser(ctx, cached.Email)
	if err != nil {
		return cached, nil
	}
	if err := sess.SetProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateProfile pushes a name/email change to the backend and refreshes the
// cached profile on success.
func (s *AccountService) UpdateProfile(ctx context.Context, sess *session.Session, name, email string) (*models.User, error) {
	cached, ok, err := sess.Profile(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &UnauthorizedError{Message: "Not logged in"}
	}

	fieldErrors := make(map[string]string)
	if strings.TrimSpace(name) == "" {
		fieldErrors["name"] = "Name is required"
	}
	if !emailRegex.MatchString(email) {
		fieldErrors["email"] = "Invalid email format"
	}
	if len(fieldErrors) > 0 {
		return nil, &ValidationError{Fields: fieldErrors}
	}

	user, err := s.gateway.UpdateUser(ctx, models.UpdateUserRequest{
		ID:         cached.ID,
		Name:       name,
		Email:      email,
		AvatarURL:  cached.AvatarURL,
		IsLoggedIn: true,
	})
	if err != nil {
		return nil, err
	}

	if err := sess.SetProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout tears down the whole session: profile cache, chat, draft, attempt.
func (s *AccountService) Logout(ctx context.Context, sess *session.Session) error {
	return sess.Clear(ctx)
}

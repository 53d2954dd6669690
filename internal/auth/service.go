package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/minimarket/storefront/internal/events"
	"github.com/minimarket/storefront/internal/hash"
	"github.com/minimarket/storefront/internal/logging"
	"github.com/minimarket/storefront/internal/models"
	"github.com/minimarket/storefront/internal/store"
	"github.com/minimarket/storefront/internal/tokens"
)

// ErrInvalidCredentials is returned for an unknown username and for a
// wrong password alike; login never reveals which part was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

var ErrUsernameTaken = store.ErrUsernameTaken

type Service struct {
	Users    store.UserStore
	Carts    store.CartStore
	Tokens   *tokens.Issuer
	Producer *events.Producer
}

func (s *Service) Signup(ctx context.Context, username, password string) (string, *models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("signup_error", "reason", "cannot hash the password", "error", err)
		return "", nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: pwHash,
	}
	if err := s.Users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			l.Warn("signup_rejected", "reason", "username already exists", "username", username)
		} else {
			l.Error("signup_error", "error", err)
		}
		return "", nil, err
	}

	// Every account starts with an empty cart.
	if err := s.Carts.SaveCart(ctx, user.ID, nil); err != nil {
		l.Error("signup_error", "reason", "cannot create cart", "error", err)
		return "", nil, err
	}

	token, err := s.Tokens.Issue(user.ID, user.Username)
	if err != nil {
		l.Error("signup_error", "reason", "cannot issue token", "error", err)
		return "", nil, err
	}

	if err := s.Producer.PublishEvent(ctx, events.TopicUsers, user.ID, map[string]any{
		"type":     "user_registered",
		"userID":   user.ID,
		"username": user.Username,
	}); err != nil {
		l.Error("kafka_publish_error", "error", err)
	}

	l.Info("signup_success", "username", username)
	return token, user, nil
}

func (s *Service) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			l.Warn("login_rejected", "username", username)
			return "", nil, ErrInvalidCredentials
		}
		l.Error("login_error", "error", err)
		return "", nil, err
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_rejected", "username", username)
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.Tokens.Issue(user.ID, user.Username)
	if err != nil {
		l.Error("login_error", "reason", "cannot issue token", "error", err)
		return "", nil, err
	}

	if err := s.Producer.PublishEvent(ctx, events.TopicUsers, user.ID, map[string]any{
		"type":     "user_logged_in",
		"userID":   user.ID,
		"username": user.Username,
	}); err != nil {
		l.Error("kafka_publish_error", "error", err)
	}

	l.Info("login_success", "username", username)
	return token, user, nil
}

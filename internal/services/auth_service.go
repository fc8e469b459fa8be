package services

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"laborctl/internal/models"
	"laborctl/internal/session"
	"laborctl/internal/workflow"
)

// AuthService logs the admin in and out. Every open entity session is closed
// when the login goes away, whether by logout or by the backend expiring it.
type AuthService struct {
	auth       AuthStore
	session    *session.Session
	dispatcher *workflow.Dispatcher
}

func NewAuthService(auth AuthStore, sess *session.Session, dispatcher *workflow.Dispatcher) *AuthService {
	s := &AuthService{auth: auth, session: sess, dispatcher: dispatcher}
	sess.Subscribe(func(ev session.Event) {
		if ev == session.EventLogout || ev == session.EventExpired {
			dispatcher.CloseAll()
		}
		if ev == session.EventExpired {
			log.Warn("session expired, log in again")
		}
	})
	return s
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("email and password are required: %w", models.ErrValidation)
	}
	sess, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	log.WithField("email", email).Info("logged in")
	return sess, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	if !s.session.Authenticated() {
		return models.ErrNotLoggedIn
	}
	return s.auth.Logout(ctx)
}

func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	if !s.session.Authenticated() {
		return nil, models.ErrNotLoggedIn
	}
	return s.auth.Me(ctx)
}

func (s *AuthService) Authenticated() bool {
	return s.session.Authenticated()
}

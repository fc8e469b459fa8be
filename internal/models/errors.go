package models

import (
	"errors"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation error")

	ErrActionNotAllowed      = errors.New("action not allowed in current status")
	ErrActionInFlight        = errors.New("another action is already in progress")
	ErrUnsupportedTransition = errors.New("unsupported status transition")
	ErrSessionClosed         = errors.New("session closed")

	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotLoggedIn        = errors.New("not logged in")
)

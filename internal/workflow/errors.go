package workflow

import (
	"fmt"

	"laborctl/internal/api"
	"laborctl/internal/models"
)

// ValidationError is raised before any backend call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return models.ErrValidation }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// ActionError is a dispatched action that the backend refused or that never
// reached it. The local entity is unchanged when one is returned.
type ActionError struct {
	Action string
	// Message is what the admin should see.
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Action, e.Message)
}

func (e *ActionError) Unwrap() error { return e.Err }

func actionFailed(action, fallback string, err error) error {
	return &ActionError{
		Action:  action,
		Message: api.MessageOf(err, fallback),
		Err:     err,
	}
}

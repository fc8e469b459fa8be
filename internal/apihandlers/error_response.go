package apihandlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"laborctl/internal/models"
)

// APIError defines standard error response
// Example: { "error": { "code": "bad_request", "message": "Invalid ID" } }
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error APIError `json:"error"`
}

// JSONError sends a structured error response
func JSONError(ctx *gin.Context, status int, code, msg string) {
	ctx.JSON(status, errorResponse{Error: APIError{Code: code, Message: msg}})
}

// Convenience wrappers
func BadRequest(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusBadRequest, "bad_request", msg)
}

func Unauthorized(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusUnauthorized, "unauthorized", msg)
}

func NotFound(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusNotFound, "not_found", msg)
}

func Internal(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusInternalServerError, "internal_error", msg)
}

func Conflict(ctx *gin.Context, msg string) {
	JSONError(ctx, http.StatusConflict, "conflict", msg)
}

// respondError maps a service error onto the matching error response.
func respondError(ctx *gin.Context, err error) {
	msg := err.Error()
	switch {
	case errors.Is(err, models.ErrValidation):
		BadRequest(ctx, msg)
	case errors.Is(err, models.ErrNotFound):
		NotFound(ctx, msg)
	case errors.Is(err, models.ErrSessionExpired),
		errors.Is(err, models.ErrNotLoggedIn),
		errors.Is(err, models.ErrInvalidCredentials):
		Unauthorized(ctx, msg)
	case errors.Is(err, models.ErrActionNotAllowed),
		errors.Is(err, models.ErrActionInFlight),
		errors.Is(err, models.ErrUnsupportedTransition),
		errors.Is(err, models.ErrSessionClosed),
		errors.Is(err, models.ErrConflict):
		Conflict(ctx, msg)
	default:
		log.WithError(err).WithField("path", ctx.FullPath()).Error("request failed")
		Internal(ctx, msg)
	}
}

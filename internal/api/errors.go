package api

import (
	"errors"
	"net/http"

	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/googleauth"
	"github.com/taskdeck/taskdeck-api/internal/service"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// MapErrorToStatusCode maps known service, store and domain errors to HTTP
// status codes. Unknown errors map to 500.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrExternalIdentityUnverified),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, googleauth.ErrInvalidAccessToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, googleauth.ErrMissingAccessToken):
		return http.StatusBadRequest

	// Not found errors
	case errors.Is(err, store.ErrTaskNotFound),
		errors.Is(err, store.ErrUserNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Validation errors
	case errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrEmptyEmail),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrPasswordTooLong),
		errors.Is(err, domain.ErrNoCredentials),
		errors.Is(err, domain.ErrEmptyTaskTitle),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for known errors.
// Internal details never leak into the response body.
func GetSafeErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid email or password"
	case errors.Is(err, service.ErrPasswordRequired):
		return "Password is required"
	case errors.Is(err, service.ErrExternalIdentityUnverified):
		return "External identity could not be verified"
	case errors.Is(err, googleauth.ErrInvalidAccessToken):
		return "Invalid access token"
	case errors.Is(err, googleauth.ErrMissingAccessToken):
		return "Access token is required"
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrExpiredRefreshToken):
		return "Refresh token expired"
	case errors.Is(err, auth.ErrInvalidRefreshToken):
		return "Invalid refresh token"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"
	case errors.Is(err, auth.ErrMissingToken):
		return "Authentication required"
	case errors.Is(err, domain.ErrUnauthorized):
		return "Not authorized"
	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrEmailExists):
		return "Email already registered"
	case errors.Is(err, domain.ErrInvalidStatus):
		return "Invalid task status"
	case errors.Is(err, domain.ErrEmptyEmail), errors.Is(err, domain.ErrInvalidEmail):
		return "A valid email is required"
	case errors.Is(err, domain.ErrPasswordTooShort):
		return "Password must be at least 8 characters"
	case errors.Is(err, domain.ErrPasswordTooLong):
		return "Password must be at most 72 characters"
	case errors.Is(err, domain.ErrNoCredentials):
		return "A password or external identity is required"
	case errors.Is(err, domain.ErrEmptyTaskTitle):
		return "Task title is required"
	case errors.Is(err, domain.ErrValidation), errors.Is(err, store.ErrInvalidEntity):
		var validationErr *domain.ValidationError
		if errors.As(err, &validationErr) {
			return validationErr.Message
		}
		return "Invalid request"
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid identifier"
	default:
		return "An internal error occurred"
	}
}

// HandleAPIError maps an error to a status code and safe message, logs the
// underlying error, and writes the response. Handlers call this for every
// error path that is not a malformed request body.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/overload-api/internal/api/shared"
	"github.com/phrazzld/overload-api/internal/domain"
	"github.com/phrazzld/overload-api/internal/domain/difficulty"
	"github.com/phrazzld/overload-api/internal/domain/progression"
	"github.com/phrazzld/overload-api/internal/service"
	"github.com/phrazzld/overload-api/internal/service/auth"
	"github.com/phrazzld/overload-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes. Unknown
// errors become 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, progression.ErrSessionNotOwned):
		return http.StatusForbidden

	case errors.Is(err, progression.ErrProgressNotFound),
		errors.Is(err, progression.ErrSessionNotFound),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, progression.ErrDuplicateProgress),
		errors.Is(err, progression.ErrSessionAlreadyCompleted),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	case errors.Is(err, difficulty.ErrInvalidRepCount):
		return http.StatusUnprocessableEntity

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidExercise),
		errors.Is(err, domain.ErrInvalidCompletion),
		errors.Is(err, domain.ErrNotesTooLong),
		errors.Is(err, difficulty.ErrUnknownTier),
		errors.Is(err, store.ErrInvalidEntity),
		isUserInputError(err):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

func isUserInputError(err error) bool {
	for _, target := range []error{
		domain.ErrEmptyEmail,
		domain.ErrInvalidEmail,
		domain.ErrEmptyUsername,
		domain.ErrInvalidUsername,
		domain.ErrEmptyPassword,
		domain.ErrPasswordTooShort,
		domain.ErrPasswordTooLong,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// GetSafeErrorMessage returns a client-facing message for err that never
// includes internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var repErr *difficulty.RepCountError
	if errors.As(err, &repErr) {
		if repErr.Tier == "" {
			return "Reps must be a positive number"
		}
		return fmt.Sprintf("Reps for %s must be between %d and %d", repErr.Tier, repErr.Low, repErr.High)
	}

	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		return fmt.Sprintf("Invalid %s: %s", valErr.Field, valErr.Message)
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"
	case errors.Is(err, auth.ErrMissingToken):
		return "Authorization header required"
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, progression.ErrSessionNotOwned):
		return "You do not own this session"

	case errors.Is(err, progression.ErrProgressNotFound):
		return "Progress not found"
	case errors.Is(err, progression.ErrSessionNotFound):
		return "Session not found"
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, progression.ErrDuplicateProgress),
		errors.Is(err, store.ErrProgressExists):
		return "Progress for this exercise already exists"
	case errors.Is(err, progression.ErrSessionAlreadyCompleted):
		return "Session already completed"
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"
	case errors.Is(err, store.ErrUsernameExists):
		return "Username already exists"

	case errors.Is(err, domain.ErrInvalidExercise):
		return "Unknown exercise"
	case errors.Is(err, difficulty.ErrUnknownTier):
		return "Unknown difficulty"
	case errors.Is(err, domain.ErrNotesTooLong):
		return fmt.Sprintf("Notes must be at most %d characters", domain.MaxNotesLength)
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID format"
	case isUserInputError(err):
		return capitalize(rootCause(err).Error())
	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns validator errors into a message naming the
// first failing field.
func SanitizeValidationError(err error) string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return "Validation error"
	}

	fe := fieldErrs[0]
	return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
}

// HandleAPIError writes the status and safe message for err. A non-empty
// fallback replaces the generic message of 500 responses.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min", "gte", "gt":
		return "too small"
	case "max", "lte", "lt":
		return "too large"
	case "oneof":
		return "invalid value"
	case "uuid":
		return "invalid ID format"
	default:
		return "validation failed"
	}
}

func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

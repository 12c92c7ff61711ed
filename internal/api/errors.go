package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/promoterhq/promoter-api/internal/domain"
	"github.com/promoterhq/promoter-api/internal/orchestrator"
	"github.com/promoterhq/promoter-api/internal/store"
	"github.com/promoterhq/promoter-api/internal/tool"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// leaking internal error types or messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Connection acquisition timed out: the database is saturated but the
	// waiting queue still has room. Retryable after backoff.
	case errors.Is(err, store.ErrAcquireTimeout):
		return http.StatusServiceUnavailable

	// The waiting queue itself is full. The caller is shedding load.
	case errors.Is(err, store.ErrPoolOverloaded):
		return http.StatusTooManyRequests

	// Caller mistakes.
	case errors.Is(err, store.ErrEmptyThreadID),
		errors.Is(err, domain.ErrInvalidTaskStatus),
		errors.Is(err, domain.ErrBackwardTaskStatus),
		errors.Is(err, domain.ErrEmptyTaskType),
		errors.Is(err, tool.ErrInvalidArguments):
		return http.StatusBadRequest

	case errors.Is(err, domain.ErrTaskAlreadyRegistered):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for err.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, store.ErrAcquireTimeout):
		return "Database is busy, please retry shortly"

	case errors.Is(err, store.ErrPoolOverloaded):
		return "Server is overloaded, please retry later"

	case errors.Is(err, store.ErrEmptyThreadID):
		return "thread_id is required"

	case errors.Is(err, domain.ErrInvalidTaskStatus):
		return "Invalid task status"

	case errors.Is(err, domain.ErrBackwardTaskStatus):
		return "Task status cannot move backwards"

	case errors.Is(err, domain.ErrEmptyTaskType):
		return "Task type is required for new tasks"

	case errors.Is(err, domain.ErrTaskAlreadyRegistered):
		return "Task already exists"

	case errors.Is(err, tool.ErrInvalidArguments):
		return "Invalid tool arguments"

	case errors.Is(err, orchestrator.ErrModelFailure):
		return "Language model request failed"

	case errors.Is(err, orchestrator.ErrStepLimitExceeded):
		return "Conversation turn exceeded the step limit"

	case errors.Is(err, store.ErrInvalidState):
		return "Stored conversation state is corrupt"

	default:
		return "An unexpected error occurred"
	}
}

// SanitizeValidationError turns a validator error into a user-facing message
// naming the field and the constraint without echoing the submitted value.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// validator's message format:
	// "Key: 'ChatRequest.ThreadID' Error:Field validation for 'ThreadID' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}
				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, validationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

func validationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "gte":
		return "must not be negative"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

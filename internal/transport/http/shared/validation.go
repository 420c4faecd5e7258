package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	"worklog/internal/domain/apperr"
	"worklog/internal/domain/auth"
	"worklog/internal/platform/requestctx"
	"worklog/internal/transport/http/api"
)

func FailValidation(w http.ResponseWriter, requestID string, issues []apperr.FieldIssue) {
	api.FailWithDetails(
		w,
		http.StatusBadRequest,
		"validation_error",
		"payload validation failed",
		map[string]any{"fields": issues},
		requestID,
	)
}

// Decode reads a JSON body into dst. On failure the response has already
// been written and false is returned.
func Decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}
	requestID := requestctx.GetRequestID(r.Context())
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", requestID)
		return false
	}
	api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestID)
	return false
}

// WriteError maps a domain error onto the response envelope.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestctx.GetRequestID(r.Context())
	switch {
	case errors.Is(err, apperr.ErrValidation):
		FailValidation(w, requestID, apperr.Issues(err))
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid email or password", requestID)
	case errors.Is(err, auth.ErrUnauthenticated):
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
	case errors.Is(err, apperr.ErrDuplicateEmail):
		api.Fail(w, http.StatusConflict, "duplicate_email", apperr.ErrDuplicateEmail.Error(), requestID)
	case errors.Is(err, apperr.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "record not found", requestID)
	case errors.Is(err, apperr.ErrPermissionDenied):
		api.Fail(w, http.StatusForbidden, "forbidden", "not allowed", requestID)
	case errors.Is(err, apperr.ErrTransient):
		api.Fail(w, http.StatusServiceUnavailable, "unavailable", apperr.ErrTransient.Error(), requestID)
	default:
		requestctx.Logger(r.Context(), nil).Error("request failed", "path", r.URL.Path, "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "something went wrong", requestID)
	}
}

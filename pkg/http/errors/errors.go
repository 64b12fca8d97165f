package errors

import (
	"encoding/json"
	"net/http"

	"github.com/gokatarajesh/cbt-platform/internal/apperr"
)

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Message string                 `json:"message"`
	Field   string                 `json:"field,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// RespondError writes a standardized error response to the HTTP response writer
func RespondError(w http.ResponseWriter, status int, code, message string) {
	writeError(w, status, ErrorResponse{Error: code, Message: message})
}

// RespondValidationError writes a validation error response with field information
func RespondValidationError(w http.ResponseWriter, code, message, field string) {
	writeError(w, http.StatusBadRequest, ErrorResponse{Error: code, Message: message, Field: field})
}

// RespondErrorWithDetails writes an error response with additional details
func RespondErrorWithDetails(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	writeError(w, status, ErrorResponse{Error: code, Message: message, Details: details})
}

// RespondInternalError writes an internal server error response
func RespondInternalError(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusInternalServerError, ErrCodeInternalError, message)
}

// RespondNotFound writes a not found error response
func RespondNotFound(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusNotFound, code, message)
}

// RespondUnauthorized writes an unauthorized error response
func RespondUnauthorized(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusUnauthorized, code, message)
}

// RespondForbidden writes a forbidden error response
func RespondForbidden(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusForbidden, code, message)
}

// RespondBadRequest writes a bad request error response
func RespondBadRequest(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusBadRequest, code, message)
}

// RespondServiceUnavailable writes a service unavailable error response
func RespondServiceUnavailable(w http.ResponseWriter, code, message string) {
	RespondError(w, http.StatusServiceUnavailable, code, message)
}

// RespondAppError maps an apperr kind onto its status code. Errors outside the
// taxonomy become a 500 whose message does not leak the cause. It returns the
// status written so callers can decide whether to log.
func RespondAppError(w http.ResponseWriter, err error) int {
	e, ok := apperr.As(err)
	if !ok {
		RespondInternalError(w, "internal server error")
		return http.StatusInternalServerError
	}

	var status int
	var code string
	switch e.Kind {
	case apperr.KindNotFound:
		status, code = http.StatusNotFound, ErrCodeNotFound
	case apperr.KindForbidden:
		status, code = http.StatusForbidden, ErrCodeForbidden
	case apperr.KindInvalidInput:
		status, code = http.StatusBadRequest, ErrCodeValidationFailed
	case apperr.KindConflict:
		status, code = http.StatusConflict, ErrCodeConflict
	case apperr.KindUnauthorized:
		status, code = http.StatusUnauthorized, ErrCodeUnauthorized
	default:
		RespondInternalError(w, "internal server error")
		return http.StatusInternalServerError
	}

	writeError(w, status, ErrorResponse{Error: code, Message: e.Reason, Field: e.Field})
	return status
}

func writeError(w http.ResponseWriter, status int, body ErrorResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"pamigay-backend/internal/domain"
	"pamigay-backend/internal/logger"
)

const (
	headerContentType   = "Content-Type"
	headerAuthorization = "Authorization"
	contentTypeJSON     = "application/json; charset=utf-8"
)

// HTTPError carries a status code and a user-facing message.
type HTTPError struct {
	cause   error
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.cause
}

func errBadRequest(message string, cause error) *HTTPError {
	return &HTTPError{cause: cause, Code: http.StatusBadRequest, Message: message}
}

func errUnauthenticated(message string, cause error) *HTTPError {
	return &HTTPError{cause: cause, Code: http.StatusUnauthorized, Message: message}
}

// AppHandler is a handler that returns an error instead of writing one.
type AppHandler func(w http.ResponseWriter, r *http.Request) error

// MakeHandler adapts an AppHandler to http.HandlerFunc, converting any
// returned error into a JSON error response.
func MakeHandler(handler AppHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := handler(w, r)
		if err == nil {
			return
		}
		code, message := statusFor(err)

		logFn := logger.WarnContext
		if code >= http.StatusInternalServerError {
			logFn = logger.ErrorContext
		}
		logFn(r.Context(), "Request failed", "method", r.Method, "path", r.URL.Path, "status", code, "error", err)

		respondJSON(w, code, map[string]string{"error": message})
	}
}

// statusFor maps an error to a status code and the message returned to the
// client. Storage failures never leak their cause.
func statusFor(err error) (int, string) {
	var httpErr *HTTPError
	switch {
	case errors.As(err, &httpErr):
		return httpErr.Code, httpErr.Message
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrDeadlineExpired):
		return http.StatusGone, err.Error()
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, err.Error()
	default:
		return http.StatusInternalServerError, "Internal Server Error"
	}
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal JSON response", "error", err)
		w.Header().Set(headerContentType, contentTypeJSON)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Internal Server Error"}`))
		return
	}
	w.Header().Set(headerContentType, contentTypeJSON)
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

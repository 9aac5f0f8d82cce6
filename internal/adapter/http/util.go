package adapthttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"claimportal/internal/domain"
	"claimportal/internal/validate"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

// parseJSON decodes the request body into dst. An empty body leaves dst
// untouched so that field validation reports what is missing.
func parseJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

// statusFor maps a service error onto an HTTP status code.
func statusFor(err error) int {
	var (
		storeErr    *domain.StoreError
		internalErr *domain.InternalError
	)
	switch {
	case errors.As(err, &storeErr), errors.As(err, &internalErr):
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound),
		errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError writes err with its mapped status and logs server faults.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.log.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"request_id", requestIDFromContext(r.Context()),
			"error", err,
		)
		var (
			storeErr    *domain.StoreError
			internalErr *domain.InternalError
		)
		if !errors.As(err, &storeErr) && !errors.As(err, &internalErr) {
			err = &domain.InternalError{Err: err}
		}
	}
	writeError(w, status, err)
}

// flexString accepts any JSON scalar. Falsy values decode to "".
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch v.(type) {
	case map[string]any, []any:
		return fmt.Errorf("expected a string or number, got %s", b)
	}
	if !validate.Truthy(v) {
		*f = ""
		return nil
	}
	*f = flexString(validate.Text(v))
	return nil
}

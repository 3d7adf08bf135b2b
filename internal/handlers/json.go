package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"gorm.io/gorm"

	"recipecost/internal/costing"
	applog "recipecost/internal/log"
	"recipecost/internal/store"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// errorStatus maps domain and storage errors to an HTTP status and a message
// safe to show to the user. Costing errors carry their own message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, costing.ErrValidation):
		return http.StatusUnprocessableEntity, detail(err, costing.ErrValidation)
	case errors.Is(err, costing.ErrInvalidInput):
		return http.StatusBadRequest, detail(err, costing.ErrInvalidInput)
	case errors.Is(err, costing.ErrIncompatibleUnits):
		return http.StatusBadRequest, detail(err, costing.ErrIncompatibleUnits)
	case errors.Is(err, store.ErrUnauthenticated):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, store.ErrForbidden):
		return http.StatusForbidden, "you are not allowed to do that"
	case errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, gorm.ErrInvalidDB):
		return http.StatusServiceUnavailable, "storage is not available"
	default:
		return http.StatusInternalServerError, "something went wrong, please try again"
	}
}

// detail drops the sentinel prefix from a wrapped costing error.
func detail(err, sentinel error) string {
	message := strings.TrimPrefix(err.Error(), sentinel.Error()+": ")
	if message == "" {
		return sentinel.Error()
	}
	return message
}

func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, message := errorStatus(err)
	switch {
	case status >= http.StatusInternalServerError:
		applog.Error(r.Context(), "request failed", "error", err, "path", r.URL.Path)
	case status == http.StatusForbidden:
		applog.Warn(r.Context(), "request forbidden", "error", err, "path", r.URL.Path)
	default:
		applog.Debug(r.Context(), "request rejected", "error", err, "status", status)
	}
	writeJSONError(w, status, message)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid request payload: %v", costing.ErrInvalidInput, err)
	}
	return nil
}

package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/gorm"

	"recipecost/internal/costing"
	applog "recipecost/internal/log"
	"recipecost/internal/store"
)

func TestErrorStatus(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err     error
		status  int
		message string
	}{
		{fmt.Errorf("%w: recipe name is required", costing.ErrValidation), http.StatusUnprocessableEntity, "recipe name is required"},
		{fmt.Errorf("%w: margin is not a number", costing.ErrInvalidInput), http.StatusBadRequest, "margin is not a number"},
		{costing.ErrIncompatibleUnits, http.StatusBadRequest, costing.ErrIncompatibleUnits.Error()},
		{store.ErrForbidden, http.StatusForbidden, "you are not allowed to do that"},
		{fmt.Errorf("get recipe: %w", gorm.ErrRecordNotFound), http.StatusNotFound, "not found"},
		{gorm.ErrInvalidDB, http.StatusServiceUnavailable, "storage is not available"},
	}
	for _, tc := range cases {
		status, message := errorStatus(tc.err)
		if status != tc.status || message != tc.message {
			t.Fatalf("errorStatus(%v) = %d %q, want %d %q", tc.err, status, message, tc.status, tc.message)
		}
	}
}

func TestWriteDomainErrorWarnsOnForbidden(t *testing.T) {
	original := applog.Logger()
	t.Cleanup(func() { applog.ReplaceLogger(original) })
	var buf bytes.Buffer
	applog.ReplaceLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})))

	w := httptest.NewRecorder()
	writeDomainError(w, httptest.NewRequest(http.MethodPost, "/app/api/materials", nil), store.ErrForbidden)

	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if !strings.Contains(buf.String(), "level=WARN") || !strings.Contains(buf.String(), "request forbidden") {
		t.Fatalf("expected warn log entry, got %q", buf.String())
	}

	buf.Reset()
	writeDomainError(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/app/api/materials", nil), costing.ErrValidation)
	if buf.Len() != 0 {
		t.Fatalf("expected validation rejections below warn level, got %q", buf.String())
	}
}

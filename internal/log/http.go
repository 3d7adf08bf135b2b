package log

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// RequestLogger writes one line per HTTP request to the global logger.
// Server errors are logged at error level, everything else at debug.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		args := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
		}
		if id := middleware.GetReqID(r.Context()); id != "" {
			args = append(args, "requestID", id)
		}
		if status >= http.StatusInternalServerError {
			Error(r.Context(), "http request failed", args...)
			return
		}
		Debug(r.Context(), "http request served", args...)
	})
}

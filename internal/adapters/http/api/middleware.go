package api

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/okian/classplay/pkg/metrics"
)

// MetricsMiddleware records count, latency and error class of every request
// served by next under the endpoint label.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		code := strconv.Itoa(status)
		metrics.RecordHTTPRequest(endpoint, r.Method, code)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, code, float64(time.Since(start).Milliseconds()))

		if status >= http.StatusBadRequest {
			class := errorClass(status)
			metrics.RecordErrorByEndpoint(endpoint, r.Method, class)
			metrics.RecordErrorByType(class, errorSeverity(status))
		}
	}
}

// errorClass names the failure the way the error bodies do.
func errorClass(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "incomplete_selection"
	case http.StatusGone:
		return "session_closed"
	case http.StatusTooManyRequests:
		return "capacity"
	}
	if status >= http.StatusInternalServerError {
		return "internal_error"
	}
	return "bad_request"
}

// errorSeverity is high for server faults. A child clicking check too early
// is not an incident.
func errorSeverity(status int) string {
	if status >= http.StatusInternalServerError {
		return "high"
	}
	return "low"
}

package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/promoterhq/promoter-api/internal/api/shared"
)

// SlowRequestThreshold is the duration beyond which a request is logged as
// slow. Orchestration cycles call the model while holding the thread lock,
// so slow requests translate directly into queued-up threads.
const SlowRequestThreshold = time.Second

// TimingMiddleware logs each request's duration and escalates to WARN when
// it exceeds SlowRequestThreshold.
func TimingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		elapsed := time.Since(start)

		attrs := []any{
			slog.String("trace_id", shared.GetTraceID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Duration("duration", elapsed),
		}
		if elapsed > SlowRequestThreshold {
			slog.Warn("slow request", attrs...)
			return
		}
		slog.Debug("request completed", attrs...)
	})
}

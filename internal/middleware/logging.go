package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

type RequestLogger struct {
	logr *zap.Logger
}

// NewRequestLogger creates a reusable access-log middleware instance
func NewRequestLogger(logr *zap.Logger) *RequestLogger {
	return &RequestLogger{logr: logr}
}

// Handler logs one line per request once the response is written. The wrapped
// writer keeps http.Hijacker, so websocket upgrades pass through.
func (m *RequestLogger) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := []zap.Field{
				zap.String("request_id", chimw.GetReqID(r.Context())),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			}
			switch {
			case status >= http.StatusInternalServerError:
				m.logr.Error("request", fields...)
			case status >= http.StatusBadRequest:
				m.logr.Warn("request", fields...)
			default:
				m.logr.Info("request", fields...)
			}
		}()

		next.ServeHTTP(ww, r)
	})
}

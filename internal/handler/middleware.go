package handler

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// statusRecorder remembers the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// LoggingMiddleware logs every request at debug level.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("slot", r.URL.Query().Get("slot")).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("Handled request")
	})
}

// RecoveryMiddleware turns a panic in a handler into a 500 response.
func (h *Handler) RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				log.Error().
					Interface("panic", p).
					Str("path", r.URL.Path).
					Msg("Recovered from panic in handler")
				writeJSON(w, http.StatusInternalServerError, map[string]string{
					"error":   "api.internal",
					"message": h.translator.Translate("api.internal", h.localeOf(r)),
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

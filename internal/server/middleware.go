package server

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"hubportal/internal/logging"
	"hubportal/internal/services"
)

func (s *Server) withMiddleware(next http.Handler) http.Handler {
	return s.requestLog(s.auth(next))
}

// auth enforces the optional bearer token on /api routes. The websocket
// relay stays open: browser WebSocket clients cannot set headers.
func (s *Server) auth(next http.Handler) http.Handler {
	token := strings.TrimSpace(s.cfg.Server.APIToken)
	if token == "" {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/api/") {
			next.ServeHTTP(w, r)
			return
		}
		presented := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			s.writeError(w, http.StatusUnauthorized, "invalid or missing api token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requestLog tags each request with a correlation id and logs completion.
func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Websocket upgrades need the raw ResponseWriter for hijacking.
		if strings.HasPrefix(r.URL.Path, "/ws/") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := uuid.NewString()
		ctx := services.WithRequestID(r.Context(), requestID)
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		start := time.Now()
		next.ServeHTTP(recorder, r.WithContext(ctx))

		s.logger.Info("request completed",
			logging.String(logging.FieldCorrelationID, requestID),
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", recorder.status),
			logging.Duration("duration", time.Since(start)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

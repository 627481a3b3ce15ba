package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type contextKey string

const SessionIDKey contextKey = "session_id"

// SessionHeader carries the caller's session id
const SessionHeader = "X-Session-ID"

// SessionID middleware extracts the session id from header
func SessionID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(SessionHeader))
		if raw == "" {
			log.Warn().Str("path", r.URL.Path).Msg("Missing X-Session-ID header")
			http.Error(w, "X-Session-ID header is required", http.StatusBadRequest)
			return
		}

		sessionID, err := uuid.Parse(raw)
		if err != nil {
			log.Warn().Err(err).Str("session_id", raw).Msg("Invalid session ID")
			http.Error(w, "Invalid X-Session-ID format", http.StatusBadRequest)
			return
		}

		ctx := context.WithValue(r.Context(), SessionIDKey, sessionID.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID extracts the session id from context
func GetSessionID(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(SessionIDKey).(string)
	return sessionID, ok && sessionID != ""
}

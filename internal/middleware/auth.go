package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/gainworld/travel-guide/internal/session"
)

type contextKey string

const subjectContextKey contextKey = "subject_id"

// SubjectFromContext extracts the authenticated subject ID from the request
// context. ok is false when the request did not pass through Auth.
func SubjectFromContext(r *http.Request) (string, bool) {
	subject, ok := r.Context().Value(subjectContextKey).(string)
	return subject, ok
}

// WithSubject returns a context carrying the subject ID. Exposed for handler
// tests that bypass the middleware.
func WithSubject(ctx context.Context, subjectID string) context.Context {
	return context.WithValue(ctx, subjectContextKey, subjectID)
}

// Auth creates middleware requiring an authenticated session. Requests
// without the logged-in marker are rejected with 401 before reaching the
// handler, so unauthenticated calls never touch storage.
func Auth(sessions *session.Manager, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject, err := sessions.Subject(r)
			if err != nil {
				logger.Debug("unauthenticated_request",
					zap.String("path", r.URL.Path),
				)
				respondError(w, http.StatusUnauthorized, "User not logged in", logger)
				return
			}

			ctx := WithSubject(r.Context(), subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func respondError(w http.ResponseWriter, status int, message string, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(map[string]string{"error": message}); err != nil {
		logger.Error("failed_to_encode_error_response", zap.Error(err))
	}
}

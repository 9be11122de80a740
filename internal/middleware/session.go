package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"codecanvas-backend/internal/session"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// SessionAuth resolves the session cookie once per request and attaches
// the user id to the request context. Page routes redirect to /login on
// failure; API routes answer with a structured 401.
type SessionAuth struct {
	sessions *session.Manager
}

func NewSessionAuth(sessions *session.Manager) *SessionAuth {
	return &SessionAuth{sessions: sessions}
}

func (a *SessionAuth) RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := a.resolve(r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), UserIDKey, userID)))
	})
}

func (a *SessionAuth) RequireAPI(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := a.resolve(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Unauthorized", r)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), UserIDKey, userID)))
	})
}

func (a *SessionAuth) resolve(r *http.Request) (int64, bool) {
	cookie, err := r.Cookie(session.CookieName)
	if err != nil {
		return 0, false
	}
	userID, err := a.sessions.Resolve(r.Context(), cookie.Value)
	if err != nil {
		return 0, false
	}
	return userID, true
}

// GetUserID extracts the authenticated user id from the request context.
func GetUserID(ctx context.Context) int64 {
	id, _ := ctx.Value(UserIDKey).(int64)
	return id
}

func writeError(w http.ResponseWriter, status int, code, message string, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": GetRequestID(r.Context()),
		},
	})
}

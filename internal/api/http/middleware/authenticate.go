package middleware

import (
	"net/http"
	"strings"

	"github.com/filevault/filevault-server/internal/logger"
	"github.com/filevault/filevault-server/internal/model"
)

// Authenticate is the session guard. It parses the Authorization header,
// verifies the session token and attaches the user ID to the request
// context. A missing, malformed or invalid token leaves the context
// anonymous; failures are logged here and surfaced only by the
// operations that require identity.
type Authenticate struct {
	tokenManager   model.TokenManager
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(tokenManager model.TokenManager, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{tokenManager: tokenManager, contextManager: contextManager, logger: logger}
}

// Handler wraps next with bearer token verification.
func (m *Authenticate) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			next.ServeHTTP(w, r)
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		userID, err := m.tokenManager.ParseSessionToken(tokenString)
		if err != nil {
			m.logger.Info("invalid or expired session token", "error", err.Error())
			next.ServeHTTP(w, r)
			return
		}

		ctx := m.contextManager.SetUserIDToContext(r.Context(), userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

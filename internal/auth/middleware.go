// Package auth verifies identity-provider tokens and resolves them to the
// internal user once per request.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/unclebandit/coldreach-backend/internal/model"
	"github.com/unclebandit/coldreach-backend/internal/repository"
)

type ctxKey string

const userKey ctxKey = "user"

// WithUser stores the resolved user in ctx.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, userKey, u)
}

func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey).(*model.User)
	return u, ok && u != nil
}

// UserID returns the internal user id, or "" outside an authenticated request.
func UserID(ctx context.Context) string {
	if u, ok := UserFromContext(ctx); ok {
		return u.ID
	}
	return ""
}

type Session struct {
	Verifier *Verifier
	Users    repository.UserRepositoryInterface
	Logger   *zap.Logger
}

// Middleware rejects requests without a valid token and makes the internal
// user available to handlers through UserFromContext.
func (s *Session) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			unauthorized(w, "missing token")
			return
		}
		claims, err := s.Verifier.Verify(raw)
		if err != nil {
			s.Logger.Debug("rejected token", zap.Error(err))
			unauthorized(w, "invalid token")
			return
		}

		u, err := s.Users.Upsert(r.Context(), &model.User{ID: claims.Subject, Email: claims.Email, Name: claims.Name})
		if err != nil {
			s.Logger.Error("failed to resolve session user", zap.String("subject", claims.Subject), zap.Error(err))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "Internal server error"})
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

// bearerToken reads the Authorization header. Browsers cannot set headers
// on websocket upgrades, so the token query parameter is accepted too.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
			return strings.TrimSpace(h[7:])
		}
		return ""
	}
	return r.URL.Query().Get("token")
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

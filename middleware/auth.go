package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Dosada05/arena/utils"
)

type contextKey string

const accessContextKey contextKey = "access"

// access - результат аутентификации запроса.
type access struct {
	claims   *utils.TokenClaims
	enforced bool
}

type Authenticator struct {
	secret   []byte
	enforced bool
	logger   *slog.Logger
}

// NewAuthenticator: при enforced=false все маршруты открыты, но переданный
// токен всё равно проверяется.
func NewAuthenticator(secret string, enforced bool, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{secret: []byte(secret), enforced: enforced, logger: logger}
}

func (a *Authenticator) Enforced() bool { return a.enforced }

// Authenticate разбирает необязательный bearer токен. Битый или просроченный
// токен всегда получает 401.
func (a *Authenticator) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acc := access{enforced: a.enforced}

		header := r.Header.Get("Authorization")
		if header != "" {
			scheme, raw, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
				writeError(w, http.StatusUnauthorized, "invalid authorization header")
				return
			}
			claims, err := utils.ParseToken(a.secret, strings.TrimSpace(raw))
			if err != nil {
				a.logger.DebugContext(r.Context(), "Rejected bearer token", slog.Any("error", err))
				writeError(w, http.StatusUnauthorized, err.Error())
				return
			}
			acc.claims = claims
		}

		ctx := context.WithValue(r.Context(), accessContextKey, acc)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth требует токен, если аутентификация включена.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.enforced {
			if _, ok := ClaimsFromContext(r.Context()); !ok {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) RequireAdmin(next http.Handler) http.Handler {
	return a.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.enforced && !IsAdmin(r.Context()) {
			writeError(w, http.StatusForbidden, "administrator access required")
			return
		}
		next.ServeHTTP(w, r)
	}))
}

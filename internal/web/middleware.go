package web

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const ctxUserKey ctxKey = "user" // имя пользователя из JWT

// AccountFromContext возвращает имя вошедшего пользователя или пустую строку
func AccountFromContext(ctx context.Context) string {
	name, _ := ctx.Value(ctxUserKey).(string)
	return name
}

// =========================
// AuthMiddleware проверяет JWT из cookie (или заголовка Authorization: Bearer).
// required=false: запрос без токена пропускается анонимно,
// но испорченный токен отклоняется в обоих режимах.
// =========================
func (s *Server) AuthMiddleware(required bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				if required {
					writeError(w, http.StatusUnauthorized, "missing auth cookie")
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			userName, err := s.deps.Tokens.Parse(token)
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := context.WithValue(r.Context(), ctxUserKey, userName)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/gymhub/internal/http/response"
	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
	"github.com/magabrotheeeer/gymhub/internal/models"
	"github.com/magabrotheeeer/gymhub/internal/services/access"
	"github.com/magabrotheeeer/gymhub/internal/session"
)

// CookieName — cookie с токеном сессии для браузерных клиентов.
const CookieName = "gymhub_session"

// Resolver проверяет токен и возвращает сессию.
type Resolver interface {
	Resolve(ctx context.Context, token string) (string, *models.Principal, error)
}

// LoadSession читает токен из заголовка Authorization или cookie и кладёт
// найденную сессию в контекст. Отсутствие сессии не прерывает запрос:
// решение принимают следующие middleware.
func LoadSession(log *slog.Logger, resolver Resolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.LoadSession"

			token := tokenFrom(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			sid, p, err := resolver.Resolve(r.Context(), token)
			if errors.Is(err, session.ErrSessionMissing) {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				log.Error("failed to resolve session",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					sl.Err(err))
				response.Render(w, r, http.StatusServiceUnavailable, response.Error(response.MsgStoreUnavailable))
				return
			}
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), sid, p)))
		})
	}
}

// RequireSession отвечает 401, если в контексте нет сессии.
func RequireSession(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if PrincipalFrom(r.Context()) == nil {
				log.Debug("request without session",
					slog.String("op", "middlewarectx.RequireSession"),
					slog.String("path", r.URL.Path))
				response.Render(w, r, http.StatusUnauthorized, response.Error(access.ErrSessionMissing.Error()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tokenFrom(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

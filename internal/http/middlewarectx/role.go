package middlewarectx

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/gymhub/internal/http/response"
	"github.com/magabrotheeeer/gymhub/internal/models"
	"github.com/magabrotheeeer/gymhub/internal/services/access"
)

// RequireRole пропускает только перечисленные роли. Без сессии — 401,
// с другой ролью — 403.
func RequireRole(log *slog.Logger, roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFrom(r.Context())
			if p == nil {
				response.Render(w, r, http.StatusUnauthorized, response.Error(access.ErrSessionMissing.Error()))
				return
			}
			if !slices.Contains(roles, p.Role) {
				log.Warn("role not allowed",
					slog.String("op", "middlewarectx.RequireRole"),
					slog.String("role", p.Role.String()),
					slog.String("path", r.URL.Path))
				response.Render(w, r, http.StatusForbidden, response.Error("forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireGymAccess сверяет параметр маршрута param с залом сессии.
func RequireGymAccess(log *slog.Logger, param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := PrincipalFrom(r.Context())
			gymID := chi.URLParam(r, param)
			if !p.CanAccessGym(gymID) {
				log.Warn("foreign gym requested",
					slog.String("op", "middlewarectx.RequireGymAccess"),
					slog.String("gym_id", gymID))
				response.Render(w, r, http.StatusForbidden, response.Error("forbidden"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

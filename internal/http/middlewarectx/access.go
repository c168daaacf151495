package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/gymhub/internal/http/response"
	"github.com/magabrotheeeer/gymhub/internal/models"
	"github.com/magabrotheeeer/gymhub/internal/services/access"
)

// Evaluator решает, можно ли показать путь пользователю.
type Evaluator interface {
	Evaluate(p *models.Principal, path string) access.Decision
}

// AccessGate пропускает запрос к панели только при совпадении роли с путём.
// Иначе ничего не отрисовывается: клиент получает 303 на /login или на
// панель своей роли.
func AccessGate(log *slog.Logger, gate Evaluator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := gate.Evaluate(PrincipalFrom(r.Context()), r.URL.Path)
			if d.Allowed() {
				next.ServeHTTP(w, r)
				return
			}
			log.Info("dashboard redirect",
				slog.String("op", "middlewarectx.AccessGate"),
				slog.String("request_id", middleware.GetReqID(r.Context())),
				slog.String("path", r.URL.Path),
				slog.String("location", d.Location),
				slog.String("reason", d.Reason.Error()))
			response.Redirect(w, r, d.Location, d.Reason)
		})
	}
}

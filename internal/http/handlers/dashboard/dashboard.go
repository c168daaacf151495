// Package dashboard отдаёт данные панели для роли текущей сессии.
// Совпадение роли с путём проверяет AccessGate до вызова обработчика.
package dashboard

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gymhub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gymhub/internal/http/response"
	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
	"github.com/magabrotheeeer/gymhub/internal/models"
)

// Service собирает данные панели.
type Service interface {
	For(ctx context.Context, p *models.Principal) (any, error)
}

// Handler обрабатывает /dashboard/<role>.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Панель роли
// @Description Возвращает данные панели владельца, тренера, участника или суперадмина.
// @Tags Dashboard
// @Produce  json
// @Security BearerAuth
// @Param role path string true "owner | trainer | member | superadmin"
// @Success 200 {object} response.Response
// @Success 303 {object} response.Response "Перенаправление на /login или панель своей роли"
// @Failure 403 {object} response.Response "Пробный период истёк"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /dashboard/{role} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.dashboard"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	view, err := h.service.For(r.Context(), middlewarectx.PrincipalFrom(r.Context()))
	if err != nil {
		log.Error("failed to build dashboard", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(view))
}

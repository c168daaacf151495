// Package logout реализует выход: сессия удаляется из кеша, cookie стирается.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gymhub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gymhub/internal/http/response"
	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
)

// Service удаляет сессию.
type Service interface {
	Logout(ctx context.Context, sid string) error
}

// Handler обрабатывает выход.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Выход
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.ErrorResponse "Нет сессии"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /api/v1/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if err := h.service.Logout(r.Context(), middlewarectx.SessionIDFrom(r.Context())); err != nil {
		log.Error("logout failed", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middlewarectx.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	log.Info("session closed")
	render.JSON(w, r, response.StatusOKWithData(map[string]string{"message": "logged out"}))
}

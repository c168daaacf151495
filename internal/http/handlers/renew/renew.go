// Package renew отдаёт страницу продления: статус зала и каталог тарифов.
// Страница открыта без сессии, чтобы по ссылке из письма можно было
// перейти и после окончания пробного периода.
package renew

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/gymhub/internal/http/response"
	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
	"github.com/magabrotheeeer/gymhub/internal/services/renewal"
)

// Service собирает предложение продления.
type Service interface {
	Offer(ctx context.Context, gymID string) (*renewal.Offer, error)
}

// Handler обрабатывает /renew/{gymId}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Страница продления
// @Tags Renewal
// @Produce  json
// @Param gymId path string true "ID зала"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Зал не найден или ID некорректен"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /renew/{gymId} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.renew"
	gymID := chi.URLParam(r, "gymId")

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("gym_id", gymID),
	)

	if _, err := uuid.Parse(gymID); err != nil {
		log.Info("malformed gym id", sl.Err(err))
		response.Render(w, r, http.StatusNotFound, response.Error("not found"))
		return
	}

	offer, err := h.service.Offer(r.Context(), gymID)
	if err != nil {
		log.Error("failed to build renewal offer", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(offer))
}

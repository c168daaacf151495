// Package live реализует заявки в друзья и поток их счётчика (server-sent events).
package live

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gymhub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gymhub/internal/http/response"
	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
	"github.com/magabrotheeeer/gymhub/internal/models"
	"github.com/magabrotheeeer/gymhub/internal/services/live"
)

// Service — счётчик заявок.
type Service interface {
	FollowRequested(ctx context.Context, handle string) (int64, error)
	Watch(ctx context.Context, handle string) (*live.Watcher, error)
}

// Users ищет пользователя по публичному имени.
type Users interface {
	GetUserByHandle(ctx context.Context, handle string) (*models.User, error)
}

// Handler объединяет обработчики live-обновлений.
type Handler struct {
	log     *slog.Logger
	service Service
	users   Users
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service, users Users) *Handler {
	return &Handler{log: log, service: service, users: users}
}

// Follow godoc
// @Summary Заявка в друзья
// @Tags Community
// @Produce  json
// @Security BearerAuth
// @Param handle path string true "Публичное имя"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /api/v1/community/{handle}/follow-requests [post]
func (h *Handler) Follow(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "handle")
	log := h.log.With(
		slog.String("op", "handlers.live.follow"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
		slog.String("handle", handle),
	)

	if _, err := h.users.GetUserByHandle(r.Context(), handle); err != nil {
		log.Warn("follow target lookup failed", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	pending, err := h.service.FollowRequested(r.Context(), handle)
	if err != nil {
		log.Error("failed to record follow request", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"handle":  handle,
		"pending": pending,
	}))
}

// Stream godoc
// @Summary Поток счётчика заявок
// @Description Server-sent events: текущее число заявок, затем каждое изменение.
// @Tags Community
// @Produce  text/event-stream
// @Security BearerAuth
// @Success 200 {string} string "event: follow_requests"
// @Failure 409 {object} response.ErrorResponse "У пользователя нет публичного имени"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /api/v1/live/follow-requests [get]
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.live.stream"
	p := middlewarectx.PrincipalFrom(r.Context())
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	if p == nil || p.CommunityHandle == "" {
		response.Render(w, r, http.StatusConflict, response.Error("no community handle"))
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("response writer does not support flushing")
		response.Render(w, r, http.StatusInternalServerError, response.Error("streaming unsupported"))
		return
	}

	watcher, err := h.service.Watch(r.Context(), p.CommunityHandle)
	if err != nil {
		log.Error("failed to watch follow requests", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	defer watcher.Release()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			log.Debug("client disconnected")
			return
		case n, ok := <-watcher.Counts():
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: follow_requests\ndata: %d\n\n", n); err != nil {
				log.Debug("stream write failed", sl.Err(err))
				return
			}
			flusher.Flush()
		}
	}
}

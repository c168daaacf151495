// Package admin реализует HTTP-обработчики суперадмина.
package admin

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gymhub/internal/http/request"
	"github.com/magabrotheeeer/gymhub/internal/http/response"
	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
	"github.com/magabrotheeeer/gymhub/internal/models"
	"github.com/magabrotheeeer/gymhub/internal/services/admin"
)

// Service — операции суперадмина.
type Service interface {
	IssueTrialKeys(ctx context.Context, count int) ([]*models.TrialKey, error)
	TrialKeys(ctx context.Context) ([]admin.KeyView, error)
	Gyms(ctx context.Context) ([]admin.GymView, error)
	RenewGym(ctx context.Context, gymID, planID string) (*models.Gym, error)
}

// IssueRequest — число новых ключей.
type IssueRequest struct {
	Count int `json:"count" validate:"required,gte=1,lte=100"`
}

// RenewRequest — тариф, на который переводится зал.
type RenewRequest struct {
	PlanID string `json:"plan_id" validate:"required"`
}

// Handler объединяет обработчики суперадмина.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// IssueTrialKeys godoc
// @Summary Выпуск пробных ключей
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body IssueRequest true "Число ключей"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.ErrorResponse "Только суперадмин"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /api/v1/admin/trial-keys [post]
func (h *Handler) IssueTrialKeys(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.issue_trial_keys")

	var req IssueRequest
	if !request.Decode(w, r, log, &req) {
		return
	}

	keys, err := h.service.IssueTrialKeys(r.Context(), req.Count)
	if err != nil {
		log.Error("failed to issue trial keys", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	response.Render(w, r, http.StatusCreated, response.StatusOKWithData(keys))
}

// TrialKeys godoc
// @Summary Пробные ключи
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse "Только суперадмин"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /api/v1/admin/trial-keys [get]
func (h *Handler) TrialKeys(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.trial_keys")

	keys, err := h.service.TrialKeys(r.Context())
	if err != nil {
		log.Error("failed to list trial keys", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(keys))
}

// Gyms godoc
// @Summary Все залы
// @Tags Admin
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse "Только суперадмин"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /api/v1/admin/gyms [get]
func (h *Handler) Gyms(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.admin.gyms")

	gyms, err := h.service.Gyms(r.Context())
	if err != nil {
		log.Error("failed to list gyms", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(gyms))
}

// RenewGym godoc
// @Summary Продление зала
// @Description Переводит пробный или просроченный зал на оплаченный тариф.
// @Tags Admin
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param gymId path string true "ID зала"
// @Param request body RenewRequest true "Тариф"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.ErrorResponse "Зал или тариф не найден"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /api/v1/admin/gyms/{gymId}/renew [post]
func (h *Handler) RenewGym(w http.ResponseWriter, r *http.Request) {
	gymID := chi.URLParam(r, "gymId")
	log := h.logger(r, "handlers.admin.renew_gym").With(slog.String("gym_id", gymID))

	var req RenewRequest
	if !request.Decode(w, r, log, &req) {
		return
	}

	gym, err := h.service.RenewGym(r.Context(), gymID, req.PlanID)
	if err != nil {
		log.Error("failed to renew gym", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(gym))
}

// Package members реализует список участников зала, историю оплат, запись оплаты
// и заведение участников и тренеров с учётными записями.
// Набор видимых участников определяется ролью в сервисе membership.
package members

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gymhub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gymhub/internal/http/request"
	"github.com/magabrotheeeer/gymhub/internal/http/response"
	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
	"github.com/magabrotheeeer/gymhub/internal/models"
	"github.com/magabrotheeeer/gymhub/internal/services/membership"
)

// Service — операции над участниками.
type Service interface {
	Members(ctx context.Context, p *models.Principal, gymID string) ([]membership.MemberView, error)
	Payments(ctx context.Context, p *models.Principal, gymID, memberID string) ([]*models.Payment, error)
	RecordPayment(ctx context.Context, p *models.Principal, gymID, memberID string, req membership.PaymentRequest) (*models.Payment, membership.MemberView, error)
	AddMember(ctx context.Context, p *models.Principal, gymID string, req membership.NewMemberRequest) (membership.MemberView, error)
	AddTrainer(ctx context.Context, p *models.Principal, gymID string, req membership.Account) (*models.Trainer, error)
}

// PaymentRequest — тело записи оплаты.
type PaymentRequest struct {
	Amount int `json:"amount" validate:"required,gte=1"`
	Months int `json:"months" validate:"required,gte=1,lte=36"`
}

// TrainerRequest — тело заведения тренера.
type TrainerRequest struct {
	Name            string `json:"name" validate:"required,max=120"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8,max=72"`
	BranchID        string `json:"branch_id,omitempty" validate:"omitempty,uuid"`
	CommunityHandle string `json:"community_handle,omitempty" validate:"omitempty,alphanum,max=32"`
}

// MemberRequest — тело заведения участника.
type MemberRequest struct {
	TrainerRequest
	Phone     string `json:"phone,omitempty" validate:"max=32"`
	TrainerID string `json:"trainer_id,omitempty" validate:"omitempty,uuid"`
	PlanID    string `json:"plan_id,omitempty" validate:"max=64"`
}

func (r TrainerRequest) account() membership.Account {
	return membership.Account{
		Name:            r.Name,
		Email:           r.Email,
		Password:        r.Password,
		BranchID:        r.BranchID,
		CommunityHandle: r.CommunityHandle,
	}
}

// Handler объединяет обработчики участников.
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
		slog.String("gym_id", chi.URLParam(r, "gymId")),
	)
}

// List godoc
// @Summary Участники зала
// @Description Владелец видит всех участников, тренер только закреплённых за ним.
// @Tags Members
// @Produce  json
// @Security BearerAuth
// @Param gymId path string true "ID зала"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse "Нет доступа"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /api/v1/gyms/{gymId}/members [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.members.list")

	views, err := h.service.Members(r.Context(), middlewarectx.PrincipalFrom(r.Context()), chi.URLParam(r, "gymId"))
	if err != nil {
		log.Error("failed to list members", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"members": views,
		"counts":  membership.StatusCounts(views),
	}))
}

// Payments godoc
// @Summary История оплат участника
// @Tags Members
// @Produce  json
// @Security BearerAuth
// @Param gymId path string true "ID зала"
// @Param memberId path string true "ID участника"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.ErrorResponse "Нет доступа"
// @Failure 404 {object} response.ErrorResponse "Участник не найден"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /api/v1/gyms/{gymId}/members/{memberId}/payments [get]
func (h *Handler) Payments(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.members.payments")

	payments, err := h.service.Payments(r.Context(), middlewarectx.PrincipalFrom(r.Context()),
		chi.URLParam(r, "gymId"), chi.URLParam(r, "memberId"))
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(payments))
}

// RecordPayment godoc
// @Summary Запись оплаты
// @Description Сохраняет оплату и сдвигает срок абонемента в одной транзакции.
// @Tags Members
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param gymId path string true "ID зала"
// @Param memberId path string true "ID участника"
// @Param request body PaymentRequest true "Сумма и число месяцев"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response "Нет доступа или пробный период истёк"
// @Failure 404 {object} response.ErrorResponse "Участник не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /api/v1/gyms/{gymId}/members/{memberId}/payments [post]
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.members.record_payment")

	var req PaymentRequest
	if !request.Decode(w, r, log, &req) {
		return
	}

	payment, member, err := h.service.RecordPayment(r.Context(), middlewarectx.PrincipalFrom(r.Context()),
		chi.URLParam(r, "gymId"), chi.URLParam(r, "memberId"),
		membership.PaymentRequest{Amount: req.Amount, Months: req.Months})
	if err != nil {
		log.Error("failed to record payment", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("payment recorded", slog.String("member_id", member.ID), slog.Int("payment_id", payment.ID))
	response.Render(w, r, http.StatusCreated, response.StatusOKWithData(map[string]any{
		"payment": payment,
		"member":  member,
	}))
}

// CreateMember godoc
// @Summary Новый участник
// @Description Создаёт участника и его учётную запись для входа в одной транзакции.
// @Tags Members
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param gymId path string true "ID зала"
// @Param request body MemberRequest true "Данные участника"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response "Нет доступа или пробный период истёк"
// @Failure 404 {object} response.ErrorResponse "Зал или тренер не найден"
// @Failure 409 {object} response.ErrorResponse "Email или ник занят"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /api/v1/gyms/{gymId}/members [post]
func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.members.create_member")

	var req MemberRequest
	if !request.Decode(w, r, log, &req) {
		return
	}

	view, err := h.service.AddMember(r.Context(), middlewarectx.PrincipalFrom(r.Context()), chi.URLParam(r, "gymId"),
		membership.NewMemberRequest{
			Account:   req.account(),
			Phone:     req.Phone,
			TrainerID: req.TrainerID,
			PlanID:    req.PlanID,
		})
	if err != nil {
		log.Error("failed to add member", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("member added", slog.String("member_id", view.ID))
	response.Render(w, r, http.StatusCreated, response.StatusOKWithData(view))
}

// CreateTrainer godoc
// @Summary Новый тренер
// @Description Создаёт тренера и его учётную запись для входа в одной транзакции.
// @Tags Members
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param gymId path string true "ID зала"
// @Param request body TrainerRequest true "Данные тренера"
// @Success 201 {object} response.Response
// @Failure 403 {object} response.Response "Нет доступа или пробный период истёк"
// @Failure 404 {object} response.ErrorResponse "Зал не найден"
// @Failure 409 {object} response.ErrorResponse "Email или ник занят"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /api/v1/gyms/{gymId}/trainers [post]
func (h *Handler) CreateTrainer(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.members.create_trainer")

	var req TrainerRequest
	if !request.Decode(w, r, log, &req) {
		return
	}

	trainer, err := h.service.AddTrainer(r.Context(), middlewarectx.PrincipalFrom(r.Context()),
		chi.URLParam(r, "gymId"), req.account())
	if err != nil {
		log.Error("failed to add trainer", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	log.Info("trainer added", slog.String("trainer_id", trainer.ID))
	response.Render(w, r, http.StatusCreated, response.StatusOKWithData(trainer))
}

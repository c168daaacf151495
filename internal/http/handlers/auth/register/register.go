// Package register реализует регистрацию оплачиваемого зала вместе с владельцем.
package register

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/gymhub/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/gymhub/internal/http/request"
	"github.com/magabrotheeeer/gymhub/internal/http/response"
	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
	"github.com/magabrotheeeer/gymhub/internal/services/auth"
)

// Request — входные данные для регистрации.
type Request struct {
	GymName     string `json:"gym_name" validate:"required,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"max=32"`
	Address     string `json:"address" validate:"max=255"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"required,max=120"`
	PlanID      string `json:"plan_id" validate:"required"`
}

// Service регистрирует зал с владельцем.
type Service interface {
	Register(ctx context.Context, req auth.RegisterRequest) (*auth.Session, error)
}

// Handler обрабатывает регистрацию.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Регистрация зала
// @Description Создаёт оплачиваемый зал и владельца одной транзакцией и открывает сессию владельца.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные зала и владельца"
// @Success 201 {object} response.Response "Зал создан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Тариф не найден"
// @Failure 409 {object} response.ErrorResponse "E-mail уже занят"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /api/v1/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if !request.Decode(w, r, log, &req) {
		return
	}

	sess, err := h.service.Register(r.Context(), auth.RegisterRequest{
		GymName:     req.GymName,
		Email:       req.Email,
		Phone:       req.Phone,
		Address:     req.Address,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		PlanID:      req.PlanID,
	})
	if err != nil {
		log.Error("registration failed", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	login.SetCookie(w, sess.Token)
	log.Info("gym registered", slog.String("gym_id", sess.Principal.GymID))
	response.Render(w, r, http.StatusCreated, response.StatusOKWithData(sess))
}

// Package activate реализует активацию одноразового пробного ключа.
//
// Успешная активация создаёт пробный зал и учётную запись владельца и сразу
// открывает его сессию: клиент получает зал и токен. Если сессию открыть не
// удалось, зал уже создан, и владелец входит по email и паролю.
package activate

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/gymhub/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/gymhub/internal/http/request"
	"github.com/magabrotheeeer/gymhub/internal/http/response"
	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
	"github.com/magabrotheeeer/gymhub/internal/models"
	"github.com/magabrotheeeer/gymhub/internal/services/auth"
	"github.com/magabrotheeeer/gymhub/internal/services/trial"
)

// Request — форма активации.
type Request struct {
	Key      string `json:"key" validate:"required,alphanum,min=4,max=32"`
	GymName  string `json:"gym_name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"max=32"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// Result — ответ на успешную активацию.
type Result struct {
	Gym       models.Gym       `json:"gym"`
	ExpiresAt *time.Time       `json:"expires_at"`
	Token     string           `json:"token,omitempty"`
	Principal models.Principal `json:"principal"`
}

// Activator активирует пробный ключ.
type Activator interface {
	Activate(ctx context.Context, req trial.ActivateRequest) (*trial.Activation, error)
}

// Opener открывает сессию для новой личности.
type Opener interface {
	Open(ctx context.Context, p models.Principal) (*auth.Session, error)
}

// Handler обрабатывает активацию.
type Handler struct {
	log       *slog.Logger
	activator Activator
	sessions  Opener
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, activator Activator, sessions Opener) *Handler {
	return &Handler{log: log, activator: activator, sessions: sessions}
}

// ServeHTTP godoc
// @Summary Активация пробного ключа
// @Description Одноразово активирует ключ: создаёт пробный зал на 24 часа и открывает сессию владельца.
// @Tags Trial
// @Accept  json
// @Produce  json
// @Param request body Request true "Ключ и данные зала"
// @Success 201 {object} response.Response "Зал создан"
// @Failure 404 {object} response.ErrorResponse "Ключ не найден"
// @Failure 409 {object} response.ErrorResponse "Ключ уже использован или email занят"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /api/v1/trial/activate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.trial.activate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if !request.Decode(w, r, log, &req) {
		return
	}

	act, err := h.activator.Activate(r.Context(), trial.ActivateRequest{
		Key:      req.Key,
		GymName:  req.GymName,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		log.Warn("trial activation rejected", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	result := Result{
		Gym:       act.Gym,
		ExpiresAt: act.Key.ExpiresAt,
		Principal: act.Owner,
	}

	// Ключ уже израсходован: без сессии отвечаем успехом, владелец войдёт по паролю.
	sess, err := h.sessions.Open(r.Context(), act.Owner)
	if err != nil {
		log.Error("failed to open owner session", slog.String("gym_id", act.Gym.ID), sl.Err(err))
	} else {
		login.SetCookie(w, sess.Token)
		result.Token = sess.Token
		result.Principal = sess.Principal
	}

	log.Info("trial activated", slog.String("gym_id", act.Gym.ID))
	response.Render(w, r, http.StatusCreated, response.StatusOKWithData(result))
}

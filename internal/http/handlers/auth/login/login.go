// Package login реализует HTTP-обработчик входа по e-mail и паролю.
//
// При успешной проверке пароля открывается сессия в Redis, клиент получает
// JWT в теле ответа и в cookie для браузерных панелей.
package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/gymhub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gymhub/internal/http/request"
	"github.com/magabrotheeeer/gymhub/internal/http/response"
	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
	"github.com/magabrotheeeer/gymhub/internal/services/auth"
)

// ErrAlreadyAuthenticated — причина перехода со страницы входа на панель.
var ErrAlreadyAuthenticated = errors.New("already authenticated")

// Request — учётные данные для входа.
type Request struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// Service описывает вход пользователя.
type Service interface {
	Login(ctx context.Context, email, password string) (*auth.Session, error)
}

// Handler обрабатывает HTTP-запросы для авторизации.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Вход пользователя
// @Description Проверяет e-mail и пароль, открывает сессию и возвращает JWT.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} response.Response "Сессия открыта"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Неверные учетные данные"
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /api/v1/login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if !request.Decode(w, r, log, &req) {
		return
	}

	sess, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Error("login failed", sl.Err(err))
		response.WriteError(w, r, err)
		return
	}

	SetCookie(w, sess.Token)
	log.Info("login success", slog.String("role", sess.Principal.Role.String()))
	render.JSON(w, r, response.StatusOKWithData(sess))
}

// SetCookie выставляет cookie сессии.
func SetCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middlewarectx.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Page godoc
// @Summary Страница входа
// @Description Пользователь с сессией перенаправляется на панель своей роли.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.Response "Сессии нет"
// @Success 303 {object} response.Response "Переход на панель"
// @Router /login [get]
func Page(w http.ResponseWriter, r *http.Request) {
	if p := middlewarectx.PrincipalFrom(r.Context()); p != nil && p.Role.Valid() {
		response.Redirect(w, r, p.Role.DashboardPrefix(), ErrAlreadyAuthenticated)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(map[string]string{"login": "/api/v1/login"}))
}

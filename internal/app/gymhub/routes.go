// Package gymhub собирает HTTP- и gRPC-серверы основного приложения.
package gymhub

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/gymhub/internal/http/handlers/admin"
	"github.com/magabrotheeeer/gymhub/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/gymhub/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/gymhub/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/gymhub/internal/http/handlers/auth/sessioninfo"
	"github.com/magabrotheeeer/gymhub/internal/http/handlers/dashboard"
	"github.com/magabrotheeeer/gymhub/internal/http/handlers/health"
	"github.com/magabrotheeeer/gymhub/internal/http/handlers/live"
	"github.com/magabrotheeeer/gymhub/internal/http/handlers/members"
	"github.com/magabrotheeeer/gymhub/internal/http/handlers/renew"
	"github.com/magabrotheeeer/gymhub/internal/http/handlers/trial/activate"
	"github.com/magabrotheeeer/gymhub/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gymhub/internal/http/response"
	"github.com/magabrotheeeer/gymhub/internal/models"
)

// Services — зависимости обработчиков.
type Services struct {
	Auth interface {
		login.Service
		logout.Service
		register.Service
		activate.Opener
		middlewarectx.Resolver
	}
	Gate  middlewarectx.Evaluator
	Trial interface {
		activate.Activator
		middlewarectx.ExpiryChecker
	}
	Renewal    renew.Service
	Dashboard  dashboard.Service
	Membership members.Service
	Admin      admin.Service
	Live       live.Service
	Users      live.Users
	Checks     map[string]health.Check
}

// Options — параметры маршрутизации.
type Options struct {
	RequestTimeout time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, s Services, opts Options) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/docs/*", httpSwagger.WrapHandler)
	r.Get("/health", health.New(logger, s.Checks).ServeHTTP)

	limiter := middlewarectx.NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst)
	liveHandler := live.New(logger, s.Live, s.Users)
	membersHandler := members.New(logger, s.Membership)
	adminHandler := admin.New(logger, s.Admin)
	dashboardHandler := dashboard.New(logger, s.Dashboard)

	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.LoadSession(logger, s.Auth))

		// Поток событий живёт дольше таймаута запроса.
		r.With(middlewarectx.RequireSession(logger)).
			Get("/api/v1/live/follow-requests", liveHandler.Stream)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(opts.RequestTimeout))

			r.Get("/login", login.Page)
			r.Get("/renew/{gymId}", renew.New(logger, s.Renewal).ServeHTTP)

			r.Route("/dashboard", func(r chi.Router) {
				r.Use(middlewarectx.AccessGate(logger, s.Gate))
				r.With(middlewarectx.TrialGate(logger, s.Trial)).Get("/owner", dashboardHandler.ServeHTTP)
				r.With(middlewarectx.TrialGate(logger, s.Trial)).Get("/owner/*", dashboardHandler.ServeHTTP)
				r.Get("/", dashboardHandler.ServeHTTP)
				r.Get("/*", dashboardHandler.ServeHTTP)
			})

			r.Route("/api/v1", func(r chi.Router) {
				// Открытые конечные точки
				r.Group(func(r chi.Router) {
					r.Use(limiter.Middleware(logger))
					r.Post("/login", login.New(logger, s.Auth).ServeHTTP)
					r.Post("/register", register.New(logger, s.Auth).ServeHTTP)
					r.Post("/trial/activate", activate.New(logger, s.Trial, s.Auth).ServeHTTP)
				})

				// Группа с сессией
				r.Group(func(r chi.Router) {
					r.Use(middlewarectx.RequireSession(logger))
					r.Post("/logout", logout.New(logger, s.Auth).ServeHTTP)
					r.Get("/session", sessioninfo.ServeHTTP)
					r.Post("/community/{handle}/follow-requests", liveHandler.Follow)

					r.Route("/gyms/{gymId}", func(r chi.Router) {
						r.Use(middlewarectx.RequireGymAccess(logger, "gymId"))
						r.With(middlewarectx.RequireRole(logger, models.RoleOwner, models.RoleTrainer, models.RoleSuperAdmin)).
							Get("/members", membersHandler.List)
						r.Get("/members/{memberId}/payments", membersHandler.Payments)
						r.Group(func(r chi.Router) {
							r.Use(
								middlewarectx.RequireRole(logger, models.RoleOwner, models.RoleSuperAdmin),
								middlewarectx.TrialGate(logger, s.Trial),
							)
							r.Post("/members", membersHandler.CreateMember)
							r.Post("/trainers", membersHandler.CreateTrainer)
							r.Post("/members/{memberId}/payments", membersHandler.RecordPayment)
						})
					})

					r.Route("/admin", func(r chi.Router) {
						r.Use(middlewarectx.RequireRole(logger, models.RoleSuperAdmin))
						r.Post("/trial-keys", adminHandler.IssueTrialKeys)
						r.Get("/trial-keys", adminHandler.TrialKeys)
						r.Get("/gyms", adminHandler.Gyms)
						r.Post("/gyms/{gymId}/renew", adminHandler.RenewGym)
					})
				})
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.Render(w, r, http.StatusNotFound, response.Error("not found"))
	})
}

package gymhub

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/gymhub/internal/cache"
	"github.com/magabrotheeeer/gymhub/internal/config"
	grpchealth "github.com/magabrotheeeer/gymhub/internal/grpc/health"
	"github.com/magabrotheeeer/gymhub/internal/http/handlers/health"
	"github.com/magabrotheeeer/gymhub/internal/lib/jwt"
	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
	"github.com/magabrotheeeer/gymhub/internal/migrations"
	"github.com/magabrotheeeer/gymhub/internal/services/access"
	"github.com/magabrotheeeer/gymhub/internal/services/admin"
	"github.com/magabrotheeeer/gymhub/internal/services/auth"
	"github.com/magabrotheeeer/gymhub/internal/services/dashboard"
	"github.com/magabrotheeeer/gymhub/internal/services/live"
	"github.com/magabrotheeeer/gymhub/internal/services/membership"
	"github.com/magabrotheeeer/gymhub/internal/services/renewal"
	"github.com/magabrotheeeer/gymhub/internal/services/trial"
	"github.com/magabrotheeeer/gymhub/internal/session"
	"github.com/magabrotheeeer/gymhub/internal/storage/repository"
)

const shutdownTimeout = 15 * time.Second

// App — основное приложение: HTTP API, панели и gRPC health.
type App struct {
	server *http.Server
	health *grpchealth.Server
	grpc   string
	logger *slog.Logger
	db     *repository.Storage
	cache  *cache.Cache
}

// New поднимает хранилища и собирает сервисы.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	sessions := session.NewStore(cacheRedis, cfg.SessionTTL)
	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := auth.NewAuthService(db, sessions, jwtMaker)

	trialManager := trial.NewManager(db, cacheRedis, logger, trial.WithDuration(cfg.TrialDuration))
	plans := renewal.NewCachedPlans(db, cacheRedis, logger)
	renewalService := renewal.NewService(trialManager, plans)
	membershipService := membership.NewService(db, logger)

	services := Services{
		Auth:       authService,
		Gate:       access.NewGate(),
		Trial:      trialManager,
		Renewal:    renewalService,
		Dashboard:  dashboard.NewService(trialManager, membershipService, db, renewalService),
		Membership: membershipService,
		Admin:      admin.NewService(db, trialManager, logger),
		Live:       live.NewService(cacheRedis, logger),
		Users:      db,
		Checks: map[string]health.Check{
			"postgres": func(ctx context.Context) error { return db.DB.PingContext(ctx) },
			"redis":    func(ctx context.Context) error { return cacheRedis.Db.Ping(ctx).Err() },
		},
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, services, Options{
		RequestTimeout: cfg.RequestTimeout,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	// WriteTimeout не задаётся: поток событий открыт дольше одного запроса,
	// остальные маршруты ограничены middleware.Timeout.
	srv := &http.Server{
		Addr:        cfg.AddressHTTP,
		Handler:     router,
		ReadTimeout: cfg.TimeoutHTTP,
		IdleTimeout: cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		health: grpchealth.New(logger),
		grpc:   cfg.AddressGRPC,
		logger: logger,
		db:     db,
		cache:  cacheRedis,
	}, nil
}

// Run обслуживает запросы до отмены ctx и затем мягко останавливает серверы.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 2)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()
	go func() {
		errCh <- a.health.ListenAndServe(a.grpc)
	}()
	a.health.SetServing(true)

	var runErr error
	select {
	case runErr = <-errCh:
		if runErr != nil {
			a.logger.Error("server stopped", sl.Err(runErr))
		}
	case <-ctx.Done():
	}

	a.logger.Info("shutting down servers gracefully")
	a.health.SetServing(false)

	timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := a.server.Shutdown(timeoutCtx)
	a.health.Stop()

	if cerr := a.cache.Close(); cerr != nil {
		a.logger.Error("failed to close redis", sl.Err(cerr))
	}
	if cerr := a.db.Close(); cerr != nil {
		a.logger.Error("failed to close database", sl.Err(cerr))
	}
	return errors.Join(runErr, err)
}

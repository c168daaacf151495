// Package scheduler находит пробные периоды и абонементы, срок которых
// истёк с прошлого запуска, и публикует уведомления о продлении.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
	"github.com/magabrotheeeer/gymhub/internal/models"
	"github.com/magabrotheeeer/gymhub/internal/services/trial"
)

var published = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gymhub_notifications_published_total",
	Help: "Renewal notifications published by the scheduler.",
}, []string{"kind", "result"})

// Repository ищет истёкшие сроки в полуинтервале [from, to).
type Repository interface {
	FindTrialsExpiredBetween(ctx context.Context, from, to time.Time) ([]*models.Notification, error)
	FindMembersDueBetween(ctx context.Context, from, to time.Time) ([]*models.Notification, error)
}

// Publisher отправляет уведомление с ключом маршрутизации.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, message any) error
}

// Service — планировщик напоминаний.
type Service struct {
	repo        Repository
	publisher   Publisher
	log         *slog.Logger
	interval    time.Duration
	scanTimeout time.Duration
	now         func() time.Time
	last        time.Time
}

// NewService создаёт Service. Первый запуск просматривает один интервал назад.
func NewService(repo Repository, publisher Publisher, log *slog.Logger, interval, scanTimeout time.Duration) *Service {
	s := &Service{
		repo:        repo,
		publisher:   publisher,
		log:         log,
		interval:    interval,
		scanTimeout: scanTimeout,
		now:         time.Now,
	}
	s.last = s.now().UTC().Add(-interval)
	return s
}

// Run сканирует сразу и затем на каждом тике, пока ctx не отменён.
func (s *Service) Run(ctx context.Context) {
	s.log.Info("scheduler started", slog.Duration("interval", s.interval))
	s.Scan(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("scheduler stopped")
			return
		case <-ticker.C:
			s.Scan(ctx)
		}
	}
}

// Scan обрабатывает окно [последний запуск, сейчас). При ошибке поиска
// окно не сдвигается и будет просмотрено снова.
func (s *Service) Scan(ctx context.Context) {
	const op = "scheduler.Scan"
	log := s.log.With(slog.String("op", op))

	from, to := s.last, s.now().UTC()
	scanCtx, cancel := context.WithTimeout(ctx, s.scanTimeout)
	defer cancel()

	trials, err := s.repo.FindTrialsExpiredBetween(scanCtx, from, to)
	if err != nil {
		log.Error("failed to find expired trials", sl.Err(err))
		return
	}
	members, err := s.repo.FindMembersDueBetween(scanCtx, from, to)
	if err != nil {
		log.Error("failed to find due members", sl.Err(err))
		return
	}

	s.publishAll(scanCtx, log, models.NotificationTrialExpired, trials)
	s.publishAll(scanCtx, log, models.NotificationMembershipDue, members)

	log.Info("scan finished",
		slog.Time("from", from),
		slog.Time("to", to),
		slog.Int("trials", len(trials)),
		slog.Int("members", len(members)))
	s.last = to
}

func (s *Service) publishAll(ctx context.Context, log *slog.Logger, kind string, items []*models.Notification) {
	for _, n := range items {
		n.Kind = kind
		if n.RenewPath == "" {
			n.RenewPath = trial.RenewPath(n.GymID)
		}
		if err := s.publisher.Publish(ctx, kind, n); err != nil {
			published.WithLabelValues(kind, "error").Inc()
			log.Error("failed to publish notification",
				slog.String("kind", kind),
				slog.String("gym_id", n.GymID),
				sl.Err(fmt.Errorf("publish: %w", err)))
			continue
		}
		published.WithLabelValues(kind, "ok").Inc()
	}
}

// Package live передаёт счётчик заявок в друзья в реальном времени
// через Redis pub/sub.
package live

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
)

const countsBuffer = 8

// Broker — счётчики и pub/sub поверх Redis.
type Broker interface {
	Incr(ctx context.Context, key string) (int64, error)
	Counter(ctx context.Context, key string) (int64, error)
	Publish(ctx context.Context, channel string, message string) error
	Subscribe(ctx context.Context, channel string) (*redis.PubSub, error)
}

// Key возвращает ключ счётчика и имя канала для handle.
func Key(handle string) string {
	return "follow_requests:" + handle
}

// Service публикует и раздаёт обновления счётчика.
type Service struct {
	broker Broker
	log    *slog.Logger
}

// NewService создаёт Service.
func NewService(broker Broker, log *slog.Logger) *Service {
	return &Service{broker: broker, log: log}
}

// FollowRequested увеличивает счётчик заявок handle и рассылает новое значение.
func (s *Service) FollowRequested(ctx context.Context, handle string) (int64, error) {
	const op = "live.FollowRequested"
	n, err := s.broker.Incr(ctx, Key(handle))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.broker.Publish(ctx, Key(handle), strconv.FormatInt(n, 10)); err != nil {
		return n, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// Watcher — подписка на счётчик одного handle.
// Release обязателен и может вызываться повторно.
type Watcher struct {
	counts chan int64
	sub    *redis.PubSub
	cancel context.CancelFunc
	once   sync.Once
	done   chan struct{}
}

// Counts отдаёт текущее значение, затем каждое обновление.
// Канал закрывается после Release или отмены контекста.
func (w *Watcher) Counts() <-chan int64 {
	return w.counts
}

// Release закрывает подписку и дожидается остановки чтения.
func (w *Watcher) Release() {
	w.once.Do(func() {
		w.cancel()
		_ = w.sub.Close()
	})
	<-w.done
}

// Watch подписывается на счётчик handle. Подписка живёт до Release
// или отмены ctx.
func (s *Service) Watch(ctx context.Context, handle string) (*Watcher, error) {
	const op = "live.Watch"
	sub, err := s.broker.Subscribe(ctx, Key(handle))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	current, err := s.broker.Counter(ctx, Key(handle))
	if err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ctx, cancel := context.WithCancel(ctx)
	w := &Watcher{
		counts: make(chan int64, countsBuffer),
		sub:    sub,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	w.counts <- current

	go s.pump(ctx, w, handle)
	return w, nil
}

func (s *Service) pump(ctx context.Context, w *Watcher, handle string) {
	defer close(w.done)
	defer close(w.counts)

	msgs := w.sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			n, err := strconv.ParseInt(msg.Payload, 10, 64)
			if err != nil {
				s.log.Warn("skipping malformed count",
					slog.String("op", "live.pump"),
					slog.String("handle", handle),
					sl.Err(err))
				continue
			}
			select {
			case w.counts <- n:
			case <-ctx.Done():
				return
			}
		}
	}
}

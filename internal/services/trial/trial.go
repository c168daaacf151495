// Package trial управляет жизненным циклом пробного периода: одноразовой
// активацией ключа и проверкой истечения срока пробного зала.
package trial

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/gymhub/internal/lib/password"
	"github.com/magabrotheeeer/gymhub/internal/lib/sl"
	"github.com/magabrotheeeer/gymhub/internal/models"
	"github.com/magabrotheeeer/gymhub/internal/storage/repository"
)

// DefaultDuration — длительность пробного периода по умолчанию.
const DefaultDuration = 24 * time.Hour

const gymCacheTTL = 5 * time.Minute

var (
	// ErrTrialKeyNotFound — ключа нет в хранилище.
	ErrTrialKeyNotFound = errors.New("trial key not found")
	// ErrTrialKeyAlreadyUsed — ключ уже активирован.
	ErrTrialKeyAlreadyUsed = errors.New("trial key already used")
	// ErrTrialExpired — пробный период зала истёк.
	ErrTrialExpired = errors.New("trial expired")
)

var activations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gymhub_trial_activations_total",
	Help: "Trial key activation attempts by result.",
}, []string{"result"})

// Store — операции хранилища, нужные менеджеру.
type Store interface {
	ActivateTrialKey(ctx context.Context, key string, gym models.Gym, owner models.User,
		activatedAt, expiresAt time.Time) (*models.Gym, *models.TrialKey, *models.User, error)
	GetGym(ctx context.Context, gymID string) (*models.Gym, error)
}

// Cache — кеш записей залов.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Status — состояние пробного периода.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// ActivateRequest — данные формы активации.
type ActivateRequest struct {
	Key      string
	GymName  string
	Email    string
	Phone    string
	Password string
}

// Activation — результат успешной активации.
type Activation struct {
	Gym   models.Gym
	Key   models.TrialKey
	Owner models.Principal
}

// Expiry — результат проверки срока пробного периода.
type Expiry struct {
	GymID     string     `json:"gym_id"`
	Status    Status     `json:"status"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	RenewURL  string     `json:"renew_url,omitempty"`
}

// Expired сообщает, истёк ли пробный период.
func (e Expiry) Expired() bool {
	return e.Status == StatusExpired
}

// Manager активирует пробные ключи и проверяет их срок.
type Manager struct {
	store    Store
	cache    Cache
	log      *slog.Logger
	duration time.Duration
	now      func() time.Time
}

// Option настраивает Manager.
type Option func(*Manager)

// WithClock подменяет источник текущего времени.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// WithDuration задаёт длительность пробного периода.
func WithDuration(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.duration = d
		}
	}
}

// NewManager создаёт Manager. cache может быть nil.
func NewManager(store Store, cache Cache, log *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:    store,
		cache:    cache,
		log:      log,
		duration: DefaultDuration,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NormalizeKey приводит введённый ключ к каноническому виду.
func NormalizeKey(key string) string {
	return strings.ToUpper(strings.TrimSpace(key))
}

// GymCacheKey возвращает ключ кеша записи зала.
func GymCacheKey(gymID string) string {
	return "gym:" + gymID
}

// RenewPath возвращает путь продления для зала.
func RenewPath(gymID string) string {
	return "/renew/" + gymID
}

// Activate активирует ключ и создаёт пробный зал. Повторная активация ключа
// даёт ErrTrialKeyAlreadyUsed, неизвестный ключ — ErrTrialKeyNotFound; в обоих
// случаях хранилище не меняется. Вместе с залом создаётся учётная запись владельца
// с паролем из формы; занятый email даёт repository.ErrAlreadyExists.
func (m *Manager) Activate(ctx context.Context, req ActivateRequest) (*Activation, error) {
	const op = "trial.Activate"
	log := m.log.With(slog.String("op", op))

	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	key := NormalizeKey(req.Key)
	activatedAt := m.now().UTC()
	expiresAt := activatedAt.Add(m.duration)
	gym := models.Gym{
		Name:    strings.TrimSpace(req.GymName),
		Contact: models.Contact{Email: strings.TrimSpace(req.Email), Phone: strings.TrimSpace(req.Phone)},
	}

	owner := models.User{
		Email:        strings.ToLower(gym.Contact.Email),
		PasswordHash: hashed,
		DisplayName:  gym.Name,
	}

	createdGym, trialKey, createdOwner, err := m.store.ActivateTrialKey(ctx, key, gym, owner, activatedAt, expiresAt)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		activations.WithLabelValues("not_found").Inc()
		return nil, fmt.Errorf("%s: %w", op, ErrTrialKeyNotFound)
	case errors.Is(err, repository.ErrAlreadyActivated):
		activations.WithLabelValues("already_used").Inc()
		return nil, fmt.Errorf("%s: %w", op, ErrTrialKeyAlreadyUsed)
	case errors.Is(err, repository.ErrAlreadyExists):
		activations.WithLabelValues("email_taken").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	case err != nil:
		activations.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	activations.WithLabelValues("activated").Inc()
	log.Info("trial activated", slog.String("gym_id", createdGym.ID), slog.Time("expires_at", expiresAt))

	m.cacheGym(ctx, createdGym)

	return &Activation{
		Gym:   *createdGym,
		Key:   *trialKey,
		Owner: createdOwner.Principal(),
	}, nil
}

// Gym возвращает зал, сначала из кеша.
func (m *Manager) Gym(ctx context.Context, gymID string) (*models.Gym, error) {
	const op = "trial.Gym"
	if m.cache != nil {
		var cached models.Gym
		found, err := m.cache.Get(ctx, GymCacheKey(gymID), &cached)
		if err != nil {
			m.log.Warn("gym cache read failed", slog.String("op", op), sl.Err(err))
		}
		if found {
			return &cached, nil
		}
	}
	gym, err := m.store.GetGym(ctx, gymID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	m.cacheGym(ctx, gym)
	return gym, nil
}

// CheckExpiry проверяет пробный период зала. Момент now == ExpiresAt уже считается истечением.
// Оплаченный зал и зал без срока всегда активны.
func (m *Manager) CheckExpiry(ctx context.Context, gymID string) (Expiry, error) {
	const op = "trial.CheckExpiry"
	gym, err := m.Gym(ctx, gymID)
	if err != nil {
		return Expiry{}, fmt.Errorf("%s: %w", op, err)
	}
	return Evaluate(gym, m.now()), nil
}

// Evaluate вычисляет состояние пробного периода зала на момент now.
func Evaluate(gym *models.Gym, now time.Time) Expiry {
	e := Expiry{GymID: gym.ID, Status: StatusActive, ExpiresAt: gym.ExpiresAt}
	if gym.TrialExpired(now) {
		e.Status = StatusExpired
		e.RenewURL = RenewPath(gym.ID)
	}
	return e
}

// InvalidateGym сбрасывает кеш зала после изменения его записи.
func (m *Manager) InvalidateGym(ctx context.Context, gymID string) {
	if m.cache == nil {
		return
	}
	if err := m.cache.Invalidate(ctx, GymCacheKey(gymID)); err != nil {
		m.log.Warn("gym cache invalidate failed", slog.String("gym_id", gymID), sl.Err(err))
	}
}

func (m *Manager) cacheGym(ctx context.Context, gym *models.Gym) {
	if m.cache == nil {
		return
	}
	if err := m.cache.Set(ctx, GymCacheKey(gym.ID), gym, gymCacheTTL); err != nil {
		m.log.Warn("gym cache write failed", slog.String("gym_id", gym.ID), sl.Err(err))
	}
}

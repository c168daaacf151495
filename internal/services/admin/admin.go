// Package admin содержит операции суперадмина: выпуск пробных ключей,
// обзор залов и перевод зала на оплаченный тариф.
package admin

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"time"

	"github.com/magabrotheeeer/gymhub/internal/lib/month"
	"github.com/magabrotheeeer/gymhub/internal/models"
	"github.com/magabrotheeeer/gymhub/internal/services/renewal"
	"github.com/magabrotheeeer/gymhub/internal/storage/repository"
)

const (
	keyLength     = 8
	keyAlphabet   = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	maxIssueBatch = 100
	issueAttempts = 3
)

// ErrInvalidCount — запрошено неположительное или слишком большое число ключей.
var ErrInvalidCount = fmt.Errorf("count must be between 1 and %d", maxIssueBatch)

// Repository — операции хранилища для суперадмина.
type Repository interface {
	InsertTrialKeys(ctx context.Context, keys []string) ([]*models.TrialKey, error)
	ListTrialKeys(ctx context.Context) ([]*models.TrialKey, error)
	ListGyms(ctx context.Context) ([]*models.Gym, error)
	RenewGym(ctx context.Context, gymID, planID string, nextDue func(current *time.Time, months int) time.Time) (*models.Gym, error)
}

// GymCache сбрасывает кеш записи зала.
type GymCache interface {
	InvalidateGym(ctx context.Context, gymID string)
}

// KeyView — пробный ключ с вычисленным состоянием.
type KeyView struct {
	*models.TrialKey
	State models.TrialKeyState `json:"state"`
}

// GymView — зал с вычисленным статусом оплаты.
type GymView struct {
	*models.Gym
	Renewal renewal.GymStatus `json:"renewal"`
}

// Service реализует операции суперадмина.
type Service struct {
	repo     Repository
	gymCache GymCache
	log      *slog.Logger
	now      func() time.Time
	newKey   func() (string, error)
}

// NewService создаёт Service.
func NewService(repo Repository, gymCache GymCache, log *slog.Logger) *Service {
	return &Service{repo: repo, gymCache: gymCache, log: log, now: time.Now, newKey: randomKey}
}

// IssueTrialKeys выпускает count новых ключей. Совпадение с существующим
// ключом повторяет попытку с новой партией.
func (s *Service) IssueTrialKeys(ctx context.Context, count int) ([]*models.TrialKey, error) {
	const op = "admin.IssueTrialKeys"
	if count < 1 || count > maxIssueBatch {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCount)
	}

	var lastErr error
	for range issueAttempts {
		keys, err := s.generate(count)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		issued, err := s.repo.InsertTrialKeys(ctx, keys)
		if err == nil {
			s.log.Info("trial keys issued", slog.String("op", op), slog.Int("count", len(issued)))
			return issued, nil
		}
		if !errors.Is(err, repository.ErrAlreadyExists) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%s: %w", op, lastErr)
}

// TrialKeys возвращает все ключи с состоянием.
func (s *Service) TrialKeys(ctx context.Context) ([]KeyView, error) {
	const op = "admin.TrialKeys"
	keys, err := s.repo.ListTrialKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := s.now()
	views := make([]KeyView, 0, len(keys))
	for _, k := range keys {
		views = append(views, KeyView{TrialKey: k, State: k.State(now)})
	}
	return views, nil
}

// Gyms возвращает все залы со статусом оплаты.
func (s *Service) Gyms(ctx context.Context) ([]GymView, error) {
	const op = "admin.Gyms"
	gyms, err := s.repo.ListGyms(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	now := s.now()
	views := make([]GymView, 0, len(gyms))
	for _, g := range gyms {
		views = append(views, GymView{Gym: g, Renewal: renewal.ForGym(g, now)})
	}
	return views, nil
}

// RenewGym переводит зал на тариф planID. Ещё не наступивший срок
// продлевается, истёкший отсчитывается от текущего момента.
func (s *Service) RenewGym(ctx context.Context, gymID, planID string) (*models.Gym, error) {
	const op = "admin.RenewGym"
	now := s.now().UTC()
	gym, err := s.repo.RenewGym(ctx, gymID, planID, func(current *time.Time, months int) time.Time {
		return month.NextDue(current, now, months)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.gymCache.InvalidateGym(ctx, gymID)
	s.log.Info("gym renewed", slog.String("op", op), slog.String("gym_id", gymID), slog.String("plan_id", planID))
	return gym, nil
}

func (s *Service) generate(count int) ([]string, error) {
	seen := make(map[string]struct{}, count)
	keys := make([]string, 0, count)
	for len(keys) < count {
		k, err := s.newKey()
		if err != nil {
			return nil, err
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys, nil
}

func randomKey() (string, error) {
	buf := make([]byte, keyLength)
	limit := big.NewInt(int64(len(keyAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		buf[i] = keyAlphabet[n.Int64()]
	}
	return string(buf), nil
}

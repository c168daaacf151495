// Package session хранит личность вошедшего пользователя (Principal) в Redis.
//
// Запись создаётся при входе или активации пробного периода и удаляется при
// выходе. Токен клиента несёт только идентификатор сессии.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/magabrotheeeer/gymhub/internal/models"
)

const keyPrefix = "session:"

// ErrSessionMissing возвращается, когда сессии нет или она истекла.
var ErrSessionMissing = errors.New("session missing")

// Cache — часть кеша, нужная хранилищу сессий.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Store управляет сессиями.
type Store struct {
	cache Cache
	ttl   time.Duration
	newID func() string
}

// NewStore создаёт хранилище сессий со сроком жизни ttl.
func NewStore(cache Cache, ttl time.Duration) *Store {
	return &Store{
		cache: cache,
		ttl:   ttl,
		newID: uuid.NewString,
	}
}

// Key возвращает ключ Redis для сессии sid.
func Key(sid string) string {
	return keyPrefix + sid
}

// Create сохраняет Principal и возвращает идентификатор новой сессии.
func (s *Store) Create(ctx context.Context, p models.Principal) (string, error) {
	const op = "session.Create"
	if !p.Role.Valid() {
		return "", fmt.Errorf("%s: invalid role %q", op, p.Role)
	}
	sid := s.newID()
	if err := s.cache.Set(ctx, Key(sid), p, s.ttl); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return sid, nil
}

// Get возвращает Principal сессии sid или ErrSessionMissing.
func (s *Store) Get(ctx context.Context, sid string) (*models.Principal, error) {
	const op = "session.Get"
	if sid == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrSessionMissing)
	}
	var p models.Principal
	found, err := s.cache.Get(ctx, Key(sid), &p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found || !p.Role.Valid() {
		return nil, fmt.Errorf("%s: %w", op, ErrSessionMissing)
	}
	return &p, nil
}

// Delete удаляет сессию. Удаление отсутствующей сессии не ошибка.
func (s *Store) Delete(ctx context.Context, sid string) error {
	const op = "session.Delete"
	if err := s.cache.Invalidate(ctx, Key(sid)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

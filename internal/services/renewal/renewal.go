// Package renewal вычисляет статус оплаты залов и участников.
//
// Статус производный: он считается из даты следующего платежа при каждом
// чтении и никогда не сохраняется. Просроченный статус не блокирует чтение данных.
package renewal

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/gymhub/internal/models"
)

// Status — статус оплаты.
type Status string

const (
	StatusActive  Status = "active"
	StatusExpired Status = "expired"
)

// Evaluate возвращает StatusActive, если срок не задан или now раньше due.
// Момент now == due уже просрочка.
func Evaluate(now time.Time, due *time.Time) Status {
	if due == nil || now.Before(*due) {
		return StatusActive
	}
	return StatusExpired
}

// GymStatus — статус зала вместе с его сроками.
type GymStatus struct {
	GymID     string     `json:"gym_id"`
	IsTrial   bool       `json:"is_trial"`
	Status    Status     `json:"status"`
	DueAt     *time.Time `json:"due_at,omitempty"`
	RenewPath string     `json:"renew_path"`
}

// ForGym вычисляет статус зала: для пробного срок — ExpiresAt, для оплаченного — NextDueDate.
func ForGym(gym *models.Gym, now time.Time) GymStatus {
	due := gym.NextDueDate
	if gym.IsTrial {
		due = gym.ExpiresAt
	}
	return GymStatus{
		GymID:     gym.ID,
		IsTrial:   gym.IsTrial,
		Status:    Evaluate(now, due),
		DueAt:     due,
		RenewPath: "/renew/" + gym.ID,
	}
}

// Gyms — источник записей залов.
type Gyms interface {
	Gym(ctx context.Context, gymID string) (*models.Gym, error)
}

// Plans — каталог тарифов.
type Plans interface {
	ListPlans(ctx context.Context) ([]*models.Plan, error)
}

// Service отдаёт статус продления и каталог тарифов.
type Service struct {
	gyms  Gyms
	plans Plans
	now   func() time.Time
}

// NewService создаёт Service.
func NewService(gyms Gyms, plans Plans) *Service {
	return &Service{gyms: gyms, plans: plans, now: time.Now}
}

// GymStatus возвращает статус оплаты зала.
func (s *Service) GymStatus(ctx context.Context, gymID string) (GymStatus, error) {
	const op = "renewal.GymStatus"
	gym, err := s.gyms.Gym(ctx, gymID)
	if err != nil {
		return GymStatus{}, fmt.Errorf("%s: %w", op, err)
	}
	return ForGym(gym, s.now()), nil
}

// Offer — данные публичной страницы продления. Контакты зала сюда не попадают.
type Offer struct {
	State GymStatus      `json:"status"`
	Plans []*models.Plan `json:"plans"`
}

// Offer собирает статус зала и каталог тарифов для страницы продления.
func (s *Service) Offer(ctx context.Context, gymID string) (*Offer, error) {
	const op = "renewal.Offer"
	gym, err := s.gyms.Gym(ctx, gymID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	plans, err := s.plans.ListPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Offer{State: ForGym(gym, s.now()), Plans: plans}, nil
}

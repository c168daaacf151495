// Package dashboard собирает данные панелей для каждой роли.
package dashboard

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/gymhub/internal/models"
	"github.com/magabrotheeeer/gymhub/internal/services/access"
	"github.com/magabrotheeeer/gymhub/internal/services/membership"
	"github.com/magabrotheeeer/gymhub/internal/services/renewal"
)

// Gyms — источник записей залов.
type Gyms interface {
	Gym(ctx context.Context, gymID string) (*models.Gym, error)
}

// Members — чтение участников с учётом роли.
type Members interface {
	Members(ctx context.Context, p *models.Principal, gymID string) ([]membership.MemberView, error)
	Member(ctx context.Context, p *models.Principal, gymID, memberID string) (membership.MemberView, error)
	Payments(ctx context.Context, p *models.Principal, gymID, memberID string) ([]*models.Payment, error)
}

// Totals — сводные счётчики для суперадмина.
type Totals interface {
	CountGyms(ctx context.Context) (total, trial int, err error)
	CountTrialKeys(ctx context.Context) (total, activated int, err error)
}

// Owner — панель владельца.
type Owner struct {
	Principal models.Principal       `json:"principal"`
	Gym       *models.Gym            `json:"gym"`
	Renewal   renewal.GymStatus      `json:"renewal"`
	Members   map[renewal.Status]int `json:"members"`
}

// Trainer — панель тренера.
type Trainer struct {
	Principal models.Principal        `json:"principal"`
	Members   []membership.MemberView `json:"members"`
}

// Member — панель участника.
type Member struct {
	Principal models.Principal      `json:"principal"`
	Member    membership.MemberView `json:"member"`
	Payments  []*models.Payment     `json:"payments"`
}

// SuperAdmin — панель суперадмина.
type SuperAdmin struct {
	Principal         models.Principal `json:"principal"`
	Gyms              int              `json:"gyms"`
	TrialGyms         int              `json:"trial_gyms"`
	TrialKeys         int              `json:"trial_keys"`
	ActivatedTrialKey int              `json:"activated_trial_keys"`
}

// Service собирает данные панелей.
type Service struct {
	gyms    Gyms
	members Members
	totals  Totals
	renewal *renewal.Service
}

// NewService создаёт Service.
func NewService(gyms Gyms, members Members, totals Totals, renewals *renewal.Service) *Service {
	return &Service{gyms: gyms, members: members, totals: totals, renewal: renewals}
}

// For возвращает данные панели роли p.
func (s *Service) For(ctx context.Context, p *models.Principal) (any, error) {
	const op = "dashboard.For"
	if p == nil {
		return nil, fmt.Errorf("%s: %w", op, access.ErrSessionMissing)
	}
	var (
		view any
		err  error
	)
	switch p.Role {
	case models.RoleOwner:
		view, err = s.owner(ctx, p)
	case models.RoleTrainer:
		view, err = s.trainer(ctx, p)
	case models.RoleMember:
		view, err = s.member(ctx, p)
	case models.RoleSuperAdmin:
		view, err = s.superAdmin(ctx, p)
	case models.RoleUnknown:
		return nil, fmt.Errorf("%s: %w", op, access.ErrSessionMissing)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return view, nil
}

func (s *Service) owner(ctx context.Context, p *models.Principal) (*Owner, error) {
	gym, err := s.gyms.Gym(ctx, p.GymID)
	if err != nil {
		return nil, err
	}
	status, err := s.renewal.GymStatus(ctx, p.GymID)
	if err != nil {
		return nil, err
	}
	views, err := s.members.Members(ctx, p, p.GymID)
	if err != nil {
		return nil, err
	}
	return &Owner{Principal: *p, Gym: gym, Renewal: status, Members: membership.StatusCounts(views)}, nil
}

func (s *Service) trainer(ctx context.Context, p *models.Principal) (*Trainer, error) {
	views, err := s.members.Members(ctx, p, p.GymID)
	if err != nil {
		return nil, err
	}
	return &Trainer{Principal: *p, Members: views}, nil
}

func (s *Service) member(ctx context.Context, p *models.Principal) (*Member, error) {
	view, err := s.members.Member(ctx, p, p.GymID, p.MemberID)
	if err != nil {
		return nil, err
	}
	payments, err := s.members.Payments(ctx, p, p.GymID, p.MemberID)
	if err != nil {
		return nil, err
	}
	return &Member{Principal: *p, Member: view, Payments: payments}, nil
}

func (s *Service) superAdmin(ctx context.Context, p *models.Principal) (*SuperAdmin, error) {
	gyms, trials, err := s.totals.CountGyms(ctx)
	if err != nil {
		return nil, err
	}
	keys, activated, err := s.totals.CountTrialKeys(ctx)
	if err != nil {
		return nil, err
	}
	return &SuperAdmin{Principal: *p, Gyms: gyms, TrialGyms: trials, TrialKeys: keys, ActivatedTrialKey: activated}, nil
}

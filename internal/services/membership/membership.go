// Package membership отдаёт списки участников с вычисленным статусом оплаты,
// историю платежей, записывает новые платежи и заводит участников и тренеров
// вместе с их учётными записями.
package membership

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/magabrotheeeer/gymhub/internal/lib/month"
	"github.com/magabrotheeeer/gymhub/internal/lib/password"
	"github.com/magabrotheeeer/gymhub/internal/models"
	"github.com/magabrotheeeer/gymhub/internal/services/access"
	"github.com/magabrotheeeer/gymhub/internal/services/renewal"
)

// ErrInvalidPayment — сумма или число месяцев не положительны.
var ErrInvalidPayment = errors.New("amount and months must be positive")

// Repository — операции хранилища участников.
type Repository interface {
	ListMembers(ctx context.Context, gymID string) ([]*models.Member, error)
	ListMembersByTrainer(ctx context.Context, gymID, trainerID string) ([]*models.Member, error)
	GetMember(ctx context.Context, gymID, memberID string) (*models.Member, error)
	ListPayments(ctx context.Context, gymID, memberID string) ([]*models.Payment, error)
	RecordPayment(ctx context.Context, payment models.Payment, nextDue func(current *time.Time) time.Time) (*models.Payment, *models.Member, error)
	CreateMember(ctx context.Context, member models.Member, user models.User) (*models.Member, *models.User, error)
	CreateTrainer(ctx context.Context, trainer models.Trainer, user models.User) (*models.Trainer, *models.User, error)
}

// MemberView — участник с производным статусом оплаты.
type MemberView struct {
	*models.Member
	Status renewal.Status `json:"status"`
}

// PaymentRequest — данные новой оплаты.
type PaymentRequest struct {
	Amount int
	Months int
}

// Account — данные учётной записи нового участника или тренера.
type Account struct {
	Name            string
	Email           string
	Password        string
	BranchID        string
	CommunityHandle string
}

// NewMemberRequest — данные нового участника.
type NewMemberRequest struct {
	Account
	Phone     string
	TrainerID string
	PlanID    string
}

// Service реализует чтение и запись данных участников с учётом роли.
type Service struct {
	repo Repository
	log  *slog.Logger
	now  func() time.Time
}

// NewService создаёт Service.
func NewService(repo Repository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log, now: time.Now}
}

// Members возвращает участников зала. Тренер видит только закреплённых за ним,
// владелец и суперадмин — всех, участнику список недоступен.
func (s *Service) Members(ctx context.Context, p *models.Principal, gymID string) ([]MemberView, error) {
	const op = "membership.Members"
	if !p.CanAccessGym(gymID) {
		return nil, fmt.Errorf("%s: %w", op, access.ErrRoleMismatch)
	}

	var (
		members []*models.Member
		err     error
	)
	switch p.Role {
	case models.RoleOwner, models.RoleSuperAdmin:
		members, err = s.repo.ListMembers(ctx, gymID)
	case models.RoleTrainer:
		members, err = s.repo.ListMembersByTrainer(ctx, gymID, p.TrainerID)
	case models.RoleMember, models.RoleUnknown:
		return nil, fmt.Errorf("%s: %w", op, access.ErrRoleMismatch)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.views(members), nil
}

// Member возвращает одного участника со статусом. Участник может читать только себя.
func (s *Service) Member(ctx context.Context, p *models.Principal, gymID, memberID string) (MemberView, error) {
	const op = "membership.Member"
	if err := s.authorizeMember(p, gymID, memberID); err != nil {
		return MemberView{}, fmt.Errorf("%s: %w", op, err)
	}
	m, err := s.repo.GetMember(ctx, gymID, memberID)
	if err != nil {
		return MemberView{}, fmt.Errorf("%s: %w", op, err)
	}
	return MemberView{Member: m, Status: renewal.Evaluate(s.now(), m.NextDueDate)}, nil
}

// Payments возвращает историю оплат участника. Чтение не зависит от статуса оплаты.
func (s *Service) Payments(ctx context.Context, p *models.Principal, gymID, memberID string) ([]*models.Payment, error) {
	const op = "membership.Payments"
	if err := s.authorizeMember(p, gymID, memberID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	payments, err := s.repo.ListPayments(ctx, gymID, memberID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if payments == nil {
		payments = []*models.Payment{}
	}
	return payments, nil
}

// RecordPayment записывает оплату участника и продлевает его абонемент.
// Доступно владельцу зала и суперадмину.
func (s *Service) RecordPayment(ctx context.Context, p *models.Principal, gymID, memberID string, req PaymentRequest) (*models.Payment, MemberView, error) {
	const op = "membership.RecordPayment"
	if !p.CanAccessGym(gymID) || (p.Role != models.RoleOwner && p.Role != models.RoleSuperAdmin) {
		return nil, MemberView{}, fmt.Errorf("%s: %w", op, access.ErrRoleMismatch)
	}
	if req.Amount <= 0 || req.Months <= 0 {
		return nil, MemberView{}, fmt.Errorf("%s: %w", op, ErrInvalidPayment)
	}

	paidAt := s.now().UTC()
	payment, member, err := s.repo.RecordPayment(ctx,
		models.Payment{GymID: gymID, MemberID: memberID, Amount: req.Amount, Months: req.Months, PaidAt: paidAt},
		func(current *time.Time) time.Time { return month.NextDue(current, paidAt, req.Months) })
	if err != nil {
		return nil, MemberView{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("payment recorded",
		slog.String("op", op),
		slog.String("gym_id", gymID),
		slog.String("member_id", memberID),
		slog.Int("months", req.Months))
	return payment, MemberView{Member: member, Status: renewal.Evaluate(s.now(), member.NextDueDate)}, nil
}

// AddMember заводит участника зала с учётной записью для входа.
// Доступно владельцу зала и суперадмину.
func (s *Service) AddMember(ctx context.Context, p *models.Principal, gymID string, req NewMemberRequest) (MemberView, error) {
	const op = "membership.AddMember"
	if !canManageStaff(p, gymID) {
		return MemberView{}, fmt.Errorf("%s: %w", op, access.ErrRoleMismatch)
	}
	user, err := newUser(req.Account)
	if err != nil {
		return MemberView{}, fmt.Errorf("%s: %w", op, err)
	}

	member := models.Member{
		GymID:     gymID,
		BranchID:  req.BranchID,
		TrainerID: optional(req.TrainerID),
		Name:      strings.TrimSpace(req.Name),
		Email:     user.Email,
		Phone:     strings.TrimSpace(req.Phone),
		PlanID:    optional(req.PlanID),
	}
	created, createdUser, err := s.repo.CreateMember(ctx, member, user)
	if err != nil {
		return MemberView{}, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("member added",
		slog.String("op", op),
		slog.String("gym_id", gymID),
		slog.String("member_id", created.ID),
		slog.String("user_uid", createdUser.UID))
	return MemberView{Member: created, Status: renewal.Evaluate(s.now(), created.NextDueDate)}, nil
}

// AddTrainer заводит тренера зала с учётной записью для входа.
// Доступно владельцу зала и суперадмину.
func (s *Service) AddTrainer(ctx context.Context, p *models.Principal, gymID string, req Account) (*models.Trainer, error) {
	const op = "membership.AddTrainer"
	if !canManageStaff(p, gymID) {
		return nil, fmt.Errorf("%s: %w", op, access.ErrRoleMismatch)
	}
	user, err := newUser(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	trainer := models.Trainer{
		GymID:    gymID,
		BranchID: req.BranchID,
		Name:     strings.TrimSpace(req.Name),
		Email:    user.Email,
	}
	created, createdUser, err := s.repo.CreateTrainer(ctx, trainer, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("trainer added",
		slog.String("op", op),
		slog.String("gym_id", gymID),
		slog.String("trainer_id", created.ID),
		slog.String("user_uid", createdUser.UID))
	return created, nil
}

func canManageStaff(p *models.Principal, gymID string) bool {
	return p.CanAccessGym(gymID) && (p.Role == models.RoleOwner || p.Role == models.RoleSuperAdmin)
}

func newUser(a Account) (models.User, error) {
	hashed, err := password.GetHash(a.Password)
	if err != nil {
		return models.User{}, err
	}
	return models.User{
		Email:           strings.ToLower(strings.TrimSpace(a.Email)),
		PasswordHash:    hashed,
		DisplayName:     strings.TrimSpace(a.Name),
		CommunityHandle: strings.TrimSpace(a.CommunityHandle),
	}, nil
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

// StatusCounts считает участников зала по статусу оплаты.
func StatusCounts(views []MemberView) map[renewal.Status]int {
	counts := map[renewal.Status]int{renewal.StatusActive: 0, renewal.StatusExpired: 0}
	for _, v := range views {
		counts[v.Status]++
	}
	return counts
}

func (s *Service) authorizeMember(p *models.Principal, gymID, memberID string) error {
	if !p.CanAccessGym(gymID) {
		return access.ErrRoleMismatch
	}
	if p.Role == models.RoleMember && p.MemberID != memberID {
		return access.ErrRoleMismatch
	}
	return nil
}

func (s *Service) views(members []*models.Member) []MemberView {
	now := s.now()
	views := make([]MemberView, 0, len(members))
	for _, m := range members {
		views = append(views, MemberView{Member: m, Status: renewal.Evaluate(now, m.NextDueDate)})
	}
	return views
}

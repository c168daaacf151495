// Package auth содержит вход, выход и регистрацию владельцев залов.
//
// После входа личность пользователя хранится в кеше сессий, а клиент получает
// JWT с идентификатором сессии. Выход удаляет запись сессии, и токен перестаёт работать.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/magabrotheeeer/gymhub/internal/lib/jwt"
	"github.com/magabrotheeeer/gymhub/internal/lib/month"
	"github.com/magabrotheeeer/gymhub/internal/lib/password"
	"github.com/magabrotheeeer/gymhub/internal/models"
	"github.com/magabrotheeeer/gymhub/internal/session"
	"github.com/magabrotheeeer/gymhub/internal/storage/repository"
)

var (
	// ErrInvalidCredentials — неизвестный email или неверный пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken — учётная запись с таким email уже есть.
	ErrEmailTaken = errors.New("email already registered")
)

// UserRepository описывает контракт для работы с учётными записями.
type UserRepository interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateGymWithOwner(ctx context.Context, gym models.Gym, owner models.User) (*models.Gym, *models.User, error)
	GetPlan(ctx context.Context, planID string) (*models.Plan, error)
}

// Sessions описывает хранилище сессий.
type Sessions interface {
	Create(ctx context.Context, p models.Principal) (string, error)
	Get(ctx context.Context, sid string) (*models.Principal, error)
	Delete(ctx context.Context, sid string) error
}

// Session — открытая сессия: токен для клиента и личность пользователя.
type Session struct {
	Token     string           `json:"token"`
	Principal models.Principal `json:"principal"`
}

// RegisterRequest — данные регистрации оплачиваемого зала с владельцем.
type RegisterRequest struct {
	GymName     string
	Email       string
	Phone       string
	Address     string
	Password    string
	DisplayName string
	PlanID      string
}

// AuthService отвечает за вход, выход и регистрацию.
type AuthService struct {
	users    UserRepository
	sessions Sessions
	jwtMaker jwt.Maker
	now      func() time.Time
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, sessions Sessions, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		jwtMaker: jwtMaker,
		now:      time.Now,
	}
}

// Login проверяет пароль и открывает сессию.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (*Session, error) {
	const op = "auth.Login"
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}
	return s.Open(ctx, user.Principal())
}

// Open создаёт сессию для p и выпускает токен.
func (s *AuthService) Open(ctx context.Context, p models.Principal) (*Session, error) {
	const op = "auth.Open"
	sid, err := s.sessions.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	token, err := s.jwtMaker.GenerateToken(sid, p.UserUID, p.Role.String())
	if err != nil {
		_ = s.sessions.Delete(ctx, sid)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Session{Token: token, Principal: p}, nil
}

// Resolve проверяет токен и возвращает идентификатор сессии и её личность.
// Недействительный токен или удалённая сессия дают session.ErrSessionMissing.
func (s *AuthService) Resolve(ctx context.Context, token string) (string, *models.Principal, error) {
	const op = "auth.Resolve"
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w: %w", op, session.ErrSessionMissing, err)
	}
	p, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if p.Role.String() != claims.Role {
		return "", nil, fmt.Errorf("%s: %w", op, session.ErrSessionMissing)
	}
	return claims.SessionID, p, nil
}

// Logout удаляет сессию.
func (s *AuthService) Logout(ctx context.Context, sid string) error {
	const op = "auth.Logout"
	if err := s.sessions.Delete(ctx, sid); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Register создаёт оплачиваемый зал с владельцем и сразу открывает сессию владельца.
// Срок первой оплаты — сейчас плюс длительность выбранного тарифа.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	const op = "auth.Register"
	plan, err := s.users.GetPlan(ctx, req.PlanID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	due := month.Add(s.now().UTC(), plan.DurationMonths)
	gym := models.Gym{
		Name: strings.TrimSpace(req.GymName),
		Contact: models.Contact{
			Email:   normalizeEmail(req.Email),
			Phone:   strings.TrimSpace(req.Phone),
			Address: strings.TrimSpace(req.Address),
		},
		PlanID:      &plan.ID,
		NextDueDate: &due,
	}
	owner := models.User{
		Email:        normalizeEmail(req.Email),
		PasswordHash: hashed,
		Role:         models.RoleOwner,
		DisplayName:  strings.TrimSpace(req.DisplayName),
	}

	_, created, err := s.users.CreateGymWithOwner(ctx, gym, owner)
	if errors.Is(err, repository.ErrAlreadyExists) {
		return nil, fmt.Errorf("%s: %w", op, ErrEmailTaken)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.Open(ctx, created.Principal())
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

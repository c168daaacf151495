// Package access реализует проверку доступа к панелям /dashboard/<role>.
//
// Gate — чистая функция от личности сессии и запрошенного пути: она не читает
// хранилище и не меняет данные, поэтому одинаковые входы всегда дают одно решение.
package access

import (
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/magabrotheeeer/gymhub/internal/models"
)

// LoginPath — страница входа, куда отправляются запросы без сессии.
const LoginPath = "/login"

var (
	// ErrSessionMissing — сессии нет или её роль не распознана.
	ErrSessionMissing = errors.New("session missing")
	// ErrRoleMismatch — путь не принадлежит панели роли пользователя.
	ErrRoleMismatch = errors.New("role mismatch")
)

// Outcome — итог проверки.
type Outcome uint8

const (
	Allow Outcome = iota + 1
	Redirect
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	}
	return "unknown"
}

// Decision — решение Gate. Location и Reason заданы только для Redirect.
type Decision struct {
	Outcome  Outcome
	Location string
	Reason   error
}

// Allowed сообщает, пропущен ли запрос.
func (d Decision) Allowed() bool {
	return d.Outcome == Allow
}

var decisions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "gymhub_access_decisions_total",
	Help: "Access gate decisions by outcome and reason.",
}, []string{"decision", "reason"})

// Gate сопоставляет роль сессии с префиксом панели.
type Gate struct{}

// NewGate создаёт Gate.
func NewGate() *Gate {
	return &Gate{}
}

// Evaluate решает, можно ли показать path пользователю p.
//
// Без сессии (или с неизвестной ролью) — Redirect на LoginPath. Если path равен
// /dashboard/<role> или лежит под ним (граница по сегменту), — Allow. Иначе
// Redirect на собственную панель роли.
func (g *Gate) Evaluate(p *models.Principal, path string) Decision {
	d := evaluate(p, path)
	decisions.WithLabelValues(d.Outcome.String(), reasonLabel(d.Reason)).Inc()
	return d
}

func evaluate(p *models.Principal, path string) Decision {
	if p == nil || !p.Role.Valid() {
		return Decision{Outcome: Redirect, Location: LoginPath, Reason: ErrSessionMissing}
	}
	expected := p.Role.DashboardPrefix()
	if HasPathPrefix(path, expected) {
		return Decision{Outcome: Allow}
	}
	return Decision{Outcome: Redirect, Location: expected, Reason: ErrRoleMismatch}
}

// HasPathPrefix сообщает, совпадает ли path с prefix или лежит под ним.
// "/dashboard/ownerx" не лежит под "/dashboard/owner".
func HasPathPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || rest[0] == '/'
}

func reasonLabel(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrSessionMissing):
		return "session_missing"
	case errors.Is(err, ErrRoleMismatch):
		return "role_mismatch"
	default:
		return "other"
	}
}

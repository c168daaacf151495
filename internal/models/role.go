// Package models содержит доменные структуры gymhub: роли, сессионного
// пользователя (Principal), залы, пробные ключи, тарифы, участников и платежи.
package models

import (
	"fmt"
	"strings"
)

// Role — закрытое перечисление ролей. Нулевое значение RoleUnknown
// означает, что роль не распознана, и такая сессия считается отсутствующей.
type Role uint8

const (
	RoleUnknown Role = iota
	RoleOwner
	RoleTrainer
	RoleMember
	RoleSuperAdmin
)

// DashboardRoot — общий префикс защищённых панелей.
const DashboardRoot = "/dashboard/"

// Roles возвращает все известные роли.
func Roles() []Role {
	return []Role{RoleOwner, RoleTrainer, RoleMember, RoleSuperAdmin}
}

// ParseRole разбирает строковое значение роли. Неизвестные значения дают RoleUnknown и false.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "owner":
		return RoleOwner, true
	case "trainer":
		return RoleTrainer, true
	case "member":
		return RoleMember, true
	case "superadmin":
		return RoleSuperAdmin, true
	default:
		return RoleUnknown, false
	}
}

func (r Role) String() string {
	switch r {
	case RoleOwner:
		return "owner"
	case RoleTrainer:
		return "trainer"
	case RoleMember:
		return "member"
	case RoleSuperAdmin:
		return "superadmin"
	case RoleUnknown:
		return "unknown"
	}
	return "unknown"
}

// Valid сообщает, является ли роль одной из известных.
func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleTrainer, RoleMember, RoleSuperAdmin:
		return true
	case RoleUnknown:
		return false
	}
	return false
}

// DashboardPrefix возвращает канонический путь панели для роли.
func (r Role) DashboardPrefix() string {
	return DashboardRoot + r.String()
}

// MarshalText сериализует роль строкой, чтобы JSON в кеше и ответах оставался читаемым.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("models.Role: cannot marshal unknown role %d", r)
	}
	return []byte(r.String()), nil
}

// UnmarshalText разбирает роль из строки; неизвестная строка — ошибка.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, ok := ParseRole(string(text))
	if !ok {
		return fmt.Errorf("models.Role: unknown role %q", string(text))
	}
	*r = parsed
	return nil
}

package models

import "time"

// Contact — контактные данные зала.
type Contact struct {
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// Gym представляет арендатора: зал со своими филиалами, тренерами и участниками.
// Для пробного зала ExpiresAt обязателен, для оплаченного срок задаёт NextDueDate.
type Gym struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Contact     Contact    `json:"contact"`
	IsTrial     bool       `json:"is_trial"`
	TrialKey    *string    `json:"trial_key,omitempty"`
	PlanID      *string    `json:"plan_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	NextDueDate *time.Time `json:"next_due_date,omitempty"`
}

// TrialExpired сообщает, истёк ли пробный период на момент now.
// Граница now == ExpiresAt считается истечением.
func (g *Gym) TrialExpired(now time.Time) bool {
	if g == nil || !g.IsTrial || g.ExpiresAt == nil {
		return false
	}
	return !now.Before(*g.ExpiresAt)
}

// Branch — филиал зала.
type Branch struct {
	ID    string `json:"id"`
	GymID string `json:"gym_id"`
	Name  string `json:"name"`
}

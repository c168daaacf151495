package models

import "time"

// TrialKeyState — состояние одноразового пробного ключа.
type TrialKeyState string

const (
	TrialKeyUnissued  TrialKeyState = "unissued"
	TrialKeyActivated TrialKeyState = "activated"
	TrialKeyExpired   TrialKeyState = "expired"
)

// TrialKey — одноразовый код активации пробного периода.
// После активации запись не меняется: ActivatedAt, ExpiresAt и GymID заданы вместе.
type TrialKey struct {
	Key         string     `json:"key"`
	CreatedAt   time.Time  `json:"created_at"`
	ActivatedAt *time.Time `json:"activated_at,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	GymID       *string    `json:"gym_id,omitempty"`
}

// Activated сообщает, был ли ключ уже использован.
func (k *TrialKey) Activated() bool {
	return k.ActivatedAt != nil
}

// State вычисляет состояние ключа на момент now.
func (k *TrialKey) State(now time.Time) TrialKeyState {
	switch {
	case k.ActivatedAt == nil:
		return TrialKeyUnissued
	case k.ExpiresAt != nil && !now.Before(*k.ExpiresAt):
		return TrialKeyExpired
	default:
		return TrialKeyActivated
	}
}

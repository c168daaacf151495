package models

import "time"

// Типы уведомлений, публикуемых планировщиком.
const (
	NotificationTrialExpired  = "trial_expired"
	NotificationMembershipDue = "membership_due"
)

// Notification — сообщение для отправителя писем о продлении.
type Notification struct {
	Kind      string    `json:"kind"`
	GymID     string    `json:"gym_id"`
	GymName   string    `json:"gym_name"`
	MemberID  string    `json:"member_id,omitempty"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	DueAt     time.Time `json:"due_at"`
	RenewPath string    `json:"renew_path"`
}

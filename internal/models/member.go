package models

import "time"

// Member — участник зала.
type Member struct {
	ID          string     `json:"id"`
	GymID       string     `json:"gym_id"`
	BranchID    string     `json:"branch_id"`
	TrainerID   *string    `json:"trainer_id,omitempty"`
	Name        string     `json:"name"`
	Email       string     `json:"email,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	PlanID      *string    `json:"plan_id,omitempty"`
	JoinedAt    time.Time  `json:"joined_at"`
	NextDueDate *time.Time `json:"next_due_date,omitempty"`
}

// Trainer — тренер филиала.
type Trainer struct {
	ID       string `json:"id"`
	GymID    string `json:"gym_id"`
	BranchID string `json:"branch_id"`
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
}

// Payment — оплата абонемента участником.
type Payment struct {
	ID       int       `json:"id"`
	GymID    string    `json:"gym_id"`
	MemberID string    `json:"member_id"`
	Amount   int       `json:"amount"`
	Months   int       `json:"months"`
	PaidAt   time.Time `json:"paid_at"`
}

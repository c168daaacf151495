package models

// Plan — тариф абонемента, справочные данные для продления.
type Plan struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	DurationLabel  string   `json:"duration_label"`
	DurationMonths int      `json:"duration_months"`
	Price          int      `json:"price"`
	Benefits       []string `json:"benefits"`
}

package models

// Principal — аутентифицированная личность текущей сессии.
// Создаётся при входе, хранится в кеше сессий, удаляется при выходе.
type Principal struct {
	UserUID         string `json:"user_uid,omitempty"`
	Role            Role   `json:"role"`
	GymID           string `json:"gym_id"`
	BranchID        string `json:"branch_id,omitempty"`
	MemberID        string `json:"member_id,omitempty"`
	TrainerID       string `json:"trainer_id,omitempty"`
	DisplayName     string `json:"display_name"`
	CommunityHandle string `json:"community_handle,omitempty"`
}

// CanAccessGym сообщает, может ли пользователь читать данные указанного зала.
// Суперадмин видит все залы, остальные роли — только свой.
func (p *Principal) CanAccessGym(gymID string) bool {
	if p == nil {
		return false
	}
	switch p.Role {
	case RoleSuperAdmin:
		return true
	case RoleOwner, RoleTrainer, RoleMember:
		return p.GymID != "" && p.GymID == gymID
	case RoleUnknown:
		return false
	}
	return false
}

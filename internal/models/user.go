package models

// User — учётная запись для входа. Из неё при логине собирается Principal.
type User struct {
	UID             string
	Email           string
	PasswordHash    string
	Role            Role
	GymID           *string
	BranchID        *string
	MemberID        *string
	TrainerID       *string
	DisplayName     string
	CommunityHandle string
}

// Principal строит сессионную личность из учётной записи.
func (u *User) Principal() Principal {
	return Principal{
		UserUID:         u.UID,
		Role:            u.Role,
		GymID:           deref(u.GymID),
		BranchID:        deref(u.BranchID),
		MemberID:        deref(u.MemberID),
		TrainerID:       deref(u.TrainerID),
		DisplayName:     u.DisplayName,
		CommunityHandle: u.CommunityHandle,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

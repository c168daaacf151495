package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/gymhub/internal/models"
)

const userColumns = `uid, email, password_hash, role, gym_id, branch_id, member_id, trainer_id,
	display_name, community_handle`

func scanUser(row scanner) (*models.User, error) {
	var (
		u                                    models.User
		role                                 string
		gymID, branchID, memberID, trainerID sql.NullString
		handle                               sql.NullString
	)
	if err := row.Scan(&u.UID, &u.Email, &u.PasswordHash, &role, &gymID, &branchID,
		&memberID, &trainerID, &u.DisplayName, &handle); err != nil {
		return nil, err
	}
	r, ok := models.ParseRole(role)
	if !ok {
		return nil, fmt.Errorf("unknown role %q for user %s", role, u.UID)
	}
	u.Role = r
	u.GymID = nullString(gymID)
	u.BranchID = nullString(branchID)
	u.MemberID = nullString(memberID)
	u.TrainerID = nullString(trainerID)
	u.CommunityHandle = handle.String
	return &u, nil
}

// GetUserByEmail возвращает учётную запись по email или ErrNotFound.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// GetUser возвращает учётную запись по UID или ErrNotFound.
func (s *Storage) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	const op = "storage.GetUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE uid = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userUID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundOnBadID(err))
	}
	return u, nil
}

// GetUserByHandle возвращает учётную запись по имени в сообществе или ErrNotFound.
func (s *Storage) GetUserByHandle(ctx context.Context, handle string) (*models.User, error) {
	const op = "storage.GetUserByHandle"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE community_handle = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, handle))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// insertUser создаёт учётную запись в транзакции tx и возвращает её UID.
// Пустой CommunityHandle сохраняется как NULL.
func insertUser(ctx context.Context, tx *sql.Tx, u models.User) (string, error) {
	var uid string
	err := tx.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash, role, gym_id, branch_id, member_id, trainer_id,
		                    display_name, community_handle)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''))
		 RETURNING uid`,
		u.Email, u.PasswordHash, u.Role.String(), u.GymID, u.BranchID, u.MemberID, u.TrainerID,
		u.DisplayName, u.CommunityHandle).Scan(&uid)
	return uid, err
}

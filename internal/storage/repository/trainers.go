package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/gymhub/internal/models"
)

// CreateTrainer добавляет тренера и его учётную запись в одной транзакции.
// Занятый email даёт ErrAlreadyExists, несуществующий зал — ErrNotFound.
func (s *Storage) CreateTrainer(ctx context.Context, trainer models.Trainer, user models.User) (*models.Trainer, *models.User, error) {
	const op = "storage.CreateTrainer"
	if err := checkCtx(ctx, op); err != nil {
		return nil, nil, err
	}

	var created models.Trainer
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var branchID sql.NullString
		err := tx.QueryRowContext(ctx,
			`INSERT INTO trainers (gym_id, branch_id, name, email)
			 VALUES ($1, NULLIF($2, '')::uuid, $3, $4)
			 RETURNING id, gym_id, branch_id, name, email`,
			trainer.GymID, trainer.BranchID, trainer.Name, trainer.Email).
			Scan(&created.ID, &created.GymID, &branchID, &created.Name, &created.Email)
		if err != nil {
			return err
		}
		created.BranchID = branchID.String

		user.Role = models.RoleTrainer
		user.GymID = &created.GymID
		user.TrainerID = &created.ID
		if created.BranchID != "" {
			user.BranchID = &created.BranchID
		}
		user.MemberID = nil
		user.UID, err = insertUser(ctx, tx, user)
		return err
	})
	if isUniqueViolation(err) {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, notFoundOnBadID(err))
	}
	return &created, &user, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/gymhub/internal/models"
)

const gymColumns = `id, name, email, phone, address, is_trial, trial_key, plan_id,
	created_at, expires_at, next_due_date`

func scanGym(row scanner) (*models.Gym, error) {
	var (
		g                      models.Gym
		trialKey, planID       sql.NullString
		expiresAt, nextDueDate sql.NullTime
	)
	if err := row.Scan(&g.ID, &g.Name, &g.Contact.Email, &g.Contact.Phone, &g.Contact.Address,
		&g.IsTrial, &trialKey, &planID, &g.CreatedAt, &expiresAt, &nextDueDate); err != nil {
		return nil, err
	}
	g.TrialKey = nullString(trialKey)
	g.PlanID = nullString(planID)
	g.ExpiresAt = nullTime(expiresAt)
	g.NextDueDate = nullTime(nextDueDate)
	return &g, nil
}

// GetGym возвращает зал по ID или ErrNotFound.
func (s *Storage) GetGym(ctx context.Context, gymID string) (*models.Gym, error) {
	const op = "storage.GetGym"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + gymColumns + ` FROM gyms WHERE id = $1`
	g, err := scanGym(s.DB.QueryRowContext(ctx, query, gymID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundOnBadID(err))
	}
	return g, nil
}

// ListGyms возвращает все залы, новые первыми.
func (s *Storage) ListGyms(ctx context.Context) ([]*models.Gym, error) {
	const op = "storage.ListGyms"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + gymColumns + ` FROM gyms ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Gym
	for rows.Next() {
		g, err := scanGym(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateGymWithOwner создаёт оплачиваемый зал и учётную запись владельца в одной транзакции.
// Занятый email даёт ErrAlreadyExists, и зал не создаётся.
func (s *Storage) CreateGymWithOwner(ctx context.Context, gym models.Gym, owner models.User) (*models.Gym, *models.User, error) {
	const op = "storage.CreateGymWithOwner"
	if err := checkCtx(ctx, op); err != nil {
		return nil, nil, err
	}

	var created *models.Gym
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var err error
		created, err = scanGym(tx.QueryRowContext(ctx,
			`INSERT INTO gyms (name, email, phone, address, is_trial, plan_id, next_due_date)
			 VALUES ($1, $2, $3, $4, false, $5, $6)
			 RETURNING `+gymColumns,
			gym.Name, gym.Contact.Email, gym.Contact.Phone, gym.Contact.Address, gym.PlanID, gym.NextDueDate))
		if err != nil {
			return err
		}

		owner.Role = models.RoleOwner
		owner.GymID = &created.ID
		owner.UID, err = insertUser(ctx, tx, owner)
		return err
	})
	if isUniqueViolation(err) {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, &owner, nil
}

// RenewGym переводит зал на оплаченный тариф planID. Новая дата оплаты
// вычисляется nextDue от текущей даты зала и длительности тарифа.
func (s *Storage) RenewGym(ctx context.Context, gymID, planID string,
	nextDue func(current *time.Time, months int) time.Time) (*models.Gym, error) {
	const op = "storage.RenewGym"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	var renewed *models.Gym
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var months int
		err := tx.QueryRowContext(ctx, `SELECT duration_months FROM plans WHERE id = $1`, planID).Scan(&months)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		gym, err := scanGym(tx.QueryRowContext(ctx,
			`SELECT `+gymColumns+` FROM gyms WHERE id = $1 FOR UPDATE`, gymID))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		current := gym.NextDueDate
		if gym.IsTrial {
			current = gym.ExpiresAt
		}
		due := nextDue(current, months)

		renewed, err = scanGym(tx.QueryRowContext(ctx,
			`UPDATE gyms SET is_trial = false, plan_id = $2, next_due_date = $3
			 WHERE id = $1
			 RETURNING `+gymColumns,
			gymID, planID, due))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundOnBadID(err))
	}
	return renewed, nil
}

// CountGyms возвращает число залов: всего и пробных.
func (s *Storage) CountGyms(ctx context.Context) (total, trial int, err error) {
	const op = "storage.CountGyms"
	if err := checkCtx(ctx, op); err != nil {
		return 0, 0, err
	}
	err = s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE is_trial) FROM gyms`).Scan(&total, &trial)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, trial, nil
}

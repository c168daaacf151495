package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/gymhub/internal/models"
)

const trialKeyColumns = `key, created_at, activated_at, expires_at, gym_id`

func scanTrialKey(row scanner) (*models.TrialKey, error) {
	var (
		k                      models.TrialKey
		activatedAt, expiresAt sql.NullTime
		gymID                  sql.NullString
	)
	if err := row.Scan(&k.Key, &k.CreatedAt, &activatedAt, &expiresAt, &gymID); err != nil {
		return nil, err
	}
	k.ActivatedAt = nullTime(activatedAt)
	k.ExpiresAt = nullTime(expiresAt)
	k.GymID = nullString(gymID)
	return &k, nil
}

// ActivateTrialKey атомарно активирует пробный ключ: блокирует строку ключа,
// создаёт пробный зал gym с учётной записью владельца owner и записывает
// в ключ activatedAt, expiresAt и ID зала.
//
// Отсутствующий ключ даёт ErrNotFound, уже активированный — ErrAlreadyActivated,
// занятый email владельца — ErrAlreadyExists; во всех случаях ничего не меняется.
func (s *Storage) ActivateTrialKey(ctx context.Context, key string, gym models.Gym, owner models.User,
	activatedAt, expiresAt time.Time) (*models.Gym, *models.TrialKey, *models.User, error) {
	const op = "storage.ActivateTrialKey"
	if err := checkCtx(ctx, op); err != nil {
		return nil, nil, nil, err
	}

	var (
		createdGym *models.Gym
		updatedKey *models.TrialKey
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := scanTrialKey(tx.QueryRowContext(ctx,
			`SELECT `+trialKeyColumns+` FROM trial_keys WHERE key = $1 FOR UPDATE`, key))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if current.Activated() {
			return ErrAlreadyActivated
		}

		createdGym, err = scanGym(tx.QueryRowContext(ctx,
			`INSERT INTO gyms (name, email, phone, address, is_trial, trial_key, created_at, expires_at)
			 VALUES ($1, $2, $3, $4, true, $5, $6, $7)
			 RETURNING `+gymColumns,
			gym.Name, gym.Contact.Email, gym.Contact.Phone, gym.Contact.Address, key, activatedAt, expiresAt))
		if err != nil {
			return err
		}

		owner.Role = models.RoleOwner
		owner.GymID = &createdGym.ID
		if owner.UID, err = insertUser(ctx, tx, owner); err != nil {
			return err
		}

		updatedKey, err = scanTrialKey(tx.QueryRowContext(ctx,
			`UPDATE trial_keys SET activated_at = $2, expires_at = $3, gym_id = $4
			 WHERE key = $1 AND activated_at IS NULL
			 RETURNING `+trialKeyColumns,
			key, activatedAt, expiresAt, createdGym.ID))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrAlreadyActivated
		}
		return err
	})
	if isUniqueViolation(err) {
		return nil, nil, nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
	}
	if err != nil {
		return nil, nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	return createdGym, updatedKey, &owner, nil
}

// GetTrialKey возвращает ключ или ErrNotFound.
func (s *Storage) GetTrialKey(ctx context.Context, key string) (*models.TrialKey, error) {
	const op = "storage.GetTrialKey"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	k, err := scanTrialKey(s.DB.QueryRowContext(ctx,
		`SELECT `+trialKeyColumns+` FROM trial_keys WHERE key = $1`, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return k, nil
}

// InsertTrialKeys сохраняет новые неактивированные ключи одной транзакцией.
// Совпадение с существующим ключом даёт ErrAlreadyExists.
func (s *Storage) InsertTrialKeys(ctx context.Context, keys []string) ([]*models.TrialKey, error) {
	const op = "storage.InsertTrialKeys"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	result := make([]*models.TrialKey, 0, len(keys))
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO trial_keys (key) VALUES ($1) RETURNING `+trialKeyColumns)
		if err != nil {
			return err
		}
		defer func() {
			_ = stmt.Close()
		}()
		for _, key := range keys {
			k, err := scanTrialKey(stmt.QueryRowContext(ctx, key))
			if err != nil {
				return err
			}
			result = append(result, k)
		}
		return nil
	})
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListTrialKeys возвращает все ключи, новые первыми.
func (s *Storage) ListTrialKeys(ctx context.Context) ([]*models.TrialKey, error) {
	const op = "storage.ListTrialKeys"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+trialKeyColumns+` FROM trial_keys ORDER BY created_at DESC, key`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.TrialKey
	for rows.Next() {
		k, err := scanTrialKey(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, k)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountTrialKeys возвращает число ключей: всего и активированных.
func (s *Storage) CountTrialKeys(ctx context.Context) (total, activated int, err error) {
	const op = "storage.CountTrialKeys"
	if err := checkCtx(ctx, op); err != nil {
		return 0, 0, err
	}
	err = s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE activated_at IS NOT NULL) FROM trial_keys`).Scan(&total, &activated)
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, activated, nil
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/gymhub/internal/models"
)

func scanPlan(row scanner) (*models.Plan, error) {
	var (
		p        models.Plan
		benefits []byte
	)
	if err := row.Scan(&p.ID, &p.Name, &p.DurationLabel, &p.DurationMonths, &p.Price, &benefits); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(benefits, &p.Benefits); err != nil {
		return nil, fmt.Errorf("plan %s benefits: %w", p.ID, err)
	}
	return &p, nil
}

// ListPlans возвращает каталог тарифов по возрастанию длительности.
func (s *Storage) ListPlans(ctx context.Context) ([]*models.Plan, error) {
	const op = "storage.ListPlans"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, name, duration_label, duration_months, price, benefits
		 FROM plans ORDER BY duration_months, id`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetPlan возвращает тариф по ID или ErrNotFound.
func (s *Storage) GetPlan(ctx context.Context, planID string) (*models.Plan, error) {
	const op = "storage.GetPlan"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	p, err := scanPlan(s.DB.QueryRowContext(ctx,
		`SELECT id, name, duration_label, duration_months, price, benefits
		 FROM plans WHERE id = $1`, planID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

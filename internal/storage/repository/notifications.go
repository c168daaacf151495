package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/gymhub/internal/models"
)

// FindTrialsExpiredBetween возвращает пробные залы, срок которых наступил в [from, to).
func (s *Storage) FindTrialsExpiredBetween(ctx context.Context, from, to time.Time) ([]*models.Notification, error) {
	const op = "storage.FindTrialsExpiredBetween"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, name, email, expires_at
		 FROM gyms
		 WHERE is_trial AND expires_at >= $1 AND expires_at < $2
		 ORDER BY expires_at`, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Notification
	for rows.Next() {
		n := models.Notification{Kind: models.NotificationTrialExpired}
		if err := rows.Scan(&n.GymID, &n.GymName, &n.Email, &n.DueAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		n.Name = n.GymName
		result = append(result, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindMembersDueBetween возвращает участников, чья дата оплаты наступила в [from, to).
func (s *Storage) FindMembersDueBetween(ctx context.Context, from, to time.Time) ([]*models.Notification, error) {
	const op = "storage.FindMembersDueBetween"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT m.id, m.name, m.email, m.next_due_date, g.id, g.name
		 FROM members m
		 JOIN gyms g ON g.id = m.gym_id
		 WHERE m.next_due_date >= $1 AND m.next_due_date < $2 AND m.email <> ''
		 ORDER BY m.next_due_date`, from, to)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Notification
	for rows.Next() {
		n := models.Notification{Kind: models.NotificationMembershipDue}
		if err := rows.Scan(&n.MemberID, &n.Name, &n.Email, &n.DueAt, &n.GymID, &n.GymName); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

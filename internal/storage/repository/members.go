package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/gymhub/internal/models"
)

const memberColumns = `id, gym_id, branch_id, trainer_id, name, email, phone, plan_id, joined_at, next_due_date`

func scanMember(row scanner) (*models.Member, error) {
	var (
		m                           models.Member
		branchID, trainerID, planID sql.NullString
		nextDueDate                 sql.NullTime
	)
	if err := row.Scan(&m.ID, &m.GymID, &branchID, &trainerID, &m.Name, &m.Email, &m.Phone,
		&planID, &m.JoinedAt, &nextDueDate); err != nil {
		return nil, err
	}
	m.BranchID = branchID.String
	m.TrainerID = nullString(trainerID)
	m.PlanID = nullString(planID)
	m.NextDueDate = nullTime(nextDueDate)
	return &m, nil
}

func (s *Storage) queryMembers(ctx context.Context, op, query string, args ...any) ([]*models.Member, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundOnBadID(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, notFoundOnBadID(err))
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundOnBadID(err))
	}
	return result, nil
}

// ListMembers возвращает участников зала по имени.
func (s *Storage) ListMembers(ctx context.Context, gymID string) ([]*models.Member, error) {
	const op = "storage.ListMembers"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	return s.queryMembers(ctx, op,
		`SELECT `+memberColumns+` FROM members WHERE gym_id = $1 ORDER BY name, id`, gymID)
}

// ListMembersByTrainer возвращает участников, закреплённых за тренером.
func (s *Storage) ListMembersByTrainer(ctx context.Context, gymID, trainerID string) ([]*models.Member, error) {
	const op = "storage.ListMembersByTrainer"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	return s.queryMembers(ctx, op,
		`SELECT `+memberColumns+` FROM members WHERE gym_id = $1 AND trainer_id = $2 ORDER BY name, id`,
		gymID, trainerID)
}

// GetMember возвращает участника зала gymID или ErrNotFound.
func (s *Storage) GetMember(ctx context.Context, gymID, memberID string) (*models.Member, error) {
	const op = "storage.GetMember"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	m, err := scanMember(s.DB.QueryRowContext(ctx,
		`SELECT `+memberColumns+` FROM members WHERE gym_id = $1 AND id = $2`, gymID, memberID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundOnBadID(err))
	}
	return m, nil
}

// ListPayments возвращает историю оплат участника, последние первыми.
func (s *Storage) ListPayments(ctx context.Context, gymID, memberID string) ([]*models.Payment, error) {
	const op = "storage.ListPayments"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx,
		`SELECT id, gym_id, member_id, amount, months, paid_at
		 FROM payments WHERE gym_id = $1 AND member_id = $2
		 ORDER BY paid_at DESC, id DESC`, gymID, memberID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundOnBadID(err))
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.GymID, &p.MemberID, &p.Amount, &p.Months, &p.PaidAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, notFoundOnBadID(err))
		}
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, notFoundOnBadID(err))
	}
	return result, nil
}

// RecordPayment сохраняет оплату и сдвигает дату следующего платежа участника
// в одной транзакции. Новая дата вычисляется nextDue от текущей.
func (s *Storage) RecordPayment(ctx context.Context, payment models.Payment,
	nextDue func(current *time.Time) time.Time) (*models.Payment, *models.Member, error) {
	const op = "storage.RecordPayment"
	if err := checkCtx(ctx, op); err != nil {
		return nil, nil, err
	}

	var member *models.Member
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := scanMember(tx.QueryRowContext(ctx,
			`SELECT `+memberColumns+` FROM members WHERE gym_id = $1 AND id = $2 FOR UPDATE`,
			payment.GymID, payment.MemberID))
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}

		if err := tx.QueryRowContext(ctx,
			`INSERT INTO payments (gym_id, member_id, amount, months, paid_at)
			 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			payment.GymID, payment.MemberID, payment.Amount, payment.Months, payment.PaidAt).Scan(&payment.ID); err != nil {
			return err
		}

		member, err = scanMember(tx.QueryRowContext(ctx,
			`UPDATE members SET next_due_date = $3 WHERE gym_id = $1 AND id = $2
			 RETURNING `+memberColumns,
			payment.GymID, payment.MemberID, nextDue(current.NextDueDate)))
		return err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, notFoundOnBadID(err))
	}
	return &payment, member, nil
}

// CreateMember добавляет участника и его учётную запись в одной транзакции.
// Тренер, если указан, должен работать в том же зале, иначе ErrNotFound.
// Занятый email даёт ErrAlreadyExists, и участник не создаётся.
func (s *Storage) CreateMember(ctx context.Context, member models.Member, user models.User) (*models.Member, *models.User, error) {
	const op = "storage.CreateMember"
	if err := checkCtx(ctx, op); err != nil {
		return nil, nil, err
	}

	var created *models.Member
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if member.TrainerID != nil {
			var one int
			err := tx.QueryRowContext(ctx,
				`SELECT 1 FROM trainers WHERE id = $1 AND gym_id = $2`, *member.TrainerID, member.GymID).Scan(&one)
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			if err != nil {
				return err
			}
		}

		var err error
		created, err = scanMember(tx.QueryRowContext(ctx,
			`INSERT INTO members (gym_id, branch_id, trainer_id, name, email, phone, plan_id, next_due_date)
			 VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, $7, $8)
			 RETURNING `+memberColumns,
			member.GymID, member.BranchID, member.TrainerID, member.Name, member.Email, member.Phone,
			member.PlanID, member.NextDueDate))
		if err != nil {
			return err
		}

		user.Role = models.RoleMember
		user.GymID = &created.GymID
		user.MemberID = &created.ID
		if created.BranchID != "" {
			user.BranchID = &created.BranchID
		}
		user.TrainerID = nil
		user.UID, err = insertUser(ctx, tx, user)
		return err
	})
	if isUniqueViolation(err) {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrAlreadyExists)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, notFoundOnBadID(err))
	}
	return created, &user, nil
}

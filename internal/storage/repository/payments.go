package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/gym-crm/internal/models"
)

// CreatePayment вставляет новый платёж и возвращает его ID.
func (s *Storage) CreatePayment(ctx context.Context, p models.Payment) (string, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO payments (user_uid, membership_id, amount, status)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		p.UserUID, p.MembershipID, p.Amount, p.Status).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListMembershipPayments возвращает платежи по абонементу, новые первыми.
func (s *Storage) ListMembershipPayments(ctx context.Context, membershipID string) ([]*models.Payment, error) {
	const op = "storage.ListMembershipPayments"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, user_uid, membership_id, amount, status, created_at
			  FROM payments
			  WHERE membership_id = $1
			  ORDER BY created_at DESC`
	rows, err := s.DB.QueryContext(ctx, query, membershipID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		var item models.Payment
		if err = rows.Scan(&item.ID, &item.UserUID, &item.MembershipID,
			&item.Amount, &item.Status, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

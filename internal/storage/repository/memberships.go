package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/gym-crm/internal/models"
)

const membershipColumns = `id, user_uid, type, status, start_date, end_date, price, created_at`

func scanMembership(row interface{ Scan(...any) error }) (*models.Membership, error) {
	var m models.Membership
	if err := row.Scan(&m.ID, &m.UserUID, &m.Type, &m.Status,
		&m.StartDate, &m.EndDate, &m.Price, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// CreateMembership вставляет новый абонемент со статусом ACTIVE и возвращает его ID.
func (s *Storage) CreateMembership(ctx context.Context, m models.Membership) (string, error) {
	const op = "storage.CreateMembership"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO memberships (user_uid, type, status, start_date, end_date, price)
			  VALUES ($1, $2, 'ACTIVE', $3, $4, $5)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		m.UserUID, m.Type, m.StartDate, m.EndDate, m.Price).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetMembership возвращает абонемент по его ID.
func (s *Storage) GetMembership(ctx context.Context, id string) (*models.Membership, error) {
	const op = "storage.GetMembership"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + membershipColumns + ` FROM memberships WHERE id = $1`
	result, err := scanMembership(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetActiveMembership возвращает самый свежий действующий абонемент пользователя:
// статус ACTIVE и дата окончания не раньше текущего момента.
func (s *Storage) GetActiveMembership(ctx context.Context, userUID string) (*models.Membership, error) {
	const op = "storage.GetActiveMembership"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + membershipColumns + `
			  FROM memberships
			  WHERE user_uid = $1
			    AND status = 'ACTIVE'
			    AND end_date >= now()
			  ORDER BY created_at DESC
			  LIMIT 1`
	result, err := scanMembership(s.DB.QueryRowContext(ctx, query, userUID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (s *Storage) queryMemberships(ctx context.Context, op, query string, args ...any) ([]*models.Membership, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Membership
	for rows.Next() {
		item, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ListUserMemberships возвращает все абонементы пользователя, новые первыми.
func (s *Storage) ListUserMemberships(ctx context.Context, userUID string) ([]*models.Membership, error) {
	const op = "storage.ListUserMemberships"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + membershipColumns + `
			  FROM memberships
			  WHERE user_uid = $1
			  ORDER BY created_at DESC`
	return s.queryMemberships(ctx, op, query, userUID)
}

// ListAllMemberships возвращает все абонементы с пагинацией.
func (s *Storage) ListAllMemberships(ctx context.Context, limit, offset int) ([]*models.Membership, error) {
	const op = "storage.ListAllMemberships"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + membershipColumns + `
			  FROM memberships
			  ORDER BY created_at DESC
			  LIMIT $1 OFFSET $2`
	return s.queryMemberships(ctx, op, query, limit, offset)
}

// CountMemberships подсчитывает общее количество абонементов.
func (s *Storage) CountMemberships(ctx context.Context) (int, error) {
	const op = "storage.CountMemberships"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM memberships`).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// UpdateMembership частично обновляет абонемент: nil-поля остаются без изменений.
// Возвращает количество изменённых строк.
func (s *Storage) UpdateMembership(ctx context.Context, id string, mType *models.MembershipType, status *models.MembershipStatus, startDate, endDate *time.Time, price *float64) (int, error) {
	const op = "storage.UpdateMembership"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE memberships
			  SET type = COALESCE($1, type),
			      status = COALESCE($2, status),
			      start_date = COALESCE($3, start_date),
			      end_date = COALESCE($4, end_date),
			      price = COALESCE($5, price)
			  WHERE id = $6`
	result, err := s.DB.ExecContext(ctx, query, mType, status, startDate, endDate, price, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RenewMembership продлевает абонемент на заданное число календарных месяцев
// от текущей даты окончания и возвращает обновлённую запись. Статус при этом
// принудительно возвращается в ACTIVE.
func (s *Storage) RenewMembership(ctx context.Context, id string, months int) (*models.Membership, error) {
	const op = "storage.RenewMembership"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE memberships
			  SET end_date = end_date + make_interval(months => $1),
			      status = 'ACTIVE'
			  WHERE id = $2
			  RETURNING ` + membershipColumns
	result, err := scanMembership(s.DB.QueryRowContext(ctx, query, months, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ChangeMembershipType меняет тип абонемента и цену из фиксированной таблицы
// тарифов. Цена никогда не берётся из запроса клиента.
func (s *Storage) ChangeMembershipType(ctx context.Context, id string, newType models.MembershipType, price float64) (*models.Membership, error) {
	const op = "storage.ChangeMembershipType"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE memberships
			  SET type = $1, price = $2
			  WHERE id = $3
			  RETURNING ` + membershipColumns
	result, err := scanMembership(s.DB.QueryRowContext(ctx, query, newType, price, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CancelMembership отменяет абонемент: статус CANCELLED, дата окончания — сейчас,
// чтобы остаток дней сразу читался как ноль.
func (s *Storage) CancelMembership(ctx context.Context, id string) (*models.Membership, error) {
	const op = "storage.CancelMembership"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE memberships
			  SET status = 'CANCELLED', end_date = now()
			  WHERE id = $1
			  RETURNING ` + membershipColumns
	result, err := scanMembership(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FreezeMembership сдвигает дату окончания вперёд на интервал от текущего
// момента до freezeUntil, не меняя статус. Сдвиг считается в одном UPDATE,
// поэтому между чтением и записью нет окна для гонки. freezeUntil в прошлом
// укорачивает абонемент — поведение намеренно не ограничено.
func (s *Storage) FreezeMembership(ctx context.Context, id string, freezeUntil time.Time) (*models.Membership, error) {
	const op = "storage.FreezeMembership"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE memberships
			  SET end_date = end_date + ($1::timestamptz - now())
			  WHERE id = $2
			  RETURNING ` + membershipColumns
	result, err := scanMembership(s.DB.QueryRowContext(ctx, query, freezeUntil, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// ExpireDueMemberships переводит все действующие абонементы с истёкшей датой
// окончания в EXPIRED одним запросом и возвращает данные для уведомлений.
func (s *Storage) ExpireDueMemberships(ctx context.Context) ([]*models.MembershipExpiryInfo, error) {
	const op = "storage.ExpireDueMemberships"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE memberships m
			  SET status = 'EXPIRED'
			  FROM users u
			  WHERE m.user_uid = u.uid
			    AND m.status = 'ACTIVE'
			    AND m.end_date < now()
			  RETURNING m.id, m.type, m.end_date, u.email, u.name`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.MembershipExpiryInfo
	for rows.Next() {
		var info models.MembershipExpiryInfo
		if err = rows.Scan(&info.MembershipID, &info.Type, &info.EndDate,
			&info.Email, &info.Name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &info)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetMembershipStats возвращает сводную статистику по абонементам.
// Активные и истёкшие считаются по дате окончания среди статуса ACTIVE,
// выручка — сумма цен абонементов со статусом ACTIVE на момент запроса.
func (s *Storage) GetMembershipStats(ctx context.Context) (*models.MembershipStats, error) {
	const op = "storage.GetMembershipStats"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	stats := &models.MembershipStats{ByType: make(map[string]int)}
	query := `SELECT
			      COUNT(*),
			      COUNT(*) FILTER (WHERE status = 'ACTIVE' AND end_date >= now()),
			      COUNT(*) FILTER (WHERE status = 'ACTIVE' AND end_date < now()),
			      COUNT(*) FILTER (WHERE status = 'CANCELLED'),
			      COALESCE(SUM(price) FILTER (WHERE status = 'ACTIVE'), 0)
			  FROM memberships`
	if err := s.DB.QueryRowContext(ctx, query).Scan(&stats.Total, &stats.Active,
		&stats.Expired, &stats.Cancelled, &stats.Revenue); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT type, COUNT(*) FROM memberships GROUP BY type`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()
	for rows.Next() {
		var mType string
		var count int
		if err = rows.Scan(&mType, &count); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		stats.ByType[mType] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return stats, nil
}

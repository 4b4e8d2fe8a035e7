package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/gym-crm/internal/models"
)

const reservationColumns = `id, user_uid, class_id, instructor_uid, start_time, end_time, status, notes, created_at`

func scanReservation(row interface{ Scan(...any) error }) (*models.Reservation, error) {
	var r models.Reservation
	var notes sql.NullString
	if err := row.Scan(&r.ID, &r.UserUID, &r.ClassID, &r.InstructorUID,
		&r.StartTime, &r.EndTime, &r.Status, &notes, &r.CreatedAt); err != nil {
		return nil, err
	}
	r.Notes = notes.String
	return &r, nil
}

// CreateReservation вставляет новую бронь со статусом PENDING и возвращает её ID.
//
// Проверка занятия, конфликта по времени у пользователя и вместимости
// выполняется в одной транзакции с блокировкой строки занятия (FOR UPDATE),
// поэтому два конкурентных запроса на один слот не могут пройти проверку
// одновременно. Нарушения возвращаются как ErrNotFound, ErrConflict
// и ErrCapacityFull.
func (s *Storage) CreateReservation(ctx context.Context, r models.Reservation) (string, error) {
	const op = "storage.CreateReservation"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Блокировка строки занятия сериализует конкурентные брони одного занятия.
	var maxCapacity int
	var classActive bool
	err = tx.QueryRowContext(ctx,
		`SELECT max_capacity, is_active FROM classes WHERE id = $1 FOR UPDATE`,
		r.ClassID).Scan(&maxCapacity, &classActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: class: %w", op, ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !classActive {
		return "", fmt.Errorf("%s: class inactive: %w", op, ErrNotFound)
	}

	var instructorActive bool
	err = tx.QueryRowContext(ctx,
		`SELECT is_active FROM users WHERE uid = $1 AND role = 'instructor'`,
		r.InstructorUID).Scan(&instructorActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: instructor: %w", op, ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !instructorActive {
		return "", fmt.Errorf("%s: instructor inactive: %w", op, ErrNotFound)
	}

	// Пересечение интервалов полуоткрытое: start < конец AND end > начало.
	var hasConflict bool
	err = tx.QueryRowContext(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM reservations
			WHERE user_uid = $1
			  AND status IN ('PENDING', 'CONFIRMED')
			  AND start_time < $3
			  AND end_time > $2
		)`, r.UserUID, r.StartTime, r.EndTime).Scan(&hasConflict)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if hasConflict {
		return "", fmt.Errorf("%s: %w", op, ErrConflict)
	}

	var current int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reservations
		 WHERE class_id = $1
		   AND status IN ('PENDING', 'CONFIRMED')
		   AND start_time >= $2
		   AND end_time <= $3`, r.ClassID, r.StartTime, r.EndTime).Scan(&current)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if current >= maxCapacity {
		return "", fmt.Errorf("%s: %w", op, ErrCapacityFull)
	}

	var newID string
	err = tx.QueryRowContext(ctx,
		`INSERT INTO reservations (user_uid, class_id, instructor_uid, start_time, end_time, status, notes)
		 VALUES ($1, $2, $3, $4, $5, 'PENDING', $6)
		 RETURNING id`,
		r.UserUID, r.ClassID, r.InstructorUID, r.StartTime, r.EndTime, r.Notes).Scan(&newID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if err = tx.Commit(); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetReservation возвращает бронь по её ID.
func (s *Storage) GetReservation(ctx context.Context, id string) (*models.Reservation, error) {
	const op = "storage.GetReservation"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	result, err := scanReservation(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

func (s *Storage) queryReservations(ctx context.Context, op, query string, args ...any) ([]*models.Reservation, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Reservation
	for rows.Next() {
		item, err := scanReservation(rows)
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

// ListUserReservations возвращает брони пользователя, опционально отфильтрованные по статусу.
func (s *Storage) ListUserReservations(ctx context.Context, userUID string, status *models.ReservationStatus) ([]*models.Reservation, error) {
	const op = "storage.ListUserReservations"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + reservationColumns + `
			  FROM reservations
			  WHERE user_uid = $1
			    AND ($2::text IS NULL OR status = $2)
			  ORDER BY start_time`
	return s.queryReservations(ctx, op, query, userUID, status)
}

// ListClassReservations возвращает брони занятия, опционально за конкретный день.
func (s *Storage) ListClassReservations(ctx context.Context, classID string, day *time.Time) ([]*models.Reservation, error) {
	const op = "storage.ListClassReservations"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + reservationColumns + `
			  FROM reservations
			  WHERE class_id = $1
			    AND ($2::timestamptz IS NULL OR
			         (start_time >= date_trunc('day', $2::timestamptz) AND
			          start_time < date_trunc('day', $2::timestamptz) + INTERVAL '1 day'))
			  ORDER BY start_time`
	return s.queryReservations(ctx, op, query, classID, day)
}

// ListInstructorReservations возвращает брони тренера, опционально за конкретный день.
func (s *Storage) ListInstructorReservations(ctx context.Context, instructorUID string, day *time.Time) ([]*models.Reservation, error) {
	const op = "storage.ListInstructorReservations"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + reservationColumns + `
			  FROM reservations
			  WHERE instructor_uid = $1
			    AND ($2::timestamptz IS NULL OR
			         (start_time >= date_trunc('day', $2::timestamptz) AND
			          start_time < date_trunc('day', $2::timestamptz) + INTERVAL '1 day'))
			  ORDER BY start_time`
	return s.queryReservations(ctx, op, query, instructorUID, day)
}

// ListAllReservations возвращает все брони с пагинацией и опциональным фильтром по статусу.
func (s *Storage) ListAllReservations(ctx context.Context, limit, offset int, status *models.ReservationStatus) ([]*models.Reservation, error) {
	const op = "storage.ListAllReservations"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + reservationColumns + `
			  FROM reservations
			  WHERE ($3::text IS NULL OR status = $3)
			  ORDER BY start_time
			  LIMIT $1 OFFSET $2`
	return s.queryReservations(ctx, op, query, limit, offset, status)
}

// CountReservations подсчитывает брони с опциональным фильтром по статусу.
func (s *Storage) CountReservations(ctx context.Context, status *models.ReservationStatus) (int, error) {
	const op = "storage.CountReservations"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM reservations WHERE ($1::text IS NULL OR status = $1)`
	if err := s.DB.QueryRowContext(ctx, query, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ListUpcomingReservations возвращает будущие брони пользователя со статусами PENDING и CONFIRMED.
func (s *Storage) ListUpcomingReservations(ctx context.Context, userUID string) ([]*models.Reservation, error) {
	const op = "storage.ListUpcomingReservations"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + reservationColumns + `
			  FROM reservations
			  WHERE user_uid = $1
			    AND status IN ('PENDING', 'CONFIRMED')
			    AND start_time >= now()
			  ORDER BY start_time`
	return s.queryReservations(ctx, op, query, userUID)
}

// ListPastReservations возвращает завершившиеся брони пользователя.
func (s *Storage) ListPastReservations(ctx context.Context, userUID string) ([]*models.Reservation, error) {
	const op = "storage.ListPastReservations"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + reservationColumns + `
			  FROM reservations
			  WHERE user_uid = $1
			    AND end_time < now()
			  ORDER BY start_time DESC`
	return s.queryReservations(ctx, op, query, userUID)
}

// UpdateReservation частично обновляет бронь: nil-поля остаются без изменений.
// Возвращает количество изменённых строк.
func (s *Storage) UpdateReservation(ctx context.Context, id string, startTime, endTime *time.Time, status *models.ReservationStatus, notes *string) (int, error) {
	const op = "storage.UpdateReservation"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE reservations
			  SET start_time = COALESCE($1, start_time),
			      end_time = COALESCE($2, end_time),
			      status = COALESCE($3, status),
			      notes = COALESCE($4, notes)
			  WHERE id = $5`
	result, err := s.DB.ExecContext(ctx, query, startTime, endTime, status, notes, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// SetReservationStatus выставляет статус брони без дополнительных проверок.
// Возвращает количество изменённых строк.
func (s *Storage) SetReservationStatus(ctx context.Context, id string, status models.ReservationStatus) (int, error) {
	const op = "storage.SetReservationStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE reservations SET status = $1 WHERE id = $2`
	result, err := s.DB.ExecContext(ctx, query, status, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// CancelReservation переводит бронь в CANCELLED. Если передан userUID,
// обновление затрагивает только бронь этого пользователя, так что чужую
// бронь отменить нельзя. Возвращает количество изменённых строк.
func (s *Storage) CancelReservation(ctx context.Context, id string, userUID *string) (int, error) {
	const op = "storage.CancelReservation"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE reservations
			  SET status = 'CANCELLED'
			  WHERE id = $1
			    AND ($2::uuid IS NULL OR user_uid = $2)`
	result, err := s.DB.ExecContext(ctx, query, id, userUID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// CountOverlappingReservations подсчитывает активные брони занятия,
// пересекающиеся с полуоткрытым интервалом [startTime, endTime).
func (s *Storage) CountOverlappingReservations(ctx context.Context, classID string, startTime, endTime time.Time) (int, error) {
	const op = "storage.CountOverlappingReservations"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM reservations
			  WHERE class_id = $1
			    AND status IN ('PENDING', 'CONFIRMED')
			    AND start_time < $3
			    AND end_time > $2`
	if err := s.DB.QueryRowContext(ctx, query, classID, startTime, endTime).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// GetReservationStats возвращает сводную статистику по броням. Границы
// сегодня/неделя/месяц передаются снаружи, неделя начинается с воскресенья.
func (s *Storage) GetReservationStats(ctx context.Context, startOfDay, startOfWeek, startOfMonth time.Time) (*models.ReservationStats, error) {
	const op = "storage.GetReservationStats"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var stats models.ReservationStats
	query := `SELECT
			      COUNT(*),
			      COUNT(*) FILTER (WHERE status = 'PENDING'),
			      COUNT(*) FILTER (WHERE status = 'CONFIRMED'),
			      COUNT(*) FILTER (WHERE status = 'CANCELLED'),
			      COUNT(*) FILTER (WHERE start_time >= $1),
			      COUNT(*) FILTER (WHERE start_time >= $2),
			      COUNT(*) FILTER (WHERE start_time >= $3)
			  FROM reservations`
	if err := s.DB.QueryRowContext(ctx, query, startOfDay, startOfWeek, startOfMonth).Scan(
		&stats.Total, &stats.Pending, &stats.Confirmed, &stats.Cancelled,
		&stats.Today, &stats.ThisWeek, &stats.ThisMonth); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &stats, nil
}

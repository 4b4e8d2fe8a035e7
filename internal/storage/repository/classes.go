package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/gym-crm/internal/models"
)

// GetClass возвращает занятие по его ID.
func (s *Storage) GetClass(ctx context.Context, classID string) (*models.Class, error) {
	const op = "storage.GetClass"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, description, duration_minutes, max_capacity, price,
			      instructor_uid, is_active, created_at
			  FROM classes
			  WHERE id = $1`
	c := &models.Class{}
	row := s.DB.QueryRowContext(ctx, query, classID)

	var description sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &description, &c.DurationMinutes, &c.MaxCapacity,
		&c.Price, &c.InstructorUID, &c.IsActive, &c.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c.Description = description.String
	return c, nil
}

// ListClassSchedules возвращает недельные слоты занятия.
func (s *Storage) ListClassSchedules(ctx context.Context, classID string) ([]*models.ClassSchedule, error) {
	const op = "storage.ListClassSchedules"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, class_id, day_of_week, start_time, end_time
			  FROM class_schedules
			  WHERE class_id = $1
			  ORDER BY day_of_week, start_time`
	rows, err := s.DB.QueryContext(ctx, query, classID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ClassSchedule
	for rows.Next() {
		var item models.ClassSchedule
		if err := rows.Scan(&item.ID, &item.ClassID, &item.DayOfWeek,
			&item.StartTime, &item.EndTime); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CountActiveClasses подсчитывает активные занятия.
func (s *Storage) CountActiveClasses(ctx context.Context) (int, error) {
	const op = "storage.CountActiveClasses"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM classes WHERE is_active = true`
	if err := s.DB.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

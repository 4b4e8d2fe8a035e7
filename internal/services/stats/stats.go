// Package services содержит бизнес-логику сводной статистики по клубу.
package services

import (
	"context"
	"log/slog"

	"github.com/magabrotheeeer/gym-crm/internal/models"
)

// StatsRepository определяет методы подсчёта для сводной статистики.
type StatsRepository interface {
	// CountActiveUsers подсчитывает активных пользователей.
	CountActiveUsers(ctx context.Context) (int, error)
	// CountActiveClasses подсчитывает активные занятия.
	CountActiveClasses(ctx context.Context) (int, error)
	// CountReservations подсчитывает брони по опциональному статусу.
	CountReservations(ctx context.Context, status *models.ReservationStatus) (int, error)
	// CountMemberships подсчитывает все абонементы.
	CountMemberships(ctx context.Context) (int, error)
}

// StatsService собирает сводную картину по клубу из отдельных счётчиков.
type StatsService struct {
	repo StatsRepository
	log  *slog.Logger
}

// NewStatsService создает новый экземпляр StatsService.
func NewStatsService(repo StatsRepository, log *slog.Logger) *StatsService {
	return &StatsService{
		repo: repo,
		log:  log,
	}
}

// Overview возвращает суммарные счётчики по пользователям, занятиям,
// броням и абонементам. Пустая база даёт нулевые значения, не ошибку.
func (s *StatsService) Overview(ctx context.Context) (*models.OverviewStats, error) {
	users, err := s.repo.CountActiveUsers(ctx)
	if err != nil {
		return nil, err
	}
	classes, err := s.repo.CountActiveClasses(ctx)
	if err != nil {
		return nil, err
	}
	reservations, err := s.repo.CountReservations(ctx, nil)
	if err != nil {
		return nil, err
	}
	memberships, err := s.repo.CountMemberships(ctx)
	if err != nil {
		return nil, err
	}
	return &models.OverviewStats{
		Users:        users,
		Classes:      classes,
		Reservations: reservations,
		Memberships:  memberships,
	}, nil
}

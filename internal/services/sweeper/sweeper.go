// Package services содержит фоновый сервис, который переводит просроченные
// абонементы в статус EXPIRED и публикует уведомления владельцам.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/gym-crm/internal/lib/sl"
	"github.com/magabrotheeeer/gym-crm/internal/metrics"
	"github.com/magabrotheeeer/gym-crm/internal/models"
	"github.com/magabrotheeeer/gym-crm/internal/rabbitmq"
	"github.com/streadway/amqp"
)

// MembershipRepository определяет метод пакетного перевода абонементов в EXPIRED.
type MembershipRepository interface {
	ExpireDueMemberships(ctx context.Context) ([]*models.MembershipExpiryInfo, error)
}

// SweeperService периодически помечает просроченные абонементы.
type SweeperService struct {
	repo     MembershipRepository
	log      *slog.Logger
	interval time.Duration
}

// NewSweeperService создает новый экземпляр SweeperService.
func NewSweeperService(repo MembershipRepository, log *slog.Logger, interval time.Duration) *SweeperService {
	return &SweeperService{
		repo:     repo,
		log:      log,
		interval: interval,
	}
}

// Run запускает цикл обработки просроченных абонементов. Для каждого
// обработанного абонемента публикуется сообщение в обменник notifications
// с ключом маршрутизации membership.expired.
func (s *SweeperService) Run(ctx context.Context, channel *amqp.Channel) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx, channel)
		}
	}
}

// Sweep выполняет один проход: помечает просроченные абонементы
// и публикует уведомления.
func (s *SweeperService) Sweep(ctx context.Context, channel *amqp.Channel) {
	s.log.Info("starting sweep of expired memberships")
	expired, err := s.repo.ExpireDueMemberships(ctx)
	if err != nil {
		s.log.Error("failed to expire memberships", sl.Err(err))
		return
	}
	metrics.MembershipsExpired.Add(float64(len(expired)))
	s.log.Info("sweep finished", slog.Int("expired", len(expired)))

	for _, info := range expired {
		err = rabbitmq.PublishMessage(channel, "notifications", "membership.expired", info)
		if err != nil {
			s.log.Error("failed to publish message", sl.Err(err))
		}
	}
}

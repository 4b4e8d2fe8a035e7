// Package metrics содержит счетчики Prometheus для бизнес-событий приложения.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReservationsCreated считает успешно созданные бронирования.
	ReservationsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gymcrm_reservations_created_total",
		Help: "Total number of reservations successfully created",
	})

	// ReservationsRejected считает отклоненные бронирования по причине отказа.
	ReservationsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gymcrm_reservations_rejected_total",
		Help: "Total number of reservation attempts rejected",
	}, []string{"reason"})

	// MembershipsExpired считает абонементы, переведенные в статус EXPIRED.
	MembershipsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gymcrm_memberships_expired_total",
		Help: "Total number of memberships marked as expired by the sweeper",
	})

	// NotificationsSent считает отправленные email-уведомления.
	NotificationsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gymcrm_notifications_sent_total",
		Help: "Total number of expiry notification emails sent",
	})
)

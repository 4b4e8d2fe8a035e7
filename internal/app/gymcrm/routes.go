// Package gymcrm предоставляет маршруты для основного приложения.
package gymcrm

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/gym-crm/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/gym-crm/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/gym-crm/internal/http/handlers/health"
	memactive "github.com/magabrotheeeer/gym-crm/internal/http/handlers/membership/active"
	memcancel "github.com/magabrotheeeer/gym-crm/internal/http/handlers/membership/cancel"
	memchangetype "github.com/magabrotheeeer/gym-crm/internal/http/handlers/membership/changetype"
	memcreate "github.com/magabrotheeeer/gym-crm/internal/http/handlers/membership/create"
	memfreeze "github.com/magabrotheeeer/gym-crm/internal/http/handlers/membership/freeze"
	memhasactive "github.com/magabrotheeeer/gym-crm/internal/http/handlers/membership/hasactive"
	memlistall "github.com/magabrotheeeer/gym-crm/internal/http/handlers/membership/listall"
	memlistuser "github.com/magabrotheeeer/gym-crm/internal/http/handlers/membership/listuser"
	memplans "github.com/magabrotheeeer/gym-crm/internal/http/handlers/membership/plans"
	memprocessexpired "github.com/magabrotheeeer/gym-crm/internal/http/handlers/membership/processexpired"
	memread "github.com/magabrotheeeer/gym-crm/internal/http/handlers/membership/read"
	memremainingdays "github.com/magabrotheeeer/gym-crm/internal/http/handlers/membership/remainingdays"
	memrenew "github.com/magabrotheeeer/gym-crm/internal/http/handlers/membership/renew"
	memstats "github.com/magabrotheeeer/gym-crm/internal/http/handlers/membership/stats"
	memupdate "github.com/magabrotheeeer/gym-crm/internal/http/handlers/membership/update"
	"github.com/magabrotheeeer/gym-crm/internal/http/handlers/overview"
	resavailability "github.com/magabrotheeeer/gym-crm/internal/http/handlers/reservation/availability"
	resbyclass "github.com/magabrotheeeer/gym-crm/internal/http/handlers/reservation/byclass"
	resbyinstructor "github.com/magabrotheeeer/gym-crm/internal/http/handlers/reservation/byinstructor"
	rescancel "github.com/magabrotheeeer/gym-crm/internal/http/handlers/reservation/cancel"
	resconfirm "github.com/magabrotheeeer/gym-crm/internal/http/handlers/reservation/confirm"
	rescreate "github.com/magabrotheeeer/gym-crm/internal/http/handlers/reservation/create"
	reslistall "github.com/magabrotheeeer/gym-crm/internal/http/handlers/reservation/listall"
	reslistuser "github.com/magabrotheeeer/gym-crm/internal/http/handlers/reservation/listuser"
	respast "github.com/magabrotheeeer/gym-crm/internal/http/handlers/reservation/past"
	resread "github.com/magabrotheeeer/gym-crm/internal/http/handlers/reservation/read"
	resschedule "github.com/magabrotheeeer/gym-crm/internal/http/handlers/reservation/schedule"
	resstats "github.com/magabrotheeeer/gym-crm/internal/http/handlers/reservation/stats"
	resupcoming "github.com/magabrotheeeer/gym-crm/internal/http/handlers/reservation/upcoming"
	resupdate "github.com/magabrotheeeer/gym-crm/internal/http/handlers/reservation/update"
	"github.com/magabrotheeeer/gym-crm/internal/http/middlewarectx"
	"github.com/magabrotheeeer/gym-crm/internal/models"
	authservice "github.com/magabrotheeeer/gym-crm/internal/services/auth"
	membershipservice "github.com/magabrotheeeer/gym-crm/internal/services/membership"
	reservationservice "github.com/magabrotheeeer/gym-crm/internal/services/reservation"
	statsservice "github.com/magabrotheeeer/gym-crm/internal/services/stats"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger,
	authService *authservice.AuthService,
	reservationService *reservationservice.ReservationService,
	membershipService *membershipservice.MembershipService,
	statsService *statsservice.StatsService,
) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Get("/memberships/plans", memplans.New(logger, membershipService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Post("/reservations", rescreate.New(logger, reservationService).ServeHTTP)
			r.Get("/reservations/my", reslistuser.New(logger, reservationService).ServeHTTP)
			r.Get("/reservations/upcoming", resupcoming.New(logger, reservationService).ServeHTTP)
			r.Get("/reservations/past", respast.New(logger, reservationService).ServeHTTP)
			r.Get("/reservations/{id}", resread.New(logger, reservationService).ServeHTTP)
			r.Put("/reservations/{id}", resupdate.New(logger, reservationService).ServeHTTP)
			r.Post("/reservations/{id}/cancel", rescancel.New(logger, reservationService).ServeHTTP)
			r.Get("/classes/{id}/availability", resavailability.New(logger, reservationService).ServeHTTP)
			r.Get("/classes/{id}/schedule", resschedule.New(logger, reservationService).ServeHTTP)

			r.Get("/memberships/my", memlistuser.New(logger, membershipService).ServeHTTP)
			r.Get("/memberships/active", memactive.New(logger, membershipService).ServeHTTP)
			r.Get("/memberships/has-active", memhasactive.New(logger, membershipService).ServeHTTP)
			r.Get("/memberships/remaining-days", memremainingdays.New(logger, membershipService).ServeHTTP)
			r.Get("/memberships/{id}", memread.New(logger, membershipService).ServeHTTP)

			// Конечные точки для тренеров и администраторов
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, string(models.RoleAdmin), string(models.RoleInstructor)))
				r.Post("/reservations/{id}/confirm", resconfirm.New(logger, reservationService).ServeHTTP)
				r.Get("/classes/{id}/reservations", resbyclass.New(logger, reservationService).ServeHTTP)
				r.Get("/instructors/{uid}/reservations", resbyinstructor.New(logger, reservationService).ServeHTTP)
			})

			// Конечные точки только для администраторов
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.RequireRole(logger, string(models.RoleAdmin)))
				r.Get("/reservations", reslistall.New(logger, reservationService).ServeHTTP)
				r.Get("/reservations/stats", resstats.New(logger, reservationService).ServeHTTP)
				r.Post("/memberships", memcreate.New(logger, membershipService).ServeHTTP)
				r.Get("/memberships", memlistall.New(logger, membershipService).ServeHTTP)
				r.Put("/memberships/{id}", memupdate.New(logger, membershipService).ServeHTTP)
				r.Post("/memberships/{id}/renew", memrenew.New(logger, membershipService).ServeHTTP)
				r.Post("/memberships/{id}/change-type", memchangetype.New(logger, membershipService).ServeHTTP)
				r.Post("/memberships/{id}/cancel", memcancel.New(logger, membershipService).ServeHTTP)
				r.Post("/memberships/{id}/freeze", memfreeze.New(logger, membershipService).ServeHTTP)
				r.Post("/memberships/process-expired", memprocessexpired.New(logger, membershipService).ServeHTTP)
				r.Get("/memberships/stats", memstats.New(logger, membershipService).ServeHTTP)
				r.Get("/stats/overview", overview.New(logger, statsService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Luisxcv/neuro-insight-agenda/internal/account"
	"github.com/Luisxcv/neuro-insight-agenda/internal/booking"
	"github.com/Luisxcv/neuro-insight-agenda/internal/patient"
)

type RouterConfig struct {
	Accounts *account.Service
	Bookings *booking.Service
	Patients *patient.Service

	PgPool *pgxpool.Pool
	Redis  *redis.Client

	Env           string
	Version       string
	CORSOrigins   []string
	AuthRateLimit int // requests per minute per IP on /api/auth
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	authn := AuthMiddleware(cfg.Accounts)
	adminOnly := RequireRoles(account.RoleAdmin)
	staffOnly := RequireRoles(account.RoleDoctor, account.RoleAdmin)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// credential endpoints are the brute-force surface
			if cfg.AuthRateLimit > 0 {
				r.Use(httprate.LimitByIP(cfg.AuthRateLimit, time.Minute))
			}
			r.Post("/register", registerHandler(cfg.Accounts))
			r.Post("/login", loginHandler(cfg.Accounts))

			r.Group(func(r chi.Router) {
				r.Use(authn)
				r.Get("/me", currentUserHandler(cfg.Accounts))
				r.Put("/me", updateProfileHandler(cfg.Accounts))
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Use(authn)
			r.Get("/doctors", doctorRosterHandler(cfg.Accounts))

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/", listUsersHandler(cfg.Accounts))
				r.Get("/pending-doctors", pendingDoctorsHandler(cfg.Accounts))
				r.Put("/{id}/approve", approveDoctorHandler(cfg.Accounts))
				r.Put("/{id}/toggle-status", toggleUserStatusHandler(cfg.Accounts))
				r.Delete("/{id}", deleteUserHandler(cfg.Accounts))
			})
		})

		r.Route("/appointments", func(r chi.Router) {
			r.Use(authn)
			r.Get("/", myAppointmentsHandler(cfg.Bookings))
			r.Post("/", createAppointmentHandler(cfg.Bookings))

			r.With(staffOnly).Get("/doctor/{doctorName}", doctorAppointmentsHandler(cfg.Bookings))

			r.Group(func(r chi.Router) {
				r.Use(adminOnly)
				r.Get("/all", allAppointmentsHandler(cfg.Bookings))
				r.Get("/pending", appointmentsByStatusHandler(cfg.Bookings, booking.StatusPending))
				r.Get("/reschedule-requests", appointmentsByStatusHandler(cfg.Bookings, booking.StatusRescheduleRequested))
			})

			// ownership-gated transitions authorize inside the service
			r.Put("/{id}/cancel", cancelAppointmentHandler(cfg.Bookings))
			r.Put("/{id}/approve", approveAppointmentHandler(cfg.Bookings))
			r.Put("/{id}/reject", rejectAppointmentHandler(cfg.Bookings))
			r.Put("/{id}/request-reschedule", requestRescheduleHandler(cfg.Bookings))
		})

		r.Route("/patients", func(r chi.Router) {
			r.Use(authn, staffOnly)
			r.Get("/", listPatientsHandler(cfg.Patients))
			r.Get("/stats", patientStatsHandler(cfg.Patients))
			r.Post("/", createPatientHandler(cfg.Patients))
			r.Get("/{id}", getPatientHandler(cfg.Patients))
			r.Put("/{id}", updatePatientHandler(cfg.Patients))
			r.Delete("/{id}", deletePatientHandler(cfg.Patients))
		})
	})

	return r
}

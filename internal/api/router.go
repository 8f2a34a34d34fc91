package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/mindwellhq/wellness-booking/internal/booking"
	"github.com/mindwellhq/wellness-booking/internal/chat"
	"github.com/mindwellhq/wellness-booking/internal/corporate"
	"github.com/mindwellhq/wellness-booking/internal/progress"
	"github.com/mindwellhq/wellness-booking/internal/resources"
)

type RouterConfig struct {
	Booking   *booking.Service
	Progress  *progress.Service
	Resources *resources.Service
	Corporate *corporate.Service
	Chat      *chat.Service
	PgPool    *pgxpool.Pool
	Redis     *redis.Client
	Log       *zap.Logger
	Env       string
	Version   string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(IdentityMiddleware)
	r.Use(LoggingMiddleware(cfg.Log))

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	r.Get("/slots", listSlotsHandler(cfg.Booking))

	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", bookHandler(cfg.Booking))
		r.Get("/", listAppointmentsHandler(cfg.Booking))
		r.Get("/{id}", getAppointmentHandler(cfg.Booking))
		r.Post("/{id}/confirm", confirmAppointmentHandler(cfg.Booking))
		r.Post("/{id}/cancel", cancelAppointmentHandler(cfg.Booking))
		r.Post("/{id}/reschedule", rescheduleAppointmentHandler(cfg.Booking))
		r.Get("/{id}/calendar.ics", exportICSHandler(cfg.Booking))
	})

	r.Post("/admin/slots", createSlotHandler(cfg.Booking))
	r.Post("/admin/appointments/confirm-payments", bulkConfirmHandler(cfg.Booking))

	r.Get("/dashboard", dashboardHandler(cfg.Progress))
	r.Get("/dashboard/mood", moodSeriesHandler(cfg.Progress))
	r.Post("/mood", recordMoodHandler(cfg.Progress))

	r.Get("/articles", listArticlesHandler(cfg.Resources))
	r.Get("/articles/{slug}", getArticleHandler(cfg.Resources))
	r.Post("/articles/{slug}/like", likeArticleHandler(cfg.Resources))
	r.Get("/videos", listVideosHandler(cfg.Resources))

	r.Post("/corporate/requests", corporateRequestHandler(cfg.Corporate))
	r.Get("/admin/corporate/requests", listCorporateRequestsHandler(cfg.Corporate))

	r.Post("/chat", chatHandler(cfg.Chat))
	r.Get("/chat/history", chatHistoryHandler(cfg.Chat))

	return r
}

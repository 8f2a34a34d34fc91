package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mindwellhq/wellness-booking/internal/booking"
	"github.com/mindwellhq/wellness-booking/internal/config"
	"github.com/mindwellhq/wellness-booking/internal/db"
	"github.com/mindwellhq/wellness-booking/internal/logger"
	"github.com/mindwellhq/wellness-booking/internal/notify"
)

// The reminder worker mails every requester with an active appointment
// tomorrow. It only reads booking state; a failed send means a missed
// reminder, never a changed appointment.

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	zlog := logger.New(cfg.Env)
	defer func() { _ = zlog.Sync() }()

	zlog.Info("reminder-worker starting up",
		zap.String("env", cfg.Env),
		zap.Duration("interval", cfg.WorkerInterval))

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		zlog.Fatal("postgres connection error", zap.Error(err))
	}
	defer pgPool.Close()
	zlog.Info("connected to Postgres")

	repo := booking.NewPgRepository(pgPool)

	var notifier notify.Notifier = notify.Noop{}
	if cfg.Env != "dev" {
		notifier = notify.NewSMTPNotifier(cfg.SMTPAddr, cfg.SMTPFrom)
	}

	// Run once at startup
	runOnce(rootCtx, repo, notifier, cfg.PublicBaseURL, zlog)

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rootCtx.Done():
			zlog.Info("shutdown signal received, stopping reminder worker")
			return
		case <-ticker.C:
			runOnce(rootCtx, repo, notifier, cfg.PublicBaseURL, zlog)
		}
	}
}

func runOnce(ctx context.Context, repo *booking.PgRepository, notifier notify.Notifier, baseURL string, zlog *zap.Logger) {
	runCtx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	start := time.Now()

	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	to := from.AddDate(0, 0, 1)

	appts, err := repo.ListActiveAppointmentsBetween(runCtx, from, to)
	if err != nil {
		zlog.Error("list tomorrow's appointments", zap.Error(err))
		return
	}

	sent := 0
	for _, a := range appts {
		body := fmt.Sprintf(
			"Hi %s,\n\nThis is a reminder of your wellness session on %s.\n\n"+
				"Manage your booking: %s/appointments/%d\n\nSee you there!\n",
			a.FullName, a.Slot.StartAt.Format("Monday, 2 January 2006 at 15:04 MST"),
			baseURL, a.ID,
		)
		if err := notifier.Send(runCtx, []string{a.Email}, "Your session tomorrow", body); err != nil {
			zlog.Warn("send reminder",
				zap.Int64("appointment_id", a.ID), zap.Error(err))
			continue
		}
		sent++
	}

	zlog.Info("reminder run complete",
		zap.Int("appointments", len(appts)),
		zap.Int("sent", sent),
		zap.Duration("took", time.Since(start)))
}

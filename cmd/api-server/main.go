package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mindwellhq/wellness-booking/internal/api"
	"github.com/mindwellhq/wellness-booking/internal/booking"
	"github.com/mindwellhq/wellness-booking/internal/calendar"
	"github.com/mindwellhq/wellness-booking/internal/chat"
	"github.com/mindwellhq/wellness-booking/internal/clock"
	"github.com/mindwellhq/wellness-booking/internal/config"
	"github.com/mindwellhq/wellness-booking/internal/corporate"
	"github.com/mindwellhq/wellness-booking/internal/db"
	"github.com/mindwellhq/wellness-booking/internal/logger"
	"github.com/mindwellhq/wellness-booking/internal/notify"
	"github.com/mindwellhq/wellness-booking/internal/progress"
	"github.com/mindwellhq/wellness-booking/internal/redisclient"
	"github.com/mindwellhq/wellness-booking/internal/resources"
)

const version = "1.0.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	zlog := logger.New(cfg.Env)
	defer func() { _ = zlog.Sync() }()

	zlog.Info("api-server starting up",
		zap.String("env", cfg.Env),
		zap.String("http_port", cfg.HTTPPort))

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

	if err := db.Migrate(rootCtx, pgPool, cfg.MigrationsDir); err != nil {
		zlog.Fatal("migration error", zap.Error(err))
	}
	zlog.Info("migrations applied")

	rdb, err := redisclient.New(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		zlog.Fatal("redis connection error", zap.Error(err))
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			zlog.Warn("error closing redis", zap.Error(err))
		}
	}()
	zlog.Info("connected to Redis")

	var calendarPort calendar.Port = calendar.Noop{}
	if cfg.CalendarAPIURL != "" {
		calendarPort = calendar.NewHTTPClient(cfg.CalendarAPIURL)
	}

	var notifier notify.Notifier = notify.Noop{}
	if cfg.Env != "dev" {
		notifier = notify.NewSMTPNotifier(cfg.SMTPAddr, cfg.SMTPFrom)
	}

	var completer chat.Completer
	if cfg.OpenAIKey != "" {
		completer = chat.NewOpenAIClient(cfg.OpenAIKey, cfg.OpenAIModel)
	}

	clk := clock.System{}
	locker := redisclient.NewSlotLocker(rdb, cfg.LockTTL)

	bookingRepo := booking.NewPgRepository(pgPool)
	bookingSvc := booking.NewService(bookingRepo, locker, calendarPort, clk, zlog)

	progressSvc := progress.NewService(progress.NewPgRepository(pgPool), bookingRepo, clk)
	resourcesSvc := resources.NewService(resources.NewPgRepository(pgPool), progressSvc, zlog)
	corporateSvc := corporate.NewService(corporate.NewPgRepository(pgPool), notifier, cfg.CorporateInbox)
	chatSvc := chat.NewService(chat.NewPgRepository(pgPool), completer, zlog)

	router := api.NewRouter(api.RouterConfig{
		Booking:   bookingSvc,
		Progress:  progressSvc,
		Resources: resourcesSvc,
		Corporate: corporateSvc,
		Chat:      chatSvc,
		PgPool:    pgPool,
		Redis:     rdb,
		Log:       zlog,
		Env:       cfg.Env,
		Version:   version,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: router,
	}

	go func() {
		zlog.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("http server error", zap.Error(err))
		}
	}()

	<-rootCtx.Done()
	zlog.Info("shutting down api-server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}

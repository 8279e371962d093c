package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/gymdesk/gymdesk/internal/config"
	"github.com/gymdesk/gymdesk/internal/domain/attendance"
	"github.com/gymdesk/gymdesk/internal/domain/members"
	"github.com/gymdesk/gymdesk/internal/domain/payments"
	"github.com/gymdesk/gymdesk/internal/domain/plans"
	"github.com/gymdesk/gymdesk/internal/infra/db"
	httpx "github.com/gymdesk/gymdesk/internal/infra/http"
	"github.com/gymdesk/gymdesk/internal/infra/logger"
	"github.com/gymdesk/gymdesk/internal/infra/notify"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/subosito/gotenv"
)

func runMigrations(dsn string) error {
	sqlDB, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return err
	}
	defer func() { _ = sqlDB.Close() }()
	return goose.Up(sqlDB, "migrations")
}

func main() {
	_ = gotenv.Load()

	cfg, err := config.Load("config/example.yaml")
	if err != nil {
		panic(err)
	}

	log := logger.New(cfg.App.Env)

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Error("invalid timezone", "timezone", cfg.App.Timezone, "err", err)
		return
	}

	if err := runMigrations(cfg.Postgres.DSN); err != nil {
		log.Error("migrations failed", "err", err)
		return
	}
	log.Info("migrations applied")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Error("db connect failed", "err", err)
		return
	}
	defer pool.Close()
	log.Info("db connected")

	memberRepo := members.NewRepo(pool)
	planRepo := plans.NewRepo(pool)
	attendanceRepo := attendance.NewRepo(pool)
	paymentRepo := payments.NewRepo(pool)

	var notifier attendance.Notifier = notify.Nop{}
	if cfg.Telegram.Enabled {
		tg, err := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.AdminChatID, log)
		if err != nil {
			log.Error("telegram init failed", "err", err)
			return
		}
		notifier = tg
		log.Info("telegram notifications enabled", "chat_id", cfg.Telegram.AdminChatID)
	}

	attendanceSvc := attendance.NewService(attendanceRepo, memberRepo, notifier, log, loc)
	paymentSvc := payments.NewService(paymentRepo, memberRepo, planRepo, log, loc)

	handlers := httpx.NewHandlers(log, attendanceSvc, paymentSvc, planRepo, loc)
	srv := httpx.New(cfg.HTTP.Addr, cfg.Metrics.Enabled, handlers)
	go func() {
		if err := srv.Start(); err != nil && err.Error() != "http: Server closed" {
			log.Error("http server error", "err", err)
		}
	}()
	log.Info("HTTP server started", "addr", cfg.HTTP.Addr)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	log.Info("graceful shutdown complete")
}

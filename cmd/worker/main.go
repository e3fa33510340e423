package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"tripdesk_backend/internal/email"
	"tripdesk_backend/internal/scheduler"
	"tripdesk_backend/platform/config"
	"tripdesk_backend/platform/db"
	"tripdesk_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting worker", "env", cfg.Env, "queue", cfg.AsynqQueueName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	var sender email.Sender = email.NoopSender{}
	if cfg.GetEmailEnabled() {
		sender = email.NewSMTPSender(cfg)
	} else {
		log.Warn("SMTP not configured; outgoing emails are dropped")
	}

	worker, err := scheduler.NewWorker(cfg, cfg, pool, sender, log)
	if err != nil {
		log.Error("failed to initialize worker", "error", err)
		panic("failed to initialize worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("worker stopped")
}

package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/wuchris-ch/notification-app/internal/domain/notify"
	"github.com/wuchris-ch/notification-app/internal/infra/config"
	idb "github.com/wuchris-ch/notification-app/internal/infra/database"
	"github.com/wuchris-ch/notification-app/internal/infra/gateway"
	"github.com/wuchris-ch/notification-app/internal/infra/logger"
	"github.com/wuchris-ch/notification-app/internal/infra/scheduler"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("FATAL: Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Reminder scheduler starting. Environment: %s, reconcile interval: %s", cfg.Environment, cfg.ReconcileInterval)

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established.")

	reminderRepo := idb.NewPostgresReminderRepository(db)
	deliveryRepo := idb.NewPostgresDeliveryRepository(db)

	ntfy := gateway.NewNtfyGateway(cfg.NtfyBaseURL, cfg.DeliveryTimeout)
	var telegram notify.Gateway
	if cfg.TelegramToken != "" {
		tg, err := gateway.NewTelegramGateway(cfg.TelegramToken)
		if err != nil {
			log.Fatalf("FATAL: Could not initialize Telegram gateway: %v", err)
		}
		telegram = tg
		log.Info("Telegram delivery gateway enabled.")
	}
	router := gateway.NewRouter(ntfy, telegram)

	executor := scheduler.NewExecutor(reminderRepo, deliveryRepo, router, log)
	sched := scheduler.NewReminderScheduler(reminderRepo, executor, log, cfg.ReconcileInterval)
	sched.Start()
	log.Info("Scheduler started.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down scheduler...")
	sched.Stop()
	log.Info("Scheduler shut down gracefully.")
}

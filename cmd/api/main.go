package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wuchris-ch/notification-app/internal/app"
	"github.com/wuchris-ch/notification-app/internal/domain/notify"
	"github.com/wuchris-ch/notification-app/internal/infra/ai"
	"github.com/wuchris-ch/notification-app/internal/infra/config"
	idb "github.com/wuchris-ch/notification-app/internal/infra/database"
	"github.com/wuchris-ch/notification-app/internal/infra/gateway"
	"github.com/wuchris-ch/notification-app/internal/infra/httpapi"
	"github.com/wuchris-ch/notification-app/internal/infra/logger"

	"github.com/sirupsen/logrus"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("FATAL: Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	log := logger.Get()
	log.Infof("Reminders API starting. Environment: %s, listen: %s", cfg.Environment, cfg.ListenAddr)

	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	log.Info("Database connection established.")

	if err := idb.Migrate(db); err != nil {
		log.Fatalf("FATAL: Could not apply schema migrations: %v", err)
	}
	log.Info("Schema migrations applied.")

	channelRepo := idb.NewPostgresChannelRepository(db)
	reminderRepo := idb.NewPostgresReminderRepository(db)
	deliveryRepo := idb.NewPostgresDeliveryRepository(db)

	channelService := app.NewChannelService(channelRepo, cfg.DefaultTimezone)
	reminderService := app.NewReminderService(reminderRepo, channelRepo, cfg.DefaultTimezone)

	var parseService *app.ParseService
	if cfg.DeepseekAPIKey != "" {
		parser, err := ai.NewDeepseekParser(cfg.DeepseekAPIKey, log)
		if err != nil {
			log.Fatalf("FATAL: Could not initialize DeepSeek parser: %v", err)
		}
		parseService = app.NewParseService(parser, reminderService, cfg.DefaultTimezone, log)
		log.Info("Natural language parsing enabled.")
	} else {
		log.Warn("DEEPSEEK_API_KEY not set; natural language parsing disabled.")
	}

	ntfy := gateway.NewNtfyGateway(cfg.NtfyBaseURL, cfg.DeliveryTimeout)
	var telegram notify.Gateway
	if cfg.TelegramToken != "" {
		tg, err := gateway.NewTelegramGateway(cfg.TelegramToken)
		if err != nil {
			log.Fatalf("FATAL: Could not initialize Telegram gateway: %v", err)
		}
		telegram = tg
	}
	router := gateway.NewRouter(ntfy, telegram)

	server := httpapi.NewServer(channelService, reminderService, parseService, deliveryRepo, router, log)
	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: server,
	}

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("FATAL: HTTP server failed: %v", err)
		}
	}()
	log.Info("API server started.")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down API server...")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Errorf("HTTP server shutdown: %v", err)
	}
	log.Info("API server shut down gracefully.")
}

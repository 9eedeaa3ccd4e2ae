package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/omnisaude/saude-api/internal/config"
	"github.com/omnisaude/saude-api/internal/email"
	"github.com/omnisaude/saude-api/internal/repository/postgres"
	notificationService "github.com/omnisaude/saude-api/internal/service/notification"
	"github.com/omnisaude/saude-api/internal/worker"
	"github.com/omnisaude/saude-api/pkg/logger"
	"github.com/omnisaude/saude-api/pkg/messaging"
	redisBroker "github.com/omnisaude/saude-api/pkg/messaging/redis"
	"github.com/omnisaude/saude-api/pkg/metrics"
)

func main() {
	_ = godotenv.Load()

	appLogger := logger.NewLogger(nil)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	m := metrics.NewMetrics("saude", "worker")

	eventRepo := postgres.NewEventRepository(db, m)
	notificationRepo := postgres.NewNotificationRepository(db)

	var broker messaging.Broker
	if cfg.Redis.URL != "" {
		broker, err = redisBroker.NewRedisBroker(redisBroker.Config{URL: cfg.Redis.URL}, appLogger.Zerolog())
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()
	}

	emailSvc := email.NewSMTPService(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
	})

	notificationSvc := notificationService.NewService(notificationRepo, emailSvc, broker, m)

	reminder := worker.NewReminder(eventRepo, notificationSvc, cfg.Worker.ReminderLeadMinutes)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().Msg("starting reminder worker")
	if err := reminder.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("reminder worker failed")
	}
	log.Info().Msg("worker exited properly")
}

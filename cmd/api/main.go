package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/omnisaude/saude-api/internal/config"
	"github.com/omnisaude/saude-api/internal/email"
	authHandler "github.com/omnisaude/saude-api/internal/handler/auth"
	eventHandler "github.com/omnisaude/saude-api/internal/handler/event"
	"github.com/omnisaude/saude-api/internal/handler/health"
	labHandler "github.com/omnisaude/saude-api/internal/handler/lab"
	notificationHandler "github.com/omnisaude/saude-api/internal/handler/notification"
	patientHandler "github.com/omnisaude/saude-api/internal/handler/patient"
	professionalHandler "github.com/omnisaude/saude-api/internal/handler/professional"
	"github.com/omnisaude/saude-api/internal/middleware"
	"github.com/omnisaude/saude-api/internal/repository/postgres"
	"github.com/omnisaude/saude-api/internal/router"
	authService "github.com/omnisaude/saude-api/internal/service/auth"
	eventService "github.com/omnisaude/saude-api/internal/service/event"
	labService "github.com/omnisaude/saude-api/internal/service/lab"
	notificationService "github.com/omnisaude/saude-api/internal/service/notification"
	patientService "github.com/omnisaude/saude-api/internal/service/patient"
	professionalService "github.com/omnisaude/saude-api/internal/service/professional"
	"github.com/omnisaude/saude-api/pkg/auth"
	"github.com/omnisaude/saude-api/pkg/logger"
	"github.com/omnisaude/saude-api/pkg/messaging"
	redisBroker "github.com/omnisaude/saude-api/pkg/messaging/redis"
	"github.com/omnisaude/saude-api/pkg/metrics"
	"github.com/omnisaude/saude-api/pkg/security"
	"github.com/omnisaude/saude-api/pkg/storage"
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

	m := metrics.NewMetrics("saude", "api")

	eventRepo := postgres.NewEventRepository(db, m)
	patientRepo := postgres.NewPatientRepository(db)
	professionalRepo := postgres.NewProfessionalRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)
	userRepo := postgres.NewUserRepository(db)

	store, err := storage.NewCloudinaryStore(storage.Config{
		CloudName: cfg.Cloudinary.CloudName,
		APIKey:    cfg.Cloudinary.APIKey,
		APISecret: cfg.Cloudinary.APISecret,
		Folder:    cfg.Cloudinary.Folder,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize object storage")
	}

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
	eventSvc := eventService.NewService(eventRepo, store, notificationSvc, m)
	patientSvc := patientService.NewService(patientRepo)
	professionalSvc := professionalService.NewService(professionalRepo)
	labSvc := labService.NewService(eventRepo, notificationSvc, cfg.Lab.MaxSubmissionsPerHour)

	jwtSvc := auth.NewJWTService(auth.Config{
		Secret:             cfg.JWT.Secret,
		RefreshSecret:      cfg.JWT.RefreshSecret,
		ExpiryHours:        cfg.JWT.ExpiryHours,
		RefreshExpiryHours: cfg.JWT.RefreshExpiryHours,
	})
	hasher := security.NewBcryptHasher(0)
	authSvc := authService.NewService(userRepo, jwtSvc, hasher, cfg.JWT.ExpiryHours)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(authSvc),
		health.NewHandler(db),
		eventHandler.NewHandler(eventSvc),
		patientHandler.NewHandler(patientSvc),
		professionalHandler.NewHandler(professionalSvc),
		notificationHandler.NewHandler(notificationSvc),
		labHandler.NewHandler(labSvc),
		router.Config{
			RateLimit:  rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:  cfg.RateLimit.Burst,
			Timeout:    time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
			CORSConfig: middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

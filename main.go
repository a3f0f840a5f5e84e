package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joeyave/club-admin/configs"
	"github.com/joeyave/club-admin/controller"
	"github.com/joeyave/club-admin/helpers"
	"github.com/joeyave/club-admin/repository"
	"github.com/joeyave/club-admin/service"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

func main() {
	configs.LoadEnv()

	config, err := configs.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
	}
	config.SetupLogger()

	mongoClient, err := mongo.Connect(options.Client().ApplyURI(config.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("Error creating mongo client")
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(ctx)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = mongoClient.Ping(ctx, readpref.Primary())
	if err != nil {
		log.Fatal().Err(err).Msg("Error pinging mongo")
	}

	participationRepository := repository.NewParticipationRepository(mongoClient, config.MongoName, config.ExportRetries)
	userRepository := repository.NewUserRepository(mongoClient, config.MongoName)
	eventRepository := repository.NewEventRepository(mongoClient, config.MongoName)

	reportService := service.NewReportService(participationRepository, service.ReportConfig{
		RegistrationsPageSize: config.RegistrationsPageSize,
		VolunteersPageSize:    config.VolunteersPageSize,
		MaxPageSize:           config.MaxPageSize,
		DateLocale:            config.DateLocale,
	})
	moderationService := service.NewModerationService(participationRepository)
	intakeService := service.NewIntakeService(participationRepository, userRepository, eventRepository)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), helpers.RequestLogger())

	controller.Register(router, controller.Controllers{
		Report:     &controller.ReportController{ReportService: reportService},
		Moderation: &controller.ModerationController{ModerationService: moderationService},
		Intake:     &controller.IntakeController{IntakeService: intakeService},
		Health:     &controller.HealthController{Pinger: participationRepository},
	})

	srv := &http.Server{
		Addr:              ":" + config.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Error running server")
		}
	}()

	stop, stopCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopCancel()
	<-stop.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		log.Error().Err(err).Msg("Error shutting down server")
	}
}

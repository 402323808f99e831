package main

import (
	"appointment-service/internal/app/config"
	"appointment-service/internal/app/delivery/http/controllers"
	"appointment-service/internal/app/delivery/http/middlewares"
	"appointment-service/internal/app/delivery/http/routers"
	"appointment-service/internal/app/drivers/database"
	"appointment-service/internal/app/drivers/logger"
	"appointment-service/internal/app/drivers/messaging"
	"appointment-service/internal/app/services/core/appointments"
	"appointment-service/internal/app/services/shared/events"
	sharedredis "appointment-service/internal/app/services/shared/redis"
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)
	defer log.Sync()

	mongoDB := database.NewMongoDB(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitMQ := messaging.NewRabbitMQ(driverConfig)
	chiRouter := chi.NewRouter()

	bootstrapTheApp(config.Bootstrap{
		Router:         chiRouter,
		MongoDB:        mongoDB,
		Redis:          redisClient,
		RabbitMQ:       rabbitMQ,
		Logger:         log,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	})

	server := &http.Server{
		Addr:    internalConfig.App.Port,
		Handler: chiRouter,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start", zap.Error(err))
		}
	}()
	log.Info("Server started", zap.String("addr", internalConfig.App.Port))

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	<-c

	log.Info("Waiting for pending requests already received by the server to finish..")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeoutInSeconds),
	)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exiting")
}

func bootstrapTheApp(bootstrap config.Bootstrap) {
	// Redis
	redisRepository := sharedredis.NewRedisRepository(bootstrap.Redis)

	// RabbitMQ
	eventPublisher, err := events.NewAppointmentEventPublisher(bootstrap.RabbitMQ, bootstrap.InternalConfig.Appointment.EventQueue)
	if err != nil {
		bootstrap.Logger.Fatal("Failed to declare the appointment event queue", zap.Error(err))
	}

	// Middlewares
	middlewares := middlewares.NewMiddlewares(bootstrap.Logger, bootstrap.InternalConfig)

	// Appointment
	appointmentRepository := appointments.NewAppointmentMongoRepository(
		bootstrap.MongoDB,
		bootstrap.DriverConfig.MongoDB.DbName,
	)
	appointmentUsecase := appointments.NewAppointmentUsecase(
		appointmentRepository,
		redisRepository,
		eventPublisher,
		bootstrap.InternalConfig,
		bootstrap.Logger,
	)
	appointmentController := controllers.NewAppointmentController(bootstrap.Logger, appointmentUsecase)

	if bootstrap.InternalConfig.Appointment.SeedOnStart {
		seedCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := appointmentUsecase.Seed(seedCtx); err != nil {
			bootstrap.Logger.Warn("Failed to seed sample appointment", zap.Error(err))
		}
	}

	routers.SetupRoutes(bootstrap.Router, bootstrap.InternalConfig, middlewares, appointmentController)
}

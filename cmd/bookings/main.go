package main

import (
	"os"

	"pujari/internal/availability"
	"pujari/internal/bookings/handler"
	"pujari/internal/bookings/repository"
	"pujari/internal/bookings/service"
	bookingvalidator "pujari/internal/bookings/validator"
	"pujari/internal/events"
	priestrepository "pujari/internal/priests/repository"
	ratinghandler "pujari/internal/ratings/handler"
	ratingrepository "pujari/internal/ratings/repository"
	ratingservice "pujari/internal/ratings/service"
	ratingvalidator "pujari/internal/ratings/validator"
	"pujari/pkg/app"
	"pujari/pkg/config"
	"pujari/pkg/contracts"
	"pujari/pkg/kafka"
	kafka_config "pujari/pkg/kafka/config"
	kafka_middleware "pujari/pkg/kafka/middleware"

	"github.com/julienschmidt/httprouter"
)

const ServiceName = "bookings"

// routes bundles the handlers this service exposes behind one registration.
type routes []contracts.Handler

func (rs routes) RegisterRoutes(router *httprouter.Router) {
	for _, r := range rs {
		r.RegisterRoutes(router)
	}
}

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Bookings service")

	publisher, producer := initPublisher(cfg)
	if producer != nil {
		defer producer.Close()
	}

	appHandler := initHandlers(cfg, publisher)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		appHandler,
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}

func initHandlers(cfg *config.Config, publisher events.Publisher) contracts.Handler {
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	transactionRepo := repository.NewMongoTransactionRepository(cfg)
	slotLockRepo := repository.NewSlotLockRepository(cfg)
	priestRepo := priestrepository.NewMongoPriestRepository(cfg)
	ratingRepo := ratingrepository.NewMongoRatingRepository(cfg)

	resolver := availability.NewResolver(priestRepo, bookingRepo, cfg)

	bookingService := service.NewBookingService(
		bookingRepo,
		transactionRepo,
		slotLockRepo,
		priestRepo,
		resolver,
		bookingvalidator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)
	paymentService := service.NewPaymentService(
		bookingRepo,
		transactionRepo,
		publisher,
		cfg,
	)
	ratingService := ratingservice.NewRatingService(
		ratingRepo,
		bookingRepo,
		priestRepo,
		ratingvalidator.NewRatingValidator(cfg.Log),
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking services initialized", "database", cfg.MongoDatabaseName)

	return routes{
		handler.NewBookingHandler(bookingService, paymentService, cfg.Log),
		handler.NewAvailabilityHandler(resolver, cfg.Log),
		ratinghandler.NewRatingHandler(ratingService, cfg.Log),
	}
}

// initPublisher wires the Kafka producer when brokers are configured and
// falls back to a no-op publisher otherwise, so the service runs without
// Kafka in local development.
func initPublisher(cfg *config.Config) (events.Publisher, *kafka.Producer) {
	if os.Getenv(kafka_config.EnvKafkaBrokers) == "" {
		cfg.Log.Info("Kafka brokers not configured, events will not be published")
		return events.NoopPublisher{}, nil
	}

	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	producer, err := kafka.NewProducer(kafkaCfg, events.Topic, events.DLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}

	if kafkaCfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware())
		producer.Use(kafka_middleware.MetricsProducerMiddleware())
	}

	return events.NewKafkaPublisher(producer, ServiceName, cfg.Log), producer
}

package main

import (
	"innkeep/internal/reservations/events"
	"innkeep/internal/reservations/handler"
	"innkeep/internal/reservations/repository"
	"innkeep/internal/reservations/service"
	"innkeep/internal/reservations/validator"
	roomsrepository "innkeep/internal/rooms/repository"
	"innkeep/pkg/app"
	"innkeep/pkg/config"
	"innkeep/pkg/health"
	"innkeep/pkg/kafka"
	kafka_config "innkeep/pkg/kafka/config"
	kafka_middleware "innkeep/pkg/kafka/middleware"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Reservations service")

	producer := initProducer(cfg)
	defer func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close Kafka producer", "error", err)
		}
	}()

	reservationService := initServices(cfg, producer)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewReservationHandler(reservationService, cfg.Log),
		health.NewHandler(ServiceName, cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}

func initProducer(cfg *config.Config) *kafka.Producer {
	kafkaCfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	producer, err := kafka.NewProducer(kafkaCfg, events.Topic, events.DLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafka_middleware.LoggingProducerMiddleware(cfg.Log))

	cfg.Log.Info("Kafka producer initialized", "topic", events.Topic, "brokers", kafkaCfg.Brokers)
	return producer
}

func initServices(cfg *config.Config, producer *kafka.Producer) service.ReservationService {
	reservationValidator := validator.NewReservationValidator(cfg.Log)
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	lockRepo := repository.NewReservationLockRepository(cfg)
	roomTypeRepo := roomsrepository.NewMongoRoomTypeRepository(cfg)
	publisher := events.NewKafkaPublisher(producer, cfg.Log)

	reservationService := service.NewReservationService(
		reservationRepo,
		lockRepo,
		roomTypeRepo,
		reservationValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService
}

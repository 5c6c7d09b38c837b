package main

import (
	"innkeep/internal/rooms/handler"
	"innkeep/internal/rooms/repository"
	"innkeep/internal/rooms/service"
	"innkeep/internal/rooms/validator"
	"innkeep/pkg/app"
	"innkeep/pkg/config"
	"innkeep/pkg/health"
)

const ServiceName = "rooms"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Rooms service")
	roomTypeService := initServices(cfg)

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewRoomTypeHandler(roomTypeService, cfg.Log),
		health.NewHandler(ServiceName, cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.RoomTypeService {
	roomTypeValidator := validator.NewRoomTypeValidator(cfg.Log)
	roomTypeRepo := repository.NewMongoRoomTypeRepository(cfg)
	roomTypeService := service.NewRoomTypeService(
		roomTypeRepo,
		roomTypeValidator,
		cfg,
	)

	cfg.Log.Info("Room type service initialized", "database", cfg.MongoDatabaseName)
	return roomTypeService
}

package main

import (
	"pujari/internal/priests/handler"
	"pujari/internal/priests/repository"
	"pujari/internal/priests/service"
	"pujari/internal/priests/validator"
	"pujari/pkg/app"
	"pujari/pkg/config"
)

const ServiceName = "priests"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Priests service")
	priestService := initServices(cfg)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		handler.NewPriestHandler(priestService, cfg.Log),
		handler.NewHealthHandler(cfg.Client.Mongo, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config) service.PriestService {
	priestValidator := validator.NewPriestValidator(cfg.Log)
	priestRepo := repository.NewMongoPriestRepository(cfg)
	priestService := service.NewPriestService(
		priestRepo,
		priestValidator,
		cfg,
	)

	cfg.Log.Info("Priest service initialized", "database", cfg.MongoDatabaseName)
	return priestService
}

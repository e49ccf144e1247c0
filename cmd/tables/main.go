package main

import (
	"github.com/joho/godotenv"

	"tablebook/internal/tables/cache"
	"tablebook/internal/tables/handler"
	"tablebook/internal/tables/repository"
	"tablebook/internal/tables/service"
	"tablebook/internal/tables/validator"
	"tablebook/pkg/app"
	"tablebook/pkg/config"
)

const ServiceName = "tables"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Tables service")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	tableService := initServices(cfg)
	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewTableHandler(tableService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.TableService {
	tableValidator := validator.NewTableValidator(cfg.Log)
	tableRepo := repository.NewMongoTableRepository(cfg)
	ledger := repository.NewMongoBookingLedger(cfg)
	reportCache := cache.NewReportCache(cfg.RedisAddr, cfg.RedisPassword, cfg.AvailabilityTTL)
	if reportCache == nil {
		cfg.Log.Info("Redis not configured, availability report cache disabled")
	}

	tableService := service.NewTableService(tableRepo, ledger, reportCache, tableValidator, cfg)

	cfg.Log.Info("Table service initialized", "database", cfg.MongoDatabaseName)
	return tableService
}

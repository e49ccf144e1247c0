package main

import (
	"github.com/joho/godotenv"

	"tablebook/internal/reservations/events"
	"tablebook/internal/reservations/handler"
	"tablebook/internal/reservations/repository"
	"tablebook/internal/reservations/service"
	"tablebook/internal/reservations/validator"
	tablesrepo "tablebook/internal/tables/repository"
	"tablebook/pkg/app"
	"tablebook/pkg/config"
)

const ServiceName = "reservations"

func main() {
	_ = godotenv.Load()

	cfg := config.Load(ServiceName)

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal("Invalid configuration", "error", err)
	}
	cfg.LogConfiguration()

	cfg.Log.Info("Starting Reservations service")
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	reservationService, publisher := initServices(cfg)
	if publisher != nil {
		defer publisher.Close()
	}

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg, handler.NewReservationHandler(reservationService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.ReservationService, *events.Publisher) {
	reservationValidator := validator.NewReservationValidator(cfg.Log)
	reservationRepo := repository.NewMongoReservationRepository(cfg)
	lockRepo := repository.NewSlotLockRepository(cfg)
	ledger := tablesrepo.NewMongoBookingLedger(cfg)

	publisher, err := events.NewPublisher(cfg)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize event publisher", "error", err)
	}

	reservationService := service.NewReservationService(
		reservationRepo,
		lockRepo,
		ledger,
		reservationValidator,
		publisher,
		cfg,
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService, publisher
}

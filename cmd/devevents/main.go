package main

import (
	"context"

	bookinghandler "devevents/internal/bookings/handler"
	bookingrepository "devevents/internal/bookings/repository"
	bookingservice "devevents/internal/bookings/service"
	bookingvalidator "devevents/internal/bookings/validator"
	eventhandler "devevents/internal/events/handler"
	eventrepository "devevents/internal/events/repository"
	eventservice "devevents/internal/events/service"
	eventvalidator "devevents/internal/events/validator"
	"devevents/pkg/app"
	"devevents/pkg/config"
)

const ServiceName = "devevents"

func main() {
	cfg := config.Load(ServiceName)
	cfg.Log.Info("Starting DevEvents service")

	serverApp := app.NewApplication(cfg)
	serverApp.InitInfrastructure(context.Background(), ServiceName)

	eventRepo := eventrepository.NewMongoEventRepository(cfg)
	bookingRepo := bookingrepository.NewMongoBookingRepository(cfg)

	eventService := eventservice.NewEventService(
		eventRepo,
		bookingRepo,
		eventvalidator.NewEventValidator(cfg.Log),
		serverApp.EventCache(),
		serverApp.Publisher(),
		cfg,
	)
	bookingService := bookingservice.NewBookingService(
		bookingRepo,
		eventRepo,
		bookingvalidator.NewBookingValidator(cfg.Log),
		serverApp.Publisher(),
		cfg,
	)
	cfg.Log.Info("Services initialized", "database", cfg.MongoDatabaseName)

	serverApp.SetApp(
		eventhandler.NewEventHandler(eventService, cfg.Log),
		bookinghandler.NewBookingHandler(bookingService, cfg.Log),
	)
	serverApp.Run()
}

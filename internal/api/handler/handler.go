package handler

import (
	"github.com/Freeeeeet/consultation_scheduler/internal/service"
	"go.uber.org/zap"
)

// Handler собирает обработчики всех модулей
type Handler struct {
	Config  *ConfigHandler
	Booking *BookingHandler
	Export  *ExportHandler
}

func New(
	availability AvailabilityService,
	bookings BookingService,
	lifecycle LifecycleService,
	export ExportService,
	authorizer service.Authorizer,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Config:  NewConfigHandler(availability, authorizer, logger),
		Booking: NewBookingHandler(bookings, lifecycle, logger),
		Export:  NewExportHandler(export, logger),
	}
}

package handler

import (
	"bytes"
	"context"

	"github.com/Freeeeeet/consultation_scheduler/internal/model"
	"github.com/Freeeeeet/consultation_scheduler/internal/service"
	"github.com/google/uuid"
)

// AvailabilityService операции с конфигурацией доступности
type AvailabilityService interface {
	GetConfig(ctx context.Context, resourceID string) (*model.AvailabilityConfig, error)
	SaveConfig(ctx context.Context, resourceID string, draft *model.AvailabilityConfig) (*model.AvailabilityConfig, error)
	Reconcile(ctx context.Context, resourceID string) ([]service.ReconcileItem, error)
}

// BookingService слоты и журнал бронирований
type BookingService interface {
	AvailableSlots(ctx context.Context, resourceID string, date model.Date) ([]model.Slot, error)
	RequestBooking(ctx context.Context, req service.BookingRequest) (*model.Booking, error)
	GetBooking(ctx context.Context, id uuid.UUID, actorID string) (*model.Booking, error)
	ListResourceBookings(ctx context.Context, actorID string, filter service.BookingListFilter) ([]*model.Booking, error)
	ListRequesterBookings(ctx context.Context, requesterID string) ([]*model.Booking, error)
}

// LifecycleService переходы статусов
type LifecycleService interface {
	Transition(ctx context.Context, bookingID uuid.UUID, target model.BookingStatus, actorID string) (*model.Booking, error)
}

// ExportService выгрузки бронирований
type ExportService interface {
	ICS(ctx context.Context, actorID string, filter service.BookingListFilter) ([]byte, string, error)
	XLSX(ctx context.Context, actorID string, filter service.BookingListFilter) (*bytes.Buffer, string, error)
}

package service

import (
	"context"
	"time"

	"github.com/Freeeeeet/consultation_scheduler/internal/model"
	"github.com/Freeeeeet/consultation_scheduler/internal/repository"
	"github.com/google/uuid"
)

// AvailabilityRepository хранилище конфигураций доступности
type AvailabilityRepository interface {
	GetByResourceID(ctx context.Context, resourceID string) (*model.AvailabilityConfig, error)
	Upsert(ctx context.Context, cfg *model.AvailabilityConfig) error
}

// BookingRepository журнал бронирований. Записи никогда не удаляются.
type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
	GetActiveBySlot(ctx context.Context, resourceID string, date model.Date, t model.ClockTime) (*model.Booking, error)
	GetByIdempotencyKey(ctx context.Context, requesterID, key string) (*model.Booking, error)
	ListBookedTimes(ctx context.Context, resourceID string, date model.Date) ([]model.ClockTime, error)
	ListByResource(ctx context.Context, filter repository.BookingFilter) ([]*model.Booking, error)
	ListActiveFrom(ctx context.Context, resourceID string, from model.Date) ([]*model.Booking, error)
	ListByRequester(ctx context.Context, requesterID string) ([]*model.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.BookingStatus, updatedAt time.Time) (*model.Booking, error)
}

// ResourceRepository справочник ресурсов и их операторов
type ResourceRepository interface {
	GetByID(ctx context.Context, id string) (*model.Resource, error)
	List(ctx context.Context) ([]*model.Resource, error)
}

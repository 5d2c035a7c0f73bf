package service

import (
	"context"

	"github.com/Freeeeeet/consultation_scheduler/internal/model"
)

// EventPublisher передаёт события бронирований во внешнюю доставку уведомлений.
// Publish не должен блокироваться на доставке.
type EventPublisher interface {
	Publish(ctx context.Context, event model.BookingEvent)
}

// NopPublisher отбрасывает события
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, model.BookingEvent) {}

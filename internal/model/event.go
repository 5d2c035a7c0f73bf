package model

import "time"

type BookingEventType string

const (
	EventBookingCreated         BookingEventType = "booking_created"
	EventBookingStatusChanged   BookingEventType = "status_changed"
	EventReconciliationRequired BookingEventType = "reconciliation_required"
)

// BookingEvent событие для доставки уведомлений оператору
type BookingEvent struct {
	Type           BookingEventType `json:"type"`
	ResourceID     string           `json:"resource_id"`
	Booking        *Booking         `json:"booking,omitempty"`
	PreviousStatus BookingStatus    `json:"previous_status,omitempty"`
	ActorID        string           `json:"actor_id,omitempty"`
	Affected       []*Booking       `json:"affected,omitempty"` // для reconciliation_required
	OccurredAt     time.Time        `json:"occurred_at"`
}

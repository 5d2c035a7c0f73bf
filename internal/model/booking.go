package model

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"   // Ожидает подтверждения академии
	BookingStatusConfirmed BookingStatus = "confirmed" // Подтверждено
	BookingStatusCompleted BookingStatus = "completed" // Консультация состоялась
	BookingStatusCancelled BookingStatus = "cancelled" // Отменено
)

// ActiveBookingStatuses занимают слот эксклюзивно
var ActiveBookingStatuses = []BookingStatus{BookingStatusPending, BookingStatusConfirmed}

// ActorRole класс участника, применяющего переход
type ActorRole string

const (
	ActorOperator  ActorRole = "operator"
	ActorRequester ActorRole = "requester"
)

// bookingTransitions - все допустимые рёбра и кто может по ним переходить
var bookingTransitions = map[BookingStatus]map[BookingStatus][]ActorRole{
	BookingStatusPending: {
		BookingStatusConfirmed: {ActorOperator},
		BookingStatusCancelled: {ActorOperator, ActorRequester},
	},
	BookingStatusConfirmed: {
		BookingStatusCancelled: {ActorOperator, ActorRequester},
		BookingStatusCompleted: {ActorOperator},
	},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

// ParseBookingStatus преобразует строку в BookingStatus
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid booking status: %s", s)
	}
	return status, nil
}

func (s BookingStatus) IsValid() bool {
	_, ok := bookingTransitions[s]
	return ok
}

// IsActive - статус занимает слот
func (s BookingStatus) IsActive() bool {
	return slices.Contains(ActiveBookingStatuses, s)
}

// IsTerminal - из статуса нет переходов
func (s BookingStatus) IsTerminal() bool {
	return s.IsValid() && len(bookingTransitions[s]) == 0
}

// CanTransitionTo проверяет что переход является ребром автомата
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	_, ok := bookingTransitions[s][target]
	return ok
}

// AllowsActor проверяет что участник с данной ролью может выполнить переход
func (s BookingStatus) AllowsActor(target BookingStatus, role ActorRole) bool {
	roles, ok := bookingTransitions[s][target]
	return ok && slices.Contains(roles, role)
}

func (s BookingStatus) String() string {
	return string(s)
}

type Booking struct {
	ID              uuid.UUID     `json:"id"`
	ResourceID      string        `json:"resource_id"`
	Date            Date          `json:"date"`
	Time            ClockTime     `json:"time"`
	DurationMinutes int           `json:"duration_minutes"` // длительность слота на момент записи
	RequesterID     string        `json:"requester_id"`
	SubjectName     string        `json:"subject_name"`
	SubjectGrade    *string       `json:"subject_grade,omitempty"`
	Note            *string       `json:"note,omitempty"`
	Status          BookingStatus `json:"status"`
	IdempotencyKey  *string       `json:"-"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// SameSlot проверяет что бронирование занимает указанный слот
func (b *Booking) SameSlot(resourceID string, date Date, t ClockTime) bool {
	return b.ResourceID == resourceID && b.Date == date && b.Time == t
}

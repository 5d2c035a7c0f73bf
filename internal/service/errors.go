package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/Freeeeeet/consultation_scheduler/internal/model"
	"github.com/google/uuid"
)

// Сентинелы для errors.Is
var (
	ErrValidation        = errors.New("validation failed")
	ErrSlotInvalid       = errors.New("slot is no longer available")
	ErrSlotTaken         = errors.New("slot already taken")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrNotAuthorized     = errors.New("not authorized")
	ErrNotFound          = errors.New("not found")
)

// ValidationError - некорректные входные данные, поля -> сообщение
type ValidationError struct {
	Fields map[string]string
}

func newValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) add(field, msg string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = msg
	}
}

// orNil возвращает nil если ошибок нет
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// SlotInvalidReason причина по которой слот нельзя забронировать
type SlotInvalidReason string

const (
	SlotInvalidClosed  SlotInvalidReason = "closed"
	SlotInvalidPast    SlotInvalidReason = "past"
	SlotInvalidBreak   SlotInvalidReason = "break"
	SlotInvalidOffGrid SlotInvalidReason = "off_grid"
)

// SlotInvalidError - слот нарушает правила расписания на момент проверки
type SlotInvalidError struct {
	Date   model.Date
	Time   model.ClockTime
	Reason SlotInvalidReason
}

func (e *SlotInvalidError) Error() string {
	return fmt.Sprintf("slot %s %s is not bookable: %s", e.Date, e.Time, e.Reason)
}

func (e *SlotInvalidError) Is(target error) bool { return target == ErrSlotInvalid }

// SlotTakenError - слот уже занят активным бронированием
type SlotTakenError struct {
	ResourceID string
	Date       model.Date
	Time       model.ClockTime
}

func (e *SlotTakenError) Error() string {
	return fmt.Sprintf("slot %s %s of resource %s is already taken", e.Date, e.Time, e.ResourceID)
}

func (e *SlotTakenError) Is(target error) bool { return target == ErrSlotTaken }

// InvalidTransitionError - переход не является ребром автомата статусов
type InvalidTransitionError struct {
	From model.BookingStatus
	To   model.BookingStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot transition booking from %s to %s", e.From, e.To)
}

func (e *InvalidTransitionError) Is(target error) bool { return target == ErrInvalidTransition }

// NotAuthorizedError - участник не может применить переход
type NotAuthorizedError struct {
	ActorID string
	Action  string
}

func (e *NotAuthorizedError) Error() string {
	return fmt.Sprintf("actor %s is not allowed to %s", e.ActorID, e.Action)
}

func (e *NotAuthorizedError) Is(target error) bool { return target == ErrNotAuthorized }

// NotFoundError - бронирование не найдено
type NotFoundError struct {
	BookingID uuid.UUID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("booking %s not found", e.BookingID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

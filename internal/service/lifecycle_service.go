package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Freeeeeet/consultation_scheduler/internal/model"
	"github.com/Freeeeeet/consultation_scheduler/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LifecycleService переводит бронирования по автомату статусов
type LifecycleService struct {
	bookings   BookingRepository
	authorizer Authorizer
	publisher  EventPublisher
	clock      Clock
	logger     *zap.Logger
}

func NewLifecycleService(
	bookings BookingRepository,
	authorizer Authorizer,
	publisher EventPublisher,
	clock Clock,
	logger *zap.Logger,
) *LifecycleService {
	return &LifecycleService{
		bookings:   bookings,
		authorizer: authorizer,
		publisher:  publisher,
		clock:      clock,
		logger:     logger,
	}
}

// Transition применяет переход target от имени участника actorID.
// Обновление выполняется как compare-and-set по предыдущему статусу.
func (s *LifecycleService) Transition(ctx context.Context, bookingID uuid.UUID, target model.BookingStatus, actorID string) (*model.Booking, error) {
	if !target.IsValid() {
		verr := newValidationError()
		verr.add("status", fmt.Sprintf("unknown status %q", target))
		return nil, verr
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, &NotFoundError{BookingID: bookingID}
	}

	from := booking.Status
	if !from.CanTransitionTo(target) {
		return nil, &InvalidTransitionError{From: from, To: target}
	}

	allowed, err := s.actorAllowed(ctx, booking, target, actorID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		s.logger.Info("Transition denied",
			zap.String("booking_id", bookingID.String()),
			zap.String("actor_id", actorID),
			zap.Stringer("from", from),
			zap.Stringer("to", target))
		return nil, &NotAuthorizedError{ActorID: actorID, Action: fmt.Sprintf("move booking from %s to %s", from, target)}
	}

	now := s.clock.Now()
	updated, err := s.bookings.UpdateStatus(ctx, bookingID, from, target, now)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, s.conflict(ctx, bookingID, target)
		}
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	s.logger.Info("Booking status changed",
		zap.String("booking_id", bookingID.String()),
		zap.String("actor_id", actorID),
		zap.Stringer("from", from),
		zap.Stringer("to", target))

	s.publisher.Publish(ctx, model.BookingEvent{
		Type:           model.EventBookingStatusChanged,
		ResourceID:     updated.ResourceID,
		Booking:        updated,
		PreviousStatus: from,
		ActorID:        actorID,
		OccurredAt:     now,
	})

	return updated, nil
}

// actorAllowed определяет роль участника и проверяет её по ребру автомата.
// Оператор ресурса, оформивший запись на себя, получает права обеих ролей.
func (s *LifecycleService) actorAllowed(ctx context.Context, booking *model.Booking, target model.BookingStatus, actorID string) (bool, error) {
	if actorID == "" {
		return false, nil
	}

	if actorID == booking.RequesterID && booking.Status.AllowsActor(target, model.ActorRequester) {
		return true, nil
	}

	if !booking.Status.AllowsActor(target, model.ActorOperator) {
		return false, nil
	}

	isOperator, err := s.authorizer.IsOperator(ctx, booking.ResourceID, actorID)
	if err != nil {
		return false, fmt.Errorf("check operator: %w", err)
	}
	return isOperator, nil
}

// conflict - параллельный переход успел раньше, ошибку строим от текущего статуса
func (s *LifecycleService) conflict(ctx context.Context, bookingID uuid.UUID, target model.BookingStatus) error {
	current, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return fmt.Errorf("get booking: %w", err)
	}
	if current == nil {
		return &NotFoundError{BookingID: bookingID}
	}

	s.logger.Warn("Concurrent status change",
		zap.String("booking_id", bookingID.String()),
		zap.Stringer("current", current.Status),
		zap.Stringer("to", target))

	return &InvalidTransitionError{From: current.Status, To: target}
}

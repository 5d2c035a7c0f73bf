package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Freeeeeet/consultation_scheduler/internal/lock"
	"github.com/Freeeeeet/consultation_scheduler/internal/model"
	"github.com/Freeeeeet/consultation_scheduler/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingRequest запрос на запись к ресурсу
type BookingRequest struct {
	ResourceID     string
	Date           model.Date
	Time           model.ClockTime
	RequesterID    string
	SubjectName    string
	SubjectGrade   *string
	Note           *string
	IdempotencyKey string // необязательный, повтор с тем же ключом вернёт исходное бронирование
}

// BookingListFilter выборка бронирований ресурса для оператора
type BookingListFilter struct {
	ResourceID string
	From       model.Date
	To         model.Date
	Statuses   []model.BookingStatus
}

// BookingService - журнал бронирований и охрана от двойной записи
type BookingService struct {
	configs    *AvailabilityService
	bookings   BookingRepository
	locker     lock.Locker
	authorizer Authorizer
	publisher  EventPublisher
	clock      Clock
	logger     *zap.Logger
}

func NewBookingService(
	configs *AvailabilityService,
	bookings BookingRepository,
	locker lock.Locker,
	authorizer Authorizer,
	publisher EventPublisher,
	clock Clock,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		configs:    configs,
		bookings:   bookings,
		locker:     locker,
		authorizer: authorizer,
		publisher:  publisher,
		clock:      clock,
		logger:     logger,
	}
}

// AvailableSlots возвращает слоты на дату с актуальной занятостью
func (s *BookingService) AvailableSlots(ctx context.Context, resourceID string, date model.Date) ([]model.Slot, error) {
	if date.IsZero() {
		verr := newValidationError()
		verr.add("date", "is required")
		return nil, verr
	}

	cfg, err := s.configs.GetConfig(ctx, resourceID)
	if err != nil {
		return nil, err
	}

	times, err := s.bookings.ListBookedTimes(ctx, resourceID, date)
	if err != nil {
		return nil, fmt.Errorf("list booked times: %w", err)
	}

	return GenerateSlots(cfg, date, NewBookedTimes(times...), s.clock.Now()), nil
}

// RequestBooking атомарно проверяет слот и создаёт бронирование в статусе pending.
// Проверка и вставка выполняются под блокировкой (ресурс, дата).
func (s *BookingService) RequestBooking(ctx context.Context, req BookingRequest) (*model.Booking, error) {
	if err := validateBookingRequest(req); err != nil {
		return nil, err
	}

	unlock, err := s.locker.Lock(ctx, lock.SlotKey(req.ResourceID, req.Date))
	if err != nil {
		return nil, fmt.Errorf("acquire slot lock: %w", err)
	}
	defer unlock()

	if req.IdempotencyKey != "" {
		existing, err := s.bookings.GetByIdempotencyKey(ctx, req.RequesterID, req.IdempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("get booking by idempotency key: %w", err)
		}
		if existing != nil {
			return s.replayed(existing, req)
		}
	}

	// Конфигурацию читаем заново: между показом слотов и запросом её могли изменить
	cfg, err := s.configs.GetConfig(ctx, req.ResourceID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if err := CheckSlot(cfg, req.Date, req.Time, now); err != nil {
		s.logger.Info("Booking rejected: slot not bookable",
			zap.String("resource_id", req.ResourceID),
			zap.Stringer("date", req.Date),
			zap.Stringer("time", req.Time),
			zap.Error(err))
		return nil, err
	}

	active, err := s.bookings.GetActiveBySlot(ctx, req.ResourceID, req.Date, req.Time)
	if err != nil {
		return nil, fmt.Errorf("get active booking: %w", err)
	}
	if active != nil {
		return nil, s.slotTaken(req)
	}

	booking := &model.Booking{
		ID:              uuid.New(),
		ResourceID:      req.ResourceID,
		Date:            req.Date,
		Time:            req.Time,
		DurationMinutes: cfg.SlotDurationMinutes,
		RequesterID:     req.RequesterID,
		SubjectName:     strings.TrimSpace(req.SubjectName),
		SubjectGrade:    req.SubjectGrade,
		Note:            req.Note,
		Status:          model.BookingStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.IdempotencyKey != "" {
		key := req.IdempotencyKey
		booking.IdempotencyKey = &key
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		switch {
		case errors.Is(err, repository.ErrActiveSlotConflict):
			// Другой процесс успел раньше, индекс в БД не пустил вторую запись
			return nil, s.slotTaken(req)
		case errors.Is(err, repository.ErrIdempotencyConflict):
			existing, getErr := s.bookings.GetByIdempotencyKey(ctx, req.RequesterID, req.IdempotencyKey)
			if getErr != nil {
				return nil, fmt.Errorf("get booking by idempotency key: %w", getErr)
			}
			if existing != nil {
				return s.replayed(existing, req)
			}
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("resource_id", booking.ResourceID),
		zap.Stringer("date", booking.Date),
		zap.Stringer("time", booking.Time),
		zap.String("requester_id", booking.RequesterID))

	s.publisher.Publish(ctx, model.BookingEvent{
		Type:       model.EventBookingCreated,
		ResourceID: booking.ResourceID,
		Booking:    booking,
		ActorID:    booking.RequesterID,
		OccurredAt: now,
	})

	return booking, nil
}

// GetBooking возвращает бронирование заявителю или оператору ресурса
func (s *BookingService) GetBooking(ctx context.Context, id uuid.UUID, actorID string) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking == nil {
		return nil, &NotFoundError{BookingID: id}
	}

	if booking.RequesterID == actorID {
		return booking, nil
	}

	isOperator, err := s.authorizer.IsOperator(ctx, booking.ResourceID, actorID)
	if err != nil {
		return nil, fmt.Errorf("check operator: %w", err)
	}
	if !isOperator {
		return nil, &NotAuthorizedError{ActorID: actorID, Action: "view booking"}
	}

	return booking, nil
}

// ListResourceBookings - бронирования ресурса за период, только для оператора
func (s *BookingService) ListResourceBookings(ctx context.Context, actorID string, filter BookingListFilter) ([]*model.Booking, error) {
	verr := newValidationError()
	if filter.ResourceID == "" {
		verr.add("resource_id", "is required")
	}
	if filter.From.IsZero() {
		verr.add("from", "is required")
	}
	if filter.To.IsZero() {
		verr.add("to", "is required")
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		verr.add("to", "must not be before from")
	}
	for _, st := range filter.Statuses {
		if !st.IsValid() {
			verr.add("status", fmt.Sprintf("unknown status %q", st))
		}
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	if err := s.requireOperator(ctx, filter.ResourceID, actorID, "list bookings"); err != nil {
		return nil, err
	}

	bookings, err := s.bookings.ListByResource(ctx, repository.BookingFilter{
		ResourceID: filter.ResourceID,
		From:       filter.From,
		To:         filter.To,
		Statuses:   filter.Statuses,
	})
	if err != nil {
		return nil, fmt.Errorf("list resource bookings: %w", err)
	}

	return bookings, nil
}

// ListRequesterBookings - все бронирования заявителя, новые первыми
func (s *BookingService) ListRequesterBookings(ctx context.Context, requesterID string) ([]*model.Booking, error) {
	if requesterID == "" {
		verr := newValidationError()
		verr.add("requester_id", "is required")
		return nil, verr
	}

	bookings, err := s.bookings.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, fmt.Errorf("list requester bookings: %w", err)
	}

	return bookings, nil
}

func (s *BookingService) requireOperator(ctx context.Context, resourceID, actorID, action string) error {
	isOperator, err := s.authorizer.IsOperator(ctx, resourceID, actorID)
	if err != nil {
		return fmt.Errorf("check operator: %w", err)
	}
	if !isOperator {
		return &NotAuthorizedError{ActorID: actorID, Action: action}
	}
	return nil
}

func (s *BookingService) slotTaken(req BookingRequest) error {
	s.logger.Warn("Slot contention",
		zap.String("resource_id", req.ResourceID),
		zap.Stringer("date", req.Date),
		zap.Stringer("time", req.Time),
		zap.String("requester_id", req.RequesterID))

	return &SlotTakenError{ResourceID: req.ResourceID, Date: req.Date, Time: req.Time}
}

// replayed возвращает исходное бронирование для повторного запроса с тем же ключом
func (s *BookingService) replayed(existing *model.Booking, req BookingRequest) (*model.Booking, error) {
	if !existing.SameSlot(req.ResourceID, req.Date, req.Time) {
		verr := newValidationError()
		verr.add("idempotency_key", "already used for a different slot")
		return nil, verr
	}

	s.logger.Info("Booking request replayed",
		zap.String("booking_id", existing.ID.String()),
		zap.String("requester_id", req.RequesterID))

	return existing, nil
}

func validateBookingRequest(req BookingRequest) error {
	verr := newValidationError()

	if req.ResourceID == "" {
		verr.add("resource_id", "is required")
	}
	if req.RequesterID == "" {
		verr.add("requester_id", "is required")
	}
	if strings.TrimSpace(req.SubjectName) == "" {
		verr.add("subject_name", "is required")
	}
	if req.Date.IsZero() {
		verr.add("date", "is required")
	}
	if !req.Time.Valid() {
		verr.add("time", "must be a time of day")
	}

	return verr.orNil()
}

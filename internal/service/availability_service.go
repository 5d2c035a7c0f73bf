package service

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Freeeeeet/consultation_scheduler/internal/model"
	"go.uber.org/zap"
)

// AllowedSlotDurations допустимые длительности слота в минутах
var AllowedSlotDurations = []int{30, 60}

// ReconcileReason почему активное бронирование не проходит по текущей конфигурации
type ReconcileReason string

const (
	ReconcileClosedWeekday ReconcileReason = "closed_weekday"
	ReconcileClosedDate    ReconcileReason = "closed_date"
	ReconcileOutsideHours  ReconcileReason = "outside_hours"
	ReconcileBreak         ReconcileReason = "break"
	ReconcileOffGrid       ReconcileReason = "off_grid"
)

// ReconcileItem бронирование, которое оператору нужно пересмотреть
type ReconcileItem struct {
	Booking *model.Booking  `json:"booking"`
	Reason  ReconcileReason `json:"reason"`
}

type AvailabilityService struct {
	configs   AvailabilityRepository
	bookings  BookingRepository
	publisher EventPublisher
	clock     Clock
	logger    *zap.Logger
}

func NewAvailabilityService(
	configs AvailabilityRepository,
	bookings BookingRepository,
	publisher EventPublisher,
	clock Clock,
	logger *zap.Logger,
) *AvailabilityService {
	return &AvailabilityService{
		configs:   configs,
		bookings:  bookings,
		publisher: publisher,
		clock:     clock,
		logger:    logger,
	}
}

// GetConfig возвращает снимок конфигурации ресурса или конфигурацию по умолчанию
func (s *AvailabilityService) GetConfig(ctx context.Context, resourceID string) (*model.AvailabilityConfig, error) {
	if resourceID == "" {
		verr := newValidationError()
		verr.add("resource_id", "is required")
		return nil, verr
	}

	cfg, err := s.configs.GetByResourceID(ctx, resourceID)
	if err != nil {
		return nil, fmt.Errorf("get config: %w", err)
	}
	if cfg == nil {
		return model.DefaultAvailabilityConfig(resourceID), nil
	}

	return cfg.Clone(), nil
}

// SaveConfig проверяет и сохраняет конфигурацию целиком.
// Существующие бронирования не меняются: затронутые попадают в событие reconciliation_required.
func (s *AvailabilityService) SaveConfig(ctx context.Context, resourceID string, draft *model.AvailabilityConfig) (*model.AvailabilityConfig, error) {
	if err := validateConfig(resourceID, draft); err != nil {
		s.logger.Info("Availability config rejected",
			zap.String("resource_id", resourceID),
			zap.Error(err))
		return nil, err
	}

	now := s.clock.Now()
	cfg := normalizeConfig(draft)
	cfg.ResourceID = resourceID
	cfg.UpdatedAt = now

	today := model.DateOf(now)
	for _, d := range cfg.ClosedDates {
		if d.Before(today) {
			s.logger.Warn("Closed date is in the past",
				zap.String("resource_id", resourceID),
				zap.Stringer("date", d))
		}
	}

	if err := s.configs.Upsert(ctx, cfg); err != nil {
		return nil, fmt.Errorf("save config: %w", err)
	}

	s.logger.Info("Availability config saved",
		zap.String("resource_id", resourceID),
		zap.Stringer("start", cfg.StartTime),
		zap.Stringer("end", cfg.EndTime),
		zap.Int("slot_duration", cfg.SlotDurationMinutes))

	items, err := s.reconcile(ctx, cfg, now)
	if err != nil {
		// Конфигурация уже сохранена, сверку подхватит ежедневный проход
		s.logger.Error("Failed to reconcile bookings after config save",
			zap.String("resource_id", resourceID),
			zap.Error(err))
		return cfg.Clone(), nil
	}

	if len(items) > 0 {
		s.logger.Warn("Active bookings no longer match availability config",
			zap.String("resource_id", resourceID),
			zap.Int("affected", len(items)))
		s.publishReconciliation(ctx, resourceID, items, now)
	}

	return cfg.Clone(), nil
}

// Reconcile перечисляет активные бронирования начиная с сегодня, которые не допускает текущая конфигурация
func (s *AvailabilityService) Reconcile(ctx context.Context, resourceID string) ([]ReconcileItem, error) {
	cfg, err := s.GetConfig(ctx, resourceID)
	if err != nil {
		return nil, err
	}
	return s.reconcile(ctx, cfg, s.clock.Now())
}

// NotifyReconciliation публикует событие если есть затронутые бронирования
func (s *AvailabilityService) NotifyReconciliation(ctx context.Context, resourceID string, items []ReconcileItem) {
	if len(items) == 0 {
		return
	}
	s.publishReconciliation(ctx, resourceID, items, s.clock.Now())
}

func (s *AvailabilityService) reconcile(ctx context.Context, cfg *model.AvailabilityConfig, now time.Time) ([]ReconcileItem, error) {
	active, err := s.bookings.ListActiveFrom(ctx, cfg.ResourceID, model.DateOf(now))
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}

	items := []ReconcileItem{}
	for _, b := range active {
		if reason, ok := reconcileReason(cfg, b); ok {
			items = append(items, ReconcileItem{Booking: b, Reason: reason})
		}
	}

	return items, nil
}

func (s *AvailabilityService) publishReconciliation(ctx context.Context, resourceID string, items []ReconcileItem, now time.Time) {
	affected := make([]*model.Booking, 0, len(items))
	for _, item := range items {
		affected = append(affected, item.Booking)
	}

	s.publisher.Publish(ctx, model.BookingEvent{
		Type:       model.EventReconciliationRequired,
		ResourceID: resourceID,
		Affected:   affected,
		OccurredAt: now,
	})
}

// reconcileReason проверяет бронирование против конфигурации без учёта текущего времени
func reconcileReason(cfg *model.AvailabilityConfig, b *model.Booking) (ReconcileReason, bool) {
	step := cfg.SlotDurationMinutes

	switch {
	case cfg.IsClosedDate(b.Date):
		return ReconcileClosedDate, true
	case cfg.IsClosedWeekday(b.Date.Weekday()):
		return ReconcileClosedWeekday, true
	case b.Time < cfg.StartTime || b.Time.Add(step) > cfg.EndTime:
		return ReconcileOutsideHours, true
	case overlapsBreak(cfg, b.Time, step):
		return ReconcileBreak, true
	case step > 0 && int(b.Time-cfg.StartTime)%step != 0:
		return ReconcileOffGrid, true
	}

	return "", false
}

func validateConfig(resourceID string, cfg *model.AvailabilityConfig) error {
	verr := newValidationError()

	if resourceID == "" {
		verr.add("resource_id", "is required")
	}
	if cfg == nil {
		verr.add("config", "is required")
		return verr.orNil()
	}

	if !cfg.StartTime.Valid() {
		verr.add("start_time", "must be a time of day")
	}
	if !cfg.EndTime.Valid() {
		verr.add("end_time", "must be a time of day")
	}
	if cfg.StartTime >= cfg.EndTime {
		verr.add("end_time", "must be after start_time")
	}

	if !slices.Contains(AllowedSlotDurations, cfg.SlotDurationMinutes) {
		verr.add("slot_duration_minutes", fmt.Sprintf("must be one of %v", AllowedSlotDurations))
	}

	switch {
	case (cfg.BreakStart == nil) != (cfg.BreakEnd == nil):
		verr.add("break", "break_start and break_end must be set together")
	case cfg.HasBreak():
		bs, be := *cfg.BreakStart, *cfg.BreakEnd
		if bs >= be {
			verr.add("break_end", "must be after break_start")
		}
		if bs < cfg.StartTime || be > cfg.EndTime {
			verr.add("break", "must lie within working hours")
		}
	}

	for _, wd := range cfg.ClosedWeekdays {
		if wd < 0 || wd > 6 {
			verr.add("closed_weekdays", fmt.Sprintf("weekday %d out of range 0-6", wd))
		}
	}

	for _, d := range cfg.ClosedDates {
		if d.IsZero() {
			verr.add("closed_dates", "must be valid dates")
		}
	}

	return verr.orNil()
}

// normalizeConfig сортирует и убирает дубли из выходных дней и дат
func normalizeConfig(draft *model.AvailabilityConfig) *model.AvailabilityConfig {
	cfg := draft.Clone()

	weekdays := slices.Clone(cfg.ClosedWeekdays)
	slices.Sort(weekdays)
	cfg.ClosedWeekdays = slices.Compact(weekdays)
	if cfg.ClosedWeekdays == nil {
		cfg.ClosedWeekdays = []int{}
	}

	dates := slices.Clone(cfg.ClosedDates)
	slices.SortFunc(dates, func(a, b model.Date) int {
		switch {
		case a.Before(b):
			return -1
		case a.After(b):
			return 1
		}
		return 0
	})
	cfg.ClosedDates = slices.Compact(dates)
	if cfg.ClosedDates == nil {
		cfg.ClosedDates = []model.Date{}
	}

	return cfg
}

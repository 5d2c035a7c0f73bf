package service

import (
	"context"
	"runtime"
	"slices"
	"sync"
	"time"

	"github.com/Freeeeeet/consultation_scheduler/internal/model"
	"github.com/Freeeeeet/consultation_scheduler/internal/repository"
	"github.com/google/uuid"
)

// ── Фиксированные часы ──

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

// at возвращает часы на 2026-10-19 (понедельник) в заданное время
func at(hour, minute int) fixedClock {
	return fixedClock{now: time.Date(2026, time.October, 19, hour, minute, 0, 0, time.UTC)}
}

var (
	monday   = model.NewDate(2026, time.October, 19)
	tuesday  = model.NewDate(2026, time.October, 20)
	saturday = model.NewDate(2026, time.October, 24)
	sunday   = model.NewDate(2026, time.October, 18)
)

// ── Mock AvailabilityRepository ──

type mockAvailabilityRepo struct {
	mu      sync.Mutex
	configs map[string]*model.AvailabilityConfig
	upserts int
}

func newMockAvailabilityRepo() *mockAvailabilityRepo {
	return &mockAvailabilityRepo{configs: make(map[string]*model.AvailabilityConfig)}
}

func (m *mockAvailabilityRepo) GetByResourceID(_ context.Context, resourceID string) (*model.AvailabilityConfig, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cfg, ok := m.configs[resourceID]; ok {
		return cfg.Clone(), nil
	}
	return nil, nil
}

func (m *mockAvailabilityRepo) Upsert(_ context.Context, cfg *model.AvailabilityConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.configs[cfg.ResourceID] = cfg.Clone()
	m.upserts++
	return nil
}

// ── Mock BookingRepository ──

// mockBookingRepo намеренно не атомарен: между проверкой и вставкой ничего не мешает
// второй записи, поэтому от двойного бронирования защищает только сервис.
// enforceUnique включает поведение уникального индекса БД.
type mockBookingRepo struct {
	mu            sync.Mutex
	bookings      []*model.Booking
	enforceUnique bool
	beforeUpdate  func()
}

func newMockBookingRepo() *mockBookingRepo {
	return &mockBookingRepo{}
}

func (m *mockBookingRepo) Create(_ context.Context, booking *model.Booking) error {
	runtime.Gosched()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.enforceUnique {
		for _, b := range m.bookings {
			if b.Status.IsActive() && b.SameSlot(booking.ResourceID, booking.Date, booking.Time) {
				return repository.ErrActiveSlotConflict
			}
			if booking.IdempotencyKey != nil && b.IdempotencyKey != nil &&
				b.RequesterID == booking.RequesterID && *b.IdempotencyKey == *booking.IdempotencyKey {
				return repository.ErrIdempotencyConflict
			}
		}
	}

	copied := *booking
	m.bookings = append(m.bookings, &copied)
	return nil
}

func (m *mockBookingRepo) GetByID(_ context.Context, id uuid.UUID) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.ID == id {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockBookingRepo) GetActiveBySlot(_ context.Context, resourceID string, date model.Date, t model.ClockTime) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.Status.IsActive() && b.SameSlot(resourceID, date, t) {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockBookingRepo) GetByIdempotencyKey(_ context.Context, requesterID, key string) (*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.RequesterID == requesterID && b.IdempotencyKey != nil && *b.IdempotencyKey == key {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *mockBookingRepo) ListBookedTimes(_ context.Context, resourceID string, date model.Date) ([]model.ClockTime, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var times []model.ClockTime
	for _, b := range m.bookings {
		if b.Status.IsActive() && b.ResourceID == resourceID && b.Date == date {
			times = append(times, b.Time)
		}
	}
	return times, nil
}

func (m *mockBookingRepo) ListByResource(_ context.Context, filter repository.BookingFilter) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*model.Booking
	for _, b := range m.bookings {
		if b.ResourceID != filter.ResourceID || b.Date.Before(filter.From) || b.Date.After(filter.To) {
			continue
		}
		if len(filter.Statuses) > 0 && !slices.Contains(filter.Statuses, b.Status) {
			continue
		}
		copied := *b
		result = append(result, &copied)
	}
	return result, nil
}

func (m *mockBookingRepo) ListActiveFrom(_ context.Context, resourceID string, from model.Date) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*model.Booking
	for _, b := range m.bookings {
		if b.ResourceID == resourceID && b.Status.IsActive() && !b.Date.Before(from) {
			copied := *b
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockBookingRepo) ListByRequester(_ context.Context, requesterID string) ([]*model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*model.Booking
	for _, b := range m.bookings {
		if b.RequesterID == requesterID {
			copied := *b
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (m *mockBookingRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to model.BookingStatus, updatedAt time.Time) (*model.Booking, error) {
	if m.beforeUpdate != nil {
		m.beforeUpdate()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.ID != id {
			continue
		}
		if b.Status != from {
			return nil, repository.ErrStatusConflict
		}
		b.Status = to
		b.UpdatedAt = updatedAt
		copied := *b
		return &copied, nil
	}
	return nil, repository.ErrStatusConflict
}

// seed добавляет бронирование в обход сервиса
func (m *mockBookingRepo) seed(b model.Booking) *model.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	m.bookings = append(m.bookings, &b)
	copied := b
	return &copied
}

func (m *mockBookingRepo) activeCount(resourceID string, date model.Date, t model.ClockTime) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.bookings {
		if b.Status.IsActive() && b.SameSlot(resourceID, date, t) {
			n++
		}
	}
	return n
}

// ── Mock ResourceRepository ──

type mockResourceRepo struct {
	resources map[string]*model.Resource
}

func newMockResourceRepo(resources ...*model.Resource) *mockResourceRepo {
	m := &mockResourceRepo{resources: make(map[string]*model.Resource)}
	for _, r := range resources {
		m.resources[r.ID] = r
	}
	return m
}

func (m *mockResourceRepo) GetByID(_ context.Context, id string) (*model.Resource, error) {
	return m.resources[id], nil
}

func (m *mockResourceRepo) List(_ context.Context) ([]*model.Resource, error) {
	var result []*model.Resource
	for _, r := range m.resources {
		result = append(result, r)
	}
	return result, nil
}

// ── Recording EventPublisher ──

type recordingPublisher struct {
	mu     sync.Mutex
	events []model.BookingEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event model.BookingEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) ofType(t model.BookingEventType) []model.BookingEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var result []model.BookingEvent
	for _, e := range p.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

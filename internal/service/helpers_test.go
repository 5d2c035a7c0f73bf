package service

import (
	"github.com/Freeeeeet/consultation_scheduler/internal/lock"
	"github.com/Freeeeeet/consultation_scheduler/internal/model"
	"go.uber.org/zap"
)

const (
	testResourceID = "academy-1"
	testOperatorID = "operator-1"
	testParentID   = "parent-1"
	otherParentID  = "parent-2"
)

// ── Тестовое окружение ──

type testEnv struct {
	configs      *mockAvailabilityRepo
	bookings     *mockBookingRepo
	resources    *mockResourceRepo
	publisher    *recordingPublisher
	availability *AvailabilityService
	booking      *BookingService
	lifecycle    *LifecycleService
}

func newTestEnv(clock Clock) *testEnv {
	env := &testEnv{
		configs:  newMockAvailabilityRepo(),
		bookings: newMockBookingRepo(),
		resources: newMockResourceRepo(&model.Resource{
			ID:         testResourceID,
			Name:       "Academy",
			OperatorID: testOperatorID,
		}),
		publisher: &recordingPublisher{},
	}

	logger := zap.NewNop()
	authorizer := NewResourceAuthorizer(env.resources)

	env.availability = NewAvailabilityService(env.configs, env.bookings, env.publisher, clock, logger)
	env.booking = NewBookingService(env.availability, env.bookings, lock.NewKeyedMutex(), authorizer, env.publisher, clock, logger)
	env.lifecycle = NewLifecycleService(env.bookings, authorizer, env.publisher, clock, logger)

	return env
}

func clockPtr(hour, minute int) *model.ClockTime {
	c := model.NewClockTime(hour, minute)
	return &c
}

// morningConfig 09:00-12:00, слоты по 30 минут, перерыв 10:00-10:30, выходные сб/вс
func morningConfig() *model.AvailabilityConfig {
	return &model.AvailabilityConfig{
		ResourceID:          testResourceID,
		StartTime:           model.NewClockTime(9, 0),
		EndTime:             model.NewClockTime(12, 0),
		SlotDurationMinutes: 30,
		BreakStart:          clockPtr(10, 0),
		BreakEnd:            clockPtr(10, 30),
		ClosedWeekdays:      []int{0, 6},
		ClosedDates:         []model.Date{},
	}
}

func request(date model.Date, t model.ClockTime, requesterID string) BookingRequest {
	return BookingRequest{
		ResourceID:  testResourceID,
		Date:        date,
		Time:        t,
		RequesterID: requesterID,
		SubjectName: "Alice",
	}
}

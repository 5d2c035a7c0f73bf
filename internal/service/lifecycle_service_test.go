package service

import (
	"context"
	"sync"
	"testing"

	"github.com/Freeeeeet/consultation_scheduler/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allStatuses = []model.BookingStatus{
	model.BookingStatusPending,
	model.BookingStatusConfirmed,
	model.BookingStatusCompleted,
	model.BookingStatusCancelled,
}

func seedWithStatus(env *testEnv, status model.BookingStatus) *model.Booking {
	return env.bookings.seed(model.Booking{
		ResourceID:  testResourceID,
		Date:        tuesday,
		Time:        model.NewClockTime(9, 0),
		RequesterID: testParentID,
		SubjectName: "Alice",
		Status:      status,
	})
}

func TestLifecycleService_OnlyDefinedEdgesSucceed(t *testing.T) {
	edges := map[[2]model.BookingStatus]bool{
		{model.BookingStatusPending, model.BookingStatusConfirmed}:   true,
		{model.BookingStatusPending, model.BookingStatusCancelled}:   true,
		{model.BookingStatusConfirmed, model.BookingStatusCancelled}: true,
		{model.BookingStatusConfirmed, model.BookingStatusCompleted}: true,
	}

	for _, from := range allStatuses {
		for _, to := range allStatuses {
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				env := newTestEnv(at(8, 0))
				booking := seedWithStatus(env, from)

				updated, err := env.lifecycle.Transition(context.Background(), booking.ID, to, testOperatorID)

				if edges[[2]model.BookingStatus{from, to}] {
					require.NoError(t, err)
					assert.Equal(t, to, updated.Status)
					assert.Equal(t, at(8, 0).now, updated.UpdatedAt)
					return
				}

				var invalid *InvalidTransitionError
				require.ErrorAs(t, err, &invalid)
				assert.Equal(t, from, invalid.From)
				assert.Equal(t, to, invalid.To)
			})
		}
	}
}

func TestLifecycleService_ActorRules(t *testing.T) {
	tests := []struct {
		name    string
		from    model.BookingStatus
		to      model.BookingStatus
		actor   string
		allowed bool
	}{
		{"operator confirms", model.BookingStatusPending, model.BookingStatusConfirmed, testOperatorID, true},
		{"requester cannot confirm", model.BookingStatusPending, model.BookingStatusConfirmed, testParentID, false},
		{"requester cancels pending", model.BookingStatusPending, model.BookingStatusCancelled, testParentID, true},
		{"requester cancels confirmed", model.BookingStatusConfirmed, model.BookingStatusCancelled, testParentID, true},
		{"requester cannot complete", model.BookingStatusConfirmed, model.BookingStatusCompleted, testParentID, false},
		{"stranger cannot cancel", model.BookingStatusPending, model.BookingStatusCancelled, otherParentID, false},
		{"anonymous cannot cancel", model.BookingStatusPending, model.BookingStatusCancelled, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(at(8, 0))
			booking := seedWithStatus(env, tt.from)

			_, err := env.lifecycle.Transition(context.Background(), booking.ID, tt.to, tt.actor)

			if tt.allowed {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrNotAuthorized)

			stored, _ := env.bookings.GetByID(context.Background(), booking.ID)
			assert.Equal(t, tt.from, stored.Status)
		})
	}
}

func TestLifecycleService_NotFound(t *testing.T) {
	env := newTestEnv(at(8, 0))
	id := uuid.New()

	_, err := env.lifecycle.Transition(context.Background(), id, model.BookingStatusConfirmed, testOperatorID)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, id, notFound.BookingID)
}

func TestLifecycleService_UnknownTarget(t *testing.T) {
	env := newTestEnv(at(8, 0))
	booking := seedWithStatus(env, model.BookingStatusPending)

	_, err := env.lifecycle.Transition(context.Background(), booking.ID, "rejected", testOperatorID)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLifecycleService_EmitsStatusChanged(t *testing.T) {
	env := newTestEnv(at(8, 0))
	booking := seedWithStatus(env, model.BookingStatusPending)

	_, err := env.lifecycle.Transition(context.Background(), booking.ID, model.BookingStatusConfirmed, testOperatorID)
	require.NoError(t, err)

	events := env.publisher.ofType(model.EventBookingStatusChanged)
	require.Len(t, events, 1)
	assert.Equal(t, model.BookingStatusPending, events[0].PreviousStatus)
	assert.Equal(t, model.BookingStatusConfirmed, events[0].Booking.Status)
	assert.Equal(t, testOperatorID, events[0].ActorID)
}

func TestLifecycleService_ConcurrentTransitionsApplyOnce(t *testing.T) {
	env := newTestEnv(at(8, 0))
	booking := seedWithStatus(env, model.BookingStatusPending)

	// Оба перехода прочитали pending до того как кто-то из них записал
	var ready sync.WaitGroup
	ready.Add(2)
	env.bookings.beforeUpdate = func() {
		ready.Done()
		ready.Wait()
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	targets := []model.BookingStatus{model.BookingStatusConfirmed, model.BookingStatusCancelled}
	for i, target := range targets {
		wg.Add(1)
		go func(i int, target model.BookingStatus) {
			defer wg.Done()
			_, errs[i] = env.lifecycle.Transition(context.Background(), booking.ID, target, testOperatorID)
		}(i, target)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, ErrInvalidTransition)
	}
	assert.Equal(t, 1, succeeded)
	assert.Len(t, env.publisher.ofType(model.EventBookingStatusChanged), 1)
}

package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/Freeeeeet/consultation_scheduler/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestErrors_MatchSentinels(t *testing.T) {
	verr := newValidationError()
	verr.add("date", "is required")
	verr.add("date", "ignored duplicate")
	verr.add("a", "first")

	cases := []struct {
		err      error
		sentinel error
	}{
		{verr, ErrValidation},
		{&SlotInvalidError{Reason: SlotInvalidPast}, ErrSlotInvalid},
		{&SlotTakenError{ResourceID: "r"}, ErrSlotTaken},
		{&InvalidTransitionError{From: model.BookingStatusCompleted, To: model.BookingStatusPending}, ErrInvalidTransition},
		{&NotAuthorizedError{ActorID: "x", Action: "list bookings"}, ErrNotAuthorized},
		{&NotFoundError{BookingID: uuid.New()}, ErrNotFound},
	}

	for _, c := range cases {
		wrapped := fmt.Errorf("outer: %w", c.err)
		assert.ErrorIs(t, wrapped, c.sentinel)
		for _, other := range []error{ErrValidation, ErrSlotInvalid, ErrSlotTaken, ErrInvalidTransition, ErrNotAuthorized, ErrNotFound} {
			if other != c.sentinel {
				assert.False(t, errors.Is(c.err, other), "%T should not match %v", c.err, other)
			}
		}
	}

	assert.Equal(t, "validation failed: a: first; date: is required", verr.Error())
	assert.Nil(t, newValidationError().orNil())
}

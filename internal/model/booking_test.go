package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatus_Edges(t *testing.T) {
	allowed := map[[2]BookingStatus]bool{
		{BookingStatusPending, BookingStatusConfirmed}:   true,
		{BookingStatusPending, BookingStatusCancelled}:   true,
		{BookingStatusConfirmed, BookingStatusCancelled}: true,
		{BookingStatusConfirmed, BookingStatusCompleted}: true,
	}
	all := []BookingStatus{BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]BookingStatus{from, to}], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestBookingStatus_Actors(t *testing.T) {
	assert.True(t, BookingStatusPending.AllowsActor(BookingStatusConfirmed, ActorOperator))
	assert.False(t, BookingStatusPending.AllowsActor(BookingStatusConfirmed, ActorRequester))
	assert.True(t, BookingStatusConfirmed.AllowsActor(BookingStatusCancelled, ActorRequester))
	assert.False(t, BookingStatusConfirmed.AllowsActor(BookingStatusCompleted, ActorRequester))
	assert.False(t, BookingStatusCompleted.AllowsActor(BookingStatusCancelled, ActorOperator))
}

func TestBookingStatus_Classes(t *testing.T) {
	assert.True(t, BookingStatusPending.IsActive())
	assert.True(t, BookingStatusConfirmed.IsActive())
	assert.False(t, BookingStatusCancelled.IsActive())

	assert.True(t, BookingStatusCompleted.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())
	assert.False(t, BookingStatusPending.IsTerminal())

	_, err := ParseBookingStatus("rejected")
	assert.Error(t, err)
	s, err := ParseBookingStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, BookingStatusConfirmed, s)
}

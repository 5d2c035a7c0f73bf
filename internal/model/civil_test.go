package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClockTime(t *testing.T) {
	c, err := ParseClockTime("09:30")
	require.NoError(t, err)
	assert.Equal(t, NewClockTime(9, 30), c)
	assert.Equal(t, "09:30", c.String())
	assert.Equal(t, 9*3600+30*60, c.Seconds())

	_, err = ParseClockTime("25:00")
	assert.Error(t, err)
	_, err = ParseClockTime("9.30")
	assert.Error(t, err)
}

func TestClockTime_JSON(t *testing.T) {
	var payload struct {
		At ClockTime `json:"at"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"at":"17:05"}`), &payload))
	assert.Equal(t, NewClockTime(17, 5), payload.At)

	out, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"at":"17:05"}`, string(out))
}

func TestDate_Weekday(t *testing.T) {
	d, err := ParseDate("2026-10-18")
	require.NoError(t, err)
	assert.Equal(t, int(time.Sunday), d.Weekday())
	assert.Equal(t, int(time.Monday), d.AddDays(1).Weekday())
	assert.Equal(t, "2026-10-19", d.AddDays(1).String())
}

func TestDate_Ordering(t *testing.T) {
	a := NewDate(2026, time.December, 31)
	b := a.AddDays(1)
	assert.Equal(t, NewDate(2027, time.January, 1), b)
	assert.True(t, a.Before(b))
	assert.True(t, b.After(a))
	assert.False(t, a.Before(a))
}

func TestDateOf_UsesOwnLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	instant := time.Date(2026, time.March, 1, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, NewDate(2026, time.March, 2), DateOf(instant.In(loc)))
	assert.Equal(t, NewClockTime(8, 30), ClockTimeOf(instant.In(loc)))
}

package repository

import (
	"time"

	"github.com/Freeeeeet/consultation_scheduler/internal/model"
	"github.com/jackc/pgx/v5/pgtype"
)

const microsPerMinute = int64(60 * time.Second / time.Microsecond)

func clockToPg(c model.ClockTime) pgtype.Time {
	return pgtype.Time{Microseconds: int64(c) * microsPerMinute, Valid: true}
}

func clockFromPg(t pgtype.Time) model.ClockTime {
	return model.ClockTime(t.Microseconds / microsPerMinute)
}

func nullableClockToPg(c *model.ClockTime) pgtype.Time {
	if c == nil {
		return pgtype.Time{}
	}
	return clockToPg(*c)
}

func nullableClockFromPg(t pgtype.Time) *model.ClockTime {
	if !t.Valid {
		return nil
	}
	c := clockFromPg(t)
	return &c
}

func datesToPg(dates []model.Date) []time.Time {
	out := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		out = append(out, d.Time())
	}
	return out
}

func datesFromPg(values []time.Time) []model.Date {
	out := make([]model.Date, 0, len(values))
	for _, v := range values {
		out = append(out, model.DateOf(v))
	}
	return out
}

func intsToPg(values []int) []int32 {
	out := make([]int32, 0, len(values))
	for _, v := range values {
		out = append(out, int32(v))
	}
	return out
}

func intsFromPg(values []int32) []int {
	out := make([]int, 0, len(values))
	for _, v := range values {
		out = append(out, int(v))
	}
	return out
}

func statusesToPg(statuses []model.BookingStatus) []string {
	out := make([]string, 0, len(statuses))
	for _, s := range statuses {
		out = append(out, string(s))
	}
	return out
}

package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Freeeeeet/consultation_scheduler/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

func setupExport(t *testing.T) (*ExportService, *testEnv, *model.Booking) {
	t.Helper()

	env := newTestEnv(at(8, 0))
	ctx := context.Background()

	note := "first visit"
	req := request(monday, model.NewClockTime(9, 30), testParentID)
	req.Note = &note
	booking, err := env.booking.RequestBooking(ctx, req)
	require.NoError(t, err)

	cancelled, err := env.booking.RequestBooking(ctx, request(tuesday, model.NewClockTime(11, 0), otherParentID))
	require.NoError(t, err)
	_, err = env.lifecycle.Transition(ctx, cancelled.ID, model.BookingStatusCancelled, otherParentID)
	require.NoError(t, err)

	svc := NewExportService(env.booking, time.UTC, zap.NewNop())
	return svc, env, booking
}

func TestExportService_ICS(t *testing.T) {
	svc, _, booking := setupExport(t)

	data, filename, err := svc.ICS(context.Background(), testOperatorID, BookingListFilter{
		ResourceID: testResourceID, From: monday, To: tuesday,
	})
	require.NoError(t, err)

	body := string(data)
	assert.Equal(t, "bookings_academy-1_2026-10-19_2026-10-20.ics", filename)
	assert.Contains(t, body, "BEGIN:VCALENDAR")
	assert.Contains(t, body, booking.ID.String()+"@consultation_scheduler")
	assert.Contains(t, body, "DTSTART:20261019T093000Z")
	assert.Contains(t, body, "DTEND:20261019T100000Z")
	assert.Contains(t, body, "STATUS:TENTATIVE")
	assert.Contains(t, body, "STATUS:CANCELLED")
	assert.Equal(t, 2, strings.Count(body, "BEGIN:VEVENT"))
}

func TestExportService_XLSX(t *testing.T) {
	svc, _, _ := setupExport(t)

	buf, filename, err := svc.XLSX(context.Background(), testOperatorID, BookingListFilter{
		ResourceID: testResourceID, From: monday, To: tuesday,
	})
	require.NoError(t, err)
	assert.Equal(t, "bookings_academy-1_2026-10-19_2026-10-20.xlsx", filename)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, []string{"2026-10-19", "09:30", "pending", "Alice", "", testParentID, "first visit"}, rows[1][:7])
	assert.Equal(t, "cancelled", rows[2][2])
}

func TestExportService_RequiresOperator(t *testing.T) {
	svc, _, _ := setupExport(t)
	filter := BookingListFilter{ResourceID: testResourceID, From: monday, To: tuesday}

	_, _, err := svc.ICS(context.Background(), testParentID, filter)
	assert.ErrorIs(t, err, ErrNotAuthorized)

	_, _, err = svc.XLSX(context.Background(), testParentID, filter)
	assert.ErrorIs(t, err, ErrNotAuthorized)
}

func TestExportService_ICS_KeepsBookedDuration(t *testing.T) {
	svc, env, booking := setupExport(t)
	assert.Equal(t, 30, booking.DurationMinutes)

	// Слоты укрупнили уже после записи
	_, err := env.availability.SaveConfig(context.Background(), testResourceID, &model.AvailabilityConfig{
		StartTime:           model.NewClockTime(9, 0),
		EndTime:             model.NewClockTime(18, 0),
		SlotDurationMinutes: 60,
		ClosedWeekdays:      []int{0, 6},
	})
	require.NoError(t, err)

	later, err := env.booking.RequestBooking(context.Background(), request(tuesday, model.NewClockTime(14, 0), testParentID))
	require.NoError(t, err)
	assert.Equal(t, 60, later.DurationMinutes)

	data, _, err := svc.ICS(context.Background(), testOperatorID, BookingListFilter{
		ResourceID: testResourceID, From: monday, To: tuesday,
	})
	require.NoError(t, err)

	body := string(data)
	assert.Contains(t, body, "DTEND:20261019T100000Z")
	assert.Contains(t, body, "DTEND:20261020T150000Z")
}

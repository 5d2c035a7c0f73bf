package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Freeeeeet/consultation_scheduler/internal/model"
)

const exportSheetName = "Bookings"

// ExportService выгружает бронирования ресурса в календарь (ICS) и отчёт (XLSX).
// Доступ проверяет BookingService.ListResourceBookings.
type ExportService struct {
	bookings *BookingService
	location *time.Location
	logger   *zap.Logger
}

func NewExportService(bookings *BookingService, location *time.Location, logger *zap.Logger) *ExportService {
	if location == nil {
		location = time.Local
	}
	return &ExportService{
		bookings: bookings,
		location: location,
		logger:   logger,
	}
}

// ICS возвращает календарь бронирований; отменённые попадают со статусом CANCELLED
func (s *ExportService) ICS(ctx context.Context, actorID string, filter BookingListFilter) ([]byte, string, error) {
	bookings, err := s.bookings.ListResourceBookings(ctx, actorID, filter)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//consultation_scheduler//bookings//EN")
	cal.SetXWRCalName("Consultations " + filter.ResourceID)

	for _, b := range bookings {
		start := b.Date.At(b.Time, s.location)

		event := cal.AddEvent(b.ID.String() + "@consultation_scheduler")
		event.SetDtStampTime(b.UpdatedAt)
		event.SetCreatedTime(b.CreatedAt)
		event.SetModifiedAt(b.UpdatedAt)
		event.SetStartAt(start)
		// Длительность берём из бронирования: конфигурация могла измениться после записи
		event.SetEndAt(start.Add(time.Duration(b.DurationMinutes) * time.Minute))
		event.SetSummary("Consultation: " + b.SubjectName)
		event.SetDescription(bookingDescription(b))
		event.SetStatus(icsStatus(b.Status))
	}

	filename := fmt.Sprintf("bookings_%s_%s_%s.ics", filter.ResourceID, filter.From, filter.To)
	return []byte(cal.Serialize()), filename, nil
}

// XLSX возвращает отчёт по бронированиям одним листом
func (s *ExportService) XLSX(ctx context.Context, actorID string, filter BookingListFilter) (*bytes.Buffer, string, error) {
	bookings, err := s.bookings.ListResourceBookings(ctx, actorID, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheetName)
	if err != nil {
		return nil, "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"Date", "Time", "Status", "Subject", "Grade", "Requester", "Note", "Created At"}
	widths := []float64{12, 8, 12, 28, 10, 24, 40, 20}
	for i, h := range headers {
		col := colName(i)
		f.SetColWidth(exportSheetName, col, col, widths[i])
		f.SetCellValue(exportSheetName, cell(col, 1), h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	f.SetCellStyle(exportSheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	for i, b := range bookings {
		row := i + 2
		values := []any{
			b.Date.String(),
			b.Time.String(),
			string(b.Status),
			b.SubjectName,
			deref(b.SubjectGrade),
			b.RequesterID,
			deref(b.Note),
			b.CreatedAt.In(s.location).Format("2006-01-02 15:04"),
		}
		for j, v := range values {
			f.SetCellValue(exportSheetName, cell(colName(j), row), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("Failed to write xlsx", zap.String("resource_id", filter.ResourceID), zap.Error(err))
		return nil, "", fmt.Errorf("write xlsx: %w", err)
	}

	filename := fmt.Sprintf("bookings_%s_%s_%s.xlsx", filter.ResourceID, filter.From, filter.To)
	return buf, filename, nil
}

func icsStatus(status model.BookingStatus) ics.ObjectStatus {
	switch status {
	case model.BookingStatusPending:
		return ics.ObjectStatusTentative
	case model.BookingStatusCancelled:
		return ics.ObjectStatusCancelled
	default:
		return ics.ObjectStatusConfirmed
	}
}

func bookingDescription(b *model.Booking) string {
	desc := fmt.Sprintf("Requester: %s\nStatus: %s", b.RequesterID, b.Status)
	if b.SubjectGrade != nil {
		desc += "\nGrade: " + *b.SubjectGrade
	}
	if b.Note != nil {
		desc += "\nNote: " + *b.Note
	}
	return desc
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

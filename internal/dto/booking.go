package dto

import (
	"github.com/Freeeeeet/consultation_scheduler/internal/model"
)

// ── Бронирования ──

// CreateBookingRequest тело POST /resources/:id/bookings
type CreateBookingRequest struct {
	Date         string  `json:"date"          binding:"required,datetime=2006-01-02"`
	Time         string  `json:"time"          binding:"required,datetime=15:04"`
	SubjectName  string  `json:"subject_name"  binding:"required,max=200"`
	SubjectGrade *string `json:"subject_grade" binding:"omitempty,max=50"`
	Note         *string `json:"note"          binding:"omitempty,max=1000"`
}

// Slot разбирает дату и время запроса
func (r *CreateBookingRequest) Slot() (model.Date, model.ClockTime, error) {
	date, err := model.ParseDate(r.Date)
	if err != nil {
		return model.Date{}, 0, err
	}
	t, err := model.ParseClockTime(r.Time)
	if err != nil {
		return model.Date{}, 0, err
	}
	return date, t, nil
}

// ListBookingsQuery параметры GET /resources/:id/bookings и выгрузок
type ListBookingsQuery struct {
	From   string   `form:"from"   binding:"required,datetime=2006-01-02"`
	To     string   `form:"to"     binding:"required,datetime=2006-01-02"`
	Status []string `form:"status" binding:"omitempty,dive,oneof=pending confirmed completed cancelled"`
}

// Range разбирает границы периода
func (q *ListBookingsQuery) Range() (model.Date, model.Date, error) {
	from, err := model.ParseDate(q.From)
	if err != nil {
		return model.Date{}, model.Date{}, err
	}
	to, err := model.ParseDate(q.To)
	if err != nil {
		return model.Date{}, model.Date{}, err
	}
	return from, to, nil
}

// Statuses преобразует фильтр статусов
func (q *ListBookingsQuery) Statuses() []model.BookingStatus {
	out := make([]model.BookingStatus, 0, len(q.Status))
	for _, s := range q.Status {
		out = append(out, model.BookingStatus(s))
	}
	return out
}

// TransitionRequest тело POST /bookings/:id/transition
type TransitionRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed completed cancelled"`
}

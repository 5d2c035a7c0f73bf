package dto

import (
	"fmt"

	"github.com/Freeeeeet/consultation_scheduler/internal/model"
)

// ── Конфигурация доступности ──

// SaveConfigRequest тело PUT /resources/:id/config.
// Формат проверяется тегами, правила расписания проверяет сервис.
type SaveConfigRequest struct {
	StartTime           string   `json:"start_time"            binding:"required,datetime=15:04"`
	EndTime             string   `json:"end_time"              binding:"required,datetime=15:04"`
	SlotDurationMinutes int      `json:"slot_duration_minutes" binding:"required,min=1"`
	BreakStart          *string  `json:"break_start"           binding:"omitempty,datetime=15:04"`
	BreakEnd            *string  `json:"break_end"             binding:"omitempty,datetime=15:04"`
	ClosedWeekdays      []int    `json:"closed_weekdays"       binding:"omitempty,dive,min=0,max=6"`
	ClosedDates         []string `json:"closed_dates"          binding:"omitempty,dive,datetime=2006-01-02"`
}

// ToModel преобразует запрос в черновик конфигурации
func (r *SaveConfigRequest) ToModel() (*model.AvailabilityConfig, error) {
	start, err := model.ParseClockTime(r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := model.ParseClockTime(r.EndTime)
	if err != nil {
		return nil, err
	}

	cfg := &model.AvailabilityConfig{
		StartTime:           start,
		EndTime:             end,
		SlotDurationMinutes: r.SlotDurationMinutes,
		ClosedWeekdays:      r.ClosedWeekdays,
		ClosedDates:         make([]model.Date, 0, len(r.ClosedDates)),
	}

	if r.BreakStart != nil {
		bs, err := model.ParseClockTime(*r.BreakStart)
		if err != nil {
			return nil, err
		}
		cfg.BreakStart = &bs
	}
	if r.BreakEnd != nil {
		be, err := model.ParseClockTime(*r.BreakEnd)
		if err != nil {
			return nil, err
		}
		cfg.BreakEnd = &be
	}

	for _, s := range r.ClosedDates {
		d, err := model.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("closed date: %w", err)
		}
		cfg.ClosedDates = append(cfg.ClosedDates, d)
	}

	return cfg, nil
}

// SlotsQuery параметры GET /resources/:id/slots
type SlotsQuery struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

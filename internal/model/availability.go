package model

import (
	"slices"
	"time"
)

// AvailabilityConfig описывает часы работы ресурса (академии) для записи на консультации
type AvailabilityConfig struct {
	ResourceID          string     `json:"resource_id"`
	StartTime           ClockTime  `json:"start_time"`
	EndTime             ClockTime  `json:"end_time"`
	SlotDurationMinutes int        `json:"slot_duration_minutes"`
	BreakStart          *ClockTime `json:"break_start,omitempty"`
	BreakEnd            *ClockTime `json:"break_end,omitempty"`
	ClosedWeekdays      []int      `json:"closed_weekdays"` // 0 = воскресенье, 6 = суббота
	ClosedDates         []Date     `json:"closed_dates"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// Значения по умолчанию для ресурса без сохранённой конфигурации
const (
	DefaultStartTime           = ClockTime(9 * 60)
	DefaultEndTime             = ClockTime(18 * 60)
	DefaultSlotDurationMinutes = 30
)

// DefaultAvailabilityConfig возвращает конфигурацию по умолчанию:
// 09:00-18:00, слоты по 30 минут, без перерыва, суббота и воскресенье выходные
func DefaultAvailabilityConfig(resourceID string) *AvailabilityConfig {
	return &AvailabilityConfig{
		ResourceID:          resourceID,
		StartTime:           DefaultStartTime,
		EndTime:             DefaultEndTime,
		SlotDurationMinutes: DefaultSlotDurationMinutes,
		ClosedWeekdays:      []int{int(time.Sunday), int(time.Saturday)},
		ClosedDates:         []Date{},
	}
}

// HasBreak проверяет задан ли перерыв
func (c *AvailabilityConfig) HasBreak() bool {
	return c.BreakStart != nil && c.BreakEnd != nil
}

// IsClosedWeekday проверяет является ли день недели выходным
func (c *AvailabilityConfig) IsClosedWeekday(weekday int) bool {
	return slices.Contains(c.ClosedWeekdays, weekday)
}

// IsClosedDate проверяет входит ли дата в список разовых закрытий
func (c *AvailabilityConfig) IsClosedDate(d Date) bool {
	return slices.Contains(c.ClosedDates, d)
}

// Clone возвращает независимую копию (снимок) конфигурации
func (c *AvailabilityConfig) Clone() *AvailabilityConfig {
	out := *c
	if c.BreakStart != nil {
		bs := *c.BreakStart
		out.BreakStart = &bs
	}
	if c.BreakEnd != nil {
		be := *c.BreakEnd
		out.BreakEnd = &be
	}
	out.ClosedWeekdays = slices.Clone(c.ClosedWeekdays)
	out.ClosedDates = slices.Clone(c.ClosedDates)
	return &out
}

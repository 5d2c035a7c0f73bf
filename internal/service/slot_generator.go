package service

import (
	"time"

	"github.com/Freeeeeet/consultation_scheduler/internal/model"
)

// BookedTimes множество уже занятых времён на дату
type BookedTimes map[model.ClockTime]struct{}

// NewBookedTimes собирает множество из списка времён
func NewBookedTimes(times ...model.ClockTime) BookedTimes {
	set := make(BookedTimes, len(times))
	for _, t := range times {
		set[t] = struct{}{}
	}
	return set
}

func (b BookedTimes) Has(t model.ClockTime) bool {
	_, ok := b[t]
	return ok
}

// GenerateSlots разворачивает конфигурацию в слоты на дату.
// Функция чистая: одинаковые аргументы дают одинаковый результат.
// bookedTimes нужно читать непосредственно перед вызовом.
func GenerateSlots(cfg *model.AvailabilityConfig, date model.Date, booked BookedTimes, now time.Time) []model.Slot {
	slots := []model.Slot{}

	if isClosedDay(cfg, date) {
		return slots
	}

	today := model.DateOf(now)
	if date.Before(today) {
		return slots
	}

	step := cfg.SlotDurationMinutes
	if step <= 0 {
		return slots
	}

	isToday := date == today
	nowSeconds := now.Hour()*3600 + now.Minute()*60 + now.Second()

	// Хвост короче длительности слота отбрасывается
	for t := cfg.StartTime; t.Add(step) <= cfg.EndTime; t = t.Add(step) {
		slot := model.Slot{Date: date, Time: t, Available: true}

		switch {
		case overlapsBreak(cfg, t, step):
			slot.Available = false
			slot.Reason = model.SlotReasonBreak
		case isToday && t.Seconds() <= nowSeconds:
			slot.Available = false
			slot.Reason = model.SlotReasonPast
		case booked.Has(t):
			slot.Available = false
			slot.Reason = model.SlotReasonBooked
		}

		slots = append(slots, slot)
	}

	return slots
}

// CheckSlot применяет правила GenerateSlots к одному запрошенному времени
func CheckSlot(cfg *model.AvailabilityConfig, date model.Date, t model.ClockTime, now time.Time) error {
	invalid := func(reason SlotInvalidReason) error {
		return &SlotInvalidError{Date: date, Time: t, Reason: reason}
	}

	if isClosedDay(cfg, date) {
		return invalid(SlotInvalidClosed)
	}
	if date.Before(model.DateOf(now)) {
		return invalid(SlotInvalidPast)
	}

	for _, slot := range GenerateSlots(cfg, date, nil, now) {
		if slot.Time != t {
			continue
		}
		switch slot.Reason {
		case model.SlotReasonBreak:
			return invalid(SlotInvalidBreak)
		case model.SlotReasonPast:
			return invalid(SlotInvalidPast)
		}
		return nil
	}

	return invalid(SlotInvalidOffGrid)
}

func isClosedDay(cfg *model.AvailabilityConfig, date model.Date) bool {
	return cfg.IsClosedDate(date) || cfg.IsClosedWeekday(date.Weekday())
}

// overlapsBreak - пересечение [t, t+step) с полуоткрытым [BreakStart, BreakEnd)
func overlapsBreak(cfg *model.AvailabilityConfig, t model.ClockTime, step int) bool {
	if !cfg.HasBreak() {
		return false
	}
	return t < *cfg.BreakEnd && t.Add(step) > *cfg.BreakStart
}

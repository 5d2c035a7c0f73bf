package notify

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/consultation_scheduler/internal/model"
)

// StatusDisplay отображение статуса бронирования
type StatusDisplay struct {
	Emoji string
	Text  string
}

var statusDisplays = map[model.BookingStatus]StatusDisplay{
	model.BookingStatusPending:   {"⏳", "Ожидает подтверждения"},
	model.BookingStatusConfirmed: {"✅", "Подтверждена"},
	model.BookingStatusCompleted: {"✔️", "Завершена"},
	model.BookingStatusCancelled: {"❌", "Отменена"},
}

// GetStatusDisplay возвращает emoji и текст для статуса бронирования
func GetStatusDisplay(status model.BookingStatus) StatusDisplay {
	if display, ok := statusDisplays[status]; ok {
		return display
	}
	return StatusDisplay{"❓", "Неизвестно"}
}

var weekdayShortNames = []string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

// FormatSlot форматирует дату и время слота: "19.10.2026 (Пн) 10:30"
func FormatSlot(date model.Date, t model.ClockTime) string {
	return fmt.Sprintf("%02d.%02d.%d (%s) %s",
		date.Day, int(date.Month), date.Year, weekdayShortNames[date.Weekday()], t)
}

// PluralizeBookings возвращает правильное склонение слова "запись"
func PluralizeBookings(count int) string {
	if count%10 == 1 && count%100 != 11 {
		return "запись"
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return "записи"
	}
	return "записей"
}

// Message текст уведомления для оператора ресурса
type Message struct {
	Subject string
	Body    string
}

// FormatEvent строит уведомление для события; ok=false для неизвестных типов
func FormatEvent(resource *model.Resource, event model.BookingEvent) (Message, bool) {
	name := event.ResourceID
	if resource != nil && resource.Name != "" {
		name = resource.Name
	}

	switch event.Type {
	case model.EventBookingCreated:
		if event.Booking == nil {
			return Message{}, false
		}
		b := event.Booking
		var sb strings.Builder
		fmt.Fprintf(&sb, "📝 Новая запись на консультацию\n\n")
		fmt.Fprintf(&sb, "🏫 %s\n", name)
		fmt.Fprintf(&sb, "📅 %s\n", FormatSlot(b.Date, b.Time))
		fmt.Fprintf(&sb, "👤 %s", b.SubjectName)
		if b.SubjectGrade != nil {
			fmt.Fprintf(&sb, ", %s", *b.SubjectGrade)
		}
		if b.Note != nil && *b.Note != "" {
			fmt.Fprintf(&sb, "\n💬 %s", *b.Note)
		}
		return Message{
			Subject: fmt.Sprintf("Новая запись: %s", FormatSlot(b.Date, b.Time)),
			Body:    sb.String(),
		}, true

	case model.EventBookingStatusChanged:
		if event.Booking == nil {
			return Message{}, false
		}
		b := event.Booking
		prev := GetStatusDisplay(event.PreviousStatus)
		cur := GetStatusDisplay(b.Status)
		body := fmt.Sprintf("%s Статус записи изменён\n\n🏫 %s\n📅 %s\n👤 %s\n%s %s → %s %s",
			cur.Emoji, name, FormatSlot(b.Date, b.Time), b.SubjectName,
			prev.Emoji, prev.Text, cur.Emoji, cur.Text)
		return Message{
			Subject: fmt.Sprintf("Запись %s: %s", FormatSlot(b.Date, b.Time), cur.Text),
			Body:    body,
		}, true

	case model.EventReconciliationRequired:
		count := len(event.Affected)
		var sb strings.Builder
		fmt.Fprintf(&sb, "⚠️ %d %s не соответствуют новому расписанию\n\n🏫 %s\n", count, PluralizeBookings(count), name)
		for _, b := range event.Affected {
			display := GetStatusDisplay(b.Status)
			fmt.Fprintf(&sb, "\n%s %s - %s", display.Emoji, FormatSlot(b.Date, b.Time), b.SubjectName)
		}
		return Message{
			Subject: fmt.Sprintf("Требуется проверка: %d %s", count, PluralizeBookings(count)),
			Body:    sb.String(),
		}, true
	}

	return Message{}, false
}

package model

// SlotReason почему слот недоступен
type SlotReason string

const (
	SlotReasonNone   SlotReason = ""
	SlotReasonBreak  SlotReason = "break"
	SlotReasonBooked SlotReason = "booked"
	SlotReasonPast   SlotReason = "past"
)

// Slot время для записи, вычисленное из AvailabilityConfig. В БД не хранится.
type Slot struct {
	Date      Date       `json:"date"`
	Time      ClockTime  `json:"time"`
	Available bool       `json:"available"`
	Reason    SlotReason `json:"reason,omitempty"`
}

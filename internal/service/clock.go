package service

import "time"

// Clock поставляет текущее время; в тестах подменяется фиксированным
type Clock interface {
	Now() time.Time
}

// SystemClock читает системное время в заданной локации
type SystemClock struct {
	Location *time.Location
}

func NewSystemClock(loc *time.Location) SystemClock {
	if loc == nil {
		loc = time.Local
	}
	return SystemClock{Location: loc}
}

func (c SystemClock) Now() time.Time {
	return time.Now().In(c.Location)
}

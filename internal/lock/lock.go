// Package lock сериализует запись бронирований по ключу (ресурс, дата).
package lock

import (
	"context"
	"errors"

	"github.com/Freeeeeet/consultation_scheduler/internal/model"
)

// ErrNotAcquired блокировку не удалось получить до истечения контекста
var ErrNotAcquired = errors.New("lock not acquired")

// Locker выдаёт эксклюзивную блокировку по ключу. unlock нужно вызвать ровно один раз.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// SlotKey ключ блокировки для (ресурс, дата)
func SlotKey(resourceID string, date model.Date) string {
	return resourceID + "|" + date.String()
}

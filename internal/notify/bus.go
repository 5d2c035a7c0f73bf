// Package notify доставляет события бронирований операторам ресурсов.
package notify

import (
	"context"

	"github.com/Freeeeeet/consultation_scheduler/internal/model"
	"go.uber.org/zap"
)

const defaultQueueSize = 256

// Notifier канал доставки уведомлений оператору
type Notifier interface {
	Name() string
	Notify(ctx context.Context, resource *model.Resource, msg Message) error
}

// ResourceLookup находит ресурс, чтобы узнать контакты оператора
type ResourceLookup interface {
	GetByID(ctx context.Context, id string) (*model.Resource, error)
}

// Bus принимает события без блокировки и раздаёт их всем каналам в фоне
type Bus struct {
	queue     chan model.BookingEvent
	resources ResourceLookup
	notifiers []Notifier
	logger    *zap.Logger
}

func NewBus(resources ResourceLookup, logger *zap.Logger, notifiers ...Notifier) *Bus {
	return &Bus{
		queue:     make(chan model.BookingEvent, defaultQueueSize),
		resources: resources,
		notifiers: notifiers,
		logger:    logger,
	}
}

// Publish ставит событие в очередь. При переполнении событие отбрасывается с предупреждением.
func (b *Bus) Publish(_ context.Context, event model.BookingEvent) {
	select {
	case b.queue <- event:
	default:
		b.logger.Warn("Notification queue is full, event dropped",
			zap.String("type", string(event.Type)),
			zap.String("resource_id", event.ResourceID))
	}
}

// Run обрабатывает очередь пока не отменён контекст, затем дорабатывает остаток
func (b *Bus) Run(ctx context.Context) error {
	b.logger.Info("Starting notification bus", zap.Int("notifiers", len(b.notifiers)))

	for {
		select {
		case event := <-b.queue:
			b.dispatch(ctx, event)
		case <-ctx.Done():
			b.drain()
			b.logger.Info("Notification bus stopped")
			return nil
		}
	}
}

func (b *Bus) drain() {
	// Контекст уже отменён, доставляем остаток с фоновым контекстом
	ctx := context.Background()
	for {
		select {
		case event := <-b.queue:
			b.dispatch(ctx, event)
		default:
			return
		}
	}
}

func (b *Bus) dispatch(ctx context.Context, event model.BookingEvent) {
	resource, err := b.resources.GetByID(ctx, event.ResourceID)
	if err != nil {
		b.logger.Error("Failed to load resource for notification",
			zap.String("resource_id", event.ResourceID),
			zap.Error(err))
		return
	}
	if resource == nil {
		b.logger.Debug("No resource registered, notification skipped",
			zap.String("resource_id", event.ResourceID))
		return
	}

	msg, ok := FormatEvent(resource, event)
	if !ok {
		return
	}

	for _, n := range b.notifiers {
		if err := n.Notify(ctx, resource, msg); err != nil {
			b.logger.Error("Failed to deliver notification",
				zap.String("notifier", n.Name()),
				zap.String("type", string(event.Type)),
				zap.String("resource_id", event.ResourceID),
				zap.Error(err))
		}
	}
}

package app

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/consultation_scheduler/internal/model"
	"github.com/Freeeeeet/consultation_scheduler/internal/service"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ResourceLister источник ресурсов для обхода
type ResourceLister interface {
	List(ctx context.Context) ([]*model.Resource, error)
}

// Reconciler проверяет бронирования ресурса против текущей конфигурации
type Reconciler interface {
	Reconcile(ctx context.Context, resourceID string) ([]service.ReconcileItem, error)
	NotifyReconciliation(ctx context.Context, resourceID string, items []service.ReconcileItem)
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	resources  ResourceLister
	reconciler Reconciler
	spec       string
	location   *time.Location
	logger     *zap.Logger
}

// NewScheduler создаёт новый планировщик; spec - cron выражение из пяти полей
func NewScheduler(resources ResourceLister, reconciler Reconciler, spec string, location *time.Location, logger *zap.Logger) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("invalid reconcile schedule %q: %w", spec, err)
	}
	if location == nil {
		location = time.Local
	}
	return &Scheduler{
		resources:  resources,
		reconciler: reconciler,
		spec:       spec,
		location:   location,
		logger:     logger,
	}, nil
}

// Run запускает задачи и блокируется до отмены контекста
func (s *Scheduler) Run(ctx context.Context) error {
	c := cron.New(cron.WithLocation(s.location))
	if _, err := c.AddFunc(s.spec, func() { s.Sweep(ctx) }); err != nil {
		return fmt.Errorf("schedule reconcile sweep: %w", err)
	}

	s.logger.Info("Starting background scheduler", zap.String("reconcile_cron", s.spec))

	// Первый запуск сразу при старте, до запуска cron
	s.Sweep(ctx)

	c.Start()
	<-ctx.Done()

	s.logger.Info("Stopping background scheduler")
	// Ждём завершения уже запущенного обхода
	<-c.Stop().Done()
	return nil
}

// Sweep сверяет бронирования всех ресурсов и уведомляет операторов о конфликтах
func (s *Scheduler) Sweep(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	s.logger.Info("Starting reconciliation sweep")

	resources, err := s.resources.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list resources", zap.Error(err))
		return
	}

	var affected int
	for _, r := range resources {
		items, err := s.reconciler.Reconcile(ctx, r.ID)
		if err != nil {
			// Один сломанный ресурс не останавливает обход
			s.logger.Error("Failed to reconcile resource", zap.String("resource_id", r.ID), zap.Error(err))
			continue
		}
		if len(items) == 0 {
			continue
		}

		affected += len(items)
		s.logger.Warn("Bookings need operator review",
			zap.String("resource_id", r.ID),
			zap.Int("count", len(items)),
		)
		s.reconciler.NotifyReconciliation(ctx, r.ID, items)
	}

	s.logger.Info("Reconciliation sweep completed",
		zap.Int("resources", len(resources)),
		zap.Int("affected", affected),
	)
}

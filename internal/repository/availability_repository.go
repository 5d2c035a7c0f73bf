package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Freeeeeet/consultation_scheduler/internal/model"
	"github.com/Freeeeeet/consultation_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

type AvailabilityRepository struct {
	*base.Repository
}

func NewAvailabilityRepository(pool *pgxpool.Pool) *AvailabilityRepository {
	return &AvailabilityRepository{Repository: base.NewRepository(pool)}
}

// GetByResourceID получает конфигурацию ресурса одной строкой (снимок)
func (r *AvailabilityRepository) GetByResourceID(ctx context.Context, resourceID string) (*model.AvailabilityConfig, error) {
	query := `
		SELECT resource_id, start_time, end_time, slot_duration_minutes,
		       break_start, break_end, closed_weekdays, closed_dates, updated_at
		FROM availability_configs
		WHERE resource_id = $1
	`

	var (
		cfg                  model.AvailabilityConfig
		startTime, endTime   pgtype.Time
		breakStart, breakEnd pgtype.Time
		closedWeekdays       []int32
		closedDates          []time.Time
	)

	err := r.QueryRow(ctx, query, resourceID).Scan(
		&cfg.ResourceID,
		&startTime,
		&endTime,
		&cfg.SlotDurationMinutes,
		&breakStart,
		&breakEnd,
		&closedWeekdays,
		&closedDates,
		&cfg.UpdatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get availability config: %w", err)
	}

	cfg.StartTime = clockFromPg(startTime)
	cfg.EndTime = clockFromPg(endTime)
	cfg.BreakStart = nullableClockFromPg(breakStart)
	cfg.BreakEnd = nullableClockFromPg(breakEnd)
	cfg.ClosedWeekdays = intsFromPg(closedWeekdays)
	cfg.ClosedDates = datesFromPg(closedDates)

	return &cfg, nil
}

// Upsert сохраняет конфигурацию целиком одной командой
func (r *AvailabilityRepository) Upsert(ctx context.Context, cfg *model.AvailabilityConfig) error {
	query := `
		INSERT INTO availability_configs (
			resource_id, start_time, end_time, slot_duration_minutes,
			break_start, break_end, closed_weekdays, closed_dates, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (resource_id) DO UPDATE SET
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			slot_duration_minutes = EXCLUDED.slot_duration_minutes,
			break_start = EXCLUDED.break_start,
			break_end = EXCLUDED.break_end,
			closed_weekdays = EXCLUDED.closed_weekdays,
			closed_dates = EXCLUDED.closed_dates,
			updated_at = EXCLUDED.updated_at
	`

	err := r.WithRetry(ctx, func(ctx context.Context) error {
		_, err := r.ExecAffected(
			ctx, query,
			cfg.ResourceID,
			clockToPg(cfg.StartTime),
			clockToPg(cfg.EndTime),
			cfg.SlotDurationMinutes,
			nullableClockToPg(cfg.BreakStart),
			nullableClockToPg(cfg.BreakEnd),
			intsToPg(cfg.ClosedWeekdays),
			datesToPg(cfg.ClosedDates),
			cfg.UpdatedAt,
		)
		return err
	})

	if err != nil {
		return fmt.Errorf("upsert availability config: %w", err)
	}

	return nil
}

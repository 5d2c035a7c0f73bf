package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Freeeeeet/consultation_scheduler/internal/model"
	"github.com/Freeeeeet/consultation_scheduler/internal/repository/base"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Имена индексов из миграций
const (
	activeSlotIndex  = "bookings_active_slot_uniq"
	idempotencyIndex = "bookings_idempotency_uniq"
)

var (
	// ErrActiveSlotConflict слот уже занят активным бронированием (нарушение уникального индекса)
	ErrActiveSlotConflict = errors.New("active booking already exists for slot")
	// ErrIdempotencyConflict бронирование с таким ключом идемпотентности уже создано
	ErrIdempotencyConflict = errors.New("booking with idempotency key already exists")
	// ErrStatusConflict статус бронирования изменился параллельно
	ErrStatusConflict = errors.New("booking status changed concurrently")
)

// BookingFilter параметры выборки бронирований ресурса
type BookingFilter struct {
	ResourceID string
	From       model.Date
	To         model.Date
	Statuses   []model.BookingStatus // пусто = все статусы
}

const bookingColumns = `
	id, resource_id, booking_date, start_time, duration_minutes, requester_id,
	subject_name, subject_grade, note, status, idempotency_key, created_at, updated_at
`

type BookingRepository struct {
	*base.Repository
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{Repository: base.NewRepository(pool)}
}

// Create создаёт новое бронирование.
// Уникальный частичный индекс по активным статусам - последний рубеж против двойной записи.
func (r *BookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	err := r.WithRetry(ctx, func(ctx context.Context) error {
		_, err := r.ExecAffected(
			ctx, query,
			booking.ID,
			booking.ResourceID,
			booking.Date.Time(),
			clockToPg(booking.Time),
			booking.DurationMinutes,
			booking.RequesterID,
			booking.SubjectName,
			booking.SubjectGrade,
			booking.Note,
			string(booking.Status),
			booking.IdempotencyKey,
			booking.CreatedAt,
			booking.UpdatedAt,
		)
		return err
	})

	switch {
	case err == nil:
		return nil
	case base.IsUniqueViolation(err, activeSlotIndex):
		return fmt.Errorf("create booking: %w", ErrActiveSlotConflict)
	case base.IsUniqueViolation(err, idempotencyIndex):
		return fmt.Errorf("create booking: %w", ErrIdempotencyConflict)
	default:
		return fmt.Errorf("create booking: %w", err)
	}
}

// GetByID получает бронирование по ID
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return booking, nil
}

// GetActiveBySlot получает активное бронирование слота
func (r *BookingRepository) GetActiveBySlot(ctx context.Context, resourceID string, date model.Date, t model.ClockTime) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE resource_id = $1 AND booking_date = $2 AND start_time = $3
		  AND status IN ('pending', 'confirmed')
		LIMIT 1
	`

	booking, err := scanBooking(r.QueryRow(ctx, query, resourceID, date.Time(), clockToPg(t)))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active booking by slot: %w", err)
	}

	return booking, nil
}

// GetByIdempotencyKey получает бронирование, созданное запросом с данным ключом
func (r *BookingRepository) GetByIdempotencyKey(ctx context.Context, requesterID, key string) (*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE requester_id = $1 AND idempotency_key = $2
	`

	booking, err := scanBooking(r.QueryRow(ctx, query, requesterID, key))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by idempotency key: %w", err)
	}

	return booking, nil
}

// ListBookedTimes получает времена активных бронирований на дату
func (r *BookingRepository) ListBookedTimes(ctx context.Context, resourceID string, date model.Date) ([]model.ClockTime, error) {
	query := `
		SELECT start_time
		FROM bookings
		WHERE resource_id = $1 AND booking_date = $2
		  AND status IN ('pending', 'confirmed')
		ORDER BY start_time
	`

	rows, err := r.Query(ctx, query, resourceID, date.Time())
	if err != nil {
		return nil, fmt.Errorf("list booked times: %w", err)
	}
	defer rows.Close()

	var times []model.ClockTime
	for rows.Next() {
		var t pgtype.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan booked time: %w", err)
		}
		times = append(times, clockFromPg(t))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list booked times: %w", err)
	}

	return times, nil
}

// ListByResource получает бронирования ресурса за период
func (r *BookingRepository) ListByResource(ctx context.Context, filter BookingFilter) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE resource_id = $1
		  AND booking_date >= $2 AND booking_date <= $3
		  AND (cardinality($4::text[]) = 0 OR status = ANY($4::text[]))
		ORDER BY booking_date, start_time, created_at
	`

	rows, err := r.Query(ctx, query, filter.ResourceID, filter.From.Time(), filter.To.Time(), statusesToPg(filter.Statuses))
	if err != nil {
		return nil, fmt.Errorf("list bookings by resource: %w", err)
	}

	return collectBookings(rows)
}

// ListActiveFrom получает активные бронирования ресурса начиная с даты
func (r *BookingRepository) ListActiveFrom(ctx context.Context, resourceID string, from model.Date) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE resource_id = $1 AND booking_date >= $2
		  AND status IN ('pending', 'confirmed')
		ORDER BY booking_date, start_time
	`

	rows, err := r.Query(ctx, query, resourceID, from.Time())
	if err != nil {
		return nil, fmt.Errorf("list active bookings: %w", err)
	}

	return collectBookings(rows)
}

// ListByRequester получает все бронирования заявителя
func (r *BookingRepository) ListByRequester(ctx context.Context, requesterID string) ([]*model.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE requester_id = $1
		ORDER BY booking_date DESC, start_time DESC
	`

	rows, err := r.Query(ctx, query, requesterID)
	if err != nil {
		return nil, fmt.Errorf("list bookings by requester: %w", err)
	}

	return collectBookings(rows)
}

// UpdateStatus меняет статус только если текущий статус равен from (compare-and-set)
func (r *BookingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.BookingStatus, updatedAt time.Time) (*model.Booking, error) {
	query := `
		UPDATE bookings
		SET status = $3, updated_at = $4
		WHERE id = $1 AND status = $2
		RETURNING ` + bookingColumns

	var booking *model.Booking
	err := r.WithRetry(ctx, func(ctx context.Context) error {
		var err error
		booking, err = scanBooking(r.QueryRow(ctx, query, id, string(from), string(to), updatedAt))
		return err
	})

	if err != nil {
		if base.IsNotFound(err) {
			return nil, fmt.Errorf("update booking status: %w", ErrStatusConflict)
		}
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	return booking, nil
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var (
		booking   model.Booking
		date      time.Time
		startTime pgtype.Time
		status    string
	)

	err := row.Scan(
		&booking.ID,
		&booking.ResourceID,
		&date,
		&startTime,
		&booking.DurationMinutes,
		&booking.RequesterID,
		&booking.SubjectName,
		&booking.SubjectGrade,
		&booking.Note,
		&status,
		&booking.IdempotencyKey,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.Date = model.DateOf(date)
	booking.Time = clockFromPg(startTime)
	booking.Status = model.BookingStatus(status)

	return &booking, nil
}

func collectBookings(rows pgx.Rows) ([]*model.Booking, error) {
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bookings: %w", err)
	}

	return bookings, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"ridepool-backend/internal/domain"
	"ridepool-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, trip_id, passenger_id, seats, total_price_cents, credit_fee, hold_id, message, status, created_on, updated_on`

func scanBooking(row interface{ Scan(...any) error }, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.TripID, &b.PassengerID, &b.Seats, &b.TotalPriceCents, &b.CreditFee,
		&b.HoldID, &b.Message, &b.Status, &b.CreatedOn, &b.UpdatedOn)
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	query := `INSERT INTO bookings (id, trip_id, passenger_id, seats, total_price_cents, credit_fee, hold_id, message, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	          RETURNING created_on, updated_on`
	err := r.db.QueryRowContext(ctx, query,
		b.ID, b.TripID, b.PassengerID, b.Seats, b.TotalPriceCents, b.CreditFee, b.HoldID, b.Message, b.Status,
	).Scan(&b.CreatedOn, &b.UpdatedOn)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		// unique partial index: one open booking per (trip, passenger)
		return domain.ErrDuplicateBooking
	}
	return err
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	b := &domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	err := scanBooking(r.db.QueryRowContext(ctx, query, id), b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) ListByPassenger(ctx context.Context, passengerID string, page, pageSize int32) ([]domain.Booking, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM bookings WHERE passenger_id = $1`, passengerID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE passenger_id = $1
	          ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, count, query, passengerID, pageSize, (page-1)*pageSize)
}

func (r *bookingRepository) ListByDriver(ctx context.Context, driverID string, page, pageSize int32) ([]domain.Booking, int32, error) {
	var count int32
	countQuery := `SELECT count(*) FROM bookings b JOIN trips t ON t.id = b.trip_id WHERE t.driver_id = $1`
	if err := r.db.QueryRowContext(ctx, countQuery, driverID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT b.id, b.trip_id, b.passenger_id, b.seats, b.total_price_cents, b.credit_fee, b.hold_id, b.message, b.status, b.created_on, b.updated_on
	          FROM bookings b JOIN trips t ON t.id = b.trip_id
	          WHERE t.driver_id = $1
	          ORDER BY b.created_on DESC LIMIT $2 OFFSET $3`
	return r.list(ctx, count, query, driverID, pageSize, (page-1)*pageSize)
}

func (r *bookingRepository) list(ctx context.Context, count int32, query string, args ...interface{}) ([]domain.Booking, int32, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, b)
	}
	return bookings, count, rows.Err()
}

func (r *bookingRepository) ListOpenByTrip(ctx context.Context, tripID string) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE trip_id = $1 AND status IN ('pending', 'confirmed')
	          ORDER BY created_on ASC`
	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) ListPendingDeparted(ctx context.Context, cutoff time.Time) ([]domain.Booking, error) {
	query := `SELECT b.id, b.trip_id, b.passenger_id, b.seats, b.total_price_cents, b.credit_fee, b.hold_id, b.message, b.status, b.created_on, b.updated_on
	          FROM bookings b JOIN trips t ON t.id = b.trip_id
	          WHERE b.status = 'pending' AND t.departure_time < $1`
	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) TransitionStatus(ctx context.Context, bookingID string, to domain.BookingStatus, from ...domain.BookingStatus) error {
	states := make([]string, len(from))
	for i, s := range from {
		states[i] = string(s)
	}
	query := `UPDATE bookings SET status = $2, updated_on = NOW() WHERE id = $1 AND status = ANY($3)`
	res, err := r.db.ExecContext(ctx, query, bookingID, to, pq.Array(states))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = $1)`, bookingID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return fmt.Errorf("booking %s: %w", bookingID, domain.ErrInvalidStateTransition)
	}
	return nil
}

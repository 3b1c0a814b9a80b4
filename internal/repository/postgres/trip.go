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

type tripRepository struct {
	db *sql.DB
}

func NewTripRepository(db *sql.DB) repository.TripRepository {
	return &tripRepository{db: db}
}

const tripColumns = `id, driver_id, departure_address, departure_city, departure_lat, departure_lng,
	arrival_address, arrival_city, arrival_lat, arrival_lng, departure_time,
	total_seats, available_seats, price_per_seat_cents, vehicle,
	allows_pets, allows_smoking, allows_music, chat_level, max_two_back, luggage_size,
	instant_booking, COALESCE(description, ''), status, created_on, updated_on`

func scanTrip(row interface{ Scan(...any) error }, t *domain.Trip) error {
	return row.Scan(&t.ID, &t.DriverID, &t.DepartureAddress, &t.DepartureCity, &t.DepartureLat, &t.DepartureLng,
		&t.ArrivalAddress, &t.ArrivalCity, &t.ArrivalLat, &t.ArrivalLng, &t.DepartureTime,
		&t.TotalSeats, &t.AvailableSeats, &t.PricePerSeatCents, &t.Vehicle,
		&t.AllowsPets, &t.AllowsSmoking, &t.AllowsMusic, &t.ChatLevel, &t.MaxTwoBack, &t.LuggageSize,
		&t.InstantBooking, &t.Description, &t.Status, &t.CreatedOn, &t.UpdatedOn)
}

func (r *tripRepository) Create(ctx context.Context, t *domain.Trip) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	query := `INSERT INTO trips (id, driver_id, departure_address, departure_city, departure_lat, departure_lng,
	            arrival_address, arrival_city, arrival_lat, arrival_lng, departure_time,
	            total_seats, available_seats, price_per_seat_cents, vehicle,
	            allows_pets, allows_smoking, allows_music, chat_level, max_two_back, luggage_size,
	            instant_booking, description, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, NOW(), NOW())
	          RETURNING created_on, updated_on`
	return r.db.QueryRowContext(ctx, query,
		t.ID, t.DriverID, t.DepartureAddress, t.DepartureCity, t.DepartureLat, t.DepartureLng,
		t.ArrivalAddress, t.ArrivalCity, t.ArrivalLat, t.ArrivalLng, t.DepartureTime,
		t.TotalSeats, t.AvailableSeats, t.PricePerSeatCents, t.Vehicle,
		t.AllowsPets, t.AllowsSmoking, t.AllowsMusic, t.ChatLevel, t.MaxTwoBack, t.LuggageSize,
		t.InstantBooking, t.Description, t.Status,
	).Scan(&t.CreatedOn, &t.UpdatedOn)
}

func (r *tripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	t := &domain.Trip{}
	query := `SELECT ` + tripColumns + ` FROM trips WHERE id = $1`
	err := scanTrip(r.db.QueryRowContext(ctx, query, id), t)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *tripRepository) Search(ctx context.Context, f domain.TripFilter, page, pageSize int32) ([]domain.TripSearchResult, int32, error) {
	base := `FROM trips t
	         LEFT JOIN profiles p ON p.id = t.driver_id
	         LEFT JOIN (
	             SELECT rated_id, AVG(score)::float8 AS avg_score, COUNT(*) AS rating_count
	             FROM ratings GROUP BY rated_id
	         ) r ON r.rated_id = t.driver_id
	         WHERE t.status = 'active' AND t.departure_time > NOW()`

	args := []interface{}{}
	argIdx := 1
	addArg := func(clause string, val interface{}) {
		base += fmt.Sprintf(" AND "+clause, argIdx)
		args = append(args, val)
		argIdx++
	}

	if f.DepartureCity != "" {
		addArg("t.departure_city ILIKE '%%' || $%d || '%%'", f.DepartureCity)
	}
	if f.ArrivalCity != "" {
		addArg("t.arrival_city ILIKE '%%' || $%d || '%%'", f.ArrivalCity)
	}
	if f.DateFrom != nil {
		addArg("t.departure_time >= $%d", *f.DateFrom)
	}
	if f.DateTo != nil {
		addArg("t.departure_time < $%d", *f.DateTo)
	}
	if f.MinSeats > 0 {
		addArg("t.available_seats >= $%d", f.MinSeats)
	}
	if f.MaxPriceCents > 0 {
		addArg("t.price_per_seat_cents <= $%d", f.MaxPriceCents)
	}
	if f.AllowsPets != nil {
		addArg("t.allows_pets = $%d", *f.AllowsPets)
	}
	if f.AllowsSmoking != nil {
		addArg("t.allows_smoking = $%d", *f.AllowsSmoking)
	}
	if f.AllowsMusic != nil {
		addArg("t.allows_music = $%d", *f.AllowsMusic)
	}
	if f.InstantBooking != nil {
		addArg("t.instant_booking = $%d", *f.InstantBooking)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, "SELECT count(*) "+base, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	sel := `SELECT t.id, t.driver_id, t.departure_address, t.departure_city, t.departure_lat, t.departure_lng,
	          t.arrival_address, t.arrival_city, t.arrival_lat, t.arrival_lng, t.departure_time,
	          t.total_seats, t.available_seats, t.price_per_seat_cents, t.vehicle,
	          t.allows_pets, t.allows_smoking, t.allows_music, t.chat_level, t.max_two_back, t.luggage_size,
	          t.instant_booking, COALESCE(t.description, ''), t.status, t.created_on, t.updated_on,
	          COALESCE(p.name, ''), r.avg_score, COALESCE(r.rating_count, 0) ` + base +
		fmt.Sprintf(" ORDER BY t.departure_time ASC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.QueryContext(ctx, sel, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var results []domain.TripSearchResult
	for rows.Next() {
		var res domain.TripSearchResult
		t := &res.Trip
		if err := rows.Scan(&t.ID, &t.DriverID, &t.DepartureAddress, &t.DepartureCity, &t.DepartureLat, &t.DepartureLng,
			&t.ArrivalAddress, &t.ArrivalCity, &t.ArrivalLat, &t.ArrivalLng, &t.DepartureTime,
			&t.TotalSeats, &t.AvailableSeats, &t.PricePerSeatCents, &t.Vehicle,
			&t.AllowsPets, &t.AllowsSmoking, &t.AllowsMusic, &t.ChatLevel, &t.MaxTwoBack, &t.LuggageSize,
			&t.InstantBooking, &t.Description, &t.Status, &t.CreatedOn, &t.UpdatedOn,
			&res.DriverName, &res.DriverRating, &res.RatingCount); err != nil {
			return nil, 0, err
		}
		results = append(results, res)
	}
	return results, count, rows.Err()
}

func (r *tripRepository) ListByDriver(ctx context.Context, driverID string, page, pageSize int32) ([]domain.Trip, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM trips WHERE driver_id = $1`, driverID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + tripColumns + ` FROM trips WHERE driver_id = $1
	          ORDER BY departure_time DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, driverID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		var t domain.Trip
		if err := scanTrip(rows, &t); err != nil {
			return nil, 0, err
		}
		trips = append(trips, t)
	}
	return trips, count, rows.Err()
}

// ReserveSeats is a single guarded read-modify-write: the decrement only
// lands when the trip is active and has enough seats, so concurrent callers
// serialize on the row and the count can never go negative.
func (r *tripRepository) ReserveSeats(ctx context.Context, tripID string, n int32) error {
	query := `UPDATE trips
	          SET available_seats = available_seats - $2,
	              status = CASE WHEN available_seats - $2 = 0 THEN 'full' ELSE status END,
	              updated_on = NOW()
	          WHERE id = $1 AND status = 'active' AND available_seats >= $2`
	res, err := r.db.ExecContext(ctx, query, tripID, n)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	// Nothing changed. Classify the refusal for the caller.
	var status domain.TripStatus
	var available int32
	err = r.db.QueryRowContext(ctx, `SELECT status, available_seats FROM trips WHERE id = $1`, tripID).Scan(&status, &available)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	if status != domain.TripStatusActive {
		return domain.ErrTripNotActive
	}
	return domain.ErrInsufficientSeats
}

func (r *tripRepository) ReleaseSeats(ctx context.Context, tripID string, n int32) error {
	query := `UPDATE trips
	          SET available_seats = LEAST(available_seats + $2, total_seats),
	              status = CASE WHEN status = 'full' THEN 'active' ELSE status END,
	              updated_on = NOW()
	          WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, tripID, n)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *tripRepository) TransitionStatus(ctx context.Context, tripID string, to domain.TripStatus, from ...domain.TripStatus) error {
	states := make([]string, len(from))
	for i, s := range from {
		states[i] = string(s)
	}
	query := `UPDATE trips SET status = $2, updated_on = NOW() WHERE id = $1 AND status = ANY($3)`
	res, err := r.db.ExecContext(ctx, query, tripID, to, pq.Array(states))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM trips WHERE id = $1)`, tripID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrInvalidStateTransition
	}
	return nil
}

func (r *tripRepository) CompleteDeparted(ctx context.Context, cutoff time.Time) ([]string, error) {
	query := `UPDATE trips SET status = 'completed', updated_on = NOW()
	          WHERE status IN ('active', 'full') AND departure_time < $1
	          RETURNING id`
	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

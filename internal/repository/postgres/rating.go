package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"ridepool-backend/internal/domain"
	"ridepool-backend/internal/repository"
)

type ratingRepository struct {
	db *sql.DB
}

func NewRatingRepository(db *sql.DB) repository.RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(ctx context.Context, rt *domain.Rating) error {
	if rt.ID == "" {
		rt.ID = uuid.NewString()
	}
	query := `INSERT INTO ratings (id, trip_id, rater_id, rated_id, score, punctuality, driving, comfort, comment, tags, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW()) RETURNING created_on`
	err := r.db.QueryRowContext(ctx, query,
		rt.ID, rt.TripID, rt.RaterID, rt.RatedID, rt.Score,
		rt.Punctuality, rt.Driving, rt.Comfort, rt.Comment, pq.Array(rt.Tags),
	).Scan(&rt.CreatedOn)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return domain.ErrDuplicateRating
	}
	return err
}

func (r *ratingRepository) Average(ctx context.Context, ratedID string) (*domain.RatingSummary, error) {
	var avg sql.NullFloat64
	var count int32
	query := `SELECT AVG(score)::float8, count(*) FROM ratings WHERE rated_id = $1`
	if err := r.db.QueryRowContext(ctx, query, ratedID).Scan(&avg, &count); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	return &domain.RatingSummary{RatedID: ratedID, Average: avg.Float64, Count: count}, nil
}

func (r *ratingRepository) ListByRated(ctx context.Context, ratedID string, page, pageSize int32) ([]domain.Rating, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM ratings WHERE rated_id = $1`, ratedID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, trip_id, rater_id, rated_id, score, punctuality, driving, comfort, COALESCE(comment, ''), tags, created_on
	          FROM ratings WHERE rated_id = $1
	          ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, ratedID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var ratings []domain.Rating
	for rows.Next() {
		var rt domain.Rating
		if err := rows.Scan(&rt.ID, &rt.TripID, &rt.RaterID, &rt.RatedID, &rt.Score,
			&rt.Punctuality, &rt.Driving, &rt.Comfort, &rt.Comment, pq.Array(&rt.Tags), &rt.CreatedOn); err != nil {
			return nil, 0, err
		}
		ratings = append(ratings, rt)
	}
	return ratings, count, rows.Err()
}

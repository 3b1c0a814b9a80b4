package postgres

import (
	"context"
	"database/sql"
	"errors"

	"ridepool-backend/internal/domain"
	"ridepool-backend/internal/repository"
)

// profileRepository reads the identity service's profiles projection. The
// engine never writes this table.
type profileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) repository.ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	p := &domain.Profile{}
	query := `SELECT id, name, COALESCE(email, ''), COALESCE(avatar_url, ''), COALESCE(phone, '') FROM profiles WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Email, &p.AvatarURL, &p.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

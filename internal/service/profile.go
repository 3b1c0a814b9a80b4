package service

import (
	"context"

	"ridepool-backend/internal/domain"
	"ridepool-backend/internal/repository"
)

// profileProvider serves identity data from the profiles projection table.
type profileProvider struct {
	repo repository.ProfileRepository
}

func NewProfileProvider(repo repository.ProfileRepository) ProfileProvider {
	return &profileProvider{repo: repo}
}

func (p *profileProvider) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return p.repo.GetByID(ctx, userID)
}

package service

import (
	"context"

	"ridepool-backend/internal/domain"
	"ridepool-backend/internal/repository"
)

type ratingService struct {
	ratingRepo repository.RatingRepository
	tripRepo   repository.TripRepository
}

func NewRatingService(ratingRepo repository.RatingRepository, tripRepo repository.TripRepository) RatingService {
	return &ratingService{ratingRepo: ratingRepo, tripRepo: tripRepo}
}

func (s *ratingService) Submit(ctx context.Context, raterID, tripID, ratedID string, score int32, sub *SubScores, comment string, tags []string) (*domain.Rating, error) {
	if score < 1 || score > 5 {
		return nil, domain.NewValidationError("score", "must be between 1 and 5")
	}
	if raterID == ratedID {
		return nil, domain.NewValidationError("rated_id", "cannot rate yourself")
	}
	if sub != nil {
		for field, v := range map[string]*int32{"punctuality": sub.Punctuality, "driving": sub.Driving, "comfort": sub.Comfort} {
			if v != nil && (*v < 1 || *v > 5) {
				return nil, domain.NewValidationError(field, "must be between 1 and 5")
			}
		}
	}

	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.Status != domain.TripStatusCompleted {
		return nil, domain.ErrTripNotCompleted
	}

	rating := &domain.Rating{
		TripID:  tripID,
		RaterID: raterID,
		RatedID: ratedID,
		Score:   score,
		Comment: comment,
		Tags:    tags,
	}
	if sub != nil {
		rating.Punctuality = sub.Punctuality
		rating.Driving = sub.Driving
		rating.Comfort = sub.Comfort
	}

	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}

func (s *ratingService) Average(ctx context.Context, ratedID string) (*domain.RatingSummary, error) {
	return s.ratingRepo.Average(ctx, ratedID)
}

func (s *ratingService) ListForUser(ctx context.Context, ratedID string, page, pageSize int32) ([]domain.Rating, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.ratingRepo.ListByRated(ctx, ratedID, page, pageSize)
}

package service

import (
	"context"

	"ridepool-backend/internal/domain"
	"ridepool-backend/internal/logger"
	"ridepool-backend/internal/repository"
)

type ledgerService struct {
	ledgerRepo repository.LedgerRepository
}

func NewLedgerService(ledgerRepo repository.LedgerRepository) LedgerService {
	return &ledgerService{ledgerRepo: ledgerRepo}
}

func (s *ledgerService) Balance(ctx context.Context, accountID string) (*domain.Balance, error) {
	return s.ledgerRepo.GetBalance(ctx, accountID)
}

func (s *ledgerService) History(ctx context.Context, accountID string, page, pageSize int32) ([]domain.LedgerEntry, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.ledgerRepo.ListEntries(ctx, accountID, page, pageSize)
}

// Grant credits an account directly, e.g. a promotional top-up.
func (s *ledgerService) Grant(ctx context.Context, accountID string, amount int32, reason string) error {
	if amount <= 0 {
		return domain.NewValidationError("amount", "must be positive")
	}
	if err := s.ledgerRepo.Credit(ctx, accountID, amount, "", reason); err != nil {
		return err
	}
	logger.InfoContext(ctx, "credits granted", "account_id", accountID, "amount", amount, "reason", reason)
	return nil
}

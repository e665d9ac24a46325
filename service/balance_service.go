package service

import (
	"context"
	"fmt"

	"petbroker/models"
)

// balanceService implements the BalanceService interface
type balanceService struct {
	uowFactory UnitOfWorkFactory
}

// NewBalanceService creates a new balance service
func NewBalanceService(uowFactory UnitOfWorkFactory) BalanceService {
	return &balanceService{
		uowFactory: uowFactory,
	}
}

// GetBalances returns petName -> count for all of the user's balance entries,
// zero counts included
func (s *balanceService) GetBalances(ctx context.Context, username string) (map[string]int64, error) {
	if username == "" {
		return nil, &ValidationError{Message: "username is required"}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.PetBalanceRepository().GetByUser(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances: %w", err)
	}

	balances := make(map[string]int64, len(entries))
	for _, entry := range entries {
		balances[entry.PetName] = entry.Count
	}

	return balances, nil
}

// GetAvailablePets returns the pets a user can currently withdraw (count > 0)
func (s *balanceService) GetAvailablePets(ctx context.Context, username string) ([]*models.AvailablePet, error) {
	if username == "" {
		return nil, &ValidationError{Message: "username is required"}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	available, err := uow.PetBalanceRepository().GetAvailable(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get available pets: %w", err)
	}

	return available, nil
}

package service

import (
	"context"
	"fmt"

	"petbroker/models"
)

// DefaultHistoryLimit caps history queries when the caller does not give one
const DefaultHistoryLimit = 50

// historyService implements the HistoryService interface
type historyService struct {
	uowFactory UnitOfWorkFactory
}

// NewHistoryService creates a new history service
func NewHistoryService(uowFactory UnitOfWorkFactory) HistoryService {
	return &historyService{
		uowFactory: uowFactory,
	}
}

// GetHistory returns completed trades newest first, optionally filtered to
// one user
func (s *historyService) GetHistory(ctx context.Context, username *string, limit int) ([]*models.TradeHistoryRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	records, err := uow.TradeHistoryRepository().Query(ctx, username, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade history: %w", err)
	}

	return records, nil
}

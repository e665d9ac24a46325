package service

import (
	"context"
	"testing"

	"petbroker/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryService_GetHistory(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, _, _, _, mockHistoryRepo := newTradeServiceMocks()
	service := NewHistoryService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	records := []*models.TradeHistoryRecord{
		{Username: "alice", Type: models.TradeTypeDeposit, Status: models.TradeStatusCompleted},
	}
	mockHistoryRepo.On("Query", ctx, (*string)(nil), 10).Return(records, nil)

	result, err := service.GetHistory(ctx, nil, 10)

	require.NoError(t, err)
	assert.Equal(t, records, result)
}

func TestHistoryService_GetHistory_DefaultLimit(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, _, _, _, mockHistoryRepo := newTradeServiceMocks()
	service := NewHistoryService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	username := "alice"
	mockHistoryRepo.On("Query", ctx, &username, DefaultHistoryLimit).Return([]*models.TradeHistoryRecord{}, nil)

	// Zero and negative limits fall back to the default
	_, err := service.GetHistory(ctx, &username, 0)
	require.NoError(t, err)
	_, err = service.GetHistory(ctx, &username, -5)
	require.NoError(t, err)

	mockHistoryRepo.AssertNumberOfCalls(t, "Query", 2)
}

package service

import (
	"context"

	"petbroker/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) EnsureExists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Exists(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

// MockPetBalanceRepository is a mock implementation of PetBalanceRepository
type MockPetBalanceRepository struct {
	mock.Mock
}

func (m *MockPetBalanceRepository) GetByUser(ctx context.Context, username string) ([]*models.PetBalance, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.PetBalance), args.Error(1)
}

func (m *MockPetBalanceRepository) GetAvailable(ctx context.Context, username string) ([]*models.AvailablePet, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AvailablePet), args.Error(1)
}

func (m *MockPetBalanceRepository) GetCount(ctx context.Context, username string, petName string) (int64, error) {
	args := m.Called(ctx, username, petName)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPetBalanceRepository) Adjust(ctx context.Context, username string, petName string, delta int64) error {
	args := m.Called(ctx, username, petName, delta)
	return args.Error(0)
}

// MockTradeRequestRepository is a mock implementation of TradeRequestRepository
type MockTradeRequestRepository struct {
	mock.Mock
}

func (m *MockTradeRequestRepository) Create(ctx context.Context, request *models.TradeRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockTradeRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TradeRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TradeRequest), args.Error(1)
}

func (m *MockTradeRequestRepository) GetPendingByBot(ctx context.Context, bot string) ([]*models.TradeRequest, error) {
	args := m.Called(ctx, bot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TradeRequest), args.Error(1)
}

func (m *MockTradeRequestRepository) Resolve(ctx context.Context, username string, tradeType models.TradeType, bot string, status models.TradeStatus) (*models.TradeRequest, error) {
	args := m.Called(ctx, username, tradeType, bot, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TradeRequest), args.Error(1)
}

// MockTradeHistoryRepository is a mock implementation of TradeHistoryRepository
type MockTradeHistoryRepository struct {
	mock.Mock
}

func (m *MockTradeHistoryRepository) Append(ctx context.Context, record *models.TradeHistoryRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockTradeHistoryRepository) Query(ctx context.Context, username *string, limit int) ([]*models.TradeHistoryRecord, error) {
	args := m.Called(ctx, username, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TradeHistoryRecord), args.Error(1)
}

package service

import (
	"context"

	"petbroker/events"

	"github.com/stretchr/testify/mock"
)

// MockUnitOfWork is a mock implementation of UnitOfWork. Repositories are
// injected with SetRepositories rather than mocked per-getter so tests only
// assert on the calls that matter.
type MockUnitOfWork struct {
	mock.Mock
	userRepo         UserRepository
	petBalanceRepo   PetBalanceRepository
	tradeRequestRepo TradeRequestRepository
	tradeHistoryRepo TradeHistoryRepository
	eventBus         *MockEventPublisher
}

// SetRepositories configures the repositories returned by the getters
func (m *MockUnitOfWork) SetRepositories(users UserRepository, balances PetBalanceRepository, requests TradeRequestRepository, history TradeHistoryRepository) {
	m.userRepo = users
	m.petBalanceRepo = balances
	m.tradeRequestRepo = requests
	m.tradeHistoryRepo = history
	m.eventBus = new(MockEventPublisher)
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) PetBalanceRepository() PetBalanceRepository {
	return m.petBalanceRepo
}

func (m *MockUnitOfWork) TradeRequestRepository() TradeRequestRepository {
	return m.tradeRequestRepo
}

func (m *MockUnitOfWork) TradeHistoryRepository() TradeHistoryRepository {
	return m.tradeHistoryRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// PublishedEvents returns the events captured by the mock event bus
func (m *MockUnitOfWork) PublishedEvents() []events.Event {
	return m.eventBus.published
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

// MockEventPublisher captures published events for assertions
type MockEventPublisher struct {
	published []events.Event
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.published = append(m.published, event)
}

package service

import (
	"context"

	"petbroker/events"
	"petbroker/models"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// EnsureExists inserts the user if absent and reports whether a new record
	// was created. Safe under concurrent calls for the same username; relies
	// on the primary key, not a read-then-write.
	EnsureExists(ctx context.Context, username string) (bool, error)

	// GetByUsername retrieves a user, or nil if not found
	GetByUsername(ctx context.Context, username string) (*models.User, error)

	// Exists reports whether a user record exists
	Exists(ctx context.Context, username string) (bool, error)
}

// PetBalanceRepository defines the interface for the per-(user, pet) ledger
type PetBalanceRepository interface {
	// GetByUser returns all balance entries for a user, zero counts included
	GetByUser(ctx context.Context, username string) ([]*models.PetBalance, error)

	// GetAvailable returns entries with count > 0, ordered by pet name
	GetAvailable(ctx context.Context, username string) ([]*models.AvailablePet, error)

	// GetCount returns the current count for one pet, 0 if no entry exists
	GetCount(ctx context.Context, username string, petName string) (int64, error)

	// Adjust increments the (username, petName) counter by delta in a single
	// atomic statement, creating the entry first if absent
	Adjust(ctx context.Context, username string, petName string, delta int64) error
}

// TradeRequestRepository defines the interface for pending trade request data access
type TradeRequestRepository interface {
	// Create inserts a new pending request
	Create(ctx context.Context, request *models.TradeRequest) error

	// GetByID retrieves a request by id, or nil if not found
	GetByID(ctx context.Context, id uuid.UUID) (*models.TradeRequest, error)

	// GetPendingByBot returns all pending requests for a bot, oldest first
	GetPendingByBot(ctx context.Context, bot string) ([]*models.TradeRequest, error)

	// Resolve transitions the single pending request matching (username, type,
	// bot) to the given terminal status and returns it. Returns nil if no
	// pending request matches.
	Resolve(ctx context.Context, username string, tradeType models.TradeType, bot string, status models.TradeStatus) (*models.TradeRequest, error)
}

// TradeHistoryRepository defines the interface for the append-only trade log
type TradeHistoryRepository interface {
	// Append inserts a new history record
	Append(ctx context.Context, record *models.TradeHistoryRecord) error

	// Query returns history records newest first, optionally filtered to one
	// user, capped at limit
	Query(ctx context.Context, username *string, limit int) ([]*models.TradeHistoryRecord, error)
}

// UserService defines the interface for user registry operations
type UserService interface {
	// VerifyUser reports whether a user record exists
	VerifyUser(ctx context.Context, username string) (bool, error)
}

// BalanceService defines the interface for balance queries
type BalanceService interface {
	// GetBalances returns petName -> count for all of the user's entries
	GetBalances(ctx context.Context, username string) (map[string]int64, error)

	// GetAvailablePets returns the pets a user can currently withdraw
	GetAvailablePets(ctx context.Context, username string) ([]*models.AvailablePet, error)
}

// TradeService defines the interface for the pending request queue and the
// completion processor
type TradeService interface {
	// SubmitDeposit records a deposit intent and returns the request id
	SubmitDeposit(ctx context.Context, username, bot string, petCounts models.PetCounts, petDetails []models.PetDetail) (*models.TradeRequest, error)

	// SubmitWithdraw records a withdraw intent after an advisory balance
	// check and returns the request id
	SubmitWithdraw(ctx context.Context, username, bot string, petCounts models.PetCounts, petDetails []models.PetDetail) (*models.TradeRequest, error)

	// ListPending returns a bot's pending requests, oldest first
	ListPending(ctx context.Context, bot string) ([]*models.TradeRequest, error)

	// CompleteDeposit processes a bot's outcome report for a pending deposit
	CompleteDeposit(ctx context.Context, username, bot string, success bool, petCounts models.PetCounts, petDetails []models.PetDetail) error

	// CompleteWithdraw processes a bot's outcome report for a pending withdraw
	CompleteWithdraw(ctx context.Context, username, bot string, success bool, petCounts models.PetCounts, petDetails []models.PetDetail) error
}

// HistoryService defines the interface for completed-trade queries
type HistoryService interface {
	// GetHistory returns completed trades newest first, optionally filtered
	// to one user
	GetHistory(ctx context.Context, username *string, limit int) ([]*models.TradeHistoryRecord, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	PetBalanceRepository() PetBalanceRepository
	TradeRequestRepository() TradeRequestRepository
	TradeHistoryRepository() TradeHistoryRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

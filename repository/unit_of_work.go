package repository

import (
	"context"
	"fmt"

	"petbroker/database"
	"petbroker/events"
	"petbroker/service"

	"github.com/jackc/pgx/v5"
)

// unitOfWork implements the service.UnitOfWork interface
type unitOfWork struct {
	db               *database.DB
	tx               pgx.Tx
	ctx              context.Context
	transactionalBus *events.TransactionalBus
	userRepo         service.UserRepository
	petBalanceRepo   service.PetBalanceRepository
	tradeRequestRepo service.TradeRequestRepository
	tradeHistoryRepo service.TradeHistoryRepository
}

// NewUnitOfWorkFactory creates a new UnitOfWork factory
func NewUnitOfWorkFactory(db *database.DB, eventBus *events.Bus) service.UnitOfWorkFactory {
	return &unitOfWorkFactory{
		db:       db,
		eventBus: eventBus,
	}
}

type unitOfWorkFactory struct {
	db       *database.DB
	eventBus *events.Bus
}

func (f *unitOfWorkFactory) Create() service.UnitOfWork {
	return &unitOfWork{
		db:               f.db,
		transactionalBus: events.NewTransactionalBus(f.eventBus),
	}
}

// Begin starts a new transaction
func (u *unitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}

	tx, err := u.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	u.tx = tx
	u.ctx = ctx

	// Create repositories with the transaction
	u.userRepo = newUserRepositoryWithTx(tx)
	u.petBalanceRepo = newPetBalanceRepositoryWithTx(tx)
	u.tradeRequestRepo = newTradeRequestRepositoryWithTx(tx)
	u.tradeHistoryRepo = newTradeHistoryRepositoryWithTx(tx)

	return nil
}

// Commit commits the transaction and flushes pending events
func (u *unitOfWork) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}

	if err := u.tx.Commit(u.ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Flush(u.ctx)
	}

	return nil
}

// Rollback rolls back the transaction and discards pending events
func (u *unitOfWork) Rollback() error {
	if u.tx == nil {
		return nil // Nothing to rollback
	}

	err := u.tx.Rollback(u.ctx)
	if err != nil && err != pgx.ErrTxClosed {
		return fmt.Errorf("failed to rollback transaction: %w", err)
	}

	u.tx = nil

	if u.transactionalBus != nil {
		u.transactionalBus.Discard()
	}

	return nil
}

// UserRepository returns the user repository for this unit of work
func (u *unitOfWork) UserRepository() service.UserRepository {
	if u.userRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.userRepo
}

// PetBalanceRepository returns the pet balance repository for this unit of work
func (u *unitOfWork) PetBalanceRepository() service.PetBalanceRepository {
	if u.petBalanceRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.petBalanceRepo
}

// TradeRequestRepository returns the trade request repository for this unit of work
func (u *unitOfWork) TradeRequestRepository() service.TradeRequestRepository {
	if u.tradeRequestRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.tradeRequestRepo
}

// TradeHistoryRepository returns the trade history repository for this unit of work
func (u *unitOfWork) TradeHistoryRepository() service.TradeHistoryRepository {
	if u.tradeHistoryRepo == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.tradeHistoryRepo
}

// EventBus returns the transactional event bus for this unit of work
func (u *unitOfWork) EventBus() service.EventPublisher {
	if u.transactionalBus == nil {
		panic("unit of work not started - call Begin() first")
	}
	return u.transactionalBus
}

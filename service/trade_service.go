package service

import (
	"context"
	"fmt"

	"petbroker/events"
	"petbroker/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// tradeService implements the TradeService interface. It owns the pending
// request queue and the completion processor.
type tradeService struct {
	uowFactory UnitOfWorkFactory
}

// NewTradeService creates a new trade service
func NewTradeService(uowFactory UnitOfWorkFactory) TradeService {
	return &tradeService{
		uowFactory: uowFactory,
	}
}

// SubmitDeposit records a deposit intent. Deposits are not balance-constrained
// and always succeed, short of a duplicate pending request for the same slot.
func (s *tradeService) SubmitDeposit(ctx context.Context, username, bot string, petCounts models.PetCounts, petDetails []models.PetDetail) (*models.TradeRequest, error) {
	if err := validateSubmission(username, bot); err != nil {
		return nil, err
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	// Users are created on first contact
	created, err := uow.UserRepository().EnsureExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure user exists: %w", err)
	}
	if created {
		uow.EventBus().Publish(events.UserCreatedEvent{Username: username})
	}

	request := newTradeRequest(username, models.TradeTypeDeposit, bot, petCounts, petDetails)
	if err := uow.TradeRequestRepository().Create(ctx, request); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.TradeRequestCreatedEvent{
		RequestID: request.ID,
		Username:  username,
		TradeType: models.TradeTypeDeposit,
		Bot:       bot,
		PetCount:  len(petDetails),
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return request, nil
}

// SubmitWithdraw records a withdraw intent. Every itemized pet is checked
// against the current balance first and the whole request is rejected if any
// item's balance is not positive. The check is advisory: it does not reserve
// or lock the balance, so two concurrent submissions can both pass it before
// either inserts its request.
func (s *tradeService) SubmitWithdraw(ctx context.Context, username, bot string, petCounts models.PetCounts, petDetails []models.PetDetail) (*models.TradeRequest, error) {
	if err := validateSubmission(username, bot); err != nil {
		return nil, err
	}
	if len(petDetails) == 0 {
		return nil, &ValidationError{Message: "withdraw request must include at least one pet"}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	balanceRepo := uow.PetBalanceRepository()
	for _, pet := range petDetails {
		count, err := balanceRepo.GetCount(ctx, username, pet.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check balance for %q: %w", pet.Name, err)
		}
		if count <= 0 {
			available, err := balanceRepo.GetAvailable(ctx, username)
			if err != nil {
				return nil, fmt.Errorf("failed to get available pets: %w", err)
			}
			return nil, &InsufficientBalanceError{PetName: pet.Name, Available: available}
		}
	}

	request := newTradeRequest(username, models.TradeTypeWithdraw, bot, petCounts, petDetails)
	if err := uow.TradeRequestRepository().Create(ctx, request); err != nil {
		return nil, err
	}

	uow.EventBus().Publish(events.TradeRequestCreatedEvent{
		RequestID: request.ID,
		Username:  username,
		TradeType: models.TradeTypeWithdraw,
		Bot:       bot,
		PetCount:  len(petDetails),
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return request, nil
}

// ListPending returns a bot's pending requests, oldest first
func (s *tradeService) ListPending(ctx context.Context, bot string) ([]*models.TradeRequest, error) {
	if bot == "" {
		return nil, &ValidationError{Message: "bot is required"}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	requests, err := uow.TradeRequestRepository().GetPendingByBot(ctx, bot)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending requests: %w", err)
	}

	return requests, nil
}

// CompleteDeposit processes a bot's outcome report for a pending deposit.
// On success each itemized pet is credited one unit and one history record is
// appended for the batch.
func (s *tradeService) CompleteDeposit(ctx context.Context, username, bot string, success bool, petCounts models.PetCounts, petDetails []models.PetDetail) error {
	return s.complete(ctx, username, models.TradeTypeDeposit, bot, success, petCounts, petDetails, 1)
}

// CompleteWithdraw processes a bot's outcome report for a pending withdraw.
// On success each itemized pet is debited one unit; no balance floor is
// re-checked, so a stale advisory check can drive a count negative.
func (s *tradeService) CompleteWithdraw(ctx context.Context, username, bot string, success bool, petCounts models.PetCounts, petDetails []models.PetDetail) error {
	return s.complete(ctx, username, models.TradeTypeWithdraw, bot, success, petCounts, petDetails, -1)
}

// complete runs the full completion sequence in one transaction: status
// transition, per-unit balance adjustments, history append. A report that
// finds no pending request is a detectable no-op - nothing fires.
func (s *tradeService) complete(ctx context.Context, username string, tradeType models.TradeType, bot string, success bool, petCounts models.PetCounts, petDetails []models.PetDetail, direction int64) error {
	if username == "" {
		return &ValidationError{Message: "username is required"}
	}
	if bot == "" {
		return &ValidationError{Message: "bot is required"}
	}

	status := models.TradeStatusCompleted
	if !success {
		status = models.TradeStatusFailed
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	resolved, err := uow.TradeRequestRepository().Resolve(ctx, username, tradeType, bot, status)
	if err != nil {
		return fmt.Errorf("failed to resolve trade request: %w", err)
	}
	if resolved == nil {
		return ErrNoPendingRequest
	}

	petNames := make([]string, 0, len(petDetails))
	if success {
		balanceRepo := uow.PetBalanceRepository()
		for _, pet := range petDetails {
			if err := balanceRepo.Adjust(ctx, username, pet.Name, direction); err != nil {
				return fmt.Errorf("failed to adjust balance for %q: %w", pet.Name, err)
			}
			petNames = append(petNames, pet.Name)
			uow.EventBus().Publish(events.BalanceChangeEvent{
				Username: username,
				PetName:  pet.Name,
				Delta:    direction,
			})
		}

		record := &models.TradeHistoryRecord{
			Username:   username,
			Type:       tradeType,
			Bot:        bot,
			PetCounts:  petCounts,
			PetDetails: petDetails,
			Status:     models.TradeStatusCompleted,
		}
		if err := uow.TradeHistoryRepository().Append(ctx, record); err != nil {
			return fmt.Errorf("failed to append trade history: %w", err)
		}
	}

	uow.EventBus().Publish(events.TradeResolvedEvent{
		RequestID: resolved.ID,
		Username:  username,
		TradeType: tradeType,
		Bot:       bot,
		Status:    status,
		PetNames:  petNames,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"requestId": resolved.ID,
		"username":  username,
		"type":      tradeType,
		"bot":       bot,
		"status":    status,
	}).Info("Trade request resolved")

	return nil
}

func validateSubmission(username, bot string) error {
	if username == "" {
		return &ValidationError{Message: "username is required"}
	}
	if bot == "" {
		return &ValidationError{Message: "bot is required"}
	}
	return nil
}

func newTradeRequest(username string, tradeType models.TradeType, bot string, petCounts models.PetCounts, petDetails []models.PetDetail) *models.TradeRequest {
	if petCounts == nil {
		petCounts = models.PetCounts{"total": int64(len(petDetails))}
	}
	if petDetails == nil {
		petDetails = []models.PetDetail{}
	}
	return &models.TradeRequest{
		ID:         uuid.New(),
		Username:   username,
		Type:       tradeType,
		Bot:        bot,
		PetCounts:  petCounts,
		PetDetails: petDetails,
		Status:     models.TradeStatusPending,
	}
}

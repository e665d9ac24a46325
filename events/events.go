package events

import (
	"context"
	"sync"

	"petbroker/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeUserCreated         EventType = "user_created"
	EventTypeTradeRequestCreated EventType = "trade_request_created"
	EventTypeTradeResolved       EventType = "trade_resolved"
	EventTypeBalanceChange       EventType = "balance_change"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// UserCreatedEvent represents a user record created on first contact
type UserCreatedEvent struct {
	Username string
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// TradeRequestCreatedEvent represents a new pending deposit or withdraw request
type TradeRequestCreatedEvent struct {
	RequestID uuid.UUID
	Username  string
	TradeType models.TradeType
	Bot       string
	PetCount  int
}

func (e TradeRequestCreatedEvent) Type() EventType {
	return EventTypeTradeRequestCreated
}

// TradeResolvedEvent represents a pending request resolved by a bot's
// completion report
type TradeResolvedEvent struct {
	RequestID uuid.UUID
	Username  string
	TradeType models.TradeType
	Bot       string
	Status    models.TradeStatus
	PetNames  []string
}

func (e TradeResolvedEvent) Type() EventType {
	return EventTypeTradeResolved
}

// BalanceChangeEvent represents a per-pet balance adjustment
type BalanceChangeEvent struct {
	Username string
	PetName  string
	Delta    int64
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking the caller
	for _, handler := range handlers {
		go func(h Handler) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType": event.Type(),
						"panic":     r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler)
	}
}

// TransactionalBus stashes events published during a unit of work and flushes
// them to the underlying bus only after the transaction commits.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits all pending events. Called after a successful commit.
func (b *TransactionalBus) Flush(ctx context.Context) error {
	// Events are processed independently of the transaction lifecycle, so a
	// background context is used in case the request context is already done.
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
	return nil
}

// Discard drops all pending events. Called after rollback.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}

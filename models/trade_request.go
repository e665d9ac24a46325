package models

import (
	"time"

	"github.com/google/uuid"
)

// TradeType represents the direction of a trade request
type TradeType string

const (
	TradeTypeDeposit  TradeType = "deposit"
	TradeTypeWithdraw TradeType = "withdraw"
)

// TradeStatus represents the lifecycle state of a trade request
type TradeStatus string

const (
	TradeStatusPending   TradeStatus = "pending"
	TradeStatusCompleted TradeStatus = "completed"
	TradeStatusFailed    TradeStatus = "failed"
)

// PetCounts is the summary portion of a request manifest, e.g. {"total": 3}
type PetCounts map[string]int64

// PetDetail is one itemized pet in a request manifest. Only Name participates
// in ledger math (one unit per entry); the remaining attributes are stored as
// submitted and echoed back to clients.
type PetDetail struct {
	Name     string `json:"name"`
	Rarity   string `json:"rarity,omitempty"`
	Flyable  bool   `json:"flyable,omitempty"`
	Rideable bool   `json:"rideable,omitempty"`
}

// TradeRequest represents a recorded intent to deposit or withdraw pets,
// awaiting execution by a bot. It transitions exactly once from pending to
// completed or failed and is never deleted; resolved requests remain as an
// audit trail.
type TradeRequest struct {
	ID          uuid.UUID   `db:"id" json:"requestId"`
	Username    string      `db:"username" json:"username"`
	Type        TradeType   `db:"type" json:"type"`
	Bot         string      `db:"bot" json:"bot"`
	PetCounts   PetCounts   `db:"pet_counts" json:"petCounts"`
	PetDetails  []PetDetail `db:"pet_details" json:"petDetails"`
	Status      TradeStatus `db:"status" json:"status"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	CompletedAt *time.Time  `db:"completed_at" json:"completedAt,omitempty"`
}

package models

import (
	"time"
)

// TradeHistoryRecord is one append-only record of a successfully completed
// trade. Records are immutable after insertion; failed completions never
// produce one.
type TradeHistoryRecord struct {
	ID         int64       `db:"id" json:"id"`
	Username   string      `db:"username" json:"username"`
	Type       TradeType   `db:"type" json:"type"`
	Bot        string      `db:"bot" json:"bot"`
	PetCounts  PetCounts   `db:"pet_counts" json:"petCounts"`
	PetDetails []PetDetail `db:"pet_details" json:"petDetails"`
	Status     TradeStatus `db:"status" json:"status"`
	CreatedAt  time.Time   `db:"created_at" json:"timestamp"`
}

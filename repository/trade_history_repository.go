package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"petbroker/database"
	"petbroker/models"
)

// TradeHistoryRepository implements the service.TradeHistoryRepository interface
type TradeHistoryRepository struct {
	q queryable
}

// NewTradeHistoryRepository creates a new trade history repository
func NewTradeHistoryRepository(db *database.DB) *TradeHistoryRepository {
	return &TradeHistoryRepository{q: db.Pool}
}

// newTradeHistoryRepositoryWithTx creates a new trade history repository with a transaction
func newTradeHistoryRepositoryWithTx(tx queryable) *TradeHistoryRepository {
	return &TradeHistoryRepository{q: tx}
}

// Append inserts a new history record. Records are append-only; nothing in
// the codebase updates or deletes them.
func (r *TradeHistoryRepository) Append(ctx context.Context, record *models.TradeHistoryRecord) error {
	countsJSON, err := json.Marshal(record.PetCounts)
	if err != nil {
		return fmt.Errorf("failed to marshal pet counts: %w", err)
	}
	detailsJSON, err := json.Marshal(record.PetDetails)
	if err != nil {
		return fmt.Errorf("failed to marshal pet details: %w", err)
	}

	query := `
		INSERT INTO trade_history (username, type, bot, pet_counts, pet_details, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err = r.q.QueryRow(ctx, query,
		record.Username,
		record.Type,
		record.Bot,
		countsJSON,
		detailsJSON,
		record.Status,
	).Scan(&record.ID, &record.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to append trade history for user %q: %w", record.Username, err)
	}

	return nil
}

// Query returns history records newest first, optionally filtered to one
// user, capped at limit
func (r *TradeHistoryRepository) Query(ctx context.Context, username *string, limit int) ([]*models.TradeHistoryRecord, error) {
	query := `
		SELECT id, username, type, bot, pet_counts, pet_details, status, created_at
		FROM trade_history
		WHERE $1::text IS NULL OR username = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, username, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade history: %w", err)
	}
	defer rows.Close()

	var records []*models.TradeHistoryRecord
	for rows.Next() {
		var record models.TradeHistoryRecord
		var countsJSON, detailsJSON []byte

		err := rows.Scan(
			&record.ID,
			&record.Username,
			&record.Type,
			&record.Bot,
			&countsJSON,
			&detailsJSON,
			&record.Status,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade history record: %w", err)
		}

		if len(countsJSON) > 0 {
			if err := json.Unmarshal(countsJSON, &record.PetCounts); err != nil {
				return nil, fmt.Errorf("failed to unmarshal pet counts: %w", err)
			}
		}
		if len(detailsJSON) > 0 {
			if err := json.Unmarshal(detailsJSON, &record.PetDetails); err != nil {
				return nil, fmt.Errorf("failed to unmarshal pet details: %w", err)
			}
		}

		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trade history: %w", err)
	}

	return records, nil
}

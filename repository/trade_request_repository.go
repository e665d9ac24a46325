package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"petbroker/database"
	"petbroker/models"
	"petbroker/service"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TradeRequestRepository implements the service.TradeRequestRepository interface
type TradeRequestRepository struct {
	q queryable
}

// NewTradeRequestRepository creates a new trade request repository
func NewTradeRequestRepository(db *database.DB) *TradeRequestRepository {
	return &TradeRequestRepository{q: db.Pool}
}

// newTradeRequestRepositoryWithTx creates a new trade request repository with a transaction
func newTradeRequestRepositoryWithTx(tx queryable) *TradeRequestRepository {
	return &TradeRequestRepository{q: tx}
}

// Create inserts a new pending request. The partial unique index on
// (username, type, bot) WHERE status = 'pending' rejects a second outstanding
// request for the same slot; that violation surfaces as
// service.ErrPendingRequestExists.
func (r *TradeRequestRepository) Create(ctx context.Context, request *models.TradeRequest) error {
	countsJSON, err := json.Marshal(request.PetCounts)
	if err != nil {
		return fmt.Errorf("failed to marshal pet counts: %w", err)
	}
	detailsJSON, err := json.Marshal(request.PetDetails)
	if err != nil {
		return fmt.Errorf("failed to marshal pet details: %w", err)
	}

	query := `
		INSERT INTO trade_requests (id, username, type, bot, pet_counts, pet_details, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`

	err = r.q.QueryRow(ctx, query,
		request.ID,
		request.Username,
		request.Type,
		request.Bot,
		countsJSON,
		detailsJSON,
		request.Status,
	).Scan(&request.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return service.ErrPendingRequestExists
		}
		return fmt.Errorf("failed to create trade request for user %q: %w", request.Username, err)
	}

	return nil
}

// GetByID retrieves a request by id, or nil if not found
func (r *TradeRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.TradeRequest, error) {
	query := `
		SELECT id, username, type, bot, pet_counts, pet_details, status, created_at, completed_at
		FROM trade_requests
		WHERE id = $1
	`

	request, err := scanTradeRequest(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get trade request %s: %w", id, err)
	}

	return request, nil
}

// GetPendingByBot returns all pending requests for a bot, oldest first so the
// bot's processing loop is FIFO-fair
func (r *TradeRequestRepository) GetPendingByBot(ctx context.Context, bot string) ([]*models.TradeRequest, error) {
	query := `
		SELECT id, username, type, bot, pet_counts, pet_details, status, created_at, completed_at
		FROM trade_requests
		WHERE bot = $1 AND status = 'pending'
		ORDER BY created_at ASC
	`

	rows, err := r.q.Query(ctx, query, bot)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending requests for bot %q: %w", bot, err)
	}
	defer rows.Close()

	var requests []*models.TradeRequest
	for rows.Next() {
		request, err := scanTradeRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade request: %w", err)
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trade requests: %w", err)
	}

	return requests, nil
}

// Resolve transitions the single pending request matching (username, type,
// bot) to the given terminal status and returns it. Returns nil if no pending
// request matches, which is how a duplicate or misdirected completion report
// is detected.
func (r *TradeRequestRepository) Resolve(ctx context.Context, username string, tradeType models.TradeType, bot string, status models.TradeStatus) (*models.TradeRequest, error) {
	query := `
		UPDATE trade_requests
		SET status = $4, completed_at = NOW()
		WHERE username = $1 AND type = $2 AND bot = $3 AND status = 'pending'
		RETURNING id, username, type, bot, pet_counts, pet_details, status, created_at, completed_at
	`

	request, err := scanTradeRequest(r.q.QueryRow(ctx, query, username, tradeType, bot, status))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve trade request for user %q bot %q: %w", username, bot, err)
	}

	return request, nil
}

// scanTradeRequest scans one trade request row, decoding the jsonb manifest
func scanTradeRequest(row pgx.Row) (*models.TradeRequest, error) {
	var request models.TradeRequest
	var countsJSON, detailsJSON []byte

	err := row.Scan(
		&request.ID,
		&request.Username,
		&request.Type,
		&request.Bot,
		&countsJSON,
		&detailsJSON,
		&request.Status,
		&request.CreatedAt,
		&request.CompletedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(countsJSON) > 0 {
		if err := json.Unmarshal(countsJSON, &request.PetCounts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal pet counts: %w", err)
		}
	}
	if len(detailsJSON) > 0 {
		if err := json.Unmarshal(detailsJSON, &request.PetDetails); err != nil {
			return nil, fmt.Errorf("failed to unmarshal pet details: %w", err)
		}
	}

	return &request, nil
}

package repository

import (
	"context"
	"fmt"

	"petbroker/database"
	"petbroker/models"
)

// PetBalanceRepository implements the service.PetBalanceRepository interface
type PetBalanceRepository struct {
	q queryable
}

// NewPetBalanceRepository creates a new pet balance repository
func NewPetBalanceRepository(db *database.DB) *PetBalanceRepository {
	return &PetBalanceRepository{q: db.Pool}
}

// newPetBalanceRepositoryWithTx creates a new pet balance repository with a transaction
func newPetBalanceRepositoryWithTx(tx queryable) *PetBalanceRepository {
	return &PetBalanceRepository{q: tx}
}

// GetByUser returns all balance entries for a user, zero counts included
func (r *PetBalanceRepository) GetByUser(ctx context.Context, username string) ([]*models.PetBalance, error) {
	query := `
		SELECT id, username, pet_name, count, created_at, updated_at
		FROM pet_balances
		WHERE username = $1
		ORDER BY pet_name
	`

	rows, err := r.q.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get balances for user %q: %w", username, err)
	}
	defer rows.Close()

	var balances []*models.PetBalance
	for rows.Next() {
		var balance models.PetBalance
		err := rows.Scan(
			&balance.ID,
			&balance.Username,
			&balance.PetName,
			&balance.Count,
			&balance.CreatedAt,
			&balance.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan balance: %w", err)
		}
		balances = append(balances, &balance)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate balances: %w", err)
	}

	return balances, nil
}

// GetAvailable returns entries with count > 0, ordered by pet name
func (r *PetBalanceRepository) GetAvailable(ctx context.Context, username string) ([]*models.AvailablePet, error) {
	query := `
		SELECT pet_name, count
		FROM pet_balances
		WHERE username = $1 AND count > 0
		ORDER BY pet_name
	`

	rows, err := r.q.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get available pets for user %q: %w", username, err)
	}
	defer rows.Close()

	available := []*models.AvailablePet{}
	for rows.Next() {
		var pet models.AvailablePet
		if err := rows.Scan(&pet.Name, &pet.Count); err != nil {
			return nil, fmt.Errorf("failed to scan available pet: %w", err)
		}
		available = append(available, &pet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate available pets: %w", err)
	}

	return available, nil
}

// GetCount returns the current count for one pet, 0 if no entry exists
func (r *PetBalanceRepository) GetCount(ctx context.Context, username string, petName string) (int64, error) {
	query := `
		SELECT COALESCE(
			(SELECT count FROM pet_balances WHERE username = $1 AND pet_name = $2),
			0
		)
	`

	var count int64
	if err := r.q.QueryRow(ctx, query, username, petName).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get count for user %q pet %q: %w", username, petName, err)
	}

	return count, nil
}

// Adjust increments the (username, petName) counter by delta in a single
// atomic statement, creating the entry at the delta if absent. Application
// code never reads-then-writes the counter, so concurrent completions for the
// same user cannot lose updates.
func (r *PetBalanceRepository) Adjust(ctx context.Context, username string, petName string, delta int64) error {
	query := `
		INSERT INTO pet_balances (username, pet_name, count)
		VALUES ($1, $2, $3)
		ON CONFLICT (username, pet_name)
		DO UPDATE SET count = pet_balances.count + $3, updated_at = NOW()
	`

	if _, err := r.q.Exec(ctx, query, username, petName, delta); err != nil {
		return fmt.Errorf("failed to adjust balance for user %q pet %q: %w", username, petName, err)
	}

	return nil
}

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// createTestUser inserts a user record, failing the test on error
func createTestUser(t *testing.T, repo *UserRepository, ctx context.Context, username string) {
	t.Helper()
	_, err := repo.EnsureExists(ctx, username)
	require.NoError(t, err)
}

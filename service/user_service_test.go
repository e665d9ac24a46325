package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_VerifyUser(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		username string
		exists   bool
		expected bool
	}{
		{name: "known user", username: "alice", exists: true, expected: true},
		{name: "unknown user", username: "mallory", exists: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUoW, mockFactory, mockUserRepo, _, _, _ := newTradeServiceMocks()
			service := NewUserService(mockFactory)

			mockUoW.On("Begin", ctx).Return(nil)
			mockUoW.On("Rollback").Return(nil)
			mockUserRepo.On("Exists", ctx, tt.username).Return(tt.exists, nil)

			verified, err := service.VerifyUser(ctx, tt.username)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, verified)
			mockUserRepo.AssertExpectations(t)
		})
	}
}

func TestUserService_VerifyUser_MissingUsername(t *testing.T) {
	ctx := context.Background()

	_, mockFactory, _, _, _, _ := newTradeServiceMocks()
	service := NewUserService(mockFactory)

	_, err := service.VerifyUser(ctx, "")

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	mockFactory.AssertNotCalled(t, "Create")
}

func TestUserService_VerifyUser_RepositoryError(t *testing.T) {
	ctx := context.Background()

	mockUoW, mockFactory, mockUserRepo, _, _, _ := newTradeServiceMocks()
	service := NewUserService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("Exists", ctx, "alice").Return(false, errors.New("database error"))

	verified, err := service.VerifyUser(ctx, "alice")

	require.Error(t, err)
	assert.False(t, verified)
}

package service

import (
	"context"
	"fmt"
)

// userService implements the UserService interface
type userService struct {
	uowFactory UnitOfWorkFactory
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory) UserService {
	return &userService{
		uowFactory: uowFactory,
	}
}

// VerifyUser reports whether a user record exists
func (s *userService) VerifyUser(ctx context.Context, username string) (bool, error) {
	if username == "" {
		return false, &ValidationError{Message: "username is required"}
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	exists, err := uow.UserRepository().Exists(ctx, username)
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}

	return exists, nil
}

package service

import (
	"errors"
	"fmt"

	"petbroker/models"
)

// ErrNoPendingRequest is returned when a completion report targets a
// (username, type, bot) slot with no outstanding pending request. The report
// is a detectable no-op: no status transition, balance mutation, or history
// append takes place.
var ErrNoPendingRequest = errors.New("no matching pending trade request")

// ErrPendingRequestExists is returned when a submission targets a
// (username, type, bot) slot that already holds a pending request.
var ErrPendingRequestExists = errors.New("a pending trade request of this type already exists for this bot")

// InsufficientBalanceError rejects a withdrawal naming the offending pet and
// carrying the user's current available pets so the caller can retry correctly.
type InsufficientBalanceError struct {
	PetName   string
	Available []*models.AvailablePet
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("Insufficient pets for withdrawal: %s", e.PetName)
}

// ValidationError rejects a request before any state is mutated
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation           = errors.New("validation failed")
	ErrDealNotFound         = errors.New("deal not found")
	ErrInvalidTransition    = errors.New("invalid deal transition")
	ErrPaymentNotSuccessful = errors.New("payment not successful")
	ErrGatewayUnavailable   = errors.New("payment gateway unavailable")
	ErrConflict             = errors.New("deal already exists")
	// ErrStatusMismatch is returned by a store when a conditional update finds
	// the deal in a status other than the expected one.
	ErrStatusMismatch = errors.New("deal status changed concurrently")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

type TransitionError struct {
	DealID    string
	Status    DealStatus
	Operation Operation
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s deal %s in status %s", e.Operation, e.DealID, e.Status)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrDealInProgress rejects starting a deal while one is already live
	// for the rubber; ErrNoActiveDeal is its counterpart for call and
	// finish operations without a live deal.
	ErrDealInProgress = errors.New("a deal is already in progress")
	ErrNoActiveDeal   = errors.New("no deal in progress")
)

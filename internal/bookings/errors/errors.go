package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrInvalidID = errors.New("invalid booking ID format")

	ErrNoTransition = errors.New("booking is not in the expected status")

	ErrDuplicatePayment = errors.New("payment reference already recorded")

	ErrLockHeld = errors.New("slot lock is held by another request")
)

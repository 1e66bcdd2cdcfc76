package services

import "errors"

// Engine failure taxonomy. All of these are local, recoverable
// conditions returned to the caller as tagged results; nothing is
// thrown across component boundaries and nothing is retried.
var (
	ErrInvalidKey        = errors.New("invalid license key")
	ErrNoDeposit         = errors.New("no deposit on record")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrClockAnomaly      = errors.New("stored deposit time is not in the past")
)

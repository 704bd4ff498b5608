package types

import "errors"

var (
	// ErrLedgerBusy indicates the write lock could not be acquired in time.
	ErrLedgerBusy = errors.New("ledger busy")
	// ErrInvalidLimits indicates a non-positive action count or window.
	ErrInvalidLimits = errors.New("invalid quota limits")
	// ErrInvalidVote indicates a vote value other than +1 or -1.
	ErrInvalidVote = errors.New("invalid vote value")
	// ErrScoreOutOfRange indicates an admin override outside the allowed bound.
	ErrScoreOutOfRange = errors.New("score out of range")
)

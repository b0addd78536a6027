package tender

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates the caller isn't the tender administrator.
	ErrUnauthorized = errors.New("only the administrator can perform this action")
	// ErrWrongPhase indicates the operation isn't allowed in the current phase.
	ErrWrongPhase = errors.New("operation not allowed in current phase")
	// ErrRevealWindowClosed indicates the reveal deadline has passed.
	ErrRevealWindowClosed = errors.New("reveal window closed")
	// ErrRevealNotOpen is matched by any reveal rejected because of phase or time.
	ErrRevealNotOpen = errors.New("reveal not open")
	// ErrCommitmentMismatch indicates the revealed value and salt don't hash to the commitment.
	ErrCommitmentMismatch = errors.New("revealed bid doesn't match commitment")
	// ErrAlreadyCommitted indicates the caller already submitted a commitment.
	ErrAlreadyCommitted = errors.New("bid already committed")
	// ErrNoSuchBid indicates there's no commitment for the identity.
	ErrNoSuchBid = errors.New("bid not found")
	// ErrNoRevealedBids indicates there's no revealed bid to select a winner from.
	ErrNoRevealedBids = errors.New("no revealed bids")
	// ErrInvalidCommitment indicates a malformed commitment.
	ErrInvalidCommitment = errors.New("invalid commitment")
	// ErrInvalidConfig indicates invalid tender creation parameters.
	ErrInvalidConfig = errors.New("invalid tender config")
)

// RevealNotOpenError is returned when a reveal is rejected because the tender
// isn't in the reveal phase or the reveal deadline passed. It matches both
// ErrRevealNotOpen and its cause.
type RevealNotOpenError struct {
	Cause error
}

// NewRevealNotOpenError wraps cause.
func NewRevealNotOpenError(cause error) error {
	return &RevealNotOpenError{Cause: cause}
}

func (e *RevealNotOpenError) Error() string {
	return fmt.Sprintf("%s: %s", ErrRevealNotOpen, e.Cause)
}

// Unwrap returns the cause.
func (e *RevealNotOpenError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is ErrRevealNotOpen.
func (e *RevealNotOpenError) Is(target error) bool {
	return target == ErrRevealNotOpen
}

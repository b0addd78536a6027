package tender

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Phase is the phase of a tender.
type Phase int

const (
	// PhaseCommit indicates bidders can submit sealed commitments.
	PhaseCommit Phase = iota
	// PhaseReveal indicates bidders can disclose the value behind their commitment.
	PhaseReveal
	// PhaseClosed indicates a winner was selected. It is terminal.
	PhaseClosed
)

// String returns a string-encoded phase.
func (p Phase) String() string {
	switch p {
	case PhaseCommit:
		return "commit"
	case PhaseReveal:
		return "reveal"
	case PhaseClosed:
		return "closed"
	default:
		return "invalid"
	}
}

// ParsePhase parses a string-encoded phase.
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "commit":
		return PhaseCommit, nil
	case "reveal":
		return PhaseReveal, nil
	case "closed":
		return PhaseClosed, nil
	default:
		return 0, fmt.Errorf("unknown phase %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Phase) UnmarshalText(text []byte) error {
	parsed, err := ParsePhase(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Info defines the tender header.
type Info struct {
	Administrator common.Address
	RevealEndTime time.Time
	Phase         Phase
	Winner        *common.Address
	CreatedAt     time.Time
}

// Bid defines the core bid model.
// Value is only meaningful when Revealed is true.
type Bid struct {
	Bidder      common.Address
	Commitment  Commitment
	Value       uint64
	Revealed    bool
	Seq         uint64
	CommittedAt time.Time
	RevealedAt  time.Time
}

// Tender runs a sealed-bid procurement auction with a commit-reveal scheme.
// The lowest revealed bid wins.
type Tender interface {
	// GetCommitment returns the commitment a bidder has to submit for value and salt.
	GetCommitment(value uint64, salt Salt, bidder common.Address) Commitment

	// CommitBid submits a sealed bid for caller.
	CommitBid(ctx context.Context, caller common.Address, now time.Time, c Commitment) (Bid, error)

	// StartRevealPhase closes the commit window. Only the administrator can call it.
	StartRevealPhase(ctx context.Context, caller common.Address, now time.Time) error

	// RevealBid discloses the value and salt behind the caller commitment.
	RevealBid(ctx context.Context, caller common.Address, now time.Time, value uint64, salt Salt) (Bid, error)

	// SelectWinner closes the tender selecting the lowest revealed bid.
	// Only the administrator can call it.
	SelectWinner(ctx context.Context, caller common.Address, now time.Time) (Bid, error)

	// GetBidInfo returns the bid of bidder.
	GetBidInfo(ctx context.Context, bidder common.Address) (Bid, error)

	// ListBids returns all bids in commit order.
	ListBids(ctx context.Context) ([]Bid, error)

	// GetRevealTimeEnd returns the instant at which reveals stop being accepted.
	GetRevealTimeEnd() time.Time

	// Info returns the tender header.
	Info() Info
}

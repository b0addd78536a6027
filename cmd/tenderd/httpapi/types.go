package httpapi

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/textileio/tender-core/tender"
)

// Tender is the JSON representation of the tender header.
type Tender struct {
	Administrator common.Address  `json:"administrator"`
	RevealEndTime time.Time       `json:"reveal_end_time"`
	Phase         tender.Phase    `json:"phase"`
	Winner        *common.Address `json:"winner,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func newTender(info tender.Info) Tender {
	return Tender{
		Administrator: info.Administrator,
		RevealEndTime: info.RevealEndTime,
		Phase:         info.Phase,
		Winner:        info.Winner,
		CreatedAt:     info.CreatedAt,
	}
}

// Info returns the tender header.
func (t Tender) Info() tender.Info {
	return tender.Info{
		Administrator: t.Administrator,
		RevealEndTime: t.RevealEndTime,
		Phase:         t.Phase,
		Winner:        t.Winner,
		CreatedAt:     t.CreatedAt,
	}
}

// Bid is the JSON representation of a bid. Value is encoded as a string so
// it survives JSON decoders without 64-bit integers.
type Bid struct {
	Bidder      common.Address    `json:"bidder"`
	Commitment  tender.Commitment `json:"commitment"`
	Value       uint64            `json:"value,string"`
	Revealed    bool              `json:"revealed"`
	Seq         uint64            `json:"seq"`
	CommittedAt time.Time         `json:"committed_at"`
	RevealedAt  *time.Time        `json:"revealed_at,omitempty"`
}

func newBid(b tender.Bid) Bid {
	bid := Bid{
		Bidder:      b.Bidder,
		Commitment:  b.Commitment,
		Value:       b.Value,
		Revealed:    b.Revealed,
		Seq:         b.Seq,
		CommittedAt: b.CommittedAt,
	}
	if b.Revealed {
		revealedAt := b.RevealedAt
		bid.RevealedAt = &revealedAt
	}
	return bid
}

// Bid returns the bid model.
func (b Bid) Bid() tender.Bid {
	bid := tender.Bid{
		Bidder:      b.Bidder,
		Commitment:  b.Commitment,
		Value:       b.Value,
		Revealed:    b.Revealed,
		Seq:         b.Seq,
		CommittedAt: b.CommittedAt,
	}
	if b.RevealedAt != nil {
		bid.RevealedAt = *b.RevealedAt
	}
	return bid
}

// ListBidsResponse is the response of GET /bids.
type ListBidsResponse struct {
	Bids []Bid `json:"bids"`
}

// RevealEndTimeResponse is the response of GET /tender/reveal-end-time.
type RevealEndTimeResponse struct {
	RevealEndTime time.Time `json:"reveal_end_time"`
}

// CommitmentRequest is the request of POST /commitment.
type CommitmentRequest struct {
	Value  uint64         `json:"value,string"`
	Salt   tender.Salt    `json:"salt"`
	Bidder common.Address `json:"bidder"`
}

// CommitmentResponse is the response of POST /commitment.
type CommitmentResponse struct {
	Commitment tender.Commitment `json:"commitment"`
}

// CommitBidRequest is the request of POST /bids.
type CommitBidRequest struct {
	Commitment tender.Commitment `json:"commitment"`
}

// RevealBidRequest is the request of POST /bids/reveal.
type RevealBidRequest struct {
	Value uint64      `json:"value,string"`
	Salt  tender.Salt `json:"salt"`
}

// ErrorResponse is the body of every error response. Code is the primary
// code of a ledger error and Codes lists every code it matches; both are
// empty for errors raised before reaching the ledger.
type ErrorResponse struct {
	Error string   `json:"error"`
	Code  string   `json:"code,omitempty"`
	Codes []string `json:"codes,omitempty"`
}

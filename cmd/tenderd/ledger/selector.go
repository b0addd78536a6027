package ledger

import (
	"github.com/textileio/tender-core/tender"
)

// Cmp is the interface for a comparator.
type Cmp interface {
	// Cmp returns arbitrary number with the following semantics:
	// negative: i is considered to be better than j
	// zero: i is considered to be equal to j
	// positive: i is considered to be worse than j
	Cmp(i tender.Bid, j tender.Bid) int
}

// CmpFn is a helper which turns a function to a Cmp interface.
func CmpFn(f func(i tender.Bid, j tender.Bid) int) Cmp {
	return fnCmp{f: f}
}

type fnCmp struct {
	f func(tender.Bid, tender.Bid) int
}

func (c fnCmp) Cmp(i tender.Bid, j tender.Bid) int {
	return c.f(i, j)
}

type ordered struct {
	cmps []Cmp
}

// Ordered executes each comparator in order, i.e., if the first comparator
// judges the two bids to be equal, continues to the next comparator, and so
// on. It considers two bids to be equal if all comparators are exhausted.
func Ordered(cmps ...Cmp) Cmp {
	return ordered{cmps}
}

func (c ordered) Cmp(i tender.Bid, j tender.Bid) int {
	for _, c := range c.cmps {
		if result := c.Cmp(i, j); result != 0 {
			return result
		}
	}
	return 0
}

// LowerValue returns a comparator which prefers the lower revealed value.
// Values are uint64 so only the sign is returned.
func LowerValue() Cmp {
	return CmpFn(func(i tender.Bid, j tender.Bid) int {
		switch {
		case i.Value < j.Value:
			return -1
		case i.Value > j.Value:
			return 1
		default:
			return 0
		}
	})
}

// EarlierCommit returns a comparator which prefers the bid committed first.
func EarlierCommit() Cmp {
	return CmpFn(func(i tender.Bid, j tender.Bid) int {
		switch {
		case i.Seq < j.Seq:
			return -1
		case i.Seq > j.Seq:
			return 1
		default:
			return 0
		}
	})
}

// WinnerCmp is the comparator used to select a tender winner: lowest value,
// earliest commitment on ties. It's a total order since Seq is unique.
func WinnerCmp() Cmp {
	return Ordered(LowerValue(), EarlierCommit())
}

// Best returns the best bid according to cmp. The first of equal bids wins.
// It returns false if bids is empty.
func Best(bids []tender.Bid, cmp Cmp) (tender.Bid, bool) {
	if len(bids) == 0 {
		return tender.Bid{}, false
	}
	best := bids[0]
	for _, b := range bids[1:] {
		if cmp.Cmp(b, best) < 0 {
			best = b
		}
	}
	return best, true
}

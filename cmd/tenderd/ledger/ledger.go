package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	logging "github.com/textileio/go-log/v2"
	"github.com/textileio/tender-core/metrics"
	"github.com/textileio/tender-core/tender"
	"go.opentelemetry.io/otel/metric"
)

var (
	log = logging.Logger("tender/ledger")

	// rejections are errors caused by the caller rather than by the ledger or its store.
	rejections = []error{
		tender.ErrUnauthorized,
		tender.ErrWrongPhase,
		tender.ErrRevealWindowClosed,
		tender.ErrCommitmentMismatch,
		tender.ErrAlreadyCommitted,
		tender.ErrNoSuchBid,
		tender.ErrNoRevealedBids,
		tender.ErrInvalidCommitment,
	}
)

// Store persists the ledger state. Every write is expected to be atomic.
type Store interface {
	// LoadTender returns the persisted tender header and its bids ordered by
	// Seq. The returned bool is false if nothing was persisted yet.
	LoadTender(ctx context.Context) (tender.Info, []tender.Bid, bool, error)
	// SaveTender creates or replaces the tender header.
	SaveTender(ctx context.Context, info tender.Info) error
	// CreateBid persists a new bid. It returns tender.ErrAlreadyCommitted if
	// the bidder already has one.
	CreateBid(ctx context.Context, bid tender.Bid) error
	// UpdateBid replaces an existing bid.
	UpdateBid(ctx context.Context, bid tender.Bid) error
}

// Config contains the tender creation parameters.
type Config struct {
	Administrator common.Address
	RevealEndTime time.Time
}

func (c Config) validate(now time.Time) error {
	if c.Administrator == (common.Address{}) {
		return fmt.Errorf("administrator is empty: %w", tender.ErrInvalidConfig)
	}
	if !c.RevealEndTime.After(now) {
		return fmt.Errorf("reveal end time %s must be after %s: %w",
			c.RevealEndTime.Format(time.RFC3339), now.Format(time.RFC3339), tender.ErrInvalidConfig)
	}
	return nil
}

// Ledger holds the tender state machine. Every operation holds the ledger
// lock until completion, so no operation observes a partial effect of another.
// Store writes happen before in-memory mutation; a failed write leaves the
// ledger untouched.
type Ledger struct {
	store Store

	lk      sync.Mutex
	info    tender.Info
	bids    map[common.Address]*tender.Bid
	order   []common.Address
	lastSeq uint64

	metricCommits     metric.Int64Counter
	metricReveals     metric.Int64Counter
	metricWinners     metric.Int64Counter
	metricRevealPhase metric.Int64Counter
	metricPhase       metric.Int64GaugeObserver
	metricBids        metric.Int64GaugeObserver
}

var _ tender.Tender = (*Ledger)(nil)

// New returns a ledger backed by store. If store already holds a tender it's
// resumed and conf is only compared against it; otherwise a new tender is
// created with conf at now.
func New(ctx context.Context, store Store, conf Config, now time.Time) (*Ledger, error) {
	l := &Ledger{
		store: store,
		bids:  make(map[common.Address]*tender.Bid),
	}

	info, bids, ok, err := store.LoadTender(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading tender: %w", err)
	}
	if ok {
		if err := l.restore(info, bids); err != nil {
			return nil, fmt.Errorf("restoring tender: %w", err)
		}
		if info.Administrator != conf.Administrator || !info.RevealEndTime.Equal(conf.RevealEndTime) {
			log.Warnf("resuming persisted tender (administrator %s, reveal end %s), ignoring configured values",
				info.Administrator, info.RevealEndTime.Format(time.RFC3339))
		}
		log.Infof("resumed tender in %s phase with %d bids", info.Phase, len(bids))
	} else {
		if err := conf.validate(now); err != nil {
			return nil, err
		}
		l.info = tender.Info{
			Administrator: conf.Administrator,
			RevealEndTime: conf.RevealEndTime,
			Phase:         tender.PhaseCommit,
			CreatedAt:     now,
		}
		if err := store.SaveTender(ctx, l.info); err != nil {
			return nil, fmt.Errorf("saving tender: %w", err)
		}
		log.Infof("created tender administered by %s", conf.Administrator)
	}

	l.initMetrics()
	return l, nil
}

func (l *Ledger) restore(info tender.Info, bids []tender.Bid) error {
	if info.Phase < tender.PhaseCommit || info.Phase > tender.PhaseClosed {
		return fmt.Errorf("invalid persisted phase %d", info.Phase)
	}
	if (info.Phase == tender.PhaseClosed) != (info.Winner != nil) {
		return fmt.Errorf("winner must be set if and only if the tender is closed")
	}
	for i := range bids {
		b := bids[i]
		if b.Revealed && info.Phase == tender.PhaseCommit {
			return fmt.Errorf("bid from %s is revealed in commit phase", b.Bidder)
		}
		if b.Seq <= l.lastSeq {
			return fmt.Errorf("bids out of commit order at %s", b.Bidder)
		}
		if _, ok := l.bids[b.Bidder]; ok {
			return fmt.Errorf("duplicate bid from %s", b.Bidder)
		}
		l.bids[b.Bidder] = &b
		l.order = append(l.order, b.Bidder)
		l.lastSeq = b.Seq
	}
	if info.Winner != nil {
		if w, ok := l.bids[*info.Winner]; !ok || !w.Revealed {
			return fmt.Errorf("winner %s has no revealed bid", info.Winner)
		}
	}
	l.info = info
	return nil
}

// GetCommitment returns the commitment a bidder has to submit for value and salt.
func (l *Ledger) GetCommitment(value uint64, salt tender.Salt, bidder common.Address) tender.Commitment {
	return tender.NewCommitment(value, salt, bidder)
}

// CommitBid submits a sealed bid for caller. Only one commitment per caller is accepted.
func (l *Ledger) CommitBid(
	ctx context.Context,
	caller common.Address,
	now time.Time,
	c tender.Commitment) (bid tender.Bid, err error) {
	defer func() { metrics.MetricIncrCounter(ctx, err, l.metricCommits, rejections) }()
	if c.IsZero() {
		return tender.Bid{}, fmt.Errorf("commitment is zero: %w", tender.ErrInvalidCommitment)
	}

	l.lk.Lock()
	defer l.lk.Unlock()

	if l.info.Phase != tender.PhaseCommit {
		return tender.Bid{}, fmt.Errorf("committing in %s phase: %w", l.info.Phase, tender.ErrWrongPhase)
	}
	if _, ok := l.bids[caller]; ok {
		return tender.Bid{}, fmt.Errorf("bidder %s: %w", caller, tender.ErrAlreadyCommitted)
	}

	bid = tender.Bid{
		Bidder:      caller,
		Commitment:  c,
		Seq:         l.lastSeq + 1,
		CommittedAt: now,
	}
	if err := l.store.CreateBid(ctx, bid); err != nil {
		return tender.Bid{}, fmt.Errorf("creating bid: %w", err)
	}
	l.lastSeq = bid.Seq
	l.bids[caller] = &bid
	l.order = append(l.order, caller)

	log.Debugf("bidder %s committed %s (seq %d)", caller, c, bid.Seq)
	return bid, nil
}

// StartRevealPhase closes the commit window. Only the administrator can call
// it, and it must happen before the reveal end time.
func (l *Ledger) StartRevealPhase(ctx context.Context, caller common.Address, now time.Time) (err error) {
	defer func() { metrics.MetricIncrCounter(ctx, err, l.metricRevealPhase, rejections) }()

	l.lk.Lock()
	defer l.lk.Unlock()

	if caller != l.info.Administrator {
		return fmt.Errorf("starting reveal phase as %s: %w", caller, tender.ErrUnauthorized)
	}
	if l.info.Phase != tender.PhaseCommit {
		return fmt.Errorf("starting reveal phase in %s phase: %w", l.info.Phase, tender.ErrWrongPhase)
	}
	if !now.Before(l.info.RevealEndTime) {
		return fmt.Errorf("starting reveal phase: %w", tender.ErrRevealWindowClosed)
	}

	info := l.info
	info.Phase = tender.PhaseReveal
	if err := l.store.SaveTender(ctx, info); err != nil {
		return fmt.Errorf("saving tender: %w", err)
	}
	l.info = info

	log.Infof("reveal phase started with %d bids", len(l.order))
	return nil
}

// RevealBid discloses the value and salt behind the caller commitment. A
// mismatching reveal doesn't consume anything and can be retried.
func (l *Ledger) RevealBid(
	ctx context.Context,
	caller common.Address,
	now time.Time,
	value uint64,
	salt tender.Salt) (bid tender.Bid, err error) {
	defer func() { metrics.MetricIncrCounter(ctx, err, l.metricReveals, rejections) }()

	l.lk.Lock()
	defer l.lk.Unlock()

	if l.info.Phase != tender.PhaseReveal {
		return tender.Bid{}, tender.NewRevealNotOpenError(
			fmt.Errorf("revealing in %s phase: %w", l.info.Phase, tender.ErrWrongPhase))
	}
	if !now.Before(l.info.RevealEndTime) {
		return tender.Bid{}, tender.NewRevealNotOpenError(tender.ErrRevealWindowClosed)
	}
	current, ok := l.bids[caller]
	if !ok {
		return tender.Bid{}, fmt.Errorf("bidder %s: %w", caller, tender.ErrNoSuchBid)
	}
	if tender.NewCommitment(value, salt, caller) != current.Commitment {
		return tender.Bid{}, fmt.Errorf("bidder %s: %w", caller, tender.ErrCommitmentMismatch)
	}
	if current.Revealed {
		return *current, nil
	}

	bid = *current
	bid.Value = value
	bid.Revealed = true
	bid.RevealedAt = now
	if err := l.store.UpdateBid(ctx, bid); err != nil {
		return tender.Bid{}, fmt.Errorf("updating bid: %w", err)
	}
	*current = bid

	log.Debugf("bidder %s revealed %d", caller, value)
	return bid, nil
}

// SelectWinner closes the tender selecting the lowest revealed bid. Ties are
// won by the earliest commitment. Once closed, it returns the same winner.
// If the reveal phase was never started and the reveal end time has passed,
// no bid can ever be revealed and it fails with tender.ErrNoRevealedBids.
func (l *Ledger) SelectWinner(
	ctx context.Context,
	caller common.Address,
	now time.Time) (bid tender.Bid, err error) {
	defer func() { metrics.MetricIncrCounter(ctx, err, l.metricWinners, rejections) }()

	l.lk.Lock()
	defer l.lk.Unlock()

	if caller != l.info.Administrator {
		return tender.Bid{}, fmt.Errorf("selecting winner as %s: %w", caller, tender.ErrUnauthorized)
	}

	switch l.info.Phase {
	case tender.PhaseClosed:
		return *l.bids[*l.info.Winner], nil
	case tender.PhaseCommit:
		if !now.Before(l.info.RevealEndTime) {
			return tender.Bid{}, fmt.Errorf("reveal phase never started: %w", tender.ErrNoRevealedBids)
		}
		return tender.Bid{}, fmt.Errorf("selecting winner in %s phase: %w", l.info.Phase, tender.ErrWrongPhase)
	}

	revealed := make([]tender.Bid, 0, len(l.order))
	for _, addr := range l.order {
		if b := l.bids[addr]; b.Revealed {
			revealed = append(revealed, *b)
		}
	}
	winner, ok := Best(revealed, WinnerCmp())
	if !ok {
		return tender.Bid{}, tender.ErrNoRevealedBids
	}

	info := l.info
	info.Phase = tender.PhaseClosed
	info.Winner = &winner.Bidder
	if err := l.store.SaveTender(ctx, info); err != nil {
		return tender.Bid{}, fmt.Errorf("saving tender: %w", err)
	}
	l.info = info

	log.Infof("tender closed: %s won with %d out of %d revealed bids", winner.Bidder, winner.Value, len(revealed))
	return winner, nil
}

// GetBidInfo returns the bid of bidder.
func (l *Ledger) GetBidInfo(_ context.Context, bidder common.Address) (tender.Bid, error) {
	l.lk.Lock()
	defer l.lk.Unlock()

	b, ok := l.bids[bidder]
	if !ok {
		return tender.Bid{}, fmt.Errorf("bidder %s: %w", bidder, tender.ErrNoSuchBid)
	}
	return *b, nil
}

// ListBids returns all bids in commit order.
func (l *Ledger) ListBids(_ context.Context) ([]tender.Bid, error) {
	l.lk.Lock()
	defer l.lk.Unlock()

	bids := make([]tender.Bid, len(l.order))
	for i, addr := range l.order {
		bids[i] = *l.bids[addr]
	}
	return bids, nil
}

// GetRevealTimeEnd returns the instant at which reveals stop being accepted.
func (l *Ledger) GetRevealTimeEnd() time.Time {
	l.lk.Lock()
	defer l.lk.Unlock()
	return l.info.RevealEndTime
}

// Info returns the tender header.
func (l *Ledger) Info() tender.Info {
	l.lk.Lock()
	defer l.lk.Unlock()

	info := l.info
	if info.Winner != nil {
		w := *info.Winner
		info.Winner = &w
	}
	return info
}

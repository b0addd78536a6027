package ledger_test

import (
	"context"
	"errors"
	"math/big"
	"math/rand"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/textileio/tender-core/cmd/tenderd/ledger"
	"github.com/textileio/tender-core/cmd/tenderd/store/dsstore"
	"github.com/textileio/tender-core/tender"
)

var (
	admin   = common.HexToAddress("0x1111111111111111111111111111111111111111")
	bidderA = common.HexToAddress("0x60FaAe176336dAb62e284Fe19B885B095d29fB7F")
	bidderB = common.HexToAddress("0x690B9A9E9aa1C9dB991C7721a92d351Db4FaC990")
	bidderC = common.HexToAddress("0x3333333333333333333333333333333333333333")

	t0 = time.Date(2023, 10, 11, 12, 27, 36, 0, time.UTC)
)

func TestScenario(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l := newLedger(t)

	saltA, saltB := newSalt(t), newSalt(t)
	cA := l.GetCommitment(11, saltA, bidderA)
	cB := l.GetCommitment(12, saltB, bidderB)

	_, err := l.CommitBid(ctx, bidderA, t0.Add(time.Second), cA)
	require.NoError(t, err)
	_, err = l.CommitBid(ctx, bidderB, t0.Add(time.Second), cB)
	require.NoError(t, err)

	// Reveals fail before the reveal phase starts, even with wrong values.
	_, err = l.RevealBid(ctx, bidderA, t0.Add(2*time.Second), 12, saltA)
	require.ErrorIs(t, err, tender.ErrRevealNotOpen)
	require.ErrorIs(t, err, tender.ErrWrongPhase)
	_, err = l.RevealBid(ctx, bidderB, t0.Add(2*time.Second), 11, saltB)
	require.ErrorIs(t, err, tender.ErrRevealNotOpen)

	require.NoError(t, l.StartRevealPhase(ctx, admin, t0.Add(3*time.Second)))
	require.Equal(t, tender.PhaseReveal, l.Info().Phase)

	_, err = l.RevealBid(ctx, bidderA, t0.Add(4*time.Second), 11, saltA)
	require.NoError(t, err)
	bid, err := l.GetBidInfo(ctx, bidderA)
	require.NoError(t, err)
	require.True(t, bid.Revealed)
	require.Equal(t, uint64(11), bid.Value)

	_, err = l.RevealBid(ctx, bidderB, t0.Add(5*time.Second), 12, saltB)
	require.NoError(t, err)
	bid, err = l.GetBidInfo(ctx, bidderB)
	require.NoError(t, err)
	require.Equal(t, uint64(12), bid.Value)

	winner, err := l.SelectWinner(ctx, admin, t0.Add(6*time.Second))
	require.NoError(t, err)
	require.Equal(t, cA, winner.Commitment)
	require.Equal(t, bidderA, winner.Bidder)
	require.Equal(t, uint64(11), winner.Value)

	_, err = l.SelectWinner(ctx, bidderA, t0.Add(6*time.Second))
	require.ErrorIs(t, err, tender.ErrUnauthorized)

	info := l.Info()
	require.Equal(t, tender.PhaseClosed, info.Phase)
	require.NotNil(t, info.Winner)
	require.Equal(t, bidderA, *info.Winner)
}

func TestRevealMismatchRetry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l := newLedger(t)

	salt := newSalt(t)
	c := tender.NewCommitment(7, salt, bidderA)
	_, err := l.CommitBid(ctx, bidderA, t0, c)
	require.NoError(t, err)
	require.NoError(t, l.StartRevealPhase(ctx, admin, t0))

	_, err = l.RevealBid(ctx, bidderA, t0.Add(time.Second), 7, newSalt(t))
	require.ErrorIs(t, err, tender.ErrCommitmentMismatch)
	_, err = l.RevealBid(ctx, bidderA, t0.Add(time.Second), 8, salt)
	require.ErrorIs(t, err, tender.ErrCommitmentMismatch)

	// Someone else can't reveal using the bidder's inputs.
	_, err = l.CommitBid(ctx, bidderB, t0, c)
	require.ErrorIs(t, err, tender.ErrWrongPhase)
	_, err = l.RevealBid(ctx, bidderB, t0.Add(time.Second), 7, salt)
	require.ErrorIs(t, err, tender.ErrNoSuchBid)

	bid, err := l.GetBidInfo(ctx, bidderA)
	require.NoError(t, err)
	require.False(t, bid.Revealed)
	require.Zero(t, bid.Value)
	require.Equal(t, c, bid.Commitment)

	bid, err = l.RevealBid(ctx, bidderA, t0.Add(2*time.Second), 7, salt)
	require.NoError(t, err)
	require.True(t, bid.Revealed)
	require.Equal(t, uint64(7), bid.Value)
	require.True(t, bid.RevealedAt.Equal(t0.Add(2*time.Second)))

	// Revealing again is a no-op.
	again, err := l.RevealBid(ctx, bidderA, t0.Add(3*time.Second), 7, salt)
	require.NoError(t, err)
	require.Equal(t, bid, again)
}

func TestRevealBindsValueSaltAndBidder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l := newLedger(t)

	r := rand.New(rand.NewSource(1))
	bidders := []common.Address{bidderA, bidderB, bidderC}
	values := make(map[common.Address]uint64)
	salts := make(map[common.Address]tender.Salt)
	for _, b := range bidders {
		values[b] = r.Uint64()
		salts[b] = newSalt(t)
		_, err := l.CommitBid(ctx, b, t0, tender.NewCommitment(values[b], salts[b], b))
		require.NoError(t, err)
	}
	require.NoError(t, l.StartRevealPhase(ctx, admin, t0))

	for i := 0; i < 50; i++ {
		b := bidders[r.Intn(len(bidders))]
		value := values[b]
		if r.Intn(2) == 0 {
			value = r.Uint64()
		}
		salt := salts[b]
		if r.Intn(2) == 0 {
			salt = newSalt(t)
		}
		matches := value == values[b] && salt == salts[b]

		_, err := l.RevealBid(ctx, b, t0.Add(time.Second), value, salt)
		if matches {
			require.NoError(t, err)
		} else {
			require.ErrorIs(t, err, tender.ErrCommitmentMismatch)
		}
	}
}

func TestRevealWindow(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l := newLedger(t)

	salt := newSalt(t)
	_, err := l.CommitBid(ctx, bidderA, t0, tender.NewCommitment(5, salt, bidderA))
	require.NoError(t, err)
	require.NoError(t, l.StartRevealPhase(ctx, admin, t0))

	end := l.GetRevealTimeEnd()
	require.True(t, end.Equal(t0.Add(10*time.Second)))

	_, err = l.RevealBid(ctx, bidderA, end, 5, salt)
	require.ErrorIs(t, err, tender.ErrRevealNotOpen)
	require.ErrorIs(t, err, tender.ErrRevealWindowClosed)
	_, err = l.RevealBid(ctx, bidderA, end.Add(time.Hour), 5, salt)
	require.ErrorIs(t, err, tender.ErrRevealWindowClosed)

	_, err = l.RevealBid(ctx, bidderA, end.Add(-time.Nanosecond), 5, salt)
	require.NoError(t, err)
}

func TestNoRevealedBids(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l := newLedger(t)

	_, err := l.CommitBid(ctx, bidderA, t0, tender.NewCommitment(5, newSalt(t), bidderA))
	require.NoError(t, err)

	_, err = l.SelectWinner(ctx, admin, t0)
	require.ErrorIs(t, err, tender.ErrWrongPhase)

	require.NoError(t, l.StartRevealPhase(ctx, admin, t0))
	_, err = l.SelectWinner(ctx, admin, t0)
	require.ErrorIs(t, err, tender.ErrNoRevealedBids)
	require.Equal(t, tender.PhaseReveal, l.Info().Phase)
	require.Nil(t, l.Info().Winner)

	// Nothing can be revealed once the window closes.
	_, err = l.SelectWinner(ctx, admin, l.GetRevealTimeEnd())
	require.ErrorIs(t, err, tender.ErrNoRevealedBids)
	require.Equal(t, tender.PhaseReveal, l.Info().Phase)
}

func TestRevealPhaseNeverStarted(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l := newLedger(t)

	_, err := l.CommitBid(ctx, bidderA, t0, tender.NewCommitment(5, newSalt(t), bidderA))
	require.NoError(t, err)
	end := l.GetRevealTimeEnd()

	_, err = l.SelectWinner(ctx, admin, end.Add(-time.Nanosecond))
	require.ErrorIs(t, err, tender.ErrWrongPhase)

	require.ErrorIs(t, l.StartRevealPhase(ctx, admin, end), tender.ErrRevealWindowClosed)

	for _, now := range []time.Time{end, end.Add(time.Hour)} {
		_, err = l.SelectWinner(ctx, admin, now)
		require.ErrorIs(t, err, tender.ErrNoRevealedBids)
		require.NotErrorIs(t, err, tender.ErrWrongPhase)
	}

	_, err = l.SelectWinner(ctx, bidderA, end)
	require.ErrorIs(t, err, tender.ErrUnauthorized)

	info := l.Info()
	require.Equal(t, tender.PhaseCommit, info.Phase)
	require.Nil(t, info.Winner)
	bid, err := l.GetBidInfo(ctx, bidderA)
	require.NoError(t, err)
	require.False(t, bid.Revealed)
}

func TestDuplicateCommit(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l := newLedger(t)

	salt := newSalt(t)
	first := tender.NewCommitment(5, salt, bidderA)
	_, err := l.CommitBid(ctx, bidderA, t0, first)
	require.NoError(t, err)

	_, err = l.CommitBid(ctx, bidderA, t0.Add(time.Second), tender.NewCommitment(1, salt, bidderA))
	require.ErrorIs(t, err, tender.ErrAlreadyCommitted)

	bid, err := l.GetBidInfo(ctx, bidderA)
	require.NoError(t, err)
	require.Equal(t, first, bid.Commitment)
	require.Equal(t, uint64(1), bid.Seq)
}

func TestInvalidCommitment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l := newLedger(t)

	_, err := l.CommitBid(ctx, bidderA, t0, tender.Commitment{})
	require.ErrorIs(t, err, tender.ErrInvalidCommitment)
	_, err = l.GetBidInfo(ctx, bidderA)
	require.ErrorIs(t, err, tender.ErrNoSuchBid)
}

func TestAdministratorOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l := newLedger(t)

	salt := newSalt(t)
	_, err := l.CommitBid(ctx, bidderA, t0, tender.NewCommitment(5, salt, bidderA))
	require.NoError(t, err)

	err = l.StartRevealPhase(ctx, bidderA, t0)
	require.ErrorIs(t, err, tender.ErrUnauthorized)
	require.Equal(t, tender.PhaseCommit, l.Info().Phase)

	require.NoError(t, l.StartRevealPhase(ctx, admin, t0))
	_, err = l.RevealBid(ctx, bidderA, t0, 5, salt)
	require.NoError(t, err)

	_, err = l.SelectWinner(ctx, bidderB, t0)
	require.ErrorIs(t, err, tender.ErrUnauthorized)
	require.Equal(t, tender.PhaseReveal, l.Info().Phase)
}

func TestPhaseOnlyMovesForward(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l := newLedger(t)

	salt := newSalt(t)
	_, err := l.CommitBid(ctx, bidderA, t0, tender.NewCommitment(5, salt, bidderA))
	require.NoError(t, err)
	require.NoError(t, l.StartRevealPhase(ctx, admin, t0))

	err = l.StartRevealPhase(ctx, admin, t0)
	require.ErrorIs(t, err, tender.ErrWrongPhase)
	_, err = l.CommitBid(ctx, bidderB, t0, tender.NewCommitment(5, salt, bidderB))
	require.ErrorIs(t, err, tender.ErrWrongPhase)

	_, err = l.RevealBid(ctx, bidderA, t0, 5, salt)
	require.NoError(t, err)
	_, err = l.SelectWinner(ctx, admin, t0)
	require.NoError(t, err)

	_, err = l.CommitBid(ctx, bidderB, t0, tender.NewCommitment(5, salt, bidderB))
	require.ErrorIs(t, err, tender.ErrWrongPhase)
	err = l.StartRevealPhase(ctx, admin, t0)
	require.ErrorIs(t, err, tender.ErrWrongPhase)
	_, err = l.RevealBid(ctx, bidderA, t0, 5, salt)
	require.ErrorIs(t, err, tender.ErrWrongPhase)
	require.ErrorIs(t, err, tender.ErrRevealNotOpen)
	require.Equal(t, tender.PhaseClosed, l.Info().Phase)
}

func TestStartRevealAfterDeadline(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l := newLedger(t)

	err := l.StartRevealPhase(ctx, admin, l.GetRevealTimeEnd())
	require.ErrorIs(t, err, tender.ErrRevealWindowClosed)
	require.Equal(t, tender.PhaseCommit, l.Info().Phase)
}

func TestSelectWinner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		values   []uint64 // committed in order by bidderA, bidderB, bidderC
		revealed []bool
		winner   common.Address
	}{
		{
			name:     "lowest wins",
			values:   []uint64{30, 10, 20},
			revealed: []bool{true, true, true},
			winner:   bidderB,
		},
		{
			name:     "tie won by earliest commit",
			values:   []uint64{20, 10, 10},
			revealed: []bool{true, true, true},
			winner:   bidderB,
		},
		{
			name:     "unrevealed bids are ignored",
			values:   []uint64{30, 10, 20},
			revealed: []bool{true, false, true},
			winner:   bidderC,
		},
		{
			name:     "zero value",
			values:   []uint64{0, 0, 1},
			revealed: []bool{false, true, true},
			winner:   bidderB,
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			l := newLedger(t)

			bidders := []common.Address{bidderA, bidderB, bidderC}
			salts := make([]tender.Salt, len(bidders))
			for i, b := range bidders {
				salts[i] = newSalt(t)
				_, err := l.CommitBid(ctx, b, t0.Add(time.Duration(i)*time.Second),
					tender.NewCommitment(tc.values[i], salts[i], b))
				require.NoError(t, err)
			}
			require.NoError(t, l.StartRevealPhase(ctx, admin, t0.Add(5*time.Second)))
			// Reveal in reverse order so reveal order doesn't matter.
			for i := len(bidders) - 1; i >= 0; i-- {
				if tc.revealed[i] {
					_, err := l.RevealBid(ctx, bidders[i], t0.Add(6*time.Second), tc.values[i], salts[i])
					require.NoError(t, err)
				}
			}

			winner, err := l.SelectWinner(ctx, admin, t0.Add(7*time.Second))
			require.NoError(t, err)
			require.Equal(t, tc.winner, winner.Bidder)

			again, err := l.SelectWinner(ctx, admin, t0.Add(7*time.Second))
			require.NoError(t, err)
			require.Equal(t, winner, again)
		})
	}
}

func TestListBids(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l := newLedger(t)

	for i, b := range []common.Address{bidderC, bidderA, bidderB} {
		_, err := l.CommitBid(ctx, b, t0, tender.NewCommitment(uint64(i), newSalt(t), b))
		require.NoError(t, err)
	}
	bids, err := l.ListBids(ctx)
	require.NoError(t, err)
	require.Len(t, bids, 3)
	require.Equal(t, bidderC, bids[0].Bidder)
	require.Equal(t, bidderA, bids[1].Bidder)
	require.Equal(t, bidderB, bids[2].Bidder)
	for i, b := range bids {
		require.Equal(t, uint64(i+1), b.Seq)
	}
}

func TestConcurrentBidders(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	l := newLedger(t)

	const n = 64
	bidders := make([]common.Address, n)
	salts := make([]tender.Salt, n)
	values := make([]uint64, n)
	for i := range bidders {
		bidders[i] = common.BigToAddress(big.NewInt(int64(1000 + i)))
		salts[i] = newSalt(t)
		values[i] = uint64(100 + i%7)
	}

	var wg sync.WaitGroup
	seqs := make([]uint64, n)
	commitErrs := make([]error, n)
	lists := make([][]tender.Bid, n)
	for i := 0; i < n; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			bid, err := l.CommitBid(ctx, bidders[i], t0, tender.NewCommitment(values[i], salts[i], bidders[i]))
			seqs[i], commitErrs[i] = bid.Seq, err
		}(i)
		go func(i int) {
			defer wg.Done()
			_ = l.Info()
			_, _ = l.GetBidInfo(ctx, bidders[i])
			lists[i], _ = l.ListBids(ctx)
		}(i)
	}
	wg.Wait()

	for i := range commitErrs {
		require.NoError(t, commitErrs[i])
	}
	sorted := append([]uint64(nil), seqs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	for i, seq := range sorted {
		require.Equal(t, uint64(i+1), seq)
	}
	// Readers never see a gap in the commit order.
	for _, bids := range lists {
		for j, b := range bids {
			require.Equal(t, uint64(j+1), b.Seq)
		}
	}
	bids, err := l.ListBids(ctx)
	require.NoError(t, err)
	require.Len(t, bids, n)
	for i, b := range bids {
		require.Equal(t, uint64(i+1), b.Seq)
	}

	require.NoError(t, l.StartRevealPhase(ctx, admin, t0.Add(time.Second)))

	const selectors = 8
	revealErrs := make([]error, n)
	winners := make([]tender.Bid, selectors)
	selectErrs := make([]error, selectors)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, revealErrs[i] = l.RevealBid(ctx, bidders[i], t0.Add(2*time.Second), values[i], salts[i])
		}(i)
		if i%(n/selectors) == 0 {
			wg.Add(1)
			go func(k int) {
				defer wg.Done()
				winners[k], selectErrs[k] = l.SelectWinner(ctx, admin, t0.Add(2*time.Second))
			}(i / (n / selectors))
		}
	}
	wg.Wait()

	revealed := 0
	for _, err := range revealErrs {
		if err == nil {
			revealed++
			continue
		}
		// A reveal can only lose the race against a winner selection.
		require.ErrorIs(t, err, tender.ErrRevealNotOpen)
		require.ErrorIs(t, err, tender.ErrWrongPhase)
	}

	winner, err := l.SelectWinner(ctx, admin, t0.Add(3*time.Second))
	if revealed == 0 {
		require.ErrorIs(t, err, tender.ErrNoRevealedBids)
		return
	}
	require.NoError(t, err)
	for k, err := range selectErrs {
		if err != nil {
			require.ErrorIs(t, err, tender.ErrNoRevealedBids)
			continue
		}
		require.Equal(t, winner, winners[k])
	}

	bids, err = l.ListBids(ctx)
	require.NoError(t, err)
	var best *tender.Bid
	count := 0
	for i := range bids {
		b := bids[i]
		if !b.Revealed {
			continue
		}
		count++
		if best == nil || b.Value < best.Value {
			best = &b
		}
	}
	require.Equal(t, revealed, count)
	require.Equal(t, *best, winner)
	info := l.Info()
	require.Equal(t, tender.PhaseClosed, info.Phase)
	require.Equal(t, winner.Bidder, *info.Winner)
}

func TestResume(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := dsstore.NewInMemory()
	conf := ledger.Config{Administrator: admin, RevealEndTime: t0.Add(10 * time.Second)}
	l, err := ledger.New(ctx, s, conf, t0)
	require.NoError(t, err)

	saltA, saltB := newSalt(t), newSalt(t)
	_, err = l.CommitBid(ctx, bidderA, t0, tender.NewCommitment(9, saltA, bidderA))
	require.NoError(t, err)
	_, err = l.CommitBid(ctx, bidderB, t0, tender.NewCommitment(9, saltB, bidderB))
	require.NoError(t, err)
	require.NoError(t, l.StartRevealPhase(ctx, admin, t0))
	_, err = l.RevealBid(ctx, bidderB, t0, 9, saltB)
	require.NoError(t, err)

	// Resuming ignores the new configuration and keeps the commit order.
	other := ledger.Config{Administrator: bidderC, RevealEndTime: t0.Add(time.Hour)}
	resumed, err := ledger.New(ctx, s, other, t0.Add(time.Second))
	require.NoError(t, err)
	require.Equal(t, l.Info(), resumed.Info())

	_, err = resumed.RevealBid(ctx, bidderA, t0.Add(time.Second), 9, saltA)
	require.NoError(t, err)
	winner, err := resumed.SelectWinner(ctx, admin, t0.Add(time.Second))
	require.NoError(t, err)
	require.Equal(t, bidderA, winner.Bidder)

	closed, err := ledger.New(ctx, s, conf, t0.Add(time.Minute))
	require.NoError(t, err)
	again, err := closed.SelectWinner(ctx, admin, t0.Add(time.Minute))
	require.NoError(t, err)
	require.Equal(t, winner, again)
}

func TestInvalidConfig(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, err := ledger.New(ctx, dsstore.NewInMemory(), ledger.Config{RevealEndTime: t0.Add(time.Second)}, t0)
	require.ErrorIs(t, err, tender.ErrInvalidConfig)

	_, err = ledger.New(ctx, dsstore.NewInMemory(), ledger.Config{Administrator: admin, RevealEndTime: t0}, t0)
	require.ErrorIs(t, err, tender.ErrInvalidConfig)
}

func TestStoreFailureLeavesStateUnchanged(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := &failingStore{Store: dsstore.NewInMemory()}
	l, err := ledger.New(ctx, s, ledger.Config{Administrator: admin, RevealEndTime: t0.Add(time.Minute)}, t0)
	require.NoError(t, err)

	salt := newSalt(t)
	c := tender.NewCommitment(3, salt, bidderA)

	s.fail = true
	_, err = l.CommitBid(ctx, bidderA, t0, c)
	require.ErrorIs(t, err, errStore)
	_, err = l.GetBidInfo(ctx, bidderA)
	require.ErrorIs(t, err, tender.ErrNoSuchBid)

	s.fail = false
	_, err = l.CommitBid(ctx, bidderA, t0, c)
	require.NoError(t, err)

	s.fail = true
	require.ErrorIs(t, l.StartRevealPhase(ctx, admin, t0), errStore)
	require.Equal(t, tender.PhaseCommit, l.Info().Phase)
	s.fail = false
	require.NoError(t, l.StartRevealPhase(ctx, admin, t0))

	s.fail = true
	_, err = l.RevealBid(ctx, bidderA, t0, 3, salt)
	require.ErrorIs(t, err, errStore)
	bid, err := l.GetBidInfo(ctx, bidderA)
	require.NoError(t, err)
	require.False(t, bid.Revealed)
	s.fail = false
	_, err = l.RevealBid(ctx, bidderA, t0, 3, salt)
	require.NoError(t, err)

	s.fail = true
	_, err = l.SelectWinner(ctx, admin, t0)
	require.ErrorIs(t, err, errStore)
	require.Equal(t, tender.PhaseReveal, l.Info().Phase)
	s.fail = false
	_, err = l.SelectWinner(ctx, admin, t0)
	require.NoError(t, err)
}

var errStore = errors.New("store unavailable")

type failingStore struct {
	ledger.Store
	fail bool
}

func (s *failingStore) SaveTender(ctx context.Context, info tender.Info) error {
	if s.fail {
		return errStore
	}
	return s.Store.SaveTender(ctx, info)
}

func (s *failingStore) CreateBid(ctx context.Context, bid tender.Bid) error {
	if s.fail {
		return errStore
	}
	return s.Store.CreateBid(ctx, bid)
}

func (s *failingStore) UpdateBid(ctx context.Context, bid tender.Bid) error {
	if s.fail {
		return errStore
	}
	return s.Store.UpdateBid(ctx, bid)
}

func newLedger(t *testing.T) *ledger.Ledger {
	conf := ledger.Config{
		Administrator: admin,
		RevealEndTime: t0.Add(10 * time.Second),
	}
	l, err := ledger.New(context.Background(), dsstore.NewInMemory(), conf, t0)
	require.NoError(t, err)
	return l
}

func newSalt(t *testing.T) tender.Salt {
	s, err := tender.NewSalt()
	require.NoError(t, err)
	return s
}

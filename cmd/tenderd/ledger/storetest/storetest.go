package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
	"github.com/textileio/tender-core/cmd/tenderd/ledger"
	"github.com/textileio/tender-core/tender"
)

var (
	admin   = common.HexToAddress("0x1111111111111111111111111111111111111111")
	bidder1 = common.HexToAddress("0x60FaAe176336dAb62e284Fe19B885B095d29fB7F")
	bidder2 = common.HexToAddress("0x690B9A9E9aa1C9dB991C7721a92d351Db4FaC990")
)

// Run runs the ledger.Store contract tests against stores built by newStore.
// Every call to newStore must return an empty store.
func Run(t *testing.T, newStore func(t *testing.T) ledger.Store) {
	t.Run("empty", func(t *testing.T) {
		s := newStore(t)
		_, bids, ok, err := s.LoadTender(context.Background())
		require.NoError(t, err)
		require.False(t, ok)
		require.Empty(t, bids)
	})

	t.Run("tender roundtrip", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		now := time.Now().UTC().Truncate(time.Second)
		info := tender.Info{
			Administrator: admin,
			RevealEndTime: now.Add(time.Hour),
			Phase:         tender.PhaseCommit,
			CreatedAt:     now,
		}
		require.NoError(t, s.SaveTender(ctx, info))

		got, bids, ok, err := s.LoadTender(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		require.Empty(t, bids)
		requireInfoEqual(t, info, got)

		b := newBid(t, bidder1, 1, now)
		require.NoError(t, s.CreateBid(ctx, b))
		b.Value = 11
		b.Revealed = true
		b.RevealedAt = now.Add(time.Minute)
		require.NoError(t, s.UpdateBid(ctx, b))

		info.Phase = tender.PhaseClosed
		info.Winner = &b.Bidder
		require.NoError(t, s.SaveTender(ctx, info))

		got, bids, ok, err = s.LoadTender(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		requireInfoEqual(t, info, got)
		require.Len(t, bids, 1)
		requireBidEqual(t, b, bids[0])
	})

	t.Run("bids in commit order", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		now := time.Now().UTC().Truncate(time.Second)
		require.NoError(t, s.SaveTender(ctx, tender.Info{
			Administrator: admin,
			RevealEndTime: now.Add(time.Hour),
			CreatedAt:     now,
		}))

		// bidder2 commits first even though its address sorts last.
		b2 := newBid(t, bidder2, 1, now)
		b1 := newBid(t, bidder1, 2, now.Add(time.Second))
		require.NoError(t, s.CreateBid(ctx, b2))
		require.NoError(t, s.CreateBid(ctx, b1))

		_, bids, _, err := s.LoadTender(ctx)
		require.NoError(t, err)
		require.Len(t, bids, 2)
		requireBidEqual(t, b2, bids[0])
		requireBidEqual(t, b1, bids[1])
	})

	t.Run("duplicate bid", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		now := time.Now().UTC().Truncate(time.Second)
		require.NoError(t, s.SaveTender(ctx, tender.Info{
			Administrator: admin,
			RevealEndTime: now.Add(time.Hour),
			CreatedAt:     now,
		}))
		require.NoError(t, s.CreateBid(ctx, newBid(t, bidder1, 1, now)))
		err := s.CreateBid(ctx, newBid(t, bidder1, 2, now))
		require.ErrorIs(t, err, tender.ErrAlreadyCommitted)
	})

	t.Run("update unknown bid", func(t *testing.T) {
		ctx := context.Background()
		s := newStore(t)

		b := newBid(t, bidder1, 1, time.Now())
		b.Revealed = true
		b.Value = 3
		err := s.UpdateBid(ctx, b)
		require.ErrorIs(t, err, tender.ErrNoSuchBid)
	})
}

func newBid(t *testing.T, bidder common.Address, seq uint64, at time.Time) tender.Bid {
	salt, err := tender.NewSalt()
	require.NoError(t, err)
	return tender.Bid{
		Bidder:      bidder,
		Commitment:  tender.NewCommitment(seq*10, salt, bidder),
		Seq:         seq,
		CommittedAt: at,
	}
}

func requireInfoEqual(t *testing.T, expected, got tender.Info) {
	require.Equal(t, expected.Administrator, got.Administrator)
	require.Equal(t, expected.Phase, got.Phase)
	require.True(t, expected.RevealEndTime.Equal(got.RevealEndTime))
	require.True(t, expected.CreatedAt.Equal(got.CreatedAt))
	require.Equal(t, expected.Winner, got.Winner)
}

func requireBidEqual(t *testing.T, expected, got tender.Bid) {
	require.Equal(t, expected.Bidder, got.Bidder)
	require.Equal(t, expected.Commitment, got.Commitment)
	require.Equal(t, expected.Value, got.Value)
	require.Equal(t, expected.Revealed, got.Revealed)
	require.Equal(t, expected.Seq, got.Seq)
	require.True(t, expected.CommittedAt.Equal(got.CommittedAt))
	require.True(t, expected.RevealedAt.Equal(got.RevealedAt))
}

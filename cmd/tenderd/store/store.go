package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/jackc/pgconn"
	logging "github.com/textileio/go-log/v2"
	"github.com/textileio/tender-core/cmd/tenderd/ledger"
	"github.com/textileio/tender-core/cmd/tenderd/store/internal/db"
	"github.com/textileio/tender-core/cmd/tenderd/store/migrations"
	"github.com/textileio/tender-core/storeutil"
	"github.com/textileio/tender-core/tender"
)

const (
	uniqueViolation = "23505"
	bidsPrimaryKey  = "bids_pkey"
)

var log = logging.Logger("tender/store")

// Store persists the ledger in Postgres.
type Store struct {
	conn *sql.DB
	db   *db.Queries
}

var _ ledger.Store = (*Store)(nil)

// New returns a new Store, applying any pending migration.
func New(postgresURI string) (*Store, error) {
	conn, err := storeutil.MigrateAndConnectToDB(postgresURI, migrations.FS, ".")
	if err != nil {
		return nil, fmt.Errorf("initializing db connection: %s", err)
	}
	return &Store{conn: conn, db: db.New(conn)}, nil
}

// LoadTender returns the tender header and its bids ordered by Seq.
func (s *Store) LoadTender(ctx context.Context) (info tender.Info, bids []tender.Bid, ok bool, err error) {
	err = storeutil.WithTx(ctx, s.conn, func(tx *sql.Tx) error {
		txn := s.db.WithTx(tx)
		t, err := txn.GetTender(ctx)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get tender: %s", err)
		}
		ok = true
		if info, err = tenderFromDB(t); err != nil {
			return err
		}

		rows, err := txn.ListBids(ctx)
		if err != nil {
			return fmt.Errorf("list bids: %s", err)
		}
		bids = make([]tender.Bid, 0, len(rows))
		for _, r := range rows {
			b, err := bidFromDB(r)
			if err != nil {
				return err
			}
			bids = append(bids, b)
		}
		return nil
	}, storeutil.TxReadonly())
	if err != nil {
		return tender.Info{}, nil, false, err
	}

	log.Debugf("loaded tender with %d bids", len(bids))
	return info, bids, ok, nil
}

// SaveTender creates or replaces the tender header.
func (s *Store) SaveTender(ctx context.Context, info tender.Info) error {
	var winner sql.NullString
	if info.Winner != nil {
		winner = sql.NullString{String: info.Winner.Hex(), Valid: true}
	}
	if err := s.db.UpsertTender(ctx, db.UpsertTenderParams{
		Administrator: info.Administrator.Hex(),
		RevealEndTime: info.RevealEndTime.UTC(),
		Phase:         db.TenderPhase(info.Phase.String()),
		Winner:        winner,
		CreatedAt:     info.CreatedAt.UTC(),
	}); err != nil {
		return fmt.Errorf("upsert tender: %s", err)
	}
	return nil
}

// CreateBid persists a new bid.
func (s *Store) CreateBid(ctx context.Context, bid tender.Bid) error {
	err := s.db.CreateBid(ctx, db.CreateBidParams{
		Bidder:      bid.Bidder.Hex(),
		Commitment:  bid.Commitment.String(),
		Seq:         int64(bid.Seq),
		CommittedAt: bid.CommittedAt.UTC(),
	})
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation && pgErr.ConstraintName == bidsPrimaryKey {
		return tender.ErrAlreadyCommitted
	}
	if err != nil {
		return fmt.Errorf("insert bid: %s", err)
	}
	return nil
}

// UpdateBid replaces the reveal data of an existing bid. The commitment and
// commit order are immutable.
func (s *Store) UpdateBid(ctx context.Context, bid tender.Bid) error {
	params := db.UpdateBidParams{
		Bidder:   bid.Bidder.Hex(),
		Revealed: bid.Revealed,
	}
	if bid.Revealed {
		params.Value = sql.NullString{String: strconv.FormatUint(bid.Value, 10), Valid: true}
		params.RevealedAt = sql.NullTime{Time: bid.RevealedAt.UTC(), Valid: true}
	}
	n, err := s.db.UpdateBid(ctx, params)
	if err != nil {
		return fmt.Errorf("update bid: %s", err)
	}
	if n == 0 {
		return tender.ErrNoSuchBid
	}
	return nil
}

// Close closes the store.
func (s *Store) Close() error {
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("closing sql connection: %s", err)
	}
	return nil
}

func tenderFromDB(t db.Tender) (tender.Info, error) {
	phase, err := tender.ParsePhase(string(t.Phase))
	if err != nil {
		return tender.Info{}, err
	}
	info := tender.Info{
		Administrator: common.HexToAddress(t.Administrator),
		RevealEndTime: normalize(t.RevealEndTime),
		Phase:         phase,
		CreatedAt:     normalize(t.CreatedAt),
	}
	if t.Winner.Valid {
		w := common.HexToAddress(t.Winner.String)
		info.Winner = &w
	}
	return info, nil
}

func bidFromDB(r db.ListBidsRow) (tender.Bid, error) {
	c, err := tender.ParseCommitment(r.Commitment)
	if err != nil {
		return tender.Bid{}, fmt.Errorf("bid of %s: %s", r.Bidder, err)
	}
	b := tender.Bid{
		Bidder:      common.HexToAddress(r.Bidder),
		Commitment:  c,
		Revealed:    r.Revealed,
		Seq:         uint64(r.Seq),
		CommittedAt: normalize(r.CommittedAt),
	}
	if r.Value.Valid {
		if b.Value, err = strconv.ParseUint(r.Value.String, 10, 64); err != nil {
			return tender.Bid{}, fmt.Errorf("parsing value of %s: %s", r.Bidder, err)
		}
	}
	if r.RevealedAt.Valid {
		b.RevealedAt = normalize(r.RevealedAt.Time)
	}
	return b, nil
}

func normalize(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

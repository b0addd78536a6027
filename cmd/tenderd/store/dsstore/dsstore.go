package dsstore

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"sort"
	"sync"

	ds "github.com/ipfs/go-datastore"
	dsq "github.com/ipfs/go-datastore/query"
	dssync "github.com/ipfs/go-datastore/sync"
	logging "github.com/textileio/go-log/v2"
	"github.com/textileio/tender-core/cmd/tenderd/ledger"
	"github.com/textileio/tender-core/tender"
)

var (
	log = logging.Logger("tender/dsstore")

	// tenderKey holds the tender header.
	tenderKey = ds.NewKey("/tender")
	// dsPrefix is the prefix for bids.
	// Structure: /bids/<bidder_address> -> Bid.
	dsPrefix = ds.NewKey("/bids")
)

// Store persists the ledger in a go-datastore.
type Store struct {
	store ds.Datastore
	lk    sync.Mutex
}

var _ ledger.Store = (*Store)(nil)

// New returns a new Store backed by store.
func New(store ds.Datastore) *Store {
	return &Store{store: store}
}

// NewInMemory returns a Store backed by a thread-safe in-memory datastore.
func NewInMemory() *Store {
	return New(dssync.MutexWrap(ds.NewMapDatastore()))
}

// LoadTender returns the tender header and its bids ordered by Seq.
func (s *Store) LoadTender(ctx context.Context) (tender.Info, []tender.Bid, bool, error) {
	s.lk.Lock()
	defer s.lk.Unlock()

	val, err := s.store.Get(ctx, tenderKey)
	if errors.Is(err, ds.ErrNotFound) {
		return tender.Info{}, nil, false, nil
	} else if err != nil {
		return tender.Info{}, nil, false, fmt.Errorf("getting tender: %v", err)
	}
	var info tender.Info
	if err := decode(val, &info); err != nil {
		return tender.Info{}, nil, false, fmt.Errorf("decoding tender: %v", err)
	}

	results, err := s.store.Query(ctx, dsq.Query{Prefix: dsPrefix.String()})
	if err != nil {
		return tender.Info{}, nil, false, fmt.Errorf("querying bids: %v", err)
	}
	defer func() { _ = results.Close() }()

	var bids []tender.Bid
	for res := range results.Next() {
		if res.Error != nil {
			return tender.Info{}, nil, false, fmt.Errorf("getting next result: %v", res.Error)
		}
		var b tender.Bid
		if err := decode(res.Value, &b); err != nil {
			return tender.Info{}, nil, false, fmt.Errorf("decoding bid: %v", err)
		}
		bids = append(bids, b)
	}
	sort.Slice(bids, func(i, j int) bool { return bids[i].Seq < bids[j].Seq })

	log.Debugf("loaded tender with %d bids", len(bids))
	return info, bids, true, nil
}

// SaveTender creates or replaces the tender header.
func (s *Store) SaveTender(ctx context.Context, info tender.Info) error {
	s.lk.Lock()
	defer s.lk.Unlock()

	val, err := encode(info)
	if err != nil {
		return fmt.Errorf("encoding tender: %v", err)
	}
	if err := s.store.Put(ctx, tenderKey, val); err != nil {
		return fmt.Errorf("putting tender: %v", err)
	}
	return nil
}

// CreateBid persists a new bid.
func (s *Store) CreateBid(ctx context.Context, bid tender.Bid) error {
	s.lk.Lock()
	defer s.lk.Unlock()

	key := bidKey(bid)
	exists, err := s.store.Has(ctx, key)
	if err != nil {
		return fmt.Errorf("checking bid existence: %v", err)
	}
	if exists {
		return tender.ErrAlreadyCommitted
	}
	return s.putBid(ctx, key, bid)
}

// UpdateBid replaces an existing bid.
func (s *Store) UpdateBid(ctx context.Context, bid tender.Bid) error {
	s.lk.Lock()
	defer s.lk.Unlock()

	key := bidKey(bid)
	exists, err := s.store.Has(ctx, key)
	if err != nil {
		return fmt.Errorf("checking bid existence: %v", err)
	}
	if !exists {
		return tender.ErrNoSuchBid
	}
	return s.putBid(ctx, key, bid)
}

// Close closes the underlying datastore.
func (s *Store) Close() error {
	return s.store.Close()
}

func (s *Store) putBid(ctx context.Context, key ds.Key, bid tender.Bid) error {
	val, err := encode(bid)
	if err != nil {
		return fmt.Errorf("encoding bid: %v", err)
	}
	if err := s.store.Put(ctx, key, val); err != nil {
		return fmt.Errorf("putting bid: %v", err)
	}
	return nil
}

func bidKey(bid tender.Bid) ds.Key {
	return dsPrefix.ChildString(bid.Bidder.Hex())
}

func encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(v []byte, out interface{}) error {
	return gob.NewDecoder(bytes.NewReader(v)).Decode(out)
}

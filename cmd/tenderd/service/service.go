package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	logging "github.com/textileio/go-log/v2"
	"github.com/textileio/tender-core/auth/ethjwt"
	"github.com/textileio/tender-core/cmd/tenderd/httpapi"
	"github.com/textileio/tender-core/cmd/tenderd/ledger"
	"github.com/textileio/tender-core/cmd/tenderd/store"
	"github.com/textileio/tender-core/cmd/tenderd/store/dsstore"
)

var log = logging.Logger("tender/service")

// Config defines params for Service configuration.
type Config struct {
	HTTPListenAddr string
	// PostgresURI selects the Postgres store. If empty, the ledger is kept in memory.
	PostgresURI   string
	Administrator common.Address
	RevealEndTime time.Time
	// Audience is the audience required in bearer tokens.
	Audience string
	// MaxTokenTTL is the longest accepted bearer token lifetime,
	// ethjwt.DefaultMaxTokenTTL if zero.
	MaxTokenTTL time.Duration
	// Clock is the ledger clock, time.Now if nil.
	Clock httpapi.Clock
}

type closableStore interface {
	ledger.Store
	Close() error
}

// Service hosts a tender ledger behind the HTTP API.
type Service struct {
	store  closableStore
	ledger *ledger.Ledger

	httpAPIServer *http.Server
}

// New returns a new Service serving the tender described by config, or
// resuming the one persisted in the configured store.
func New(ctx context.Context, config Config) (*Service, error) {
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if config.Audience == "" {
		config.Audience = ethjwt.DefaultAudience
	}
	if config.MaxTokenTTL <= 0 {
		config.MaxTokenTTL = ethjwt.DefaultMaxTokenTTL
	}

	s, err := createStore(config)
	if err != nil {
		return nil, fmt.Errorf("creating store: %s", err)
	}

	l, err := ledger.New(ctx, s, ledger.Config{
		Administrator: config.Administrator,
		RevealEndTime: config.RevealEndTime,
	}, config.Clock())
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("creating ledger: %w", err)
	}

	// Bootstrap HTTP API server.
	authorizer := ethjwt.NewAuthorizer(config.Audience, ethjwt.WithMaxTokenTTL(config.MaxTokenTTL))
	httpAPIServer, err := httpapi.NewServer(config.HTTPListenAddr, l, authorizer, config.Clock)
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("creating http server: %s", err)
	}

	return &Service{
		store:         s,
		ledger:        l,
		httpAPIServer: httpAPIServer,
	}, nil
}

func createStore(config Config) (closableStore, error) {
	if config.PostgresURI == "" {
		log.Warn("no postgres uri configured, the tender will be kept in memory")
		return dsstore.NewInMemory(), nil
	}
	s, err := store.New(config.PostgresURI)
	if err != nil {
		return nil, fmt.Errorf("creating postgres store: %s", err)
	}
	return s, nil
}

// Ledger returns the tender ledger.
func (s *Service) Ledger() *ledger.Ledger {
	return s.ledger
}

// Close stops the HTTP API and closes the store.
func (s *Service) Close() error {
	var errors []string

	if err := s.httpAPIServer.Close(); err != nil {
		errors = append(errors, fmt.Sprintf("closing http api server: %s", err))
	}
	if err := s.store.Close(); err != nil {
		errors = append(errors, fmt.Sprintf("closing store: %s", err))
	}

	if errors != nil {
		return fmt.Errorf("%s", strings.Join(errors, "\n"))
	}
	return nil
}

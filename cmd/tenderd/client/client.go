package client

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/textileio/tender-core/auth/ethjwt"
	"github.com/textileio/tender-core/cmd/tenderd/httpapi"
	"github.com/textileio/tender-core/tender"
)

// ErrNoKey indicates an authenticated call was made without a signing key.
var ErrNoKey = errors.New("client has no signing key")

// Error is returned when the API answers with an error status.
// It matches the tender errors whose codes it carries with errors.Is.
type Error struct {
	StatusCode int
	Message    string
	RequestID  string
	// Codes are the error codes reported by the API, primary code first.
	Codes []string
}

func (e *Error) Error() string {
	return fmt.Sprintf("tenderd %d: %s", e.StatusCode, e.Message)
}

// Is reports whether target is a tender error carried by e.
func (e *Error) Is(target error) bool {
	code := httpapi.CodeOf(target)
	if code == "" {
		return false
	}
	for _, c := range e.Codes {
		if c == code {
			return true
		}
	}
	return false
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.hc = hc
	}
}

// WithTokenTTL sets the lifetime of the tokens minted for authenticated calls.
func WithTokenTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.tokenTTL = ttl
	}
}

// WithAudience sets the audience of minted tokens.
func WithAudience(audience string) Option {
	return func(c *Client) {
		c.audience = audience
	}
}

// Client is a tenderd HTTP API client.
type Client struct {
	baseURL  string
	key      *ecdsa.PrivateKey
	hc       *http.Client
	tokenTTL time.Duration
	audience string
}

// New returns a new client of the API at baseURL. key signs the tokens of
// authenticated calls; it can be nil for a read-only client.
func New(baseURL string, key *ecdsa.PrivateKey, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		key:      key,
		hc:       &http.Client{Timeout: time.Second * 30},
		tokenTTL: time.Minute,
		audience: ethjwt.DefaultAudience,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Address returns the address of the client key.
func (c *Client) Address() common.Address {
	if c.key == nil {
		return common.Address{}
	}
	return crypto.PubkeyToAddress(c.key.PublicKey)
}

// Tender returns the tender header.
func (c *Client) Tender(ctx context.Context) (tender.Info, error) {
	var res httpapi.Tender
	if err := c.do(ctx, http.MethodGet, "/tender", false, nil, &res); err != nil {
		return tender.Info{}, err
	}
	return res.Info(), nil
}

// RevealEndTime returns the instant at which reveals stop being accepted.
func (c *Client) RevealEndTime(ctx context.Context) (time.Time, error) {
	var res httpapi.RevealEndTimeResponse
	if err := c.do(ctx, http.MethodGet, "/tender/reveal-end-time", false, nil, &res); err != nil {
		return time.Time{}, err
	}
	return res.RevealEndTime, nil
}

// Commitment asks the server for the commitment of value, salt and bidder.
// It's equivalent to tender.NewCommitment.
func (c *Client) Commitment(
	ctx context.Context,
	value uint64,
	salt tender.Salt,
	bidder common.Address) (tender.Commitment, error) {
	req := httpapi.CommitmentRequest{Value: value, Salt: salt, Bidder: bidder}
	var res httpapi.CommitmentResponse
	if err := c.do(ctx, http.MethodPost, "/commitment", false, req, &res); err != nil {
		return tender.Commitment{}, err
	}
	return res.Commitment, nil
}

// ListBids returns all bids in commit order.
func (c *Client) ListBids(ctx context.Context) ([]tender.Bid, error) {
	var res httpapi.ListBidsResponse
	if err := c.do(ctx, http.MethodGet, "/bids", false, nil, &res); err != nil {
		return nil, err
	}
	bids := make([]tender.Bid, len(res.Bids))
	for i := range res.Bids {
		bids[i] = res.Bids[i].Bid()
	}
	return bids, nil
}

// GetBid returns the bid of bidder.
func (c *Client) GetBid(ctx context.Context, bidder common.Address) (tender.Bid, error) {
	var res httpapi.Bid
	if err := c.do(ctx, http.MethodGet, "/bids/"+bidder.Hex(), false, nil, &res); err != nil {
		return tender.Bid{}, err
	}
	return res.Bid(), nil
}

// CommitBid submits a sealed bid.
func (c *Client) CommitBid(ctx context.Context, commitment tender.Commitment) (tender.Bid, error) {
	var res httpapi.Bid
	req := httpapi.CommitBidRequest{Commitment: commitment}
	if err := c.do(ctx, http.MethodPost, "/bids", true, req, &res); err != nil {
		return tender.Bid{}, err
	}
	return res.Bid(), nil
}

// RevealBid discloses the value and salt behind the submitted commitment.
func (c *Client) RevealBid(ctx context.Context, value uint64, salt tender.Salt) (tender.Bid, error) {
	var res httpapi.Bid
	req := httpapi.RevealBidRequest{Value: value, Salt: salt}
	if err := c.do(ctx, http.MethodPost, "/bids/reveal", true, req, &res); err != nil {
		return tender.Bid{}, err
	}
	return res.Bid(), nil
}

// StartRevealPhase closes the commit window. The client key must be the administrator's.
func (c *Client) StartRevealPhase(ctx context.Context) (tender.Info, error) {
	var res httpapi.Tender
	if err := c.do(ctx, http.MethodPost, "/tender/reveal", true, nil, &res); err != nil {
		return tender.Info{}, err
	}
	return res.Info(), nil
}

// SelectWinner closes the tender. The client key must be the administrator's.
func (c *Client) SelectWinner(ctx context.Context) (tender.Bid, error) {
	var res httpapi.Bid
	if err := c.do(ctx, http.MethodPost, "/tender/winner", true, nil, &res); err != nil {
		return tender.Bid{}, err
	}
	return res.Bid(), nil
}

func (c *Client) do(ctx context.Context, method, path string, authenticated bool, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %s", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("creating request: %s", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		if c.key == nil {
			return ErrNoKey
		}
		token, err := ethjwt.NewToken(c.key, c.audience, c.tokenTTL)
		if err != nil {
			return fmt.Errorf("creating token: %s", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %s", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode != http.StatusOK {
		apiErr := &Error{StatusCode: res.StatusCode, RequestID: res.Header.Get(httpapi.RequestIDHeader)}
		var errRes httpapi.ErrorResponse
		if err := json.NewDecoder(res.Body).Decode(&errRes); err != nil {
			apiErr.Message = http.StatusText(res.StatusCode)
		} else {
			apiErr.Message = errRes.Error
			apiErr.Codes = errRes.Codes
		}
		return apiErr
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %s", err)
	}
	return nil
}

package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	logging "github.com/textileio/go-log/v2"
	"github.com/textileio/tender-core/auth"
	"github.com/textileio/tender-core/tender"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	// LogName is the logger name of the HTTP API.
	LogName = "tender/http-api"
	// RequestIDHeader carries the id of a request in responses.
	RequestIDHeader = "X-Request-Id"

	maxBodySize = 1 << 20
)

var log = logging.Logger(LogName)

// Clock returns the current time.
type Clock func() time.Time

type callerKey struct{}

// NewServer starts serving the tender HTTP API on listenAddr.
func NewServer(listenAddr string, t tender.Tender, a auth.Authorizer, clock Clock) (*http.Server, error) {
	if clock == nil {
		clock = time.Now
	}
	httpServer := &http.Server{
		Addr:              listenAddr,
		ReadHeaderTimeout: time.Second * 5,
		WriteTimeout:      time.Second * 10,
		Handler:           createMux(t, a, clock),
	}

	log.Infof("Running HTTP API on %s...", listenAddr)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("stopping http server: %s", err)
		}
	}()

	return httpServer, nil
}

// NewHandler returns the handler serving the tender HTTP API.
func NewHandler(t tender.Tender, a auth.Authorizer, clock Clock) http.Handler {
	if clock == nil {
		clock = time.Now
	}
	return createMux(t, a, clock)
}

func createMux(t tender.Tender, a auth.Authorizer, clock Clock) *http.ServeMux {
	mux := http.NewServeMux()

	handle(mux, "/tender", "tender", http.MethodGet, infoHandler(t))
	handle(mux, "/tender/reveal-end-time", "revealendtime", http.MethodGet, revealEndTimeHandler(t))
	handle(mux, "/tender/reveal", "startreveal", http.MethodPost,
		authenticated(a, startRevealHandler(t, clock)))
	handle(mux, "/tender/winner", "selectwinner", http.MethodPost,
		authenticated(a, selectWinnerHandler(t, clock)))
	handle(mux, "/commitment", "commitment", http.MethodPost, commitmentHandler(t))
	handle(mux, "/bids/reveal", "revealbid", http.MethodPost,
		authenticated(a, revealBidHandler(t, clock)))
	handle(mux, "/bids/", "bid", http.MethodGet, bidHandler(t))
	mux.Handle("/bids", withRequestID(otelhttp.NewHandler(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				listBidsHandler(t)(w, r)
			case http.MethodPost:
				authenticated(a, commitBidHandler(t, clock))(w, r)
			default:
				httpError(w, r, "only GET and POST methods are allowed", http.StatusMethodNotAllowed)
			}
		}), "bids")))

	return mux
}

func handle(mux *http.ServeMux, pattern, name, method string, h http.HandlerFunc) {
	mux.Handle(pattern, withRequestID(otelhttp.NewHandler(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			if r.Method != method {
				httpError(w, r, fmt.Sprintf("only %s method is allowed", method), http.StatusMethodNotAllowed)
				return
			}
			h(w, r)
		}), name)))
}

func withRequestID(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.New().String()
			r.Header.Set(RequestIDHeader, id)
		}
		w.Header().Set(RequestIDHeader, id)
		h.ServeHTTP(w, r)
	})
}

func authenticated(a auth.Authorizer, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.Split(r.Header.Get("Authorization"), " ")
		if len(authHeader) != 2 || authHeader[0] != "Bearer" || authHeader[1] == "" {
			httpError(w, r, "authorization header should be 'Bearer <token>'", http.StatusUnauthorized)
			return
		}
		entity, ok, reason, err := a.IsAuthorized(r.Context(), authHeader[1])
		if err != nil {
			httpError(w, r, fmt.Sprintf("authorizer error: %s", err), http.StatusInternalServerError)
			return
		}
		if !ok {
			httpError(w, r, fmt.Sprintf("unauthorized: %s", reason), http.StatusUnauthorized)
			return
		}
		if !common.IsHexAddress(entity.Identity) {
			httpError(w, r, fmt.Sprintf("identity %q isn't an address", entity.Identity), http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), callerKey{}, common.HexToAddress(entity.Identity))
		h(w, r.WithContext(ctx))
	}
}

func callerFromContext(ctx context.Context) common.Address {
	caller, _ := ctx.Value(callerKey{}).(common.Address)
	return caller
}

func infoHandler(t tender.Tender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, newTender(t.Info()))
	}
}

func revealEndTimeHandler(t tender.Tender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, RevealEndTimeResponse{RevealEndTime: t.GetRevealTimeEnd()})
	}
}

func commitmentHandler(t tender.Tender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CommitmentRequest
		if !readJSON(w, r, &req) {
			return
		}
		writeJSON(w, r, CommitmentResponse{Commitment: t.GetCommitment(req.Value, req.Salt, req.Bidder)})
	}
}

func listBidsHandler(t tender.Tender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bids, err := t.ListBids(r.Context())
		if err != nil {
			ledgerError(w, r, fmt.Errorf("listing bids: %w", err))
			return
		}
		res := ListBidsResponse{Bids: make([]Bid, len(bids))}
		for i := range bids {
			res.Bids[i] = newBid(bids[i])
		}
		writeJSON(w, r, res)
	}
}

func bidHandler(t tender.Tender) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		addr := strings.TrimPrefix(r.URL.Path, "/bids/")
		if !common.IsHexAddress(addr) {
			httpError(w, r, fmt.Sprintf("invalid bidder address %q", addr), http.StatusBadRequest)
			return
		}
		bid, err := t.GetBidInfo(r.Context(), common.HexToAddress(addr))
		if err != nil {
			ledgerError(w, r, fmt.Errorf("getting bid: %w", err))
			return
		}
		writeJSON(w, r, newBid(bid))
	}
}

func commitBidHandler(t tender.Tender, clock Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CommitBidRequest
		if !readJSON(w, r, &req) {
			return
		}
		bid, err := t.CommitBid(r.Context(), callerFromContext(r.Context()), clock(), req.Commitment)
		if err != nil {
			ledgerError(w, r, fmt.Errorf("committing bid: %w", err))
			return
		}
		writeJSON(w, r, newBid(bid))
	}
}

func revealBidHandler(t tender.Tender, clock Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RevealBidRequest
		if !readJSON(w, r, &req) {
			return
		}
		bid, err := t.RevealBid(r.Context(), callerFromContext(r.Context()), clock(), req.Value, req.Salt)
		if err != nil {
			ledgerError(w, r, fmt.Errorf("revealing bid: %w", err))
			return
		}
		writeJSON(w, r, newBid(bid))
	}
}

func startRevealHandler(t tender.Tender, clock Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := t.StartRevealPhase(r.Context(), callerFromContext(r.Context()), clock()); err != nil {
			ledgerError(w, r, fmt.Errorf("starting reveal phase: %w", err))
			return
		}
		writeJSON(w, r, newTender(t.Info()))
	}
}

func selectWinnerHandler(t tender.Tender, clock Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bid, err := t.SelectWinner(r.Context(), callerFromContext(r.Context()), clock())
		if err != nil {
			ledgerError(w, r, fmt.Errorf("selecting winner: %w", err))
			return
		}
		writeJSON(w, r, newBid(bid))
	}
}

func readJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		httpError(w, r, fmt.Sprintf("decoding request: %s", err), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, r *http.Request, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("request %s: marshaling response: %s", r.Header.Get(RequestIDHeader), err)
	}
}

func ledgerError(w http.ResponseWriter, r *http.Request, err error) {
	writeError(w, r, ErrorResponse{Error: err.Error(), Codes: Codes(err)}, StatusCode(err))
}

func httpError(w http.ResponseWriter, r *http.Request, err string, status int) {
	writeError(w, r, ErrorResponse{Error: err}, status)
}

func writeError(w http.ResponseWriter, r *http.Request, res ErrorResponse, status int) {
	if len(res.Codes) > 0 {
		res.Code = res.Codes[0]
	}
	id := r.Header.Get(RequestIDHeader)
	if status >= http.StatusInternalServerError {
		log.Errorf("request %s error: %s", id, res.Error)
	} else {
		log.Debugf("request %s rejected: %s", id, res.Error)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(res)
}

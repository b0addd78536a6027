package httpapi

import (
	"errors"
	"net/http"

	"github.com/textileio/tender-core/tender"
)

// ErrorCode binds a ledger error to the stable code carried in error
// responses and to its HTTP status.
type ErrorCode struct {
	Err    error
	Code   string
	Status int
}

// ErrorCodes lists the ledger errors the API reports by code. An error can
// match more than one entry; the first match sets the status and the
// primary code.
var ErrorCodes = []ErrorCode{
	{Err: tender.ErrUnauthorized, Code: "unauthorized", Status: http.StatusForbidden},
	{Err: tender.ErrNoSuchBid, Code: "no_such_bid", Status: http.StatusNotFound},
	{Err: tender.ErrRevealNotOpen, Code: "reveal_not_open", Status: http.StatusConflict},
	{Err: tender.ErrWrongPhase, Code: "wrong_phase", Status: http.StatusConflict},
	{Err: tender.ErrRevealWindowClosed, Code: "reveal_window_closed", Status: http.StatusConflict},
	{Err: tender.ErrAlreadyCommitted, Code: "already_committed", Status: http.StatusConflict},
	{Err: tender.ErrNoRevealedBids, Code: "no_revealed_bids", Status: http.StatusConflict},
	{Err: tender.ErrCommitmentMismatch, Code: "commitment_mismatch", Status: http.StatusBadRequest},
	{Err: tender.ErrInvalidCommitment, Code: "invalid_commitment", Status: http.StatusBadRequest},
}

// CodeOf returns the code of a ledger error, or "" if it has none.
func CodeOf(err error) string {
	for _, ec := range ErrorCodes {
		if ec.Err == err {
			return ec.Code
		}
	}
	return ""
}

// StatusCode returns the HTTP status code a ledger error maps to.
func StatusCode(err error) int {
	for _, ec := range ErrorCodes {
		if errors.Is(err, ec.Err) {
			return ec.Status
		}
	}
	return http.StatusInternalServerError
}

// Codes returns the codes of every ledger error err matches, most specific first.
func Codes(err error) []string {
	var codes []string
	for _, ec := range ErrorCodes {
		if errors.Is(err, ec.Err) {
			codes = append(codes, ec.Code)
		}
	}
	return codes
}

package auth

import "context"

// AuthorizedEntity contains identity and origin information from an authorized entity.
type AuthorizedEntity struct {
	// Identity is the hex-encoded Ethereum address that signed the token.
	Identity string
	Origin   string
}

// Authorizer provides authorization resolving for tender requests.
type Authorizer interface {
	// IsAuthorized indicates if the token is authorized to call
	// the tender endpoints. If 'false' is returned, it also
	// returns a string with an explanation of why that's the case.
	IsAuthorized(ctx context.Context, token string) (AuthorizedEntity, bool, string, error)
}

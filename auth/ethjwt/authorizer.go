package ethjwt

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang-jwt/jwt"
	logging "github.com/textileio/go-log/v2"
	"github.com/textileio/tender-core/auth"
)

const (
	// DefaultAudience is the audience of tokens accepted by tenderd.
	DefaultAudience = "tenderd"
	// DefaultMaxTokenTTL is the longest token lifetime accepted by default.
	DefaultMaxTokenTTL = time.Hour
)

var log = logging.Logger("tender/auth")

// NewToken returns a token signed by key asserting its address as subject.
func NewToken(key *ecdsa.PrivateKey, audience string, ttl time.Duration) (string, error) {
	addr := crypto.PubkeyToAddress(key.PublicKey)
	now := time.Now()
	claims := &jwt.StandardClaims{
		Issuer:    addr.Hex(),
		Subject:   addr.Hex(),
		Audience:  audience,
		IssuedAt:  now.Unix(),
		NotBefore: now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}
	token, err := jwt.NewWithClaims(SigningMethod, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("signing token: %s", err)
	}
	return token, nil
}

// Authorizer accepts ETH-signed tokens whose subject is the signer address.
// Tokens must expire, and no later than the max token TTL after they were
// issued.
type Authorizer struct {
	audience string
	maxTTL   time.Duration
}

var _ auth.Authorizer = (*Authorizer)(nil)

// Option configures an Authorizer.
type Option func(*Authorizer)

// WithMaxTokenTTL sets the longest accepted token lifetime.
func WithMaxTokenTTL(ttl time.Duration) Option {
	return func(a *Authorizer) {
		a.maxTTL = ttl
	}
}

// NewAuthorizer returns an Authorizer requiring tokens for audience.
func NewAuthorizer(audience string, opts ...Option) *Authorizer {
	a := &Authorizer{audience: audience, maxTTL: DefaultMaxTokenTTL}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// IsAuthorized implements auth.Authorizer. The identity of the returned entity
// is the checksummed signer address.
func (a *Authorizer) IsAuthorized(ctx context.Context, token string) (auth.AuthorizedEntity, bool, string, error) {
	claims := &jwt.StandardClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != SigningMethod {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		c, ok := t.Claims.(*jwt.StandardClaims)
		if !ok || !common.IsHexAddress(c.Subject) {
			return nil, fmt.Errorf("subject isn't an address")
		}
		return common.HexToAddress(c.Subject), nil
	})
	if err != nil {
		log.Debugf("rejecting token: %s", err)
		return auth.AuthorizedEntity{}, false, fmt.Sprintf("invalid token: %s", err), nil
	}
	if !parsed.Valid {
		return auth.AuthorizedEntity{}, false, "invalid token", nil
	}
	if !claims.VerifyAudience(a.audience, true) {
		return auth.AuthorizedEntity{}, false, fmt.Sprintf("token audience must be %s", a.audience), nil
	}
	if claims.ExpiresAt == 0 {
		return auth.AuthorizedEntity{}, false, "token must have an expiration time", nil
	}
	issued := time.Now().Unix()
	if claims.IssuedAt != 0 && claims.IssuedAt < issued {
		issued = claims.IssuedAt
	}
	if time.Duration(claims.ExpiresAt-issued)*time.Second > a.maxTTL {
		return auth.AuthorizedEntity{}, false, fmt.Sprintf("token lifetime exceeds %s", a.maxTTL), nil
	}
	return auth.AuthorizedEntity{
		Identity: common.HexToAddress(claims.Subject).Hex(),
		Origin:   claims.Issuer,
	}, true, "", nil
}

package tender

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// SaltLength is the length in bytes of a bid salt.
const SaltLength = 32

// Salt is the secret blinding a bid value.
type Salt [SaltLength]byte

// Commitment is the keccak256 digest binding a bid value, a salt and a bidder.
type Commitment common.Hash

// NewCommitment returns the commitment for value, salt and bidder. It's the
// keccak256 hash of the tightly packed (uint256, bytes32, address) tuple, so
// it matches what EVM tooling computes for the same inputs.
func NewCommitment(value uint64, salt Salt, bidder common.Address) Commitment {
	var v [32]byte
	binary.BigEndian.PutUint64(v[24:], value)
	return Commitment(crypto.Keccak256Hash(v[:], salt[:], bidder.Bytes()))
}

// NewSalt returns a random salt.
func NewSalt() (Salt, error) {
	var s Salt
	if _, err := io.ReadFull(rand.Reader, s[:]); err != nil {
		return Salt{}, fmt.Errorf("reading random bytes: %s", err)
	}
	return s, nil
}

// ParseSalt parses a 0x-prefixed hex salt.
func ParseSalt(s string) (Salt, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return Salt{}, fmt.Errorf("decoding salt: %s", err)
	}
	if len(b) != SaltLength {
		return Salt{}, fmt.Errorf("salt must be %d bytes long, got %d", SaltLength, len(b))
	}
	var salt Salt
	copy(salt[:], b)
	return salt, nil
}

// String returns the 0x-prefixed hex encoding of the salt.
func (s Salt) String() string {
	return hexutil.Encode(s[:])
}

// MarshalText implements encoding.TextMarshaler.
func (s Salt) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Salt) UnmarshalText(text []byte) error {
	salt, err := ParseSalt(string(text))
	if err != nil {
		return err
	}
	*s = salt
	return nil
}

// ParseCommitment parses a 0x-prefixed hex commitment.
func ParseCommitment(s string) (Commitment, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return Commitment{}, fmt.Errorf("decoding commitment: %s", err)
	}
	if len(b) != common.HashLength {
		return Commitment{}, fmt.Errorf("commitment must be %d bytes long, got %d", common.HashLength, len(b))
	}
	return Commitment(common.BytesToHash(b)), nil
}

// IsZero returns true if c is the zero digest.
func (c Commitment) IsZero() bool {
	return c == Commitment{}
}

// String returns the 0x-prefixed hex encoding of the commitment.
func (c Commitment) String() string {
	return common.Hash(c).Hex()
}

// MarshalText implements encoding.TextMarshaler.
func (c Commitment) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Commitment) UnmarshalText(text []byte) error {
	parsed, err := ParseCommitment(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

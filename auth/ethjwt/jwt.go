package ethjwt

import (
	"bytes"
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/golang-jwt/jwt"
)

// SigningMethodEth implements the ETH signing method.
// Expects *ecdsa.PrivateKey for signing and common.Address
// for validation.
type SigningMethodEth struct {
	Name string
}

// SigningMethod is a specific instance for ETH.
var SigningMethod *SigningMethodEth

// signHash is a helper function that calculates a hash for the given message that can be
// safely used to calculate a signature from.
//
// The hash is calculated as
//   keccak256("\x19Ethereum Signed Message:\n"${message length}${message}).
//
// This gives context to the signed message and prevents signing of transactions.
func signHash(data []byte) []byte {
	msg := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(data), data)
	return crypto.Keccak256([]byte(msg))
}

func init() {
	SigningMethod = &SigningMethodEth{"ETH"}
	jwt.RegisterSigningMethod(SigningMethod.Alg(), func() jwt.SigningMethod {
		return SigningMethod
	})
}

// Alg returns the name of this signing method.
func (m *SigningMethodEth) Alg() string {
	return m.Name
}

// Verify implements the Verify method from SigningMethod.
// For this signing method, key must be a common.Address.
func (m *SigningMethodEth) Verify(signingString, signature string, key interface{}) error {
	expected, ok := key.(common.Address)
	if !ok {
		return jwt.ErrInvalidKeyType
	}

	sig, err := jwt.DecodeSegment(signature)
	if err != nil {
		return err
	}
	pub, err := crypto.SigToPub(signHash([]byte(signingString)), sig)
	if err != nil {
		return err
	}
	recovered := crypto.PubkeyToAddress(*pub)
	if !bytes.Equal(expected.Bytes(), recovered.Bytes()) {
		return jwt.ErrSignatureInvalid
	}
	return nil
}

// Sign implements the Sign method from SigningMethod.
// For this signing method, key must be a *ecdsa.PrivateKey.
func (m *SigningMethodEth) Sign(signingString string, key interface{}) (string, error) {
	sk, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return "", jwt.ErrInvalidKey
	}
	sig, err := crypto.Sign(signHash([]byte(signingString)), sk)
	if err != nil {
		return "", err
	}
	return jwt.EncodeSegment(sig), nil
}

package bisign

import (
	"crypto/rand"
	"crypto/rsa"
	"fmt"

	"github.com/arma-tools/bisign-go/pkg/bisign/blob"
)

// DefaultKeyBits is the modulus size used when a caller doesn't ask for a
// specific one.
const DefaultKeyBits = 1024

// publicExponent is the only exponent BI keys use; crypto/rsa.GenerateKey
// always produces 65537 as well, so this is asserted rather than chosen.
const publicExponent = 65537

// GenerateKeyPair produces a fresh RSA keypair of the given bit length
// under name, deriving the CRT parameters BI's private key blob carries.
func GenerateKeyPair(name string, bits int) (*blob.PrivateKey, *blob.PublicKey, error) {
	raw, err := rsa.GenerateKey(rand.Reader, bits)
	if err != nil {
		return nil, nil, fmt.Errorf("bisign: generating key: %w", err)
	}
	raw.Precompute()

	if raw.PublicKey.E != publicExponent {
		return nil, nil, fmt.Errorf("bisign: generated key has exponent %d, expected %d", raw.PublicKey.E, publicExponent)
	}

	priv := &blob.PrivateKey{
		Name:     name,
		Length:   uint32(bits),
		Exponent: publicExponent,
		N:        raw.N,
		P:        raw.Primes[0],
		Q:        raw.Primes[1],
		DP:       raw.Precomputed.Dp,
		DQ:       raw.Precomputed.Dq,
		QInv:     raw.Precomputed.Qinv,
		D:        raw.D,
	}
	return priv, priv.Public(), nil
}

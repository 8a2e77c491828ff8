// Package rsaop implements the two big-integer operations a BI signature
// needs: modular exponentiation with the private exponent to sign, and
// with the public exponent to recover a digest for verification. No
// blinding or timing countermeasures are applied; this is offline tooling,
// not a network-facing oracle.
package rsaop

import "math/big"

// Sign computes bn^d mod n.
func Sign(bn, d, n *big.Int) *big.Int {
	return new(big.Int).Exp(bn, d, n)
}

// Verify computes sig^e mod n, recovering the digest a valid signature was
// produced from.
func Verify(sig, e, n *big.Int) *big.Int {
	return new(big.Int).Exp(sig, e, n)
}

// Package bignum encodes and decodes arbitrary-precision integers using the
// little-endian, fixed-width byte layout that Bohemia Interactive's key and
// signature blobs use: a big-endian unsigned encoding with its byte order
// reversed, matching the Microsoft CryptoAPI blob convention.
package bignum

import (
	"fmt"
	"math/big"
)

// Write encodes n as exactly width little-endian bytes. It fails if n is
// negative or does not fit in width bytes.
func Write(n *big.Int, width int) ([]byte, error) {
	if n.Sign() < 0 {
		return nil, fmt.Errorf("bignum: cannot encode negative value")
	}

	be := n.Bytes() // big-endian, no leading zeros
	if len(be) > width {
		return nil, fmt.Errorf("bignum: value requires %d bytes, width is %d", len(be), width)
	}

	out := make([]byte, width)
	for i, b := range be {
		out[len(be)-1-i] = b
	}
	return out, nil
}

// Read interprets buf as a little-endian unsigned integer: the byte order
// is reversed to big-endian first, then parsed with no sign bit.
func Read(buf []byte) *big.Int {
	be := make([]byte, len(buf))
	for i, b := range buf {
		be[len(buf)-1-i] = b
	}
	return new(big.Int).SetBytes(be)
}

package bignum

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReadRoundTrip(t *testing.T) {
	testCases := []struct {
		name  string
		value string // decimal
		width int
	}{
		{"zero", "0", 8},
		{"small", "255", 8},
		{"fits exactly", "340282366920938463463374607431768211455", 16}, // 2^128-1
		{"wide key", "65537", 128},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n, ok := new(big.Int).SetString(tc.value, 10)
			require.True(t, ok)

			encoded, err := Write(n, tc.width)
			require.NoError(t, err)
			assert.Len(t, encoded, tc.width)

			decoded := Read(encoded)
			assert.Equal(t, 0, n.Cmp(decoded))
		})
	}
}

func TestWriteRejectsOverflow(t *testing.T) {
	n := big.NewInt(0x1FFFF)
	_, err := Write(n, 2)
	assert.Error(t, err)
}

func TestWriteRejectsNegative(t *testing.T) {
	n := big.NewInt(-1)
	_, err := Write(n, 4)
	assert.Error(t, err)
}

func TestWriteIsLittleEndian(t *testing.T) {
	n := big.NewInt(0x0102)
	encoded, err := Write(n, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x02, 0x01, 0x00, 0x00}, encoded)
}

func TestWritePadsOnRight(t *testing.T) {
	n := big.NewInt(1)
	encoded, err := Write(n, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x00, 0x00, 0x00}, encoded)
}

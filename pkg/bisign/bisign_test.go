package bisign_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arma-tools/bisign-go/pkg/bisign"
	"github.com/arma-tools/bisign-go/pkg/bisign/bierr"
	"github.com/arma-tools/bisign-go/pkg/bisign/blob"
	"github.com/arma-tools/bisign-go/pkg/pbo"
)

// S1: a plain signed script PBO verifies, and the signature carries the
// key's identity through a byte-level round trip.
func TestSignVerifyRoundTripV3(t *testing.T) {
	priv, pub, err := bisign.GenerateKeyPair("testauth", 1024)
	require.NoError(t, err)

	b := pbo.NewBuilder().AddFile("script.sqf", []byte(`hint "hi";`))
	archive, _, err := b.Build()
	require.NoError(t, err)

	sig, err := bisign.Sign(archive, priv, blob.V3)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, sig.Write(&buf))
	decoded, err := blob.ReadSignature(&buf)
	require.NoError(t, err)

	assert.Equal(t, "testauth", decoded.Name)
	assert.Equal(t, uint32(1024), decoded.Length)
	assert.Equal(t, blob.V3, decoded.Version)

	assert.NoError(t, bisign.Verify(archive, pub, decoded))
}

// S2: V2 signs the same script since .sqf is not on the V2 exclusion list.
func TestSignVerifyRoundTripV2(t *testing.T) {
	priv, pub, err := bisign.GenerateKeyPair("testauth", 1024)
	require.NoError(t, err)

	b := pbo.NewBuilder().AddFile("script.sqf", []byte(`hint "hi";`))
	archive, _, err := b.Build()
	require.NoError(t, err)

	sig, err := bisign.Sign(archive, priv, blob.V2)
	require.NoError(t, err)
	assert.NoError(t, bisign.Verify(archive, pub, sig))
}

// S3/S4: a PBO holding only an image file hits the empty-selection
// sentinel under both versions, and the two sentinels produce different
// signatures for the same key and archive.
func TestEmptyFileSelectionSentinelsDiffer(t *testing.T) {
	priv, pub, err := bisign.GenerateKeyPair("testauth", 1024)
	require.NoError(t, err)

	b := pbo.NewBuilder().AddFile("image.paa", make([]byte, 2048))
	archive, _, err := b.Build()
	require.NoError(t, err)

	sigV2, err := bisign.Sign(archive, priv, blob.V2)
	require.NoError(t, err)
	assert.NoError(t, bisign.Verify(archive, pub, sigV2))

	sigV3, err := bisign.Sign(archive, priv, blob.V3)
	require.NoError(t, err)
	assert.NoError(t, bisign.Verify(archive, pub, sigV3))

	assert.NotEqual(t, 0, sigV2.Sig3.Cmp(sigV3.Sig3), "V2 and V3 empty-selection sentinels must differ")
}

// S5: tampering the stored checksum after signing causes a HashMismatch on
// H1, reported as bare 40-character lowercase hex once the shared padding
// is stripped.
func TestTamperedChecksumFailsHash1(t *testing.T) {
	priv, pub, err := bisign.GenerateKeyPair("testauth", 1024)
	require.NoError(t, err)

	b := pbo.NewBuilder().AddFile("script.sqf", []byte(`hint "hi";`))
	archive, _, err := b.Build()
	require.NoError(t, err)

	sig, err := bisign.Sign(archive, priv, blob.V3)
	require.NoError(t, err)

	tampered := &tamperedChecksumView{View: archive}

	err = bisign.Verify(tampered, pub, sig)
	require.Error(t, err)

	var hashErr *bierr.HashMismatchError
	require.ErrorAs(t, err, &hashErr)
	assert.Equal(t, 1, hashErr.Which)
	assert.Len(t, hashErr.Signed, 40)
	assert.Len(t, hashErr.Real, 40)
}

// S8: a signature whose authority doesn't match the key fails before any
// RSA work happens, regardless of hash equality.
func TestAuthorityMismatch(t *testing.T) {
	priv, _, err := bisign.GenerateKeyPair("authone", 1024)
	require.NoError(t, err)
	_, otherPub, err := bisign.GenerateKeyPair("authtwo", 1024)
	require.NoError(t, err)

	b := pbo.NewBuilder().AddFile("script.sqf", []byte(`hint "hi";`))
	archive, _, err := b.Build()
	require.NoError(t, err)

	sig, err := bisign.Sign(archive, priv, blob.V3)
	require.NoError(t, err)

	err = bisign.Verify(archive, otherPub, sig)
	require.Error(t, err)

	var authErr *bierr.AuthorityMismatchError
	assert.ErrorAs(t, err, &authErr)
}

// S6: a signature reaches byte-identical output after a full decode/encode
// cycle, independent of signing.
func TestSignatureBytesStable(t *testing.T) {
	priv, _, err := bisign.GenerateKeyPair("testauth", 1024)
	require.NoError(t, err)

	b := pbo.NewBuilder().AddFile("script.sqf", []byte(`hint "hi";`))
	archive, _, err := b.Build()
	require.NoError(t, err)

	sig, err := bisign.Sign(archive, priv, blob.V3)
	require.NoError(t, err)

	var first bytes.Buffer
	require.NoError(t, sig.Write(&first))

	decoded, err := blob.ReadSignature(bytes.NewReader(first.Bytes()))
	require.NoError(t, err)

	var second bytes.Buffer
	require.NoError(t, decoded.Write(&second))

	assert.Equal(t, first.Bytes(), second.Bytes())
}

// Flipping a byte in a file included by the version filter breaks H3 (and
// the body it hashes no longer matches anything signed).
func TestTamperedBodyFailsHash3(t *testing.T) {
	priv, pub, err := bisign.GenerateKeyPair("testauth", 1024)
	require.NoError(t, err)

	b := pbo.NewBuilder().AddFile("script.sqf", []byte(`hint "hi";`))
	archive, _, err := b.Build()
	require.NoError(t, err)

	sig, err := bisign.Sign(archive, priv, blob.V3)
	require.NoError(t, err)

	// Tamper only the body a file filter admits, leaving the archive's
	// own stored checksum (hash1) untouched, so the failure isolates to
	// H3 rather than cascading into H1 as well.
	tampered := &tamperedBodyView{View: archive, filename: "script.sqf", body: []byte(`hint "HI";`)}

	err = bisign.Verify(tampered, pub, sig)
	require.Error(t, err)

	var hashErr *bierr.HashMismatchError
	require.ErrorAs(t, err, &hashErr)
	assert.Equal(t, 3, hashErr.Which)
}

type tamperedChecksumView struct {
	pbo.View
}

func (v *tamperedChecksumView) Checksum() [20]byte {
	sum := v.View.Checksum()
	sum[0] ^= 0xFF
	return sum
}

type tamperedBodyView struct {
	pbo.View
	filename string
	body     []byte
}

func (v *tamperedBodyView) Retrieve(filename string) ([]byte, error) {
	if filename == v.filename {
		return v.body, nil
	}
	return v.View.Retrieve(filename)
}

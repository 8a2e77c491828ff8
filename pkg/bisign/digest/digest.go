// Package digest builds the three padded SHA-1 digests a BI signature signs
// and verifies: the PBO's stored checksum, a hash of its file names, and a
// version-filtered hash of selected file bodies, each wrapped in
// PKCS#1-v1.5 block-type-01 padding sized to the signing key's modulus.
package digest

import (
	"crypto/sha1"
	"fmt"
	"math/big"
	"strings"

	"github.com/arma-tools/bisign-go/pkg/bisign/bierr"
	"github.com/arma-tools/bisign-go/pkg/bisign/blob"
	"github.com/arma-tools/bisign-go/pkg/pbo"
)

// Triple is the ephemeral (H1, H2, H3) produced for one sign or verify
// pass. Each element is a padded big integer exactly Length/8 bytes wide.
type Triple struct {
	H1, H2, H3 *big.Int
}

// v2Excluded are the extensions FileHash skips under V2; everything else
// is included.
var v2Excluded = map[string]bool{
	"paa": true, "jpg": true, "p3d": true, "tga": true, "rvmat": true,
	"lip": true, "ogg": true, "wss": true, "png": true, "rtm": true,
	"pac": true, "fxy": true, "wrp": true,
}

// v3Included are the only extensions FileHash keeps under V3.
var v3Included = map[string]bool{
	"sqf": true, "inc": true, "bikb": true, "ext": true, "fsm": true,
	"sqm": true, "hpp": true, "cfg": true, "sqs": true, "h": true,
}

// minPaddedWidth is the smallest Length/8 the padding layout can fill: 38
// fixed bytes (header + digest) plus an 8-byte minimum of 0xFF filler.
const minPaddedWidth = 38 + 8

// Build computes (H1, H2, H3) for view under version, padded to length/8
// bytes (length is the signing key's modulus bit-length).
func Build(view pbo.View, version blob.Version, length uint32) (Triple, error) {
	width := int(length / 8)
	if width < minPaddedWidth {
		return Triple{}, fmt.Errorf("digest: modulus too small: %d bits gives %d-byte digests, need at least %d", length, width, minPaddedWidth)
	}

	checksum := view.Checksum()
	hash1 := checksum[:]

	name := nameHash(view)
	prefix := prefixBytes(view)

	h2 := sha1.New()
	h2.Write(hash1)
	h2.Write(name)
	h2.Write(prefix)
	hash2 := h2.Sum(nil)

	file, err := fileHash(view, version)
	if err != nil {
		return Triple{}, err
	}

	h3 := sha1.New()
	h3.Write(file)
	h3.Write(name)
	h3.Write(prefix)
	hash3 := h3.Sum(nil)

	return Triple{
		H1: padHash(hash1, width),
		H2: padHash(hash2, width),
		H3: padHash(hash3, width),
	}, nil
}

// sha1AlgorithmIdentifier is the DER AlgorithmIdentifier + OCTET STRING
// tag/length for SHA-1, as used by PKCS#1 v1.5 signature padding.
var sha1AlgorithmIdentifier = []byte{
	0x00, 0x30, 0x21, 0x30, 0x09, 0x06, 0x05, 0x2b,
	0x0e, 0x03, 0x02, 0x1a, 0x05, 0x00, 0x04, 0x14,
}

// padHash wraps a 20-byte SHA-1 digest in PKCS#1-v1.5 block-type-01 padding
// extended to size bytes: 00 01 FF..FF <algorithm identifier> <digest>,
// then interprets the buffer as an unsigned big-endian integer.
func padHash(hash []byte, size int) *big.Int {
	buf := make([]byte, 0, size)
	buf = append(buf, 0x00, 0x01)
	for len(buf) < size-36 {
		buf = append(buf, 0xFF)
	}
	buf = append(buf, sha1AlgorithmIdentifier...)
	buf = append(buf, hash...)
	return new(big.Int).SetBytes(buf)
}

// nameHash is SHA-1 over the lowercased filenames of all non-empty files,
// in the archive's sorted order, concatenated with no separator.
func nameHash(view pbo.View) []byte {
	h := sha1.New()
	for _, f := range view.Files(true) {
		if f.Size == 0 {
			continue
		}
		h.Write([]byte(strings.ToLower(f.Filename)))
	}
	return h.Sum(nil)
}

// fileHash is SHA-1 over the bodies of files admitted by version's filter,
// in the archive's natural (insertion) order. If the filter admits no
// files, a fixed sentinel payload stands in for the empty selection. A
// failed body retrieval is a hard error, not grounds for silently treating
// the file as excluded - it would otherwise hash a smaller file set than
// the filter actually selected.
func fileHash(view pbo.View, version blob.Version) ([]byte, error) {
	h := sha1.New()
	included := false

	for _, f := range view.Files(false) {
		if !admits(version, f.Filename) {
			continue
		}
		body, err := view.Retrieve(f.Filename)
		if err != nil {
			return nil, &bierr.IOError{Cause: fmt.Errorf("retrieving %q: %w", f.Filename, err)}
		}
		h.Write(body)
		included = true
	}

	if !included {
		switch version {
		case blob.V2:
			h.Write([]byte("nothing"))
		case blob.V3:
			h.Write([]byte("gnihton"))
		}
	}

	return h.Sum(nil), nil
}

func admits(version blob.Version, filename string) bool {
	ext := extension(filename)
	switch version {
	case blob.V2:
		return !v2Excluded[ext]
	case blob.V3:
		return v3Included[ext]
	default:
		return false
	}
}

// extension returns the final dot-separated component of filename exactly
// as stored, with no case-folding - matching against v2Excluded/v3Included
// is case-sensitive per the reference. A name with no dot takes its whole
// name as its extension.
func extension(filename string) string {
	if i := strings.LastIndexByte(filename, '.'); i >= 0 {
		return filename[i+1:]
	}
	return filename
}

// prefixBytes returns the PBO's "prefix" extension, with a backslash
// appended if it does not already end in one, or an empty slice if the
// extension is absent.
func prefixBytes(view pbo.View) []byte {
	prefix, ok := view.Extensions()["prefix"]
	if !ok {
		return nil
	}
	if !strings.HasSuffix(prefix, `\`) {
		prefix += `\`
	}
	return []byte(prefix)
}

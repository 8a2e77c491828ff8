package blob

import (
	"bufio"
	"fmt"
	"io"
	"math/big"

	"github.com/arma-tools/bisign-go/pkg/bisign/bierr"
	"github.com/arma-tools/bisign-go/pkg/bisign/bignum"
)

// Version selects the file-inclusion filter used to build the third
// digest. V2 and V3 differ in which file extensions participate and in the
// sentinel payload hashed when no file is selected.
type Version uint32

const (
	V2 Version = 2
	V3 Version = 3
)

// VersionFromUint32 parses a signature version field, failing on anything
// other than 2 or 3. This is the only conversion path; there is no
// panicking alternative.
func VersionFromUint32(v uint32) (Version, error) {
	switch v {
	case 2:
		return V2, nil
	case 3:
		return V3, nil
	default:
		return 0, &bierr.UnknownVersionError{Version: v}
	}
}

func (v Version) String() string {
	switch v {
	case V2:
		return "V2"
	case V3:
		return "V3"
	default:
		return fmt.Sprintf("V%d", uint32(v))
	}
}

// Signature is a BI signature (.bisign): the version-tagged file layout
// carrying the signing key's public fields and three RSA signature
// integers.
type Signature struct {
	Version  Version
	Name     string
	Length   uint32
	Exponent uint32
	N        *big.Int
	Sig1     *big.Int
	Sig2     *big.Int
	Sig3     *big.Int
}

// ReadSignature decodes a signature blob.
func ReadSignature(r io.Reader) (*Signature, error) {
	br := bufio.NewReader(r)

	name, err := readCString(br)
	if err != nil {
		return nil, err
	}

	sizePrefix, err := readU32(br)
	if err != nil {
		return nil, err
	}

	if err := readMagic(br, publicMagic); err != nil {
		return nil, err
	}
	if err := readTag(br, publicTag); err != nil {
		return nil, err
	}

	length, err := readU32(br)
	if err != nil {
		return nil, err
	}
	exponent, err := readU32(br)
	if err != nil {
		return nil, err
	}

	if want := length/8 + 20; sizePrefix != want {
		return nil, fmt.Errorf("%w: size prefix %d does not match length/8+20=%d", bierr.ErrMalformedBlob, sizePrefix, want)
	}

	width := int(length / 8)

	nBytes, err := readFixed(br, width)
	if err != nil {
		return nil, err
	}

	sig1Bytes, err := readSized(br, width)
	if err != nil {
		return nil, err
	}

	versionField, err := readU32(br)
	if err != nil {
		return nil, err
	}
	version, err := VersionFromUint32(versionField)
	if err != nil {
		return nil, err
	}

	sig2Bytes, err := readSized(br, width)
	if err != nil {
		return nil, err
	}
	sig3Bytes, err := readSized(br, width)
	if err != nil {
		return nil, err
	}

	return &Signature{
		Version:  version,
		Name:     name,
		Length:   length,
		Exponent: exponent,
		N:        bignum.Read(nBytes),
		Sig1:     bignum.Read(sig1Bytes),
		Sig2:     bignum.Read(sig2Bytes),
		Sig3:     bignum.Read(sig3Bytes),
	}, nil
}

// Write encodes the signature blob.
func (s *Signature) Write(w io.Writer) error {
	if err := writeCString(w, s.Name); err != nil {
		return err
	}
	if err := writeU32(w, s.Length/8+20); err != nil {
		return err
	}
	if _, err := w.Write(publicMagic[:]); err != nil {
		return bierr.WrapIO(err)
	}
	if _, err := io.WriteString(w, publicTag); err != nil {
		return bierr.WrapIO(err)
	}
	if err := writeU32(w, s.Length); err != nil {
		return err
	}
	if err := writeU32(w, s.Exponent); err != nil {
		return err
	}

	width := int(s.Length / 8)

	if err := writeBignum(w, s.N, width); err != nil {
		return err
	}

	sig1, err := bignum.Write(s.Sig1, width)
	if err != nil {
		return err
	}
	if err := writeSized(w, sig1); err != nil {
		return err
	}

	if err := writeU32(w, uint32(s.Version)); err != nil {
		return err
	}

	sig2, err := bignum.Write(s.Sig2, width)
	if err != nil {
		return err
	}
	if err := writeSized(w, sig2); err != nil {
		return err
	}

	sig3, err := bignum.Write(s.Sig3, width)
	if err != nil {
		return err
	}
	return writeSized(w, sig3)
}

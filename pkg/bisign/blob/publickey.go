package blob

import (
	"bufio"
	"fmt"
	"io"
	"math/big"

	"github.com/arma-tools/bisign-go/pkg/bisign/bierr"
	"github.com/arma-tools/bisign-go/pkg/bisign/bignum"
)

// PublicKey is a BI public key (.bikey): the authority name, RSA exponent
// and modulus, sized by Length in bits.
type PublicKey struct {
	Name     string
	Length   uint32 // modulus bit-length, a multiple of 8
	Exponent uint32
	N        *big.Int
}

// ReadPublicKey decodes a public key blob.
func ReadPublicKey(r io.Reader) (*PublicKey, error) {
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

	nBytes, err := readFixed(br, int(length/8))
	if err != nil {
		return nil, err
	}

	return &PublicKey{
		Name:     name,
		Length:   length,
		Exponent: exponent,
		N:        bignum.Read(nBytes),
	}, nil
}

// Write encodes the public key blob.
func (k *PublicKey) Write(w io.Writer) error {
	if err := writeCString(w, k.Name); err != nil {
		return err
	}
	if err := writeU32(w, k.Length/8+20); err != nil {
		return err
	}
	if _, err := w.Write(publicMagic[:]); err != nil {
		return bierr.WrapIO(err)
	}
	if _, err := io.WriteString(w, publicTag); err != nil {
		return bierr.WrapIO(err)
	}
	if err := writeU32(w, k.Length); err != nil {
		return err
	}
	if err := writeU32(w, k.Exponent); err != nil {
		return err
	}
	return writeBignum(w, k.N, int(k.Length/8))
}

func readFixed(r io.Reader, width int) ([]byte, error) {
	buf := make([]byte, width)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", bierr.ErrMalformedBlob, err)
	}
	return buf, nil
}

func writeBignum(w io.Writer, n *big.Int, width int) error {
	buf, err := bignum.Write(n, width)
	if err != nil {
		return err
	}
	_, werr := w.Write(buf)
	return bierr.WrapIO(werr)
}

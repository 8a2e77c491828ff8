package blob

import (
	"bufio"
	"fmt"
	"io"
	"math/big"

	"github.com/arma-tools/bisign-go/pkg/bisign/bierr"
	"github.com/arma-tools/bisign-go/pkg/bisign/bignum"
)

// PrivateKey is a BI private key (.biprivatekey): the public fields plus
// the CRT parameters and private exponent needed to sign.
type PrivateKey struct {
	Name     string
	Length   uint32
	Exponent uint32
	N        *big.Int

	P    *big.Int // prime1
	Q    *big.Int // prime2
	DP   *big.Int // d mod (p-1)
	DQ   *big.Int // d mod (q-1)
	QInv *big.Int // q^-1 mod p
	D    *big.Int // private exponent
}

// Public returns the public key embedded in the private key.
func (k *PrivateKey) Public() *PublicKey {
	return &PublicKey{Name: k.Name, Length: k.Length, Exponent: k.Exponent, N: k.N}
}

// ReadPrivateKey decodes a private key blob.
func ReadPrivateKey(r io.Reader) (*PrivateKey, error) {
	br := bufio.NewReader(r)

	name, err := readCString(br)
	if err != nil {
		return nil, err
	}

	sizePrefix, err := readU32(br)
	if err != nil {
		return nil, err
	}

	if err := readMagic(br, privateMagic); err != nil {
		return nil, err
	}
	if err := readTag(br, privateTag); err != nil {
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

	half := int(length / 16)
	full := int(length / 8)

	nBytes, err := readFixed(br, full)
	if err != nil {
		return nil, err
	}
	pBytes, err := readFixed(br, half)
	if err != nil {
		return nil, err
	}
	qBytes, err := readFixed(br, half)
	if err != nil {
		return nil, err
	}
	dpBytes, err := readFixed(br, half)
	if err != nil {
		return nil, err
	}
	dqBytes, err := readFixed(br, half)
	if err != nil {
		return nil, err
	}
	qinvBytes, err := readFixed(br, half)
	if err != nil {
		return nil, err
	}
	dBytes, err := readFixed(br, full)
	if err != nil {
		return nil, err
	}

	return &PrivateKey{
		Name:     name,
		Length:   length,
		Exponent: exponent,
		N:        bignum.Read(nBytes),
		P:        bignum.Read(pBytes),
		Q:        bignum.Read(qBytes),
		DP:       bignum.Read(dpBytes),
		DQ:       bignum.Read(dqBytes),
		QInv:     bignum.Read(qinvBytes),
		D:        bignum.Read(dBytes),
	}, nil
}

// Write encodes the private key blob.
func (k *PrivateKey) Write(w io.Writer) error {
	if err := writeCString(w, k.Name); err != nil {
		return err
	}
	if err := writeU32(w, k.Length/8+20); err != nil {
		return err
	}
	if _, err := w.Write(privateMagic[:]); err != nil {
		return bierr.WrapIO(err)
	}
	if _, err := io.WriteString(w, privateTag); err != nil {
		return bierr.WrapIO(err)
	}
	if err := writeU32(w, k.Length); err != nil {
		return err
	}
	if err := writeU32(w, k.Exponent); err != nil {
		return err
	}

	half := int(k.Length / 16)
	full := int(k.Length / 8)

	for _, f := range []struct {
		n *big.Int
		w int
	}{
		{k.N, full},
		{k.P, half},
		{k.Q, half},
		{k.DP, half},
		{k.DQ, half},
		{k.QInv, half},
		{k.D, full},
	} {
		if err := writeBignum(w, f.n, f.w); err != nil {
			return err
		}
	}
	return nil
}

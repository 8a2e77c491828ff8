// Package blob implements the binary layouts of BI key and signature
// files: a derivative of the Microsoft PUBLICKEYBLOB/PRIVATEKEYBLOB schema,
// little-endian and unaligned throughout.
package blob

import (
	"bufio"
	"fmt"
	"io"

	"github.com/arma-tools/bisign-go/pkg/bisign/bierr"
)

// publicMagic is the literal "type header" preceding every public-key-shaped
// blob: PUBLICKEYBLOB magic, reserved bytes, and the RSA algorithm ID.
var publicMagic = [8]byte{0x06, 0x02, 0x00, 0x00, 0x00, 0x24, 0x00, 0x00}

// privateMagic is the analogous header for PRIVATEKEYBLOB-shaped blobs.
var privateMagic = [8]byte{0x07, 0x02, 0x00, 0x00, 0x00, 0x24, 0x00, 0x00}

const (
	publicTag  = "RSA1"
	privateTag = "RSA2"
)

// readCString reads a null-terminated ASCII string.
func readCString(r *bufio.Reader) (string, error) {
	s, err := r.ReadString(0)
	if err != nil {
		return "", fmt.Errorf("%w: reading name: %v", bierr.ErrMalformedBlob, err)
	}
	return s[:len(s)-1], nil
}

// writeCString writes s followed by a NUL terminator.
func writeCString(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return bierr.WrapIO(err)
	}
	_, err := w.Write([]byte{0})
	return bierr.WrapIO(err)
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, fmt.Errorf("%w: %v", bierr.ErrMalformedBlob, err)
	}
	return uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24, nil
}

func writeU32(w io.Writer, v uint32) error {
	buf := [4]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
	_, err := w.Write(buf[:])
	return bierr.WrapIO(err)
}

func readMagic(r io.Reader, want [8]byte) error {
	var got [8]byte
	if _, err := io.ReadFull(r, got[:]); err != nil {
		return fmt.Errorf("%w: reading type header: %v", bierr.ErrMalformedBlob, err)
	}
	if got != want {
		return fmt.Errorf("%w: unexpected type header %x", bierr.ErrMalformedBlob, got)
	}
	return nil
}

func readTag(r io.Reader, want string) error {
	buf := make([]byte, len(want))
	if _, err := io.ReadFull(r, buf); err != nil {
		return fmt.Errorf("%w: reading algorithm tag: %v", bierr.ErrMalformedBlob, err)
	}
	if string(buf) != want {
		return fmt.Errorf("%w: expected tag %q, got %q", bierr.ErrMalformedBlob, want, buf)
	}
	return nil
}

// readSized reads a length-prefixed little-endian big-integer field: a u32
// byte count followed by that many little-endian bytes. The count MUST
// equal want; a mismatch is a format error (size-prefix redundancy check
// noted in the design: keep it, it catches blob corruption early).
func readSized(r io.Reader, want int) ([]byte, error) {
	n, err := readU32(r)
	if err != nil {
		return nil, err
	}
	if int(n) != want {
		return nil, fmt.Errorf("%w: size prefix %d does not match expected %d", bierr.ErrMalformedBlob, n, want)
	}
	buf := make([]byte, want)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("%w: %v", bierr.ErrMalformedBlob, err)
	}
	return buf, nil
}

func writeSized(w io.Writer, data []byte) error {
	if err := writeU32(w, uint32(len(data))); err != nil {
		return err
	}
	_, err := w.Write(data)
	return bierr.WrapIO(err)
}

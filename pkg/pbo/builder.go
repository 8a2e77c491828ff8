package pbo

import (
	"bytes"
	"crypto/sha1"
	"fmt"
	"io"
)

// Builder constructs a PBO in memory, in insertion order, and serializes it
// with a correct trailing SHA-1 checksum. It exists for test fixtures;
// bisign's signer/verifier only ever consume a View.
type Builder struct {
	order      []string
	bodies     map[string][]byte
	extensions map[string]string
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{bodies: map[string][]byte{}, extensions: map[string]string{}}
}

// AddFile appends a file entry with the given body. Re-adding the same
// name overwrites its body but keeps its original position.
func (b *Builder) AddFile(name string, body []byte) *Builder {
	if _, exists := b.bodies[name]; !exists {
		b.order = append(b.order, name)
	}
	b.bodies[name] = body
	return b
}

// SetExtension sets a PBO property, e.g. "prefix".
func (b *Builder) SetExtension(key, value string) *Builder {
	b.extensions[key] = value
	return b
}

// Build serializes the archive and returns a View over the result along
// with the raw bytes (useful for round-tripping through pbo.Read).
func (b *Builder) Build() (*PBO, []byte, error) {
	var body bytes.Buffer

	if len(b.extensions) > 0 {
		if err := writeEntryHeader(&body, "", versEntryMethod, 0, 0, 0); err != nil {
			return nil, nil, err
		}
		for k, v := range b.extensions {
			if err := writeCString(&body, k); err != nil {
				return nil, nil, err
			}
			if err := writeCString(&body, v); err != nil {
				return nil, nil, err
			}
		}
		if err := writeCString(&body, ""); err != nil {
			return nil, nil, err
		}
	}

	for _, name := range b.order {
		data := b.bodies[name]
		if err := writeEntryHeader(&body, name, 0, uint32(len(data)), 0, uint32(len(data))); err != nil {
			return nil, nil, err
		}
	}
	// terminator entry
	if err := writeEntryHeader(&body, "", 0, 0, 0, 0); err != nil {
		return nil, nil, err
	}

	for _, name := range b.order {
		body.Write(b.bodies[name])
	}

	sum := sha1.Sum(body.Bytes())

	var out bytes.Buffer
	out.Write(body.Bytes())
	out.WriteByte(0x00)
	out.Write(sum[:])

	parsed, err := Read(bytes.NewReader(out.Bytes()))
	if err != nil {
		return nil, nil, fmt.Errorf("pbo: building archive: %w", err)
	}
	return parsed, out.Bytes(), nil
}

func writeCString(w io.Writer, s string) error {
	if _, err := io.WriteString(w, s); err != nil {
		return err
	}
	_, err := w.Write([]byte{0})
	return err
}

func writeEntryHeader(w io.Writer, name string, method, origSize, reserved, dataSize uint32) error {
	if err := writeCString(w, name); err != nil {
		return err
	}
	for _, v := range []uint32{method, origSize, reserved, dataSize} {
		buf := [4]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)}
		if _, err := w.Write(buf[:]); err != nil {
			return err
		}
	}
	return nil
}

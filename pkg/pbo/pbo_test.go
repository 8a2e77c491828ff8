package pbo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderRoundTrip(t *testing.T) {
	b := NewBuilder().
		SetExtension("prefix", `my\mod`).
		AddFile("a.sqf", []byte("hint 1;")).
		AddFile("b.paa", []byte{1, 2, 3})

	archive, raw, err := b.Build()
	require.NoError(t, err)
	assert.NotEmpty(t, raw)

	reparsed, err := Read(bytes.NewReader(raw))
	require.NoError(t, err)

	assert.Equal(t, archive.Checksum(), reparsed.Checksum())
	assert.Equal(t, archive.Extensions(), reparsed.Extensions())

	files := reparsed.Files(false)
	require.Len(t, files, 2)
	assert.Equal(t, "a.sqf", files[0].Filename)
	assert.Equal(t, "b.paa", files[1].Filename)

	body, err := reparsed.Retrieve("a.sqf")
	require.NoError(t, err)
	assert.Equal(t, []byte("hint 1;"), body)
}

func TestFilesSortedIsCaseInsensitive(t *testing.T) {
	b := NewBuilder().
		AddFile("Zebra.sqf", []byte("z")).
		AddFile("apple.sqf", []byte("a"))

	archive, _, err := b.Build()
	require.NoError(t, err)

	sorted := archive.Files(true)
	require.Len(t, sorted, 2)
	assert.Equal(t, "apple.sqf", sorted[0].Filename)
	assert.Equal(t, "Zebra.sqf", sorted[1].Filename)
}

func TestRetrieveUnknownFileFails(t *testing.T) {
	b := NewBuilder().AddFile("a.sqf", []byte("x"))
	archive, _, err := b.Build()
	require.NoError(t, err)

	_, err = archive.Retrieve("missing.sqf")
	assert.Error(t, err)
}

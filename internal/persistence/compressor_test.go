package persistence

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZstdCompressor_RoundTrip(t *testing.T) {
	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	defer comp.Close()

	input := bytes.Repeat([]byte(`{"ore_name":"Prime Arkonor","quantity":1200}`), 100)
	packed, err := comp.Compress(input)
	require.NoError(t, err)
	assert.Less(t, len(packed), len(input))

	unpacked, err := comp.Decompress(packed)
	require.NoError(t, err)
	assert.Equal(t, input, unpacked)
}

func TestZstdCompressor_DecompressGarbage(t *testing.T) {
	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	defer comp.Close()

	_, err = comp.Decompress([]byte("definitely not zstd"))
	assert.Error(t, err)
}

package cache

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCompressDecompressRoundTripsForEachCodec(t *testing.T) {
	body := []byte("some package tarball bytes, not actually a tarball, just test data repeated repeated repeated")
	for _, codec := range []Codec{CodecNone, CodecGzip, CodecZstd} {
		codec := codec
		t.Run(string(codec), func(t *testing.T) {
			compressed, err := Compress(codec, body)
			require.NoError(t, err)

			decompressed, err := Decompress(codec, compressed)
			require.NoError(t, err)
			require.Equal(t, body, decompressed)
		})
	}
}

func TestCompressUnknownCodecErrors(t *testing.T) {
	_, err := Compress(Codec("lz4"), []byte("x"))
	require.Error(t, err)
}

func TestDecompressUnknownCodecErrors(t *testing.T) {
	_, err := Decompress(Codec("lz4"), []byte("x"))
	require.Error(t, err)
}

func TestGzipActuallyShrinksCompressibleInput(t *testing.T) {
	body := make([]byte, 4096)
	for i := range body {
		body[i] = 'a'
	}
	compressed, err := Compress(CodecGzip, body)
	require.NoError(t, err)
	require.Less(t, len(compressed), len(body))
}

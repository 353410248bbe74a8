package compression

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/clearpool/pkg/errors"
)

var sample = []byte(strings.Repeat(`{"pool":"slice","hits":1024,"misses":3}`+"\n", 200))

func TestCompressRoundTrip(t *testing.T) {
	for _, alg := range Algorithms {
		for _, level := range []Level{Fastest, Default, Best} {
			t.Run(string(alg), func(t *testing.T) {
				packed, err := Compress(sample, &Config{Algorithm: alg, Level: level})
				require.NoError(t, err)
				if alg != None {
					assert.Less(t, len(packed), len(sample))
				}

				out, err := Decompress(packed, alg)
				require.NoError(t, err)
				assert.Equal(t, sample, out)
			})
		}
	}
}

func TestStreamRoundTrip(t *testing.T) {
	var packed bytes.Buffer
	w, err := NewWriter(&packed, &Config{Algorithm: Zstd, Level: Better})
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err := w.Write(sample)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	r, err := NewReader(&packed, Zstd)
	require.NoError(t, err)
	defer r.Close()

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, 4*len(sample), len(out))
}

func TestNilConfigUsesDefault(t *testing.T) {
	packed, err := Compress(sample, nil)
	require.NoError(t, err)

	out, err := Decompress(packed, DefaultConfig().Algorithm)
	require.NoError(t, err)
	assert.Equal(t, sample, out)
}

func TestParseAlgorithm(t *testing.T) {
	alg, err := ParseAlgorithm("")
	require.NoError(t, err)
	assert.Equal(t, None, alg)

	alg, err = ParseAlgorithm("lz4")
	require.NoError(t, err)
	assert.Equal(t, LZ4, alg)

	_, err = ParseAlgorithm("brotli")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
}

func TestUnsupportedAlgorithm(t *testing.T) {
	_, err := NewWriter(io.Discard, &Config{Algorithm: "brotli"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeCapability))

	_, err = NewReader(bytes.NewReader(nil), "brotli")
	assert.True(t, errors.IsType(err, errors.ErrorTypeCapability))
}

func TestDecompressCorruptInput(t *testing.T) {
	_, err := Decompress([]byte("definitely not gzip"), Gzip)
	assert.Error(t, err)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, ".zst", Zstd.Extension())
	assert.Equal(t, ".gz", Gzip.Extension())
	assert.Equal(t, "", None.Extension())
}

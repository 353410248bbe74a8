// Package compression wraps report output in a streaming codec.
//
// # Algorithm Selection
//
//   - Snappy/S2: best for speed, moderate compression
//   - LZ4: extremely fast, decent compression
//   - Zstd: best compression ratio, good speed
//   - Gzip/Deflate: widest compatibility
//
// # Basic Usage
//
//	w, err := compression.NewWriter(file, &compression.Config{
//	    Algorithm: compression.Zstd,
//	    Level:     compression.Better,
//	})
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
// One-shot helpers build their output in pooled buffers:
//
//	packed, err := compression.Compress(data, compression.DefaultConfig())
//	original, err := compression.Decompress(packed, compression.Snappy)
package compression

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/ajitpratap0/clearpool/pkg/errors"
	"github.com/ajitpratap0/clearpool/pkg/pool"
	"github.com/ajitpratap0/clearpool/pkg/strings"
)

// Algorithm names a compression algorithm.
type Algorithm string

const (
	None    Algorithm = "none"
	Gzip    Algorithm = "gzip"
	Snappy  Algorithm = "snappy"
	LZ4     Algorithm = "lz4"
	Zstd    Algorithm = "zstd"
	S2      Algorithm = "s2"
	Deflate Algorithm = "deflate"
)

// Algorithms lists every supported algorithm.
var Algorithms = []Algorithm{None, Gzip, Snappy, LZ4, Zstd, S2, Deflate}

// Level trades compression speed against ratio.
type Level int

const (
	// Fastest prioritizes speed over compression ratio.
	Fastest Level = 1
	// Default balances speed and compression.
	Default Level = 5
	// Better improves compression at cost of speed.
	Better Level = 7
	// Best maximizes compression ratio.
	Best Level = 9
)

// MaxDecompressedSize bounds the output of Decompress.
const MaxDecompressedSize = 256 << 20

// maxPooledBuffer bounds the buffers kept for reuse.
const maxPooledBuffer = 4 << 20

// Config represents compressor configuration.
type Config struct {
	Algorithm Algorithm `yaml:"algorithm" json:"algorithm"`
	Level     Level     `yaml:"level" json:"level"`
}

// DefaultConfig returns Snappy at the default level.
func DefaultConfig() *Config {
	return &Config{
		Algorithm: Snappy,
		Level:     Default,
	}
}

var buffers = pool.NewStringPool(pool.WithName("compression_buffers"))

// ParseAlgorithm converts a name to an Algorithm. The empty string means None.
func ParseAlgorithm(name string) (Algorithm, error) {
	if name == "" {
		return None, nil
	}
	for _, a := range Algorithms {
		if string(a) == name {
			return a, nil
		}
	}
	return "", errors.New(errors.ErrorTypeValidation, "unsupported compression algorithm").
		WithDetail("algorithm", name)
}

// Extension returns the conventional file suffix for the algorithm.
func (a Algorithm) Extension() string {
	switch a {
	case Gzip:
		return ".gz"
	case Snappy:
		return ".sz"
	case LZ4:
		return ".lz4"
	case Zstd:
		return ".zst"
	case S2:
		return ".s2"
	case Deflate:
		return ".deflate"
	default:
		return ""
	}
}

// NewWriter returns a writer that compresses into dst. Close flushes the
// codec but does not close dst. A nil config means DefaultConfig.
func NewWriter(dst io.Writer, cfg *Config) (io.WriteCloser, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	switch cfg.Algorithm {
	case None, "":
		return nopWriteCloser{dst}, nil
	case Gzip:
		w, err := gzip.NewWriterLevel(dst, mapFlateLevel(cfg.Level))
		return w, wrapCodec(err, cfg.Algorithm)
	case Deflate:
		w, err := flate.NewWriter(dst, mapFlateLevel(cfg.Level))
		return w, wrapCodec(err, cfg.Algorithm)
	case Snappy:
		return snappy.NewBufferedWriter(dst), nil
	case S2:
		return s2.NewWriter(dst, mapS2Level(cfg.Level)...), nil
	case LZ4:
		w := lz4.NewWriter(dst)
		if err := w.Apply(lz4.CompressionLevelOption(mapLZ4Level(cfg.Level))); err != nil {
			return nil, wrapCodec(err, cfg.Algorithm)
		}
		return w, nil
	case Zstd:
		w, err := zstd.NewWriter(dst, zstd.WithEncoderLevel(mapZstdLevel(cfg.Level)))
		return w, wrapCodec(err, cfg.Algorithm)
	default:
		return nil, errors.New(errors.ErrorTypeCapability, "unsupported compression algorithm").
			WithDetail("algorithm", string(cfg.Algorithm))
	}
}

// NewReader returns a reader that decompresses src.
func NewReader(src io.Reader, alg Algorithm) (io.ReadCloser, error) {
	switch alg {
	case None, "":
		return io.NopCloser(src), nil
	case Gzip:
		r, err := gzip.NewReader(src)
		if err != nil {
			return nil, wrapCodec(err, alg)
		}
		return r, nil
	case Deflate:
		return flate.NewReader(src), nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(src)), nil
	case S2:
		return io.NopCloser(s2.NewReader(src)), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(src)), nil
	case Zstd:
		d, err := zstd.NewReader(src)
		if err != nil {
			return nil, wrapCodec(err, alg)
		}
		return d.IOReadCloser(), nil
	default:
		return nil, errors.New(errors.ErrorTypeCapability, "unsupported compression algorithm").
			WithDetail("algorithm", string(alg))
	}
}

// Compress compresses data in one call.
func Compress(data []byte, cfg *Config) ([]byte, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	h := buffers.Get()
	defer releaseBuffer(h)
	buf := h.Value()

	w, err := NewWriter(buf, cfg)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return nil, wrapCodec(err, cfg.Algorithm)
	}
	if err := w.Close(); err != nil {
		return nil, wrapCodec(err, cfg.Algorithm)
	}
	return bytes.Clone(buf.Bytes()), nil
}

// Decompress reverses Compress. Output larger than MaxDecompressedSize is
// rejected.
func Decompress(data []byte, alg Algorithm) ([]byte, error) {
	r, err := NewReader(bytes.NewReader(data), alg)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	h := buffers.Get()
	defer releaseBuffer(h)
	buf := h.Value()

	n, err := io.Copy(buf, io.LimitReader(r, MaxDecompressedSize+1))
	if err != nil {
		return nil, wrapCodec(err, alg)
	}
	if n > MaxDecompressedSize {
		return nil, errors.New(errors.ErrorTypeValidation, "decompressed data exceeds limit").
			WithDetail("limit", MaxDecompressedSize)
	}
	return bytes.Clone(buf.Bytes()), nil
}

func releaseBuffer(h *pool.Pooled[strings.Builder, *strings.Builder]) {
	if h.Value().Cap() > maxPooledBuffer {
		h.Discard()
		return
	}
	h.Release()
}

func wrapCodec(err error, alg Algorithm) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, errors.ErrorTypeInternal, "compression codec failed").
		WithDetail("algorithm", string(alg))
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

func mapFlateLevel(level Level) int {
	switch level {
	case Fastest:
		return flate.BestSpeed
	case Best:
		return flate.BestCompression
	default:
		return flate.DefaultCompression
	}
}

func mapS2Level(level Level) []s2.WriterOption {
	switch level {
	case Better:
		return []s2.WriterOption{s2.WriterBetterCompression()}
	case Best:
		return []s2.WriterOption{s2.WriterBestCompression()}
	default:
		return nil
	}
}

func mapLZ4Level(level Level) lz4.CompressionLevel {
	switch level {
	case Fastest:
		return lz4.Fast
	case Best:
		return lz4.Level9
	default:
		return lz4.Level5
	}
}

func mapZstdLevel(level Level) zstd.EncoderLevel {
	switch level {
	case Fastest:
		return zstd.SpeedFastest
	case Better:
		return zstd.SpeedBetterCompression
	case Best:
		return zstd.SpeedBestCompression
	default:
		return zstd.SpeedDefault
	}
}

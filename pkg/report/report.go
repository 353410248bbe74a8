// Package report encodes stress results as JSON or YAML, optionally
// compressed.
package report

import (
	"io"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/clearpool/pkg/compression"
	"github.com/ajitpratap0/clearpool/pkg/errors"
	"github.com/ajitpratap0/clearpool/pkg/pool"
)

// Supported formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// maxPooledBuffer bounds the buffers kept for reuse.
const maxPooledBuffer = 1 << 20

// buffers holds encoding buffers between reports.
var buffers = pool.NewStringPool(pool.WithName("report_buffers"))

// Write encodes v to w in the given format. JSON output is indented and
// built in a pooled buffer so w receives a single write.
func Write(w io.Writer, format string, v interface{}) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, v)
	case FormatYAML:
		return writeYAML(w, v)
	default:
		return errors.New(errors.ErrorTypeValidation, "unsupported report format").
			WithDetail("format", format)
	}
}

// WriteCompressed encodes v like Write and compresses the output with alg.
func WriteCompressed(w io.Writer, format string, alg compression.Algorithm, v interface{}) error {
	cw, err := compression.NewWriter(w, &compression.Config{Algorithm: alg, Level: compression.Default})
	if err != nil {
		return err
	}
	if err := Write(cw, format, v); err != nil {
		_ = cw.Close()
		return err
	}
	if err := cw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush compressed report")
	}
	return nil
}

func writeJSON(w io.Writer, v interface{}) error {
	h := buffers.Get()
	defer func() {
		if h.Value().Cap() > maxPooledBuffer {
			h.Discard()
			return
		}
		h.Release()
	}()
	buf := h.Value()

	enc := gojson.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode JSON report")
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write report")
	}
	return nil
}

func writeYAML(w io.Writer, v interface{}) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return errors.Wrap(err, errors.ErrorTypeInternal, "failed to encode YAML report")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write report")
	}
	return nil
}

package server

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"

	"github.com/arrayd-io/arrayd/internal/array"
	"github.com/arrayd-io/arrayd/internal/dtype"
)

// Transfer content encodings reported in the reply envelope.
const (
	encodingRaw = "raw"
	encodingLZ4 = "lz4"
)

// encodePayload serializes an array's elements for the fetch command.
// Fixed-width arrays ship their native little-endian buffer; big-integer
// and string arrays ship a newline-delimited text form.
func encodePayload(a *array.Array) ([]byte, error) {
	switch a.DType() {
	case dtype.BigInt:
		var b bytes.Buffer
		for _, z := range a.AsBigInt() {
			b.WriteString(z.String())
			b.WriteByte('\n')
		}
		return b.Bytes(), nil
	case dtype.Str:
		var b bytes.Buffer
		for _, s := range a.AsStr() {
			b.WriteString(s)
			b.WriteByte('\n')
		}
		return b.Bytes(), nil
	case dtype.Undef:
		return nil, fmt.Errorf("cannot encode array of dtype %s", a.DType())
	default:
		return a.Data(), nil
	}
}

// compressPayload lz4-frames a payload when it crosses the configured
// threshold. It returns the bytes to send and the encoding name. A
// negative threshold disables compression.
func compressPayload(payload []byte, threshold int) ([]byte, string, error) {
	if threshold < 0 || len(payload) < threshold {
		return payload, encodingRaw, nil
	}
	var b bytes.Buffer
	w := lz4.NewWriter(&b)
	if _, err := w.Write(payload); err != nil {
		return nil, "", fmt.Errorf("lz4 compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("lz4 compress: %w", err)
	}
	return b.Bytes(), encodingLZ4, nil
}

// decompressPayload reverses compressPayload for a given encoding name.
func decompressPayload(payload []byte, encoding string) ([]byte, error) {
	switch encoding {
	case "", encodingRaw:
		return payload, nil
	case encodingLZ4:
		r := lz4.NewReader(bytes.NewReader(payload))
		out, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("lz4 decompress: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unrecognized payload encoding %q", encoding)
	}
}

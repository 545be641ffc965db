// Package codec implements the binary-array encoding pipeline mzML
// arrays pass through (spec.md §4.5): an optional numeric
// precompression scheme (linear prediction, pic, or short-logged-
// float — at most one), then an optional zlib stage, then base64. A
// numeric scheme and the zlib stage are mutually exclusive: NewPipeline
// rejects a pipeline that selects both.
package codec

import (
	"bytes"
	"encoding/base64"
	"io"

	"github.com/klauspost/compress/zlib"

	"github.com/openms-go/mscore/internal/errs"
)

// NumericScheme names a numeric precompression transform applied to a
// float64 array before the generic byte-level stages.
type NumericScheme int

const (
	NumericNone NumericScheme = iota
	NumericLinearPrediction
	NumericPic
	NumericShortLoggedFloat
)

// Pipeline describes one array's encoding: an optional numeric scheme
// plus an optional generic zlib compression stage.
type Pipeline struct {
	Numeric NumericScheme
	Zlib    bool
}

// NewPipeline validates and returns a Pipeline. Combining a numeric
// scheme with zlib is rejected (spec.md: "InvalidParameter when
// combining numeric+zlib") because every numeric scheme already
// shrinks the byte stream in a way zlib cannot meaningfully improve on
// and that would make byte-exact round-trip verification ambiguous
// about which stage introduced a mismatch.
func NewPipeline(scheme NumericScheme, useZlib bool) (Pipeline, error) {
	if scheme != NumericNone && useZlib {
		return Pipeline{}, errs.New(errs.InvalidParameter, "cannot combine a numeric compression scheme with zlib")
	}
	return Pipeline{Numeric: scheme, Zlib: useZlib}, nil
}

// EncodeFloat64 runs values through the pipeline's numeric scheme (if
// any), then optional zlib, then base64, returning the final text.
func (p Pipeline) EncodeFloat64(values []float64) (string, error) {
	var raw []byte
	switch p.Numeric {
	case NumericNone:
		raw = encodeRawFloat64(values)
	case NumericLinearPrediction:
		raw = encodeLinearPrediction(values)
	case NumericPic:
		raw = encodePic(values)
	case NumericShortLoggedFloat:
		raw = encodeShortLoggedFloat(values)
	default:
		return "", errs.New(errs.InvalidParameter, "unknown numeric scheme")
	}

	if p.Zlib {
		compressed, err := zlibCompress(raw)
		if err != nil {
			return "", errs.Wrap(errs.IO, "zlib compressing array", err)
		}
		raw = compressed
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// DecodeFloat64 reverses EncodeFloat64. n is the expected element
// count; if the decoded byte length implies a different count, the
// shorter of the two is used and no error is raised — mzML files in
// the wild occasionally disagree between an <cvParam> count and the
// actual payload length, and spec.md requires permissive recovery
// rather than a hard failure here.
func (p Pipeline) DecodeFloat64(text string, n int) ([]float64, error) {
	raw, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return nil, errs.Wrap(errs.Parse, "base64 decoding array", err)
	}
	if p.Zlib {
		raw, err = zlibDecompress(raw)
		if err != nil {
			return nil, errs.Wrap(errs.Parse, "zlib decompressing array", err)
		}
	}

	switch p.Numeric {
	case NumericNone:
		return decodeRawFloat64(raw, n), nil
	case NumericLinearPrediction:
		return decodeLinearPrediction(raw, n), nil
	case NumericPic:
		return decodePic(raw, n), nil
	case NumericShortLoggedFloat:
		return decodeShortLoggedFloat(raw, n), nil
	default:
		return nil, errs.New(errs.InvalidParameter, "unknown numeric scheme")
	}
}

func zlibCompress(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(raw); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func zlibDecompress(raw []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

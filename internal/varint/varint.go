// Package varint implements the 7-bit-group, high-bit-continuation
// variable-byte encoding used for delta-compressed Hilbert streams, and
// a streaming Decoder that turns a sequence of deltas back into the
// strictly increasing sequence of absolute values they encode.
//
// The wire format is the same little-endian varint the teacher's
// internal/bio.VariableLengthReader/Writer used for JPEG 2000 marker
// segment lengths, generalized here from a single uint32 to a full
// uint64 and from a one-shot Read/Write to a running decoder that
// accumulates deltas into absolute indices.
package varint

import (
	"bufio"
	"errors"
	"io"
)

// ErrTruncated is returned when a group is cut off before its
// terminating (high-bit-clear) byte arrives.
var ErrTruncated = errors.New("varint: truncated encoding")

// Encode writes n as a sequence of 7-bit little-endian groups, the
// high bit of every byte but the last set to 1.
func Encode(w io.ByteWriter, n uint64) error {
	for n >= 0x80 {
		if err := w.WriteByte(byte(n) | 0x80); err != nil {
			return err
		}
		n >>= 7
	}
	return w.WriteByte(byte(n))
}

// Decode reads one varint-encoded value from r.
func Decode(r io.ByteReader) (uint64, error) {
	var result uint64
	var shift uint
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF && shift != 0 {
				return 0, ErrTruncated
			}
			return 0, err
		}
		result |= uint64(b&0x7f) << shift
		if b&0x80 == 0 {
			return result, nil
		}
		shift += 7
		if shift >= 64 {
			return 0, ErrTruncated
		}
	}
}

// Decoder turns a delta-compressed varint stream into the strictly
// increasing sequence of absolute indices it encodes, by keeping a
// running sum of the decoded deltas.
type Decoder struct {
	r   *bufio.Reader
	acc uint64
}

// NewDecoder wraps r in a buffered byte source and returns a Decoder
// ready to produce the stream's absolute indices in order.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Next returns the next absolute index in the stream, or io.EOF once
// the stream is exhausted. Successive calls return strictly increasing
// values as long as every delta after the first is positive; a zero
// delta is not rejected and repeats the previous value.
func (d *Decoder) Next() (uint64, error) {
	delta, err := Decode(d.r)
	if err != nil {
		return 0, err
	}
	d.acc += delta
	return d.acc, nil
}

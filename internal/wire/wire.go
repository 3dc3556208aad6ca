// Package wire implements the small deterministic binary envelope used to
// encode Links, StorageRefs, and Tokens: a version byte followed by a
// sequence of length-prefixed fields. No schemaless, compact binary-tuple
// codec (msgpack/cbor/protobuf) appears anywhere in the example corpus for
// this kind of ad hoc identity-tuple encoding, and protobuf in particular
// would need a fixed .proto schema per resource, which doesn't fit a
// generic "encode whatever identity fields this entity has" use. This is
// the same narrow, single-purpose binary framing the teacher repository
// hand-rolls for its own row encodings rather than reaching for a general
// serialization library.
package wire

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// ErrTruncated indicates the byte stream ended before a field could be
// fully read.
var ErrTruncated = errors.New("wire: truncated input")

// Encoder builds a deterministic, field-order-preserving byte stream.
type Encoder struct {
	buf []byte
}

// NewEncoder returns an empty encoder.
func NewEncoder() *Encoder {
	return &Encoder{}
}

// Uint8 appends a single byte (used for version and count discriminants).
func (e *Encoder) Uint8(v uint8) *Encoder {
	e.buf = append(e.buf, v)
	return e
}

// Bytes appends a length-prefixed byte string.
func (e *Encoder) Bytes(b []byte) *Encoder {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(b)))
	e.buf = append(e.buf, length[:]...)
	e.buf = append(e.buf, b...)
	return e
}

// String appends a length-prefixed UTF-8 string.
func (e *Encoder) String(s string) *Encoder {
	return e.Bytes([]byte(s))
}

// Fixed appends raw bytes with no length prefix, for fixed-width fields
// such as an embedded 16-byte Id.
func (e *Encoder) Fixed(b []byte) *Encoder {
	e.buf = append(e.buf, b...)
	return e
}

// Int64 appends a fixed 8-byte big-endian integer.
func (e *Encoder) Int64(v int64) *Encoder {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	e.buf = append(e.buf, b[:]...)
	return e
}

// Finish returns the accumulated byte stream.
func (e *Encoder) Finish() []byte {
	return e.buf
}

// Decoder reads fields back out of a byte stream in the order they were
// written.
type Decoder struct {
	buf []byte
	pos int
}

// NewDecoder wraps a byte stream for sequential reads.
func NewDecoder(data []byte) *Decoder {
	return &Decoder{buf: data}
}

// Uint8 reads a single byte.
func (d *Decoder) Uint8() (uint8, error) {
	if d.pos >= len(d.buf) {
		return 0, ErrTruncated
	}
	v := d.buf[d.pos]
	d.pos++
	return v, nil
}

// Bytes reads a length-prefixed byte string.
func (d *Decoder) Bytes() ([]byte, error) {
	if d.pos+4 > len(d.buf) {
		return nil, ErrTruncated
	}
	length := binary.BigEndian.Uint32(d.buf[d.pos : d.pos+4])
	d.pos += 4
	if d.pos+int(length) > len(d.buf) {
		return nil, ErrTruncated
	}
	out := d.buf[d.pos : d.pos+int(length)]
	d.pos += int(length)
	return out, nil
}

// String reads a length-prefixed UTF-8 string.
func (d *Decoder) String() (string, error) {
	b, err := d.Bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Fixed reads exactly n raw bytes with no length prefix.
func (d *Decoder) Fixed(n int) ([]byte, error) {
	if d.pos+n > len(d.buf) {
		return nil, ErrTruncated
	}
	out := d.buf[d.pos : d.pos+n]
	d.pos += n
	return out, nil
}

// Int64 reads a fixed 8-byte big-endian integer.
func (d *Decoder) Int64() (int64, error) {
	b, err := d.Fixed(8)
	if err != nil {
		return 0, err
	}
	return int64(binary.BigEndian.Uint64(b)), nil
}

// Done reports whether every byte has been consumed; callers use this to
// reject trailing garbage after decoding a versioned envelope.
func (d *Decoder) Done() bool {
	return d.pos == len(d.buf)
}

// ExpectDone returns an error naming the number of unconsumed bytes, if any.
func (d *Decoder) ExpectDone() error {
	if !d.Done() {
		return fmt.Errorf("wire: %d trailing bytes", len(d.buf)-d.pos)
	}
	return nil
}

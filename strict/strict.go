// Package strict implements the canonical binary encoding shared by all
// RGB20 value objects.
//
// The encoding is the single deterministic byte form used for content-derived
// identifiers and for cached-view persistence. All integers are little-endian;
// strings and byte blobs carry a u16 length prefix; collections carry a u16
// element count and are written in ascending key order by the caller.
// Non-canonical input is rejected at the first broken length or truncation.
package strict

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrOversize is returned when a string or blob exceeds the u16 length prefix.
var ErrOversize = errors.New("strict: value exceeds 64 KiB length prefix")

// Writer accumulates canonical bytes. The first error sticks; subsequent
// writes are no-ops, so call sites can chain writes and check Err once.
type Writer struct {
	w   io.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Err() error { return w.err }

func (w *Writer) write(b []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(b)
}

func (w *Writer) U8(v uint8) {
	w.write([]byte{v})
}

func (w *Writer) Bool(v bool) {
	if v {
		w.U8(1)
	} else {
		w.U8(0)
	}
}

func (w *Writer) U16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.write(b[:])
}

func (w *Writer) U32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.write(b[:])
}

func (w *Writer) U64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.write(b[:])
}

func (w *Writer) I64(v int64) {
	w.U64(uint64(v))
}

// Raw writes bytes with no length prefix. Only for fixed-width fields.
func (w *Writer) Raw(b []byte) {
	w.write(b)
}

// Bytes writes a u16 length prefix followed by the bytes.
func (w *Writer) Bytes(b []byte) {
	if len(b) > math.MaxUint16 {
		if w.err == nil {
			w.err = ErrOversize
		}
		return
	}
	w.U16(uint16(len(b)))
	w.write(b)
}

func (w *Writer) String(s string) {
	w.Bytes([]byte(s))
}

// Count writes a collection element count.
func (w *Writer) Count(n int) {
	if n < 0 || n > math.MaxUint16 {
		if w.err == nil {
			w.err = fmt.Errorf("strict: collection of %d elements exceeds u16 count", n)
		}
		return
	}
	w.U16(uint16(n))
}

// Reader decodes canonical bytes written by Writer. Like Writer, the first
// error sticks and later reads return zero values.
type Reader struct {
	r   io.Reader
	err error
}

func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

func (r *Reader) Err() error { return r.err }

func (r *Reader) read(b []byte) bool {
	if r.err != nil {
		return false
	}
	if _, err := io.ReadFull(r.r, b); err != nil {
		r.err = err
		return false
	}
	return true
}

func (r *Reader) U8() uint8 {
	var b [1]byte
	if !r.read(b[:]) {
		return 0
	}
	return b[0]
}

func (r *Reader) Bool() bool {
	switch r.U8() {
	case 0:
		return false
	case 1:
		return true
	default:
		if r.err == nil {
			r.err = errors.New("strict: boolean byte is not 0 or 1")
		}
		return false
	}
}

func (r *Reader) U16() uint16 {
	var b [2]byte
	if !r.read(b[:]) {
		return 0
	}
	return binary.LittleEndian.Uint16(b[:])
}

func (r *Reader) U32() uint32 {
	var b [4]byte
	if !r.read(b[:]) {
		return 0
	}
	return binary.LittleEndian.Uint32(b[:])
}

func (r *Reader) U64() uint64 {
	var b [8]byte
	if !r.read(b[:]) {
		return 0
	}
	return binary.LittleEndian.Uint64(b[:])
}

func (r *Reader) I64() int64 {
	return int64(r.U64())
}

// Raw reads exactly len(b) bytes into b.
func (r *Reader) Raw(b []byte) {
	r.read(b)
}

func (r *Reader) Bytes() []byte {
	n := r.U16()
	if r.err != nil {
		return nil
	}
	if n == 0 {
		return nil
	}
	b := make([]byte, n)
	if !r.read(b) {
		return nil
	}
	return b
}

func (r *Reader) String() string {
	return string(r.Bytes())
}

func (r *Reader) Count() int {
	return int(r.U16())
}

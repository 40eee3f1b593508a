package strict

import (
	"bytes"
	"errors"
	"testing"
)

func TestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.U8(0xab)
	w.Bool(true)
	w.Bool(false)
	w.U16(0x1234)
	w.U32(0xdeadbeef)
	w.U64(1 << 40)
	w.I64(-7)
	w.Raw([]byte{1, 2, 3})
	w.Bytes([]byte("blob"))
	w.String("hello")
	w.Count(42)
	if err := w.Err(); err != nil {
		t.Fatalf("write: %v", err)
	}

	r := NewReader(&buf)
	if v := r.U8(); v != 0xab {
		t.Fatalf("U8 = %#02x", v)
	}
	if !r.Bool() || r.Bool() {
		t.Fatal("Bool round trip failed")
	}
	if v := r.U16(); v != 0x1234 {
		t.Fatalf("U16 = %#04x", v)
	}
	if v := r.U32(); v != 0xdeadbeef {
		t.Fatalf("U32 = %#08x", v)
	}
	if v := r.U64(); v != 1<<40 {
		t.Fatalf("U64 = %d", v)
	}
	if v := r.I64(); v != -7 {
		t.Fatalf("I64 = %d", v)
	}
	raw := make([]byte, 3)
	r.Raw(raw)
	if !bytes.Equal(raw, []byte{1, 2, 3}) {
		t.Fatalf("Raw = %v", raw)
	}
	if b := r.Bytes(); !bytes.Equal(b, []byte("blob")) {
		t.Fatalf("Bytes = %q", b)
	}
	if s := r.String(); s != "hello" {
		t.Fatalf("String = %q", s)
	}
	if n := r.Count(); n != 42 {
		t.Fatalf("Count = %d", n)
	}
	if err := r.Err(); err != nil {
		t.Fatalf("read: %v", err)
	}
}

func TestReaderErrorSticks(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x01}))
	if r.U64() != 0 {
		t.Fatal("truncated U64 should read as zero")
	}
	if r.Err() == nil {
		t.Fatal("truncated read must set the reader error")
	}
	// Everything after the first failure is a zero-value no-op.
	if r.U16() != 0 || r.String() != "" || r.Count() != 0 {
		t.Fatal("reads after a failure must return zero values")
	}
}

func TestBytesOversize(t *testing.T) {
	w := NewWriter(&bytes.Buffer{})
	w.Bytes(make([]byte, 1<<16))
	if !errors.Is(w.Err(), ErrOversize) {
		t.Fatalf("Err = %v, want ErrOversize", w.Err())
	}
	// The sticky error survives later valid writes.
	w.U8(1)
	if !errors.Is(w.Err(), ErrOversize) {
		t.Fatalf("Err after further writes = %v, want ErrOversize", w.Err())
	}
}

func TestBoolRejectsNonCanonicalByte(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{0x02}))
	if r.Bool() {
		t.Fatal("non-canonical boolean decoded as true")
	}
	if r.Err() == nil {
		t.Fatal("non-canonical boolean must set the reader error")
	}
}

func TestEmptyBytesDecodeNil(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Bytes(nil)
	r := NewReader(&buf)
	if b := r.Bytes(); b != nil {
		t.Fatalf("empty blob decoded as %v, want nil", b)
	}
	if err := r.Err(); err != nil {
		t.Fatalf("read: %v", err)
	}
}

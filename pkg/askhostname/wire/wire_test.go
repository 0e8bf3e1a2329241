// Package wire tests for the shared header codec and cursor.
package wire

import (
	"bytes"
	"testing"
)

func TestBuildHeader_NBNS(t *testing.T) {
	h := BuildHeader(KindNBNS)

	if len(h) != HeaderSize {
		t.Fatalf("Expected %d bytes, got %d", HeaderSize, len(h))
	}
	// Flags (bytes 2-3): only the recursion-desired bit
	if h[2] != 0x00 || h[3] != 0x10 {
		t.Errorf("Unexpected flags: %02X%02X", h[2], h[3])
	}
	// QDCOUNT=1, remaining counts zero
	if h[4] != 0x00 || h[5] != 0x01 {
		t.Errorf("Unexpected QDCOUNT: %02X%02X", h[4], h[5])
	}
	if !bytes.Equal(h[6:12], make([]byte, 6)) {
		t.Errorf("Expected zero AN/NS/ARCOUNT, got % X", h[6:12])
	}
}

func TestBuildHeader_NBNS_RandomID(t *testing.T) {
	// Transaction ids are process-random; a run of builds should not all
	// produce the same id.
	first := BuildHeader(KindNBNS)
	for i := 0; i < 32; i++ {
		h := BuildHeader(KindNBNS)
		if !bytes.Equal(h[0:2], first[0:2]) {
			return
		}
	}
	t.Error("Transaction id constant across 32 builds")
}

func TestBuildHeader_MDNS(t *testing.T) {
	h := BuildHeader(KindMDNS)

	// mDNS one-shot queries must carry a zero id and zero flags.
	if !bytes.Equal(h[0:4], make([]byte, 4)) {
		t.Errorf("Expected zero id and flags, got % X", h[0:4])
	}
	if h[4] != 0x00 || h[5] != 0x01 {
		t.Errorf("Unexpected QDCOUNT: %02X%02X", h[4], h[5])
	}
	if !bytes.Equal(h[6:12], make([]byte, 6)) {
		t.Errorf("Expected zero AN/NS/ARCOUNT, got % X", h[6:12])
	}
}

func TestReader_Walk(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06})

	if ok := r.Skip(2); !ok {
		t.Fatal("Skip(2) failed")
	}
	v, ok := r.ReadUint16()
	if !ok || v != 0x0304 {
		t.Errorf("ReadUint16 = %04X, %v; want 0304, true", v, ok)
	}
	b, ok := r.ReadByte()
	if !ok || b != 0x05 {
		t.Errorf("ReadByte = %02X, %v; want 05, true", b, ok)
	}
	rest, ok := r.Take(1)
	if !ok || !bytes.Equal(rest, []byte{0x06}) {
		t.Errorf("Take(1) = % X, %v", rest, ok)
	}
	if r.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", r.Remaining())
	}
}

func TestReader_ShortReads(t *testing.T) {
	r := NewReader([]byte{0x01})

	if _, ok := r.ReadUint16(); ok {
		t.Error("ReadUint16 succeeded on 1-byte buffer")
	}
	if _, ok := r.Take(2); ok {
		t.Error("Take(2) succeeded on 1-byte buffer")
	}
	if ok := r.Skip(2); ok {
		t.Error("Skip(2) succeeded on 1-byte buffer")
	}
	// Failed reads must not move the cursor.
	if b, ok := r.ReadByte(); !ok || b != 0x01 {
		t.Errorf("ReadByte after failed reads = %02X, %v", b, ok)
	}
}

func TestIsNameByte(t *testing.T) {
	tests := []struct {
		b    byte
		want bool
	}{
		{'A', true},
		{'z', true},
		{'0', true},
		{'-', true},
		{'*', true},
		{' ', false},  // padding
		{0x00, false}, // NUL
		{0x1f, false}, // control
		{0x7f, false}, // DEL
		{0xc3, false}, // high bit
	}
	for _, tt := range tests {
		if got := IsNameByte(tt.b); got != tt.want {
			t.Errorf("IsNameByte(0x%02X) = %v, want %v", tt.b, got, tt.want)
		}
	}
}

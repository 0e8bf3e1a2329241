// Package wire implements the 12-byte query header shared by the NBNS and
// mDNS codecs, plus a small byte cursor used to walk responses.
// Header layout per RFC 1002 §4.2.1.1 / RFC 6762 §18 (big-endian throughout):
// transaction id, flags, qdcount, ancount, nscount, arcount.
package wire

import (
	"encoding/binary"
	"math/rand"
)

// HeaderSize is the size of the query header in bytes.
const HeaderSize = 12

// Kind selects which protocol the header is built for.
type Kind int

const (
	// KindNBNS builds a NetBIOS Name Service header: random transaction id,
	// recursion-desired flag set.
	KindNBNS Kind = iota
	// KindMDNS builds an mDNS header: zero transaction id (required for
	// one-shot unicast queries, RFC 6762 §18.1) and zero flags.
	KindMDNS
)

// nbnsFlags sets only the recursion-desired bit, the single flag bit legacy
// node-status scanners send.
const nbnsFlags = 0x0010

// BuildHeader returns the 12-byte header for a single-question query.
// Counts are always qdcount=1, ancount=nscount=arcount=0.
func BuildHeader(kind Kind) []byte {
	h := make([]byte, HeaderSize)
	if kind == KindNBNS {
		binary.BigEndian.PutUint16(h[0:2], uint16(rand.Uint32()))
		binary.BigEndian.PutUint16(h[2:4], nbnsFlags)
	}
	binary.BigEndian.PutUint16(h[4:6], 1) // QDCOUNT
	return h
}

// Reader is a bounds-checked cursor over a response buffer. Every read
// reports whether enough bytes remained; a false return leaves the cursor
// unchanged so callers can treat it as a truncated response.
type Reader struct {
	buf []byte
	off int
}

// NewReader returns a Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Skip advances the cursor n bytes.
func (r *Reader) Skip(n int) bool {
	if n < 0 || r.off+n > len(r.buf) {
		return false
	}
	r.off += n
	return true
}

// ReadUint16 reads a big-endian 16-bit value.
func (r *Reader) ReadUint16() (uint16, bool) {
	if r.off+2 > len(r.buf) {
		return 0, false
	}
	v := binary.BigEndian.Uint16(r.buf[r.off : r.off+2])
	r.off += 2
	return v, true
}

// ReadByte reads a single byte.
func (r *Reader) ReadByte() (byte, bool) {
	if r.off >= len(r.buf) {
		return 0, false
	}
	b := r.buf[r.off]
	r.off++
	return b, true
}

// Take returns the next n bytes without copying.
func (r *Reader) Take(n int) ([]byte, bool) {
	if n < 0 || r.off+n > len(r.buf) {
		return nil, false
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b, true
}

// Remaining reports how many unread bytes are left.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.off
}

// IsNameByte reports whether b is a printable ASCII byte worth keeping in a
// decoded name (letters, digits and punctuation). Padding, NULs and control
// bytes are dropped by both codecs rather than substituted.
func IsNameByte(b byte) bool {
	return b > 0x20 && b < 0x7f
}

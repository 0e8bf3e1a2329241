// Package mdns implements a one-shot unicast reverse (PTR) lookup over
// UDP/5353: the query is sent directly to the target host rather than to the
// multicast group, the way one-shot mDNS resolvers do.
//
// RFC 6762 - Multicast DNS
package mdns

import (
	"context"
	"errors"
	"net"
	"strconv"
	"time"

	"github.com/marcuoli/go-askhostname/pkg/askhostname/transport"
	"github.com/marcuoli/go-askhostname/pkg/askhostname/wire"
)

const (
	// Port is the mDNS port.
	Port = 5353
	// DefaultTimeout is the default timeout for mDNS lookups.
	DefaultTimeout = 500 * time.Millisecond

	// answerSkip is the answer-record prefix between the echoed request and
	// the rdata length: compressed name (2) + type (2) + class (2) + TTL (4).
	answerSkip = 10
	// minAnswerSize is the smallest viable rdata: a length byte, one
	// character and the terminator.
	minAnswerSize = 3
)

// Errors
var (
	// ErrInvalidResponse is returned for malformed or truncated PTR
	// responses.
	ErrInvalidResponse = errors.New("invalid mDNS response")
	// ErrIPv6Unsupported is returned when building a query for a non-IPv4
	// address.
	ErrIPv6Unsupported = errors.New("IPv6 not supported for mDNS reverse lookup")
)

// DebugLogger is a callback for debug logging.
// Set this to receive debug messages from mDNS operations.
var DebugLogger func(format string, args ...interface{})

func debugLog(format string, args ...interface{}) {
	if DebugLogger != nil {
		DebugLogger(format, args...)
	}
}

// Discovery performs one-shot unicast mDNS reverse lookups.
type Discovery struct {
	Timeout time.Duration
	// Port overrides the destination port, mainly for tests.
	Port int
}

// NewDiscovery creates a new mDNS discovery helper with defaults.
func NewDiscovery() *Discovery {
	return &Discovery{Timeout: DefaultTimeout, Port: Port}
}

// BuildQuery constructs a reverse PTR query for an IPv4 address. The
// question name is built from the octets in reverse order, each as a
// length-prefixed decimal label, followed by "in-addr", "arpa" and the null
// terminator; e.g. 192.168.1.100 -> 100.1.168.192.in-addr.arpa.
func BuildQuery(ip net.IP) ([]byte, error) {
	ip4 := ip.To4()
	if ip4 == nil {
		return nil, ErrIPv6Unsupported
	}

	q := append([]byte{}, wire.BuildHeader(wire.KindMDNS)...)
	for i := 3; i >= 0; i-- {
		octet := strconv.Itoa(int(ip4[i]))
		q = append(q, byte(len(octet)))
		q = append(q, octet...)
	}
	q = append(q, 7)
	q = append(q, "in-addr"...)
	q = append(q, 4)
	q = append(q, "arpa"...)
	q = append(q, 0)

	// Type: PTR (0x000C), Class: IN (0x0001)
	q = append(q, 0x00, 0x0c, 0x00, 0x01)
	return q, nil
}

// ParseResponse decodes a unicast PTR response. The response echoes the
// request, followed by the answer record: a compressed name pointer, type,
// class and TTL (skipped positionally), a 16-bit rdata size and the
// length-prefixed labels of the domain name. requestLen is the length of the
// request the response answers.
func ParseResponse(raw []byte, requestLen int) (string, error) {
	r := wire.NewReader(raw)
	if !r.Skip(requestLen + answerSkip) {
		return "", ErrInvalidResponse
	}
	answerSize, ok := r.ReadUint16()
	if !ok {
		return "", ErrInvalidResponse
	}
	if int(answerSize) < minAnswerSize || int(answerSize) > r.Remaining() {
		return "", ErrInvalidResponse
	}
	rdata, _ := r.Take(int(answerSize))

	name := decodeName(rdata)
	if name == "" {
		return "", ErrInvalidResponse
	}
	return name, nil
}

// decodeName walks length-prefixed labels into a dotted name. Non-printable
// bytes inside a label are dropped, not substituted. A zero length byte ends
// the name.
func decodeName(data []byte) string {
	var name []byte
	for i := 0; i < len(data); {
		n := int(data[i])
		if n == 0 {
			break
		}
		end := i + 1 + n
		if end > len(data) {
			end = len(data)
		}
		if len(name) > 0 {
			name = append(name, '.')
		}
		for _, b := range data[i+1 : end] {
			if wire.IsNameByte(b) {
				name = append(name, b)
			}
		}
		i = end
	}
	return string(name)
}

// Query sends a reverse PTR query to ip and decodes the reply into the
// host's domain name, typically ending in "local". A "" with nil error means
// the host did not answer within the timeout.
func (d *Discovery) Query(ctx context.Context, ip net.IP) (string, error) {
	req, err := BuildQuery(ip)
	if err != nil {
		return "", err
	}

	port := d.Port
	if port == 0 {
		port = Port
	}
	resp, err := transport.SendReceive(ctx, ip, port, req, d.Timeout)
	if err != nil {
		return "", err
	}
	if resp == nil {
		debugLog("%s: no mDNS answer", ip)
		return "", nil
	}

	name, err := ParseResponse(resp, len(req))
	if err != nil {
		debugLog("%s: parse failed: %v", ip, err)
		return "", err
	}
	debugLog("%s -> %s", ip, name)
	return name, nil
}

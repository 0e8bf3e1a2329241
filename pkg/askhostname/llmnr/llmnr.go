// Package llmnr provides a unicast LLMNR (Link-Local Multicast Name
// Resolution) reverse lookup, a secondary source for the hostname of Windows
// and systemd-resolved machines that answer neither NBNS nor mDNS.
// Only the directed unicast query is implemented; the multicast path is out
// of scope. Uses github.com/miekg/dns for packet handling.
package llmnr

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/miekg/dns"

	"github.com/marcuoli/go-askhostname/pkg/askhostname/transport"
)

const (
	// Port is the LLMNR port.
	Port = 5355
	// DefaultTimeout is the default timeout for LLMNR lookups.
	DefaultTimeout = 500 * time.Millisecond
)

// DebugLogger is a callback for debug logging.
// Set this to receive debug messages from LLMNR operations.
var DebugLogger func(format string, args ...interface{})

func debugLog(format string, args ...interface{}) {
	if DebugLogger != nil {
		DebugLogger(format, args...)
	}
}

// Discovery performs unicast LLMNR reverse lookups.
type Discovery struct {
	Timeout time.Duration
	// Port overrides the destination port, mainly for tests.
	Port int
}

// NewDiscovery creates a new LLMNR discovery helper with defaults.
func NewDiscovery() *Discovery {
	return &Discovery{Timeout: DefaultTimeout, Port: Port}
}

// Query sends a PTR query for ip directly to the host and returns the first
// answered name without its trailing dot. A "" with nil error means the host
// did not answer within the timeout.
func (l *Discovery) Query(ctx context.Context, ip net.IP) (string, error) {
	ip4 := ip.To4()
	if ip4 == nil {
		return "", fmt.Errorf("IPv6 not supported for LLMNR reverse lookup")
	}

	reverseName := fmt.Sprintf("%d.%d.%d.%d.in-addr.arpa.", ip4[3], ip4[2], ip4[1], ip4[0])
	msg := new(dns.Msg)
	msg.SetQuestion(reverseName, dns.TypePTR)
	msg.RecursionDesired = false // LLMNR doesn't use recursion

	req, err := msg.Pack()
	if err != nil {
		return "", fmt.Errorf("pack query: %w", err)
	}

	port := l.Port
	if port == 0 {
		port = Port
	}
	resp, err := transport.SendReceive(ctx, ip, port, req, l.Timeout)
	if err != nil {
		return "", err
	}
	if resp == nil {
		debugLog("%s: no LLMNR answer", ip)
		return "", nil
	}

	reply := new(dns.Msg)
	if err := reply.Unpack(resp); err != nil {
		debugLog("%s: unpack failed: %v", ip, err)
		return "", nil
	}
	for _, rr := range reply.Answer {
		if ptr, ok := rr.(*dns.PTR); ok {
			name := strings.TrimSuffix(ptr.Ptr, ".")
			debugLog("%s -> %s", ip, name)
			return name, nil
		}
	}
	return "", nil
}

//go:build linux || darwin || freebsd || netbsd || openbsd

// Package arp provides an optional ARP fallback to learn the MAC address of
// a host whose NODE STATUS answer carried none. May require elevated
// privileges on some systems. Platform support: Linux and BSD only.
package arp

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/j-keck/arping"
)

// DefaultTimeout is the default timeout for ARP lookups.
const DefaultTimeout = 1 * time.Second

// Errors
var (
	// ErrNotSupported is returned when ARP is used on unsupported platforms.
	ErrNotSupported = errors.New("ARP lookup is not supported on this platform")
	// ErrIPv6Unsupported is returned when attempting ARP on an IPv6 address.
	ErrIPv6Unsupported = errors.New("ARP is not supported for IPv6 addresses")
)

// DebugLogger is a callback for debug logging.
// Set this to receive debug messages from ARP operations.
var DebugLogger func(format string, args ...interface{})

func debugLog(format string, args ...interface{}) {
	if DebugLogger != nil {
		DebugLogger(format, args...)
	}
}

// Discovery performs ARP MAC lookups.
type Discovery struct {
	Timeout time.Duration
}

// NewDiscovery creates a new ARP lookup helper with defaults.
func NewDiscovery() *Discovery {
	return &Discovery{Timeout: DefaultTimeout}
}

// LookupMAC resolves the hardware address of an IPv4 host via ARP. The call
// returns early when ctx is cancelled while the ping is still in flight.
func (a *Discovery) LookupMAC(ctx context.Context, ip net.IP) (net.HardwareAddr, error) {
	if ip.To4() == nil {
		return nil, ErrIPv6Unsupported
	}

	arping.SetTimeout(a.Timeout)

	type response struct {
		mac net.HardwareAddr
		err error
	}
	ch := make(chan response, 1)
	go func() {
		mac, _, err := arping.Ping(ip)
		ch <- response{mac: mac, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case resp := <-ch:
		if resp.err != nil {
			debugLog("%s: arping failed: %v", ip, resp.err)
			return nil, resp.err
		}
		debugLog("%s -> MAC %s", ip, resp.mac)
		return resp.mac, nil
	}
}

// IsSupported returns true if ARP lookups work on this platform.
func IsSupported() bool {
	return true
}

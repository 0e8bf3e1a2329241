//go:build windows

// Package arp stubs for Windows, where the ARP fallback is not supported.
package arp

import (
	"context"
	"errors"
	"net"
	"time"
)

// DefaultTimeout is the default timeout for ARP lookups.
const DefaultTimeout = 1 * time.Second

// Errors
var (
	// ErrNotSupported is returned when ARP is used on unsupported platforms.
	ErrNotSupported = errors.New("ARP lookup is not supported on Windows")
	// ErrIPv6Unsupported is returned when attempting ARP on an IPv6 address.
	ErrIPv6Unsupported = errors.New("ARP is not supported for IPv6 addresses")
)

// DebugLogger is a callback for debug logging.
var DebugLogger func(format string, args ...interface{})

// Discovery performs ARP MAC lookups.
type Discovery struct {
	Timeout time.Duration
}

// NewDiscovery creates a new ARP lookup helper.
// On Windows this is a stub that always returns ErrNotSupported.
func NewDiscovery() *Discovery {
	return &Discovery{Timeout: DefaultTimeout}
}

// LookupMAC always returns ErrNotSupported on Windows.
func (a *Discovery) LookupMAC(ctx context.Context, ip net.IP) (net.HardwareAddr, error) {
	return nil, ErrNotSupported
}

// IsSupported returns true if ARP lookups work on this platform.
func IsSupported() bool {
	return false
}

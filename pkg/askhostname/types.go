// Package askhostname resolves the NetBIOS and mDNS-visible names of hosts
// by sending one-shot NODE STATUS and reverse-PTR queries over UDP, for a
// single address or concurrently across a CIDR range.
//
// Hosts answer the two protocols unevenly in practice:
//   - Windows: NetBIOS, sometimes LLMNR
//   - macOS/iOS: mDNS (Bonjour)
//   - Linux: mDNS (Avahi), LLMNR (systemd-resolved)
//   - IoT devices: mDNS
package askhostname

import (
	"net"

	"github.com/marcuoli/go-askhostname/pkg/askhostname/nbns"
)

// QueryResult is the per-host aggregate of both protocols' answers.
type QueryResult struct {
	IP net.IP
	// Names holds the decoded NODE STATUS entries in response order,
	// including the trailing MAC address entry when present.
	Names []nbns.Answer
	// DomainName is the mDNS reverse-lookup name, typically ending in
	// "local"; empty when the host gave no answer.
	DomainName string
	// Vendor is the adapter manufacturer resolved from the MAC address,
	// filled only when vendor resolution is enabled.
	Vendor string
}

// IsEmpty reports whether neither protocol produced an answer.
func (r *QueryResult) IsEmpty() bool {
	return len(r.Names) == 0 && r.DomainName == ""
}

// Hostname returns the first NetBIOS name, or "" if none was found.
func (r *QueryResult) Hostname() string {
	for _, a := range r.Names {
		if a.Kind != nbns.MacAddress {
			return a.Name
		}
	}
	return ""
}

// MAC returns the adapter address from the NODE STATUS answer, or nil.
func (r *QueryResult) MAC() net.HardwareAddr {
	for _, a := range r.Names {
		if a.Kind == nbns.MacAddress {
			return a.MAC
		}
	}
	return nil
}

// RangeResult pairs one scanned address with its outcome. A host can carry
// both a partial result and an error.
type RangeResult struct {
	Addr   net.IP
	Result *QueryResult
	Err    error
}

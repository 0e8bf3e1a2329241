// Package askhostname error values.
package askhostname

import "errors"

// Errors
var (
	// ErrParseAddress is returned when a target address cannot be parsed.
	ErrParseAddress = errors.New("cannot parse address")
	// ErrParseAddressRange is returned when a CIDR range cannot be parsed.
	ErrParseAddressRange = errors.New("cannot parse address range")
	// ErrIPv6Unsupported is returned for IPv6 targets; neither protocol
	// supports them.
	ErrIPv6Unsupported = errors.New("IPv6 addresses are not supported")
	// ErrInvalidResponses is returned when both protocols answered with a
	// malformed response.
	ErrInvalidResponses = errors.New("multiple invalid responses")
	// ErrScan is the aggregate failure reported after a range scan in which
	// at least one host errored. Per-host results are still returned.
	ErrScan = errors.New("scan completed with errors")
)

// Package nbns implements the NetBIOS Name Service NODE STATUS exchange
// (NBSTAT) over UDP/137, the same wildcard query sent by nbtscan and
// nbtstat.exe. Works without elevated privileges.
//
// RFC 1002 - PROTOCOL STANDARD FOR A NetBIOS SERVICE ON A TCP/UDP TRANSPORT
package nbns

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/marcuoli/go-askhostname/pkg/askhostname/transport"
	"github.com/marcuoli/go-askhostname/pkg/askhostname/wire"
)

const (
	// Port is the UDP port for NetBIOS Name Service.
	Port = 137
	// QuerySize is the fixed size of the NODE STATUS request:
	// header + encoded wildcard name (34) + qtype (2) + qclass (2).
	QuerySize = wire.HeaderSize + 34 + 4
	// minResponseSize is the smallest viable amount of answer data beyond
	// the echoed request: TTL (4) + data size (2) + name count (1) + one
	// name record (18). Anything smaller cannot decode a single name.
	minResponseSize = 25
	// DefaultTimeout is the default timeout for NODE STATUS lookups.
	DefaultTimeout = 500 * time.Millisecond
)

// nameRecordSize is the size of one name record in the response: 15 name
// bytes, one service byte and two flag bytes.
const nameRecordSize = 18

// Name record flag bits, RFC 1002 §4.2.18.
const (
	flagGroup     = 0x80
	flagPermanent = 0x02
)

// ErrInvalidResponse is returned for malformed or truncated NODE STATUS
// responses.
var ErrInvalidResponse = errors.New("invalid NBNS response")

// DebugLogger is a callback for debug logging.
// Set this to receive debug messages from NBNS operations.
var DebugLogger func(format string, args ...interface{})

func debugLog(format string, args ...interface{}) {
	if DebugLogger != nil {
		DebugLogger(format, args...)
	}
}

// AnswerKind classifies a decoded name record.
type AnswerKind int

const (
	// Unique is a name owned by a single node.
	Unique AnswerKind = iota
	// Group is a name shared by a workgroup.
	Group
	// Permanent is a permanent unique node name.
	Permanent
	// PermanentGroup has both the group and permanent bits set.
	PermanentGroup
	// MacAddress is the adapter address trailing the name table.
	MacAddress
)

func (k AnswerKind) String() string {
	switch k {
	case Unique:
		return "Unique"
	case Group:
		return "Group"
	case Permanent:
		return "Permanent"
	case PermanentGroup:
		return "Permanent group"
	case MacAddress:
		return "MAC address"
	default:
		return "Unknown"
	}
}

// Answer is one decoded entry of a NODE STATUS response: either a registered
// name with its service byte, or the trailing MAC address.
type Answer struct {
	Kind    AnswerKind
	Name    string
	Service byte
	MAC     net.HardwareAddr
}

// Discovery performs NODE STATUS lookups.
type Discovery struct {
	Timeout time.Duration
	// Port overrides the destination port, mainly for tests.
	Port int
}

// NewDiscovery creates a new NBNS discovery helper with defaults.
func NewDiscovery() *Discovery {
	return &Discovery{Timeout: DefaultTimeout, Port: Port}
}

// BuildQuery constructs the NODE STATUS request. The question is the
// first-level encoded wildcard name "*": a 0x20 length byte, each of the 16
// name bytes split into two nibbles added to 'A', and a null terminator.
func BuildQuery() []byte {
	q := make([]byte, 0, QuerySize)
	q = append(q, wire.BuildHeader(wire.KindNBNS)...)

	q = append(q, 32) // length of encoded name
	name := make([]byte, 16)
	name[0] = '*'
	for _, b := range name {
		q = append(q, 'A'+(b>>4)&0x0f, 'A'+b&0x0f)
	}
	q = append(q, 0) // null terminator

	// Type: NBSTAT (0x0021), Class: IN (0x0001)
	q = append(q, 0x00, 0x21, 0x00, 0x01)
	return q
}

// ParseResponse decodes a NODE STATUS response. The response echoes the
// request, followed by a 4-byte TTL, a 16-bit answer data size, an 8-bit
// name count, the 18-byte name records and the adapter MAC address.
// requestLen is the length of the request the response answers.
func ParseResponse(raw []byte, requestLen int) ([]Answer, error) {
	if len(raw) < requestLen+minResponseSize {
		return nil, ErrInvalidResponse
	}

	r := wire.NewReader(raw)
	if !r.Skip(requestLen + 4) {
		return nil, ErrInvalidResponse
	}
	dataSize, ok := r.ReadUint16()
	if !ok {
		return nil, ErrInvalidResponse
	}
	nameCount, ok := r.ReadByte()
	if !ok || nameCount == 0 {
		return nil, ErrInvalidResponse
	}

	// A response whose declared record region is truncated is rejected
	// outright, never partially decoded.
	recordBytes := int(nameCount) * nameRecordSize
	if recordBytes > int(dataSize) || recordBytes > r.Remaining() {
		return nil, ErrInvalidResponse
	}

	answers := make([]Answer, 0, nameCount+1)
	for i := 0; i < int(nameCount); i++ {
		chunk, _ := r.Take(nameRecordSize)

		name := make([]byte, 0, 15)
		for _, b := range chunk[:15] {
			if wire.IsNameByte(b) {
				name = append(name, b)
			}
		}
		service := chunk[15]
		flags := chunk[16] // chunk[17] is reserved and should be zero

		// Both bits set must win over either bit alone.
		var kind AnswerKind
		switch {
		case flags&(flagGroup|flagPermanent) == flagGroup|flagPermanent:
			kind = PermanentGroup
		case flags&flagPermanent != 0:
			kind = Permanent
		case flags&flagGroup != 0:
			kind = Group
		default:
			kind = Unique
		}
		answers = append(answers, Answer{Kind: kind, Name: string(name), Service: service})
	}

	// The adapter MAC address follows the name table when present.
	if mac, ok := r.Take(6); ok {
		hw := make(net.HardwareAddr, 6)
		copy(hw, mac)
		answers = append(answers, Answer{Kind: MacAddress, MAC: hw})
	}

	return answers, nil
}

// Query sends a NODE STATUS request to ip and decodes the reply.
// A nil, nil return means the host did not answer within the timeout.
func (d *Discovery) Query(ctx context.Context, ip net.IP) ([]Answer, error) {
	req := BuildQuery()

	port := d.Port
	if port == 0 {
		port = Port
	}
	resp, err := transport.SendReceive(ctx, ip, port, req, d.Timeout)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		debugLog("%s: no NBNS answer", ip)
		return nil, nil
	}

	answers, err := ParseResponse(resp, len(req))
	if err != nil {
		debugLog("%s: parse failed: %v", ip, err)
		return nil, err
	}
	debugLog("%s: %d NBNS answers", ip, len(answers))
	return answers, nil
}

// ServiceDescription returns a human-readable description of a NetBIOS
// service byte.
func ServiceDescription(service byte) string {
	switch service {
	case 0x00:
		return "Workstation"
	case 0x03:
		return "Messenger"
	case 0x06:
		return "RAS Server"
	case 0x1B:
		return "Domain Master Browser"
	case 0x1C:
		return "Domain Controller"
	case 0x1D:
		return "Local Master Browser"
	case 0x1E:
		return "Browser Election"
	case 0x1F:
		return "NetDDE"
	case 0x20:
		return "File Server"
	case 0x21:
		return "RAS Client"
	case 0xBE:
		return "Network Monitor Agent"
	case 0xBF:
		return "Network Monitor Utility"
	default:
		return "Unknown"
	}
}

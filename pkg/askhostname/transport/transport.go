// Package transport implements the one-shot UDP exchange used by the NBNS
// and mDNS codecs: bind an ephemeral port, associate the socket with the
// target, send a single datagram and wait for at most one reply.
// Works without elevated privileges.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// RecvBufferSize is the fixed receive buffer size. Replies beyond this are
// truncated; every field either codec reads sits well within it.
const RecvBufferSize = 256

// Errors
var (
	// ErrSocketCreate is returned when the local UDP socket cannot be bound.
	ErrSocketCreate = errors.New("cannot create UDP socket")
	// ErrSocketConnect is returned when the socket cannot be associated with
	// the target address.
	ErrSocketConnect = errors.New("cannot connect UDP socket")
	// ErrSocketSend is returned when the request cannot be sent.
	ErrSocketSend = errors.New("cannot send request")
	// ErrSocketTimeout is returned for an invalid timeout value.
	ErrSocketTimeout = errors.New("invalid socket timeout")
)

// DebugLogger is a callback for debug logging.
// Set this to receive debug messages from transport operations.
var DebugLogger func(format string, args ...interface{})

func debugLog(format string, args ...interface{}) {
	if DebugLogger != nil {
		DebugLogger(format, args...)
	}
}

// SendReceive sends request to dest:port over a connected UDP socket and
// waits up to timeout for a single reply.
//
// A nil, nil return means no reply arrived: reads that time out, ICMP
// port-unreachable rejections and every other receive failure all fold into
// it, since a silent host and a dropped packet are indistinguishable here.
// The returned slice is at most RecvBufferSize bytes.
func SendReceive(ctx context.Context, dest net.IP, port int, request []byte, timeout time.Duration) ([]byte, error) {
	if timeout <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrSocketTimeout, timeout)
	}

	dest4 := dest.To4()
	if dest4 == nil {
		return nil, fmt.Errorf("%w: %s is not an IPv4 address", ErrSocketConnect, dest)
	}

	// DialUDP binds the ephemeral local port and associates the socket with
	// the peer in one step; a connected socket only accepts replies from the
	// queried host.
	raddr := &net.UDPAddr{IP: dest4, Port: port}
	conn, err := net.DialUDP("udp4", nil, raddr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSocketCreate, err)
	}
	defer conn.Close()

	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := conn.SetDeadline(deadline); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSocketTimeout, err)
	}

	if _, err := conn.Write(request); err != nil {
		debugLog("%s: send failed: %v", raddr, err)
		return nil, fmt.Errorf("%w: %v", ErrSocketSend, err)
	}

	buf := make([]byte, RecvBufferSize)
	n, err := conn.Read(buf)
	if err != nil {
		debugLog("%s: no reply: %v", raddr, err)
		return nil, nil
	}
	return buf[:n], nil
}

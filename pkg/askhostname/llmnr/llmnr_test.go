// Package llmnr tests using a loopback LLMNR responder.
package llmnr

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/miekg/dns"
)

// startResponder answers each LLMNR query with a PTR record pointing at name.
func startResponder(t *testing.T, name string) int {
	t.Helper()

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	go func() {
		buf := make([]byte, 2048)
		for {
			n, from, err := conn.ReadFromUDP(buf)
			if err != nil {
				return
			}
			query := new(dns.Msg)
			if err := query.Unpack(buf[:n]); err != nil || len(query.Question) == 0 {
				continue
			}
			reply := new(dns.Msg)
			reply.SetReply(query)
			reply.Answer = append(reply.Answer, &dns.PTR{
				Hdr: dns.RR_Header{
					Name:   query.Question[0].Name,
					Rrtype: dns.TypePTR,
					Class:  dns.ClassINET,
					Ttl:    30,
				},
				Ptr: name,
			})
			packed, err := reply.Pack()
			if err != nil {
				continue
			}
			_, _ = conn.WriteToUDP(packed, from)
		}
	}()

	return conn.LocalAddr().(*net.UDPAddr).Port
}

func TestQuery_Answer(t *testing.T) {
	port := startResponder(t, "desktop.example.")

	d := NewDiscovery()
	d.Port = port
	d.Timeout = time.Second

	name, err := d.Query(context.Background(), net.IPv4(127, 0, 0, 1))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if name != "desktop.example" {
		t.Errorf("Name = %q, want %q", name, "desktop.example")
	}
}

func TestQuery_NoAnswer(t *testing.T) {
	// Nothing listening: no answer is not an error.
	d := NewDiscovery()
	d.Port = 59998
	d.Timeout = 50 * time.Millisecond

	name, err := d.Query(context.Background(), net.IPv4(127, 0, 0, 1))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if name != "" {
		t.Errorf("Expected empty name, got %q", name)
	}
}

func TestQuery_IPv6(t *testing.T) {
	d := NewDiscovery()
	if _, err := d.Query(context.Background(), net.ParseIP("fe80::1")); err == nil {
		t.Error("Expected error for IPv6 address")
	}
}

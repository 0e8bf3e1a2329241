// Package askhostname: query orchestration for single hosts and CIDR ranges.
package askhostname

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/marcuoli/go-askhostname/pkg/askhostname/arp"
	"github.com/marcuoli/go-askhostname/pkg/askhostname/llmnr"
	"github.com/marcuoli/go-askhostname/pkg/askhostname/mdns"
	"github.com/marcuoli/go-askhostname/pkg/askhostname/nbns"
	"github.com/marcuoli/go-askhostname/pkg/askhostname/network"
)

const (
	// DefaultTimeout is the per-query timeout used when none is configured.
	DefaultTimeout = 500 * time.Millisecond
	// DefaultWorkers is the default concurrency level for range scans.
	DefaultWorkers = 128

	// Timeouts outside this window still work but are logged as suspicious:
	// below it most LAN hosts cannot answer, above it range scans crawl.
	TooLowTimeoutWarning = 100 * time.Millisecond
	TooBigTimeoutWarning = 3500 * time.Millisecond
)

// Options configures a Client.
type Options struct {
	// Timeout per protocol query. Zero means DefaultTimeout.
	Timeout time.Duration
	// Workers bounds the number of hosts queried in parallel during a range
	// scan. Zero means DefaultWorkers.
	Workers int
	// EnableLLMNR adds a unicast LLMNR lookup for hosts whose mDNS query
	// produced no domain name.
	EnableLLMNR bool
	// EnableARP resolves the MAC address via ARP when the NODE STATUS
	// answer carried none. Unix only.
	EnableARP bool
	// ResolveVendor resolves the adapter manufacturer for discovered MAC
	// addresses from the IEEE OUI database.
	ResolveVendor bool
	// Sink, when set, receives one formatted line per host that produced an
	// answer, serialized across workers.
	Sink *OutputSink
	// Format renders a result into the line appended to Sink. Required when
	// Sink is set.
	Format func(*QueryResult) string
}

// Client runs name queries with a fixed configuration.
type Client struct {
	opts  Options
	nbns  *nbns.Discovery
	mdns  *mdns.Discovery
	llmnr *llmnr.Discovery
	arp   *arp.Discovery
}

// New creates a Client, applying defaults for unset options.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.Timeout < TooLowTimeoutWarning {
		debugLog(MethodScan, "timeout %v is below %v, hosts may not answer in time", opts.Timeout, TooLowTimeoutWarning)
	}
	if opts.Timeout > TooBigTimeoutWarning {
		debugLog(MethodScan, "timeout %v is above %v, scans will be slow", opts.Timeout, TooBigTimeoutWarning)
	}

	c := &Client{
		opts:  opts,
		nbns:  nbns.NewDiscovery(),
		mdns:  mdns.NewDiscovery(),
		llmnr: llmnr.NewDiscovery(),
		arp:   arp.NewDiscovery(),
	}
	c.nbns.Timeout = opts.Timeout
	c.mdns.Timeout = opts.Timeout
	c.llmnr.Timeout = opts.Timeout
	c.arp.Timeout = opts.Timeout
	return c
}

// QuerySingle resolves one address synchronously. The result may be partial
// when an error is returned: a host can answer one protocol and send garbage
// on the other.
func (c *Client) QuerySingle(ctx context.Context, addr string) (*QueryResult, error) {
	ip := net.ParseIP(addr)
	if ip == nil {
		return nil, fmt.Errorf("%w: %q", ErrParseAddress, addr)
	}
	if ip.To4() == nil {
		return nil, fmt.Errorf("%w: %s", ErrIPv6Unsupported, addr)
	}
	return c.queryHost(ctx, ip)
}

// QueryRange expands a CIDR block and queries every host address with a
// fixed-size worker pool. Results are returned in finish order, not address
// order. Per-host errors never abort the scan; when any host errored the
// scan reports ErrScan as a summary after all hosts completed, alongside
// whatever results were obtained.
func (c *Client) QueryRange(ctx context.Context, cidr string) ([]RangeResult, error) {
	ip, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrParseAddressRange, cidr)
	}
	if ip.To4() == nil {
		return nil, fmt.Errorf("%w: %s", ErrIPv6Unsupported, cidr)
	}

	hosts := network.HostAddrs(ipnet)
	if len(hosts) == 0 {
		return nil, nil
	}
	debugLog(MethodScan, "scanning %d hosts in %s", len(hosts), cidr)

	workers := c.opts.Workers
	if workers > len(hosts) {
		workers = len(hosts)
	}

	var (
		mu       sync.Mutex
		results  = make([]RangeResult, 0, len(hosts))
		errCount int
	)

	jobs := make(chan net.IP, len(hosts))
	var wg sync.WaitGroup

	worker := func() {
		defer wg.Done()
		for host := range jobs {
			res, err := c.queryHost(ctx, host)

			if c.opts.Sink != nil && c.opts.Format != nil && res != nil && !res.IsEmpty() {
				c.opts.Sink.Append(c.opts.Format(res))
			}

			mu.Lock()
			results = append(results, RangeResult{Addr: host, Result: res, Err: err})
			if err != nil {
				errCount++
			}
			mu.Unlock()

			if err != nil {
				debugLog(MethodScan, "%s: %v", host, err)
			}
		}
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go worker()
	}
	// Every expanded host is queried to completion; a started scan is not
	// cancelled.
	for _, host := range hosts {
		jobs <- host
	}
	close(jobs)
	wg.Wait()

	if errCount > 0 {
		return results, fmt.Errorf("%w: %d of %d hosts", ErrScan, errCount, len(hosts))
	}
	return results, nil
}

// queryHost runs both protocol queries against one IPv4 host and merges the
// answers. Sub-query errors are collected, not short-circuited: an error
// from one protocol must not discard the other's answer.
func (c *Client) queryHost(ctx context.Context, ip net.IP) (*QueryResult, error) {
	res := &QueryResult{IP: ip}

	var nbnsErr, mdnsErr error
	if answers, err := c.nbns.Query(ctx, ip); err != nil {
		nbnsErr = err
	} else {
		res.Names = answers
	}
	if name, err := c.mdns.Query(ctx, ip); err != nil {
		mdnsErr = err
	} else {
		res.DomainName = name
	}

	if c.opts.EnableLLMNR && res.DomainName == "" {
		if name, err := c.llmnr.Query(ctx, ip); err == nil && name != "" {
			res.DomainName = name
		}
	}
	if c.opts.EnableARP && res.MAC() == nil && arp.IsSupported() {
		if mac, err := c.arp.LookupMAC(ctx, ip); err == nil {
			res.Names = append(res.Names, nbns.Answer{Kind: nbns.MacAddress, MAC: mac})
		}
	}
	if c.opts.ResolveVendor {
		res.Vendor = LookupVendorName(res.MAC())
	}

	switch {
	case errors.Is(nbnsErr, nbns.ErrInvalidResponse) && errors.Is(mdnsErr, mdns.ErrInvalidResponse):
		return res, fmt.Errorf("%w: %s", ErrInvalidResponses, ip)
	case nbnsErr != nil:
		return res, nbnsErr
	case mdnsErr != nil:
		return res, mdnsErr
	}
	return res, nil
}

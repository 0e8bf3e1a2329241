// Command askhostname resolves NetBIOS and mDNS hostnames for a single
// address or a CIDR range.
//
// Usage:
//
//	askhostname [flags] <address|CIDR>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/marcuoli/go-askhostname/pkg/askhostname"
	"github.com/marcuoli/go-askhostname/pkg/askhostname/nbns"
	"github.com/marcuoli/go-askhostname/pkg/askhostname/network"
)

// Column widths of the result table.
const (
	padIP       = 16
	padHostname = 16
	padDomain   = 20
)

func tableHead() string {
	return fmt.Sprintf("%-*s %-*s %-*s", padIP, "IP address", padHostname, "Hostname", padDomain, "Domain name")
}

func tableRow(r *askhostname.QueryResult) string {
	hostname := r.Hostname()
	if hostname == "" {
		hostname = "-"
	}
	domain := r.DomainName
	if domain == "" {
		domain = "-"
	}
	row := fmt.Sprintf("%-*s %-*s %-*s", padIP, r.IP, padHostname, hostname, padDomain, domain)
	if r.Vendor != "" {
		row += " " + r.Vendor
	}
	return row
}

// verboseEntry lists every decoded name of one host.
func verboseEntry(r *askhostname.QueryResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", r.IP)
	for _, a := range r.Names {
		if a.Kind == nbns.MacAddress {
			fmt.Fprintf(&b, "  MAC address: %s", a.MAC)
			if r.Vendor != "" {
				fmt.Fprintf(&b, " (%s)", r.Vendor)
			}
			b.WriteByte('\n')
			continue
		}
		fmt.Fprintf(&b, "  %s (%s) Service: 0x%02x %s\n", a.Name, a.Kind, a.Service, nbns.ServiceDescription(a.Service))
	}
	if r.DomainName != "" {
		fmt.Fprintf(&b, "  Domain name: %s\n", r.DomainName)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func main() {
	var (
		timeout  time.Duration
		workers  int
		verbose  bool
		deferred bool
		vendor   bool
		useARP   bool
		llmnr    bool
		debug    bool
		version  bool
	)

	flag.DurationVar(&timeout, "timeout", askhostname.DefaultTimeout, "Per-query timeout")
	flag.IntVar(&workers, "workers", askhostname.DefaultWorkers, "Number of concurrent workers for range scans")
	flag.BoolVar(&verbose, "v", false, "List every name a host registered")
	flag.BoolVar(&deferred, "deferred", false, "Buffer range output and print it once at the end")
	flag.BoolVar(&vendor, "vendor", false, "Resolve MAC address vendors (IEEE OUI)")
	flag.BoolVar(&useARP, "arp", false, "Fall back to ARP for MAC addresses (unix only)")
	flag.BoolVar(&llmnr, "llmnr", false, "Also try unicast LLMNR lookups")
	flag.BoolVar(&debug, "debug", false, "Print protocol debug messages to stderr")
	flag.BoolVar(&version, "version", false, "Print version and exit")
	flag.Parse()

	if version {
		fmt.Println(askhostname.VersionInfo())
		return
	}
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: askhostname [flags] <address|CIDR>")
		flag.Usage()
		os.Exit(2)
	}
	if timeout <= 0 {
		fmt.Fprintln(os.Stderr, "askhostname: timeout must be positive")
		os.Exit(2)
	}

	if debug {
		askhostname.SetDebugLogger(func(method askhostname.Method, format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, "[%s] %s\n", method, fmt.Sprintf(format, args...))
		})
	}

	target := flag.Arg(0)
	format := tableRow
	if verbose {
		format = verboseEntry
	}

	mode := askhostname.Immediate
	if deferred {
		mode = askhostname.Deferred
	}
	sink := askhostname.NewOutputSink(os.Stdout, mode)

	client := askhostname.New(askhostname.Options{
		Timeout:       timeout,
		Workers:       workers,
		EnableLLMNR:   llmnr,
		EnableARP:     useARP,
		ResolveVendor: vendor,
		Sink:          sink,
		Format:        format,
	})

	ctx := context.Background()
	if strings.ContainsRune(target, '/') {
		runRange(ctx, client, sink, target, verbose)
		return
	}
	runSingle(ctx, client, target, verbose, format)
}

func runSingle(ctx context.Context, client *askhostname.Client, addr string, verbose bool, format func(*askhostname.QueryResult) string) {
	res, err := client.QuerySingle(ctx, addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "askhostname: %v\n", err)
		os.Exit(1)
	}
	if res.IsEmpty() {
		fmt.Println("No answer from", addr)
		return
	}
	if !verbose {
		fmt.Println(tableHead())
	}
	fmt.Println(format(res))
}

func runRange(ctx context.Context, client *askhostname.Client, sink *askhostname.OutputSink, cidr string, verbose bool) {
	if ips, err := network.EnumerateIPs(cidr); err == nil {
		for _, ip := range ips {
			if !network.IsPrivateIP(ip) {
				fmt.Fprintf(os.Stderr, "askhostname: warning: %s contains non-private addresses\n", cidr)
				break
			}
		}
	}

	if !verbose {
		fmt.Println(tableHead())
	}
	results, err := client.QueryRange(ctx, cidr)
	if flushErr := sink.Flush(); flushErr != nil {
		fmt.Fprintf(os.Stderr, "askhostname: %v\n", flushErr)
		os.Exit(1)
	}
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(os.Stderr, "askhostname: %s: %v\n", r.Addr, r.Err)
		}
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "askhostname: %v\n", err)
		os.Exit(1)
	}
}

// Package askhostname: debug logging support.
package askhostname

import (
	"sync"

	"github.com/marcuoli/go-askhostname/pkg/askhostname/arp"
	"github.com/marcuoli/go-askhostname/pkg/askhostname/llmnr"
	"github.com/marcuoli/go-askhostname/pkg/askhostname/mdns"
	"github.com/marcuoli/go-askhostname/pkg/askhostname/nbns"
	"github.com/marcuoli/go-askhostname/pkg/askhostname/transport"
)

// Method identifies the protocol or component a debug message came from.
type Method string

const (
	MethodNBNS      Method = "nbns"
	MethodMDNS      Method = "mdns"
	MethodLLMNR     Method = "llmnr"
	MethodARP       Method = "arp"
	MethodVendor    Method = "vendor"
	MethodTransport Method = "transport"
	MethodScan      Method = "scan"
)

// DebugLogger is a callback function for debug logging. The method parameter
// indicates which component generated the message.
type DebugLogger func(method Method, format string, args ...interface{})

var (
	debugLogger DebugLogger
	debugMu     sync.RWMutex
)

// SetDebugLogger sets a debug logger callback and forwards the leaf
// packages' debug output through it. Pass nil to disable debug logging.
func SetDebugLogger(logger DebugLogger) {
	debugMu.Lock()
	debugLogger = logger
	debugMu.Unlock()

	forward := func(method Method) func(format string, args ...interface{}) {
		if logger == nil {
			return nil
		}
		return func(format string, args ...interface{}) {
			logger(method, format, args...)
		}
	}
	nbns.DebugLogger = forward(MethodNBNS)
	mdns.DebugLogger = forward(MethodMDNS)
	llmnr.DebugLogger = forward(MethodLLMNR)
	arp.DebugLogger = forward(MethodARP)
	transport.DebugLogger = forward(MethodTransport)
}

func debugLog(method Method, format string, args ...interface{}) {
	debugMu.RLock()
	logger := debugLogger
	debugMu.RUnlock()

	if logger != nil {
		logger(method, format, args...)
	}
}

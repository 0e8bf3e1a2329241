// Package askhostname: MAC vendor lookup using the IEEE OUI database via the
// klauspost/oui library and its embedded database.
package askhostname

import (
	"fmt"
	"net"
	"sync"

	"github.com/klauspost/oui"
)

var (
	ouiDB     oui.OuiDB
	ouiDBOnce sync.Once
	ouiDBErr  error
)

// initOUIDB loads the embedded OUI database on first use.
func initOUIDB() error {
	ouiDBOnce.Do(func() {
		db, err := oui.OpenStaticFile("")
		if err != nil {
			ouiDBErr = fmt.Errorf("failed to load embedded OUI database: %w", err)
			return
		}
		ouiDB = db
	})
	return ouiDBErr
}

// LookupVendorName returns the manufacturer registered for a hardware
// address, or "" when unknown.
func LookupVendorName(mac net.HardwareAddr) string {
	if len(mac) == 0 {
		return ""
	}
	if err := initOUIDB(); err != nil {
		debugLog(MethodVendor, "OUI database unavailable: %v", err)
		return ""
	}

	entry, err := ouiDB.Query(mac.String())
	if err != nil {
		if err != oui.ErrNotFound {
			debugLog(MethodVendor, "%s: OUI lookup failed: %v", mac, err)
		}
		return ""
	}
	debugLog(MethodVendor, "%s -> %s", mac, entry.Manufacturer)
	return entry.Manufacturer
}

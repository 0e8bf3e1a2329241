// Package askhostname version information.
package askhostname

// Version is the semantic version of the library.
const Version = "0.2.0"

// VersionInfo returns the full version string with library name.
func VersionInfo() string {
	return "go-askhostname v" + Version
}

// Package version reports the build version stamped in at link time.
package version

var version = "dev"

// Get returns the build version.
func Get() string {
	return version
}

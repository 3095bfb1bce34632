// Package version contains version information
package version

const (
	// Version is the software version
	Version = "0.1.0"
)

// Package version reports the speechkit build version, stamped through
// -ldflags or read from the Go build info.
package version

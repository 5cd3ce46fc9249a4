// Package sampledb keeps build information for the sampledb application.
package sampledb

var (
	// Version of sampledb, set by build flags.
	Version = "v0.1.0"
	// Build timestamp, set by build flags.
	Build = "n/a"
)

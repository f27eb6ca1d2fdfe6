// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

const (
	// Surfplay is the canonical application identifier used for filesystem paths and CLI branding.
	Surfplay = "surfplay"

	// Version is the current application semantic version string.
	Version = "0.1.0"

	// UserAgent is the HTTP User-Agent sent when the headless engine fetches a stream.
	UserAgent = "surfplay/" + Version
)

// Build metadata, injected with -ldflags at release time.
var (
	BuiltAt  = "unknown"
	BuiltBy  = "unknown"
	Revision = "unknown"
)

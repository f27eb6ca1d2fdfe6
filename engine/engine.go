// Package engine defines the capability surface of a media decoding engine and its backends.
//
// An Engine is driven imperatively (load a source, prepare, start, pause, stop, seek, release)
// and reports back through a single stream of Event values. Two backends are provided:
// an mpv process controlled over JSON-IPC, and a headless engine that downloads an MP4 stream
// over HTTP and simulates playback.
package engine

import (
	"fmt"
	"net/url"
	"strings"
)

// Engine encapsulates the imperative calls the playback controller issues to a decoding engine.
// Every method except Release must return promptly; Release may block.
type Engine interface {
	// SetSource loads the locator of the stream to play. Only valid on a freshly constructed engine.
	SetSource(locator string) error

	// PrepareAsync begins loading the source. Completion is reported with a Prepared event.
	PrepareAsync() error

	// Start begins or resumes playback.
	Start() error

	// Pause suspends playback.
	Pause() error

	// Stop halts playback. A stopped engine must be prepared again before it can start.
	Stop() error

	// SeekTo moves the playback position to an absolute offset in milliseconds.
	SeekTo(ms int) error

	// CurrentPosition returns the playback position in milliseconds.
	CurrentPosition() int

	// Duration returns the stream length in milliseconds, or -1 when unknown.
	Duration() int

	// IsPlaying reports whether media is actively playing.
	IsPlaying() bool

	// Release frees every resource held by the engine. It may block.
	Release() error
}

// Factory constructs an engine whose events are delivered through emit, in emission order.
type Factory func(emit func(Event)) (Engine, error)

// Error codes carried by Error events.
const (
	CodeUnknown     = 1
	CodeIO          = -1004
	CodeMalformed   = -1007
	CodeUnsupported = -1010
	CodeTimedOut    = -110
)

// Sub-codes carried in Error.Extra.
const (
	ExtraNone = iota
	ExtraProcessExited
	ExtraHTTPStatus
)

// ValidateLocator checks that a locator is a network stream address that is safe to hand to an engine.
// It rejects control characters, flag-like values and non-HTTP schemes.
func ValidateLocator(locator string) (string, error) {
	l := strings.TrimSpace(locator)
	if l == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", fmt.Errorf("invalid control characters in URL")
	}

	// mpv would read it as an option
	if strings.HasPrefix(l, "-") {
		return "", fmt.Errorf("url must not start with '-' (looks like a flag)")
	}

	u, err := url.Parse(l)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	default:
		return "", fmt.Errorf("unsupported URL scheme: %q", u.Scheme)
	}

	if u.Host == "" {
		return "", fmt.Errorf("URL has no host")
	}

	return l, nil
}

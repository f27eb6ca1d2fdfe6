// Package network provides the pre-configured HTTP client used to fetch media streams.
package network

import (
	"net/http"
	"time"
)

// Client is the HTTP client shared by stream downloads and probes.
// It has no overall timeout because a progressive download lasts as long as the stream;
// header and idle timeouts bound stalled servers instead.
var Client = &http.Client{
	Transport: newTransport(),
}

// newTransport initializes a tuned http.Transport for long-lived media downloads.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 16
	t.MaxIdleConnsPerHost = 4
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 5 * time.Second
	return t
}

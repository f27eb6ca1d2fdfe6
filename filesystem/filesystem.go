// Package filesystem provides the swappable afero backend behind every file the
// application reads or writes: config, logs, history and caches.
package filesystem

import (
	"sync"

	"github.com/spf13/afero"
)

var (
	mu      sync.RWMutex
	backend = afero.Afero{Fs: afero.NewOsFs()}
)

// API returns the active backend. Engines resolve socket paths from their own goroutines,
// so the backend may be read concurrently with a swap.
func API() afero.Afero {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

func set(fs afero.Fs) {
	mu.Lock()
	defer mu.Unlock()
	backend = afero.Afero{Fs: fs}
}

// SetOsFs restores the native operating system backend.
func SetOsFs() {
	set(afero.NewOsFs())
}

// SetMemMapFs switches to a volatile in-memory backend for tests.
func SetMemMapFs() {
	set(afero.NewMemMapFs())
}

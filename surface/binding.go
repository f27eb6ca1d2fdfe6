package surface

import (
	"sync"

	"github.com/surfplay/surfplay/log"
)

// Binding tracks whether the target is alive and forwards lifecycle changes to a Sink.
// Repeated created or destroyed notifications are forwarded only once.
type Binding struct {
	sink Sink

	mu        sync.Mutex
	alive     bool
	format    int
	container Size
}

// NewBinding returns a Binding forwarding into sink.
func NewBinding(sink Sink) *Binding {
	return &Binding{sink: sink}
}

// Created marks the target alive.
func (b *Binding) Created() {
	b.mu.Lock()
	if b.alive {
		b.mu.Unlock()
		return
	}
	b.alive = true
	b.mu.Unlock()

	log.Debug("surface created")
	b.sink.OnSurfaceCreated()
}

// Changed records a new container size. It is used for sizing only and never reaches the sink.
func (b *Binding) Changed(format, width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.format = format
	b.container = Size{Width: width, Height: height}
}

// Destroyed marks the target gone.
func (b *Binding) Destroyed() {
	b.mu.Lock()
	if !b.alive {
		b.mu.Unlock()
		return
	}
	b.alive = false
	b.mu.Unlock()

	log.Debug("surface destroyed")
	b.sink.OnSurfaceDestroyed()
}

// Alive reports whether the target currently exists.
func (b *Binding) Alive() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.alive
}

// Container returns the last size reported by Changed.
func (b *Binding) Container() Size {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.container
}

// Package controller drives a media engine bound to a display surface.
//
// All state lives on a single loop goroutine started by Run. Caller operations are
// queued to it and return immediately, engine events and teardown completions are
// delivered to it in order, and queries read a snapshot republished after every step.
// The only blocking engine calls, stop and release, run on a dedicated worker with at
// most one teardown in flight.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/viper"
	"github.com/surfplay/surfplay/engine"
	"github.com/surfplay/surfplay/key"
	"github.com/surfplay/surfplay/log"
	"github.com/surfplay/surfplay/surface"
)

const (
	opsBuffer    = 64
	eventsBuffer = 256

	// refreshInterval is how often position and duration are republished while nothing else happens.
	refreshInterval = 250 * time.Millisecond

	defaultReleaseTimeout = 5 * time.Second
)

// ErrReleaseTimeout is returned by Run when the engine did not release in time on shutdown.
var ErrReleaseTimeout = errors.New("engine release timed out")

type tagged struct {
	gen uint64
	ev  engine.Event
}

// Controller is the caller-facing playback controller. It implements surface.Sink.
type Controller struct {
	m        *machine
	releaser *releaser

	ops    chan func(*machine)
	events chan tagged
	done   chan struct{}

	running atomic.Bool
	snap    atomic.Pointer[Snapshot]
}

var _ surface.Sink = (*Controller)(nil)

// New returns a controller building engines with factory and sizing s.
// Nothing happens until Run is called.
func New(factory engine.Factory, s surface.Surface) *Controller {
	c := &Controller{
		releaser: newReleaser(),
		ops:      make(chan func(*machine), opsBuffer),
		events:   make(chan tagged, eventsBuffer),
		done:     make(chan struct{}),
	}

	build := func(gen uint64) (engine.Engine, error) {
		return factory(c.emitter(gen))
	}

	c.m = newMachine(build, c.releaser, s)

	snap := initialSnapshot
	c.snap.Store(&snap)
	return c
}

// Run drives the controller until ctx is done, then releases the engine and waits
// for the release to finish, bounded by the player.release_timeout setting.
func (c *Controller) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return errors.New("controller is already running")
	}
	defer close(c.done)

	go c.releaser.run()
	defer c.releaser.close()

	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	c.publish()

	for {
		select {
		case <-ctx.Done():
			return c.shutdown()
		case op := <-c.ops:
			op(c.m)
		case t := <-c.events:
			c.m.handle(t.gen, t.ev)
		case err := <-c.releaser.done:
			c.m.releaseDone(err)
		case <-ticker.C:
		}

		c.publish()
	}
}

func (c *Controller) shutdown() error {
	log.Debug("controller shutting down")

	c.m.target = Idle
	c.m.requestTeardown()
	c.publish()

	timeout := time.Duration(viper.GetInt(key.PlayerReleaseTimeout)) * time.Millisecond
	if timeout <= 0 {
		timeout = defaultReleaseTimeout
	}
	deadline := time.After(timeout)

	for c.m.releasing {
		select {
		case err := <-c.releaser.done:
			c.m.releaseDone(err)
			c.publish()
		case t := <-c.events:
			c.m.handle(t.gen, t.ev)
		case <-deadline:
			return fmt.Errorf("%w after %s", ErrReleaseTimeout, timeout)
		}
	}

	return nil
}

// publish stores a fresh snapshot and notifies the state change listener when it differs.
func (c *Controller) publish() {
	s := c.m.snapshot()
	prev := c.snap.Swap(&s)

	if c.m.listeners.stateChange != nil && (prev == nil || *prev != s) {
		c.m.listeners.stateChange(s)
	}
}

// post queues op for the loop. Operations posted after Run returned are dropped.
func (c *Controller) post(op func(*machine)) {
	select {
	case c.ops <- op:
	case <-c.done:
	}
}

// emitter returns the event callback handed to the engine of generation gen.
func (c *Controller) emitter(gen uint64) func(engine.Event) {
	return func(ev engine.Event) {
		select {
		case c.events <- tagged{gen: gen, ev: ev}:
		case <-c.done:
		}
	}
}

// SetSource replaces the stream locator. The current engine, if any, is released and a
// new one is built and started once the surface is alive.
func (c *Controller) SetSource(locator string) {
	c.post(func(m *machine) { m.setSource(locator) })
}

// Start starts or resumes playback, or records that playback is wanted.
func (c *Controller) Start() {
	c.post((*machine).start)
}

// Pause pauses playback once something is buffered.
func (c *Controller) Pause() {
	c.post((*machine).pause)
}

// StopPlayback stops playback once something is buffered. Start prepares the stream again.
func (c *Controller) StopPlayback() {
	c.post((*machine).stop)
}

// SeekTo moves to ms milliseconds, or remembers the position until the engine can seek.
func (c *Controller) SeekTo(ms int) {
	c.post(func(m *machine) { m.seek(ms) })
}

// Snapshot returns the latest published state.
func (c *Controller) Snapshot() Snapshot {
	return *c.snap.Load()
}

// State returns the current playback state.
func (c *Controller) State() State {
	return c.Snapshot().State
}

// GetCurrentPosition returns the position in milliseconds, or 0 when not playing back.
func (c *Controller) GetCurrentPosition() int {
	return c.Snapshot().Position
}

// GetDuration returns the duration in milliseconds, or -1 when unknown.
func (c *Controller) GetDuration() int {
	return c.Snapshot().Duration
}

// GetBufferPercentage returns the buffered percentage.
func (c *Controller) GetBufferPercentage() int {
	return c.Snapshot().Buffer
}

// IsPlaying reports whether the engine is playing.
func (c *Controller) IsPlaying() bool {
	return c.Snapshot().Playing
}

// CanPause reports whether the engine is in a state that can be paused.
func (c *Controller) CanPause() bool {
	return c.Snapshot().CanPause
}

// OnPrepared sets the listener called when the stream is ready to play.
func (c *Controller) OnPrepared(cb func()) {
	c.post(func(m *machine) { m.listeners.prepared = cb })
}

// OnError sets the listener called once per playback error. Returning true claims the
// error; otherwise it is logged.
func (c *Controller) OnError(cb func(*PlaybackError) bool) {
	c.post(func(m *machine) { m.listeners.err = cb })
}

// OnCompletion sets the listener called when playback reaches the end.
func (c *Controller) OnCompletion(cb func()) {
	c.post(func(m *machine) { m.listeners.completion = cb })
}

// OnStateChange sets the listener called with every distinct snapshot.
func (c *Controller) OnStateChange(cb func(Snapshot)) {
	c.post(func(m *machine) { m.listeners.stateChange = cb })
}

// OnSurfaceCreated implements surface.Sink.
func (c *Controller) OnSurfaceCreated() {
	c.post((*machine).surfaceCreated)
}

// OnSurfaceDestroyed implements surface.Sink.
func (c *Controller) OnSurfaceDestroyed() {
	c.post((*machine).surfaceDestroyed)
}

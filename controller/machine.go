package controller

import (
	"fmt"

	"github.com/samber/mo"
	"github.com/sirupsen/logrus"
	"github.com/surfplay/surfplay/engine"
	"github.com/surfplay/surfplay/log"
	"github.com/surfplay/surfplay/surface"
)

// BufferUnknown is the buffer level before the first update from a new engine.
const BufferUnknown = -1

// builder constructs an engine whose events are tagged with gen.
type builder func(gen uint64) (engine.Engine, error)

// scheduler hands a teardown job to the background worker.
type scheduler interface {
	submit(job)
}

type listeners struct {
	prepared    func()
	err         func(*PlaybackError) bool
	completion  func()
	stateChange func(Snapshot)
}

// machine is the playback state machine. It is not safe for concurrent use:
// every method runs on the controlling goroutine.
type machine struct {
	build    builder
	teardown scheduler
	surface  surface.Surface

	engine mo.Option[engine.Engine]
	gen    uint64

	state       State
	target      State
	source      string
	buffer      int
	pendingSeek mo.Option[int]
	alive       bool
	video       surface.Size
	releasing   bool

	listeners listeners
}

func newMachine(build builder, teardown scheduler, s surface.Surface) *machine {
	if s == nil {
		s = surface.Discard
	}
	return &machine{
		build:    build,
		teardown: teardown,
		surface:  s,
		buffer:   BufferUnknown,
	}
}

func (m *machine) logger() *logrus.Entry {
	return log.WithFields(logrus.Fields{
		"state":  m.state,
		"target": m.target,
		"gen":    m.gen,
	})
}

func (m *machine) setState(s State) {
	if s != m.state {
		m.logger().Debugf("state -> %s", s)
	}
	m.state = s
}

func (m *machine) playbackCapable() bool {
	return m.engine.IsPresent() && m.state.playbackCapable()
}

func (m *machine) buffered() bool {
	return m.buffer > 0
}

// latch records that an operation could not reach the engine yet.
func (m *machine) latch(op string) {
	m.logger().Debugf("%s latched: %v", op, &PlaybackError{
		Kind: LifecycleViolation,
		Err:  fmt.Errorf("engine not ready (buffer %d%%, surface alive: %t)", m.buffer, m.alive),
	})
}

// setSource replaces the locator and rebuilds the engine through a teardown.
func (m *machine) setSource(locator string) {
	m.source = locator
	m.target = Playing
	m.requestTeardown()
}

func (m *machine) start() {
	m.target = Playing

	eng, ok := m.engine.Get()
	switch {
	case ok && m.state.playbackCapable():
		switch m.state {
		case Playing:
		case Stopped:
			// a stopped engine has to be prepared again
			m.setState(Preparing)
			m.buffer = BufferUnknown
			if err := eng.PrepareAsync(); err != nil {
				m.fail(&PlaybackError{Kind: EngineError, Code: engine.CodeUnknown, Err: fmt.Errorf("prepare: %w", err)})
			}
		default:
			if err := eng.Start(); err != nil {
				m.fail(&PlaybackError{Kind: EngineError, Code: engine.CodeUnknown, Err: fmt.Errorf("start: %w", err)})
				return
			}
			m.setState(Playing)
		}
	case m.state == Error, m.state == Idle && !ok && !m.releasing:
		m.requestTeardown()
	default:
		m.latch("start")
	}
}

func (m *machine) pause() {
	m.target = Paused

	if !m.playbackCapable() || !m.buffered() {
		m.latch("pause")
		return
	}

	eng := m.engine.MustGet()
	if !eng.IsPlaying() {
		return
	}

	if err := eng.Pause(); err != nil {
		m.fail(&PlaybackError{Kind: EngineError, Code: engine.CodeUnknown, Err: fmt.Errorf("pause: %w", err)})
		return
	}
	m.setState(Paused)
}

func (m *machine) stop() {
	m.target = Stopped

	if !m.playbackCapable() || !m.buffered() {
		m.latch("stop")
		return
	}
	if m.state == Stopped {
		return
	}

	if err := m.engine.MustGet().Stop(); err != nil {
		m.fail(&PlaybackError{Kind: EngineError, Code: engine.CodeUnknown, Err: fmt.Errorf("stop: %w", err)})
		return
	}
	m.setState(Stopped)
}

// seek issues the seek when it is safe and keeps it pending otherwise. The last pending seek wins.
func (m *machine) seek(ms int) {
	if !m.playbackCapable() || !m.buffered() {
		m.pendingSeek = mo.Some(ms)
		m.latch("seek")
		return
	}

	m.pendingSeek = mo.None[int]()
	if err := m.engine.MustGet().SeekTo(ms); err != nil {
		m.fail(&PlaybackError{Kind: EngineError, Code: engine.CodeUnknown, Err: fmt.Errorf("seek: %w", err)})
	}
}

func (m *machine) currentPosition() int {
	if !m.playbackCapable() {
		return 0
	}
	return m.engine.MustGet().CurrentPosition()
}

func (m *machine) duration() int {
	if !m.playbackCapable() {
		return -1
	}
	return m.engine.MustGet().Duration()
}

func (m *machine) bufferPercentage() int {
	if m.engine.IsAbsent() {
		return 0
	}
	return m.buffer
}

func (m *machine) isPlaying() bool {
	return m.playbackCapable() && m.engine.MustGet().IsPlaying()
}

func (m *machine) canPause() bool {
	return m.playbackCapable()
}

// handle applies an engine event. Events from an engine other than the current one are dropped.
func (m *machine) handle(gen uint64, ev engine.Event) {
	if m.engine.IsAbsent() || gen != m.gen {
		m.logger().Tracef("dropped stale event from engine %d: %s", gen, ev)
		return
	}

	m.logger().Tracef("event: %s", ev)

	switch ev := ev.(type) {
	case engine.Prepared:
		m.onPrepared(ev)
	case engine.BufferingUpdate:
		m.onBufferingUpdate(ev.Percent)
	case engine.VideoSizeChanged:
		m.resize(ev.Width, ev.Height)
	case engine.Completion:
		m.setState(Completed)
		m.target = Completed
		if m.listeners.completion != nil {
			m.listeners.completion()
		}
	case engine.Error:
		m.fail(fromEvent(ev))
	}
}

func (m *machine) onPrepared(ev engine.Prepared) {
	if m.state != Preparing {
		return
	}

	m.setState(Prepared)
	m.resize(ev.Width, ev.Height)

	if m.target == Playing {
		m.start()
	}

	if ms, ok := m.pendingSeek.Get(); ok {
		m.seek(ms)
	}

	if m.listeners.prepared != nil {
		m.listeners.prepared()
	}
}

func (m *machine) onBufferingUpdate(percent int) {
	// the first report of a new engine may claim a full buffer before anything was read
	if m.buffer == BufferUnknown && percent >= 100 {
		percent = 0
	}
	m.buffer = percent

	if ms, ok := m.pendingSeek.Get(); ok && m.buffered() {
		m.seek(ms)
	}
}

func (m *machine) resize(width, height int) {
	size := surface.Size{Width: width, Height: height}
	if size.Empty() {
		return
	}

	m.video = size
	m.surface.FixSize(width, height)
	m.surface.RequestRelayout()
}

// fail moves to Error and reports err to the error listener.
func (m *machine) fail(err *PlaybackError) {
	m.setState(Error)
	m.target = Error

	claimed := m.listeners.err != nil && m.listeners.err(err)
	if !claimed {
		m.logger().Warnf("playback error: %v", err)
	}
}

func (m *machine) surfaceCreated() {
	m.alive = true
	if m.source == "" {
		return
	}

	m.target = Playing
	m.requestTeardown()
}

func (m *machine) surfaceDestroyed() {
	m.alive = false
	m.buffer = BufferUnknown
	m.target = Idle
	m.requestTeardown()
}

// requestTeardown hands the engine to the worker. A request while one is in flight is dropped;
// the completion consults the target state instead.
func (m *machine) requestTeardown() {
	if m.releasing {
		m.logger().Debug("teardown already in flight")
		return
	}

	eng, ok := m.engine.Get()
	if !ok {
		m.releaseDone(nil)
		return
	}

	j := job{
		engine: eng,
		gen:    m.gen,
		stop:   m.playbackCapable() && m.buffered() && m.state != Stopped,
	}

	m.engine = mo.None[engine.Engine]()
	m.releasing = true
	m.setState(Releasing)
	m.teardown.submit(j)
}

// releaseDone concludes a teardown. It always leaves the machine Idle without an engine,
// then rebuilds if playback is still wanted.
func (m *machine) releaseDone(err error) {
	if err != nil {
		m.logger().Errorf("teardown failed: %v", err)
	}

	m.releasing = false
	m.engine = mo.None[engine.Engine]()
	m.setState(Idle)

	if m.target == Playing {
		m.open()
	}
}

// open constructs a new engine and starts preparing it.
func (m *machine) open() {
	if !m.alive || m.source == "" {
		m.latch("open")
		return
	}

	m.gen++
	eng, err := m.build(m.gen)
	if err != nil {
		m.fail(&PlaybackError{Kind: EngineError, Code: engine.CodeUnknown, Err: fmt.Errorf("create engine: %w", err)})
		return
	}

	m.engine = mo.Some(eng)
	m.buffer = BufferUnknown

	if err := eng.SetSource(m.source); err != nil {
		m.fail(&PlaybackError{Kind: SourceError, Code: engine.CodeUnknown, Err: err})
		return
	}

	m.setState(Preparing)
	if err := eng.PrepareAsync(); err != nil {
		m.fail(&PlaybackError{Kind: SourceError, Code: engine.CodeIO, Err: fmt.Errorf("prepare: %w", err)})
	}
}

func (m *machine) snapshot() Snapshot {
	return Snapshot{
		State:        m.state,
		Target:       m.target,
		Source:       m.source,
		Buffer:       m.bufferPercentage(),
		Position:     m.currentPosition(),
		Duration:     m.duration(),
		Playing:      m.isPlaying(),
		CanPause:     m.canPause(),
		Width:        m.video.Width,
		Height:       m.video.Height,
		PendingSeek:  m.pendingSeek.OrElse(-1),
		SurfaceAlive: m.alive,
	}
}

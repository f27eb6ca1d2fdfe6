package controller

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/surfplay/surfplay/engine"
)

// fakeEngine records every state-changing call it receives.
type fakeEngine struct {
	mu       sync.Mutex
	emit     func(engine.Event)
	calls    []string
	playing  bool
	position int
	duration int

	sourceErr  error
	releaseErr error
	panicOn    string
}

func (f *fakeEngine) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
	if call == f.panicOn {
		panic("boom")
	}
}

func (f *fakeEngine) SetSource(locator string) error {
	f.record("SetSource " + locator)
	return f.sourceErr
}

func (f *fakeEngine) PrepareAsync() error {
	f.record("PrepareAsync")
	return nil
}

func (f *fakeEngine) Start() error {
	f.record("Start")
	f.mu.Lock()
	f.playing = true
	f.mu.Unlock()
	return nil
}

func (f *fakeEngine) Pause() error {
	f.record("Pause")
	f.mu.Lock()
	f.playing = false
	f.mu.Unlock()
	return nil
}

func (f *fakeEngine) Stop() error {
	f.record("Stop")
	f.mu.Lock()
	f.playing = false
	f.mu.Unlock()
	return nil
}

func (f *fakeEngine) SeekTo(ms int) error {
	f.record(fmt.Sprintf("SeekTo %d", ms))
	return nil
}

func (f *fakeEngine) CurrentPosition() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position
}

func (f *fakeEngine) Duration() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.duration
}

func (f *fakeEngine) IsPlaying() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing
}

func (f *fakeEngine) Release() error {
	f.record("Release")
	return f.releaseErr
}

func (f *fakeEngine) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// count returns how many calls start with prefix.
func (f *fakeEngine) count(prefix string) int {
	n := 0
	for _, c := range f.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeEngine) released() bool {
	return f.count("Release") > 0
}

// fakeFactory builds fake engines and keeps every one of them.
type fakeFactory struct {
	mu      sync.Mutex
	engines []*fakeEngine
	err     error
	setup   func(*fakeEngine)
}

func (ff *fakeFactory) factory(emit func(engine.Event)) (engine.Engine, error) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if ff.err != nil {
		return nil, ff.err
	}

	e := &fakeEngine{emit: emit, duration: 60000}
	if ff.setup != nil {
		ff.setup(e)
	}
	ff.engines = append(ff.engines, e)
	return e, nil
}

func (ff *fakeFactory) built() int {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	return len(ff.engines)
}

func (ff *fakeFactory) last() *fakeEngine {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	if len(ff.engines) == 0 {
		return nil
	}
	return ff.engines[len(ff.engines)-1]
}

// live counts built engines that have not been released.
func (ff *fakeFactory) live() int {
	ff.mu.Lock()
	engines := append([]*fakeEngine(nil), ff.engines...)
	ff.mu.Unlock()

	n := 0
	for _, e := range engines {
		if !e.released() {
			n++
		}
	}
	return n
}

// steppedTeardown queues jobs until the test finishes them.
type steppedTeardown struct {
	jobs      []job
	submitted int
}

func (s *steppedTeardown) submit(j job) {
	s.jobs = append(s.jobs, j)
	s.submitted++
}

// finish runs the oldest job and delivers its completion.
func (s *steppedTeardown) finish(m *machine) {
	j := s.jobs[0]
	s.jobs = s.jobs[1:]
	m.releaseDone(release(j))
}

// eventually polls cond until it holds or a second passes.
func eventually(cond func() bool) bool {
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return cond()
}

package controller

import (
	"errors"
	"fmt"

	"github.com/surfplay/surfplay/engine"
	"github.com/surfplay/surfplay/log"
)

// job is one teardown: the engine handle moves into it and nothing else references it.
type job struct {
	engine engine.Engine
	gen    uint64
	// stop is decided on the controlling goroutine; stopping an engine that has
	// nothing buffered can block for a long time.
	stop bool
}

// releaser runs teardowns one at a time on its own goroutine and reports each
// completion on done. The machine never submits while a job is in flight, so
// neither channel ever blocks.
type releaser struct {
	jobs chan job
	done chan error
}

func newReleaser() *releaser {
	return &releaser{
		jobs: make(chan job, 1),
		done: make(chan error, 1),
	}
}

func (r *releaser) submit(j job) {
	r.jobs <- j
}

// close stops the worker after the job in flight, if any.
func (r *releaser) close() {
	close(r.jobs)
}

func (r *releaser) run() {
	for j := range r.jobs {
		r.done <- release(j)
	}
}

// release stops and releases the engine. Failures and panics are reported, never propagated,
// and Release runs even when Stop fails.
func release(j job) error {
	log.Debugf("releasing engine %d (stop first: %t)", j.gen, j.stop)

	var errs []error
	if j.stop {
		errs = append(errs, guard("stop", j.engine.Stop))
	}
	errs = append(errs, guard("release", j.engine.Release))

	err := errors.Join(errs...)
	if err != nil {
		log.Warnf("engine %d teardown: %v", j.gen, err)
	} else {
		log.Debugf("engine %d released", j.gen)
	}
	return err
}

func guard(step string, f func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%s panicked: %v", step, p)
		}
	}()

	if err := f(); err != nil {
		return fmt.Errorf("%s: %w", step, err)
	}
	return nil
}

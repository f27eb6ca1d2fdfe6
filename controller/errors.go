package controller

import (
	"fmt"

	"github.com/surfplay/surfplay/engine"
)

// ErrorKind classifies a PlaybackError.
type ErrorKind int

const (
	// SourceError means the locator could not be loaded.
	SourceError ErrorKind = iota + 1
	// EngineError is a decoding or runtime failure reported by the engine.
	EngineError
	// LifecycleViolation is an operation issued while no surface or engine exists.
	// It is latched into the target state, never reported to listeners.
	LifecycleViolation
)

func (k ErrorKind) String() string {
	switch k {
	case SourceError:
		return "source error"
	case EngineError:
		return "engine error"
	case LifecycleViolation:
		return "lifecycle violation"
	default:
		return fmt.Sprintf("error kind %d", int(k))
	}
}

// PlaybackError is handed to the error listener.
type PlaybackError struct {
	Kind  ErrorKind
	Code  int
	Extra int
	Err   error
}

func (e *PlaybackError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%d, %d): %v", e.Kind, e.Code, e.Extra, e.Err)
	}
	return fmt.Sprintf("%s (%d, %d)", e.Kind, e.Code, e.Extra)
}

func (e *PlaybackError) Unwrap() error {
	return e.Err
}

func fromEvent(ev engine.Error) *PlaybackError {
	return &PlaybackError{Kind: EngineError, Code: ev.Code, Extra: ev.Extra, Err: ev.Err}
}

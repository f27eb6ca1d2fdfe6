package controller

import (
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/samber/lo"
)

// State is a playback state. The zero value is Idle.
type State int

const (
	Idle State = iota
	Preparing
	Prepared
	Playing
	Paused
	Completed
	Releasing
	Stopped
	Error
)

var stateNames = []string{
	Idle:      "idle",
	Preparing: "preparing",
	Prepared:  "prepared",
	Playing:   "playing",
	Paused:    "paused",
	Completed: "completed",
	Releasing: "releasing",
	Stopped:   "stopped",
	Error:     "error",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a state name.
func (s *State) UnmarshalText(text []byte) error {
	i := lo.IndexOf(stateNames, string(text))
	if i < 0 {
		return fmt.Errorf("unknown state %q", text)
	}
	*s = State(i)
	return nil
}

// JSONSchema describes the state as a string enum.
func (State) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "string",
		Enum: lo.ToAnySlice(stateNames),
	}
}

// playbackCapable reports whether an engine in state s may be driven directly.
// The engine must also exist.
func (s State) playbackCapable() bool {
	switch s {
	case Idle, Preparing, Releasing, Error:
		return false
	default:
		return true
	}
}

package history

import (
	"fmt"
	"time"
)

// Entry is the saved playback position of one stream.
type Entry struct {
	Locator string `json:"locator" jsonschema:"description=Stream URL"`
	// Position and Duration are in milliseconds; Duration is -1 when it was never known.
	Position int       `json:"position" jsonschema:"minimum=0"`
	Duration int       `json:"duration"`
	Watched  time.Time `json:"watched"`
}

// Percent returns how much of the stream was watched, or -1 without a duration.
func (e *Entry) Percent() int {
	if e.Duration <= 0 {
		return -1
	}
	return min(e.Position*100/e.Duration, 100)
}

// Finished reports whether at least threshold percent was watched.
func (e *Entry) Finished(threshold int) bool {
	p := e.Percent()
	return p >= 0 && p >= threshold
}

func (e *Entry) String() string {
	position := time.Duration(e.Position) * time.Millisecond
	if p := e.Percent(); p >= 0 {
		return fmt.Sprintf("%s at %s (%d%%)", e.Locator, position, p)
	}
	return fmt.Sprintf("%s at %s", e.Locator, position)
}

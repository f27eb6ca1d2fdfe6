// Package surface binds a rendering target's lifecycle to the playback controller.
//
// A provider (the terminal UI, or any other drawable target) reports create, change and
// destroy notifications to a Binding, which forwards the lifecycle to a Sink. The controller
// calls back into a Surface to fix the video size and ask for a new layout.
package surface

import "fmt"

// Surface is the drawable target as seen by the controller.
type Surface interface {
	// FixSize pins the target to the video frame size.
	FixSize(width, height int)

	// RequestRelayout asks the provider to measure and lay out the target again.
	RequestRelayout()
}

// Sink receives the surface lifecycle.
type Sink interface {
	OnSurfaceCreated()
	OnSurfaceDestroyed()
}

// Size is a width and height pair.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Empty reports whether either dimension is not positive.
func (s Size) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}

func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Discard is a Surface that ignores every call.
var Discard Surface = discard{}

type discard struct{}

func (discard) FixSize(int, int) {}
func (discard) RequestRelayout() {}

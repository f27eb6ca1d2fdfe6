package engine

import "fmt"

// Event is a notification emitted by an engine. The concrete types are
// Prepared, BufferingUpdate, VideoSizeChanged, Completion and Error.
type Event interface {
	fmt.Stringer
	event()
}

// Prepared reports that the source finished loading and playback can start.
type Prepared struct {
	Width, Height int
}

// BufferingUpdate reports the percentage (0-100) of the stream buffered ahead of playback.
type BufferingUpdate struct {
	Percent int
}

// VideoSizeChanged reports new frame dimensions.
type VideoSizeChanged struct {
	Width, Height int
}

// Completion reports that playback reached the end of the stream.
type Completion struct{}

// Error reports a decoding or runtime failure.
type Error struct {
	Code, Extra int
	Err         error
}

func (Prepared) event()         {}
func (BufferingUpdate) event()  {}
func (VideoSizeChanged) event() {}
func (Completion) event()       {}
func (Error) event()            {}

func (e Prepared) String() string {
	return fmt.Sprintf("prepared %dx%d", e.Width, e.Height)
}

func (e BufferingUpdate) String() string {
	return fmt.Sprintf("buffering %d%%", e.Percent)
}

func (e VideoSizeChanged) String() string {
	return fmt.Sprintf("video size %dx%d", e.Width, e.Height)
}

func (Completion) String() string {
	return "completion"
}

func (e Error) String() string {
	if e.Err != nil {
		return fmt.Sprintf("error %d,%d: %v", e.Code, e.Extra, e.Err)
	}
	return fmt.Sprintf("error %d,%d", e.Code, e.Extra)
}

package surface

import "sync"

// cellAspect is the height of a terminal cell in units of its width.
const cellAspect = 2

// Window is a Surface drawn in terminal cells. It remembers the fixed video size and
// notifies its owner when a relayout is requested.
type Window struct {
	mu        sync.Mutex
	video     Size
	relayouts int
	onLayout  func()
}

// NewWindow returns a Window calling onLayout on every relayout request. onLayout may be nil.
func NewWindow(onLayout func()) *Window {
	return &Window{onLayout: onLayout}
}

// FixSize implements Surface.
func (w *Window) FixSize(width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.video = Size{Width: width, Height: height}
}

// RequestRelayout implements Surface.
func (w *Window) RequestRelayout() {
	w.mu.Lock()
	w.relayouts++
	onLayout := w.onLayout
	w.mu.Unlock()

	if onLayout != nil {
		onLayout()
	}
}

// Video returns the size passed to the last FixSize.
func (w *Window) Video() Size {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.video
}

// Relayouts returns how many relayouts were requested.
func (w *Window) Relayouts() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.relayouts
}

// Layout fits the video frame into a container of cols x rows cells.
// Without a known video size the whole container is used.
func (w *Window) Layout(cols, rows int) Size {
	video := w.Video()
	if video.Empty() || cols <= 0 || rows <= 0 {
		return Size{Width: cols, Height: rows}
	}

	fitted := Measure(
		video,
		Spec{Mode: Exactly, Size: cols},
		Spec{Mode: Exactly, Size: rows * cellAspect},
	)

	return Size{Width: fitted.Width, Height: fitted.Height / cellAspect}
}

package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/surfplay/surfplay/controller"
	"github.com/surfplay/surfplay/style"
	"github.com/surfplay/surfplay/surface"
	"github.com/surfplay/surfplay/util"
)

// statefulBubble is the player view. It is the surface provider for the controller:
// the surface exists while the program has a window and is not suspended.
type statefulBubble struct {
	state  state
	keymap *statefulKeymap

	// components
	spinnerC  spinner.Model
	progressC progress.Model
	helpC     help.Model

	controller *controller.Controller
	window     *surface.Window
	binding    *surface.Binding

	snapshotsChannel chan controller.Snapshot
	relayoutChannel  chan struct{}
	errorChannel     chan *controller.PlaybackError

	snapshot  controller.Snapshot
	layout    surface.Size
	lastError error
	completed bool

	locator  string
	seekStep int

	width, height int
}

// setState performs a synchronous transition of both the view and its keymap.
func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.setState(errorState)
}

// resize propagates terminal dimension changes to the child components and the surface.
func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()

	b.width = width - x
	b.height = height - y

	b.progressC.Width = b.width
	b.helpC.Width = b.width

	b.binding.Changed(0, b.width, b.videoRows())
	b.relayout()
}

// videoRows is the height left for the video once the status lines are drawn.
func (b *statefulBubble) videoRows() int {
	return util.Max(b.height-statusLines, 0)
}

func (b *statefulBubble) relayout() {
	container := b.binding.Container()
	b.layout = b.window.Layout(container.Width, container.Height)
}

func newBubble(options *Options) *statefulBubble {
	bubble := &statefulBubble{
		keymap: newStatefulKeymap(),

		snapshotsChannel: make(chan controller.Snapshot, 1),
		relayoutChannel:  make(chan struct{}, 1),
		errorChannel:     make(chan *controller.PlaybackError, 1),

		locator:  options.Locator,
		seekStep: int(options.SeekStep / time.Millisecond),
	}

	bubble.spinnerC = spinner.New()
	bubble.spinnerC.Spinner = spinner.Dot
	bubble.spinnerC.Style = style.New().Foreground(style.AccentColor)

	bubble.progressC = progress.New(progress.WithScaledGradient(string(style.Mauve), string(style.Lavender)))
	bubble.progressC.ShowPercentage = false

	bubble.helpC = help.New()

	bubble.window = surface.NewWindow(func() {
		offer(bubble.relayoutChannel, struct{}{})
	})

	bubble.controller = controller.New(options.Factory, bubble.window)
	bubble.binding = surface.NewBinding(bubble.controller)

	bubble.controller.OnStateChange(func(s controller.Snapshot) {
		offer(bubble.snapshotsChannel, s)
	})
	bubble.controller.OnError(func(err *controller.PlaybackError) bool {
		offer(bubble.errorChannel, err)
		return true
	})

	bubble.controller.SetSource(options.Locator)
	if ms, ok := options.Resume.Get(); ok {
		bubble.controller.SeekTo(ms)
	}

	return bubble
}

// offer sends v, replacing a value nobody has received yet.
func offer[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}

		select {
		case <-ch:
		default:
		}
	}
}

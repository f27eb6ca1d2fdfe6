package tui

import (
	bubblesKey "github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/surfplay/surfplay/controller"
	"github.com/surfplay/surfplay/util"
)

type relayoutMsg struct{}

func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(b.spinnerC.Tick, b.waitForSnapshot(), b.waitForRelayout(), b.waitForError())
}

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
		// the first size means there is somewhere to draw
		b.binding.Created()
	case tea.ResumeMsg:
		b.binding.Created()
	case controller.Snapshot:
		b.snapshot = msg
		if msg.State == controller.Completed {
			b.completed = true
		} else if msg.State == controller.Playing {
			b.completed = false
		}
		return b, b.waitForSnapshot()
	case relayoutMsg:
		b.relayout()
		return b, b.waitForRelayout()
	case *controller.PlaybackError:
		b.raiseError(msg)
		return b, b.waitForError()
	case spinner.TickMsg:
		var cmd tea.Cmd
		b.spinnerC, cmd = b.spinnerC.Update(msg)
		return b, cmd
	case tea.KeyMsg:
		return b, b.handleKey(msg)
	}

	return b, nil
}

func (b *statefulBubble) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case bubblesKey.Matches(msg, b.keymap.forceQuit), bubblesKey.Matches(msg, b.keymap.quit):
		return tea.Quit
	case bubblesKey.Matches(msg, b.keymap.suspend):
		b.binding.Destroyed()
		return tea.Suspend
	case bubblesKey.Matches(msg, b.keymap.reload):
		b.setState(playerState)
		b.lastError = nil
		b.controller.SetSource(b.locator)
	case bubblesKey.Matches(msg, b.keymap.showHelp):
		b.helpC.ShowAll = !b.helpC.ShowAll
	}

	if b.state == errorState {
		if bubblesKey.Matches(msg, b.keymap.dismiss) {
			b.setState(playerState)
		}
		return nil
	}

	switch {
	case bubblesKey.Matches(msg, b.keymap.playPause):
		if b.snapshot.Playing {
			b.controller.Pause()
		} else {
			b.controller.Start()
		}
	case bubblesKey.Matches(msg, b.keymap.stop):
		b.controller.StopPlayback()
	case bubblesKey.Matches(msg, b.keymap.seekBack):
		b.controller.SeekTo(b.seekTarget(-b.seekStep))
	case bubblesKey.Matches(msg, b.keymap.seekForward):
		b.controller.SeekTo(b.seekTarget(b.seekStep))
	}

	return nil
}

// seekTarget offsets the current position, clamped to the stream.
func (b *statefulBubble) seekTarget(delta int) int {
	from := b.snapshot.Position
	if b.snapshot.PendingSeek >= 0 {
		from = b.snapshot.PendingSeek
	}

	target := util.Max(from+delta, 0)
	if b.snapshot.Duration > 0 {
		target = util.Min(target, b.snapshot.Duration)
	}
	return target
}

func (b *statefulBubble) waitForSnapshot() tea.Cmd {
	return func() tea.Msg {
		return <-b.snapshotsChannel
	}
}

func (b *statefulBubble) waitForRelayout() tea.Cmd {
	return func() tea.Msg {
		<-b.relayoutChannel
		return relayoutMsg{}
	}
}

func (b *statefulBubble) waitForError() tea.Cmd {
	return func() tea.Msg {
		return <-b.errorChannel
	}
}

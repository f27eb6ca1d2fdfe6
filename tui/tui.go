// Package tui provides the terminal front end of the player: it owns the surface the
// engine is bound to and turns key presses into controller operations.
package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/samber/mo"
	"github.com/surfplay/surfplay/controller"
	"github.com/surfplay/surfplay/engine"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	Factory engine.Factory
	Locator string
	// Resume is the position to seek to once the stream is ready.
	Resume   mo.Option[int]
	SeekStep time.Duration
}

// Run plays options.Locator until the user quits and returns the last state seen
// before the engine was released.
func Run(ctx context.Context, options *Options) (controller.Snapshot, error) {
	bubble := newBubble(options)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stopped := make(chan error, 1)
	go func() {
		stopped <- bubble.controller.Run(ctx)
	}()

	_, err := tea.NewProgram(bubble, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}

	last := bubble.controller.Snapshot()
	cancel()

	return last, errors.Join(err, <-stopped)
}

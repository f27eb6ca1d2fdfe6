package engine

import (
	"errors"
	"fmt"
	"net"
	"os/exec"
	"sync"
	"time"

	"github.com/surfplay/surfplay/constant"
	"github.com/surfplay/surfplay/filesystem"
	"github.com/surfplay/surfplay/log"
)

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

// MPV implements Engine on top of an idle mpv process driven through its JSON-IPC socket.
type MPV struct {
	path       string
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{} // closed when mpv process exits
	mu         sync.Mutex    // Protects socket writes
	listener   *EventListener
	emit       func(Event)
	source     string

	launchOnce sync.Once
	launchErr  error
	wg         sync.WaitGroup // tracks prepare goroutines

	// properties cached from observe_property notifications so queries never touch the socket
	props     sync.Mutex
	position  float64
	duration  float64
	paused    bool
	loaded    bool
	ended     bool
	width     int
	height    int
	releasing bool

	// demuxer cache, in seconds of stream time
	cacheEnd   float64
	cacheAhead float64
	cacheEOF   bool
	buffer     int // last emitted percentage, -1 before the first
}

// NewMPV returns a Factory for engines backed by the mpv binary found at path.
// The process is launched by the first PrepareAsync, off the caller's goroutine.
func NewMPV(path string) Factory {
	return func(emit func(Event)) (Engine, error) {
		return newMPV(path, emit), nil
	}
}

func newMPV(path string, emit func(Event)) *MPV {
	if path == "" {
		path = "mpv"
	}
	return &MPV{
		path:     path,
		emit:     emit,
		exited:   make(chan struct{}),
		duration: -1,
		paused:   true,
		buffer:   -1,
	}
}

// launch starts the idle mpv process and attaches the event listener.
func (m *MPV) launch() error {
	socketPath, err := newSocketPath()
	if err != nil {
		return err
	}
	m.socketPath = socketPath

	// Nothing is loaded until PrepareAsync; --pause keeps a freshly loaded file
	// still until Start flips the property.
	args := []string{
		"--no-terminal",
		"--really-quiet",
		fmt.Sprintf("--input-ipc-server=%s", m.socketPath),
		"--idle=yes",
		"--force-window=yes",
		"--keep-open=no",
		"--pause=yes",
		fmt.Sprintf("--user-agent=%s", constant.UserAgent),
	}

	m.cmd = exec.Command(m.path, args...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil
	m.cmd.Stdin = nil

	if err := m.cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	// Background goroutine to reap the process and prevent zombies
	go func() {
		_ = m.cmd.Wait()
		close(m.exited)
	}()

	if err := m.waitForSocket(); err != nil {
		select {
		case <-m.exited:
		default:
			log.Warnf("killing mpv: socket never became ready")
			_ = killProcess(m.cmd)
		}
		return fmt.Errorf("mpv socket not ready: %w", err)
	}

	m.listener = NewEventListener(m.socketPath, m.handle)
	if err := m.listener.Start(); err != nil {
		_ = killProcess(m.cmd)
		return err
	}

	go m.watchExit()
	return nil
}

// watchExit reports an mpv process that dies on its own as an engine error.
func (m *MPV) watchExit() {
	<-m.exited
	m.report(Error{Code: CodeUnknown, Extra: ExtraProcessExited, Err: errors.New("mpv exited unexpectedly")})
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func (m *MPV) waitForSocket() error {
	for i := 0; i < socketWaitRetries; i++ {
		time.Sleep(socketWaitDelay)

		select {
		case <-m.exited:
			return fmt.Errorf("mpv exited before socket was ready")
		default:
		}

		conn, err := net.Dial("unix", m.socketPath)
		if err == nil {
			conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", m.socketPath, socketWaitRetries)
}

// SetSource records the stream locator after validating it.
func (m *MPV) SetSource(locator string) error {
	safe, err := ValidateLocator(locator)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}
	m.source = safe
	return nil
}

// PrepareAsync launches mpv if needed and loads the source paused in the background;
// mpv answers with a file-loaded event.
func (m *MPV) PrepareAsync() error {
	if m.source == "" {
		return errors.New("no source set")
	}

	m.props.Lock()
	defer m.props.Unlock()
	if m.releasing {
		return errors.New("engine released")
	}

	m.wg.Add(1)
	go m.prepare()
	return nil
}

func (m *MPV) prepare() {
	defer m.wg.Done()

	m.launchOnce.Do(func() {
		m.launchErr = m.launch()
	})
	if m.launchErr != nil {
		m.report(Error{Code: CodeUnknown, Extra: ExtraProcessExited, Err: m.launchErr})
		return
	}

	if err := m.set("pause", true); err != nil {
		m.report(Error{Code: CodeIO, Err: err})
		return
	}

	m.resetCache()
	if _, err := m.sendCommand([]interface{}{"loadfile", m.source, "replace"}); err != nil {
		m.report(Error{Code: CodeIO, Err: err})
	}
}

// report emits e unless the engine is being released.
func (m *MPV) report(e Event) {
	m.props.Lock()
	releasing := m.releasing
	m.props.Unlock()

	if !releasing {
		m.emit(e)
	}
}

// Start resumes playback. After the end of the stream mpv has unloaded the file,
// so it is loaded again and plays from the beginning.
func (m *MPV) Start() error {
	m.props.Lock()
	ended := m.ended
	m.ended = false
	m.props.Unlock()

	if err := m.set("pause", false); err != nil {
		return err
	}
	if !ended {
		return nil
	}

	m.resetCache()
	_, err := m.sendCommand([]interface{}{"loadfile", m.source, "replace"})
	return err
}

// Pause suspends playback.
func (m *MPV) Pause() error {
	return m.set("pause", true)
}

// Stop unloads the current file, leaving mpv idle.
func (m *MPV) Stop() error {
	m.props.Lock()
	m.loaded = false
	m.ended = false
	m.props.Unlock()

	m.resetCache()
	_, err := m.sendCommand([]interface{}{"stop"})
	return err
}

// SeekTo moves playback to the given absolute position.
func (m *MPV) SeekTo(ms int) error {
	_, err := m.sendCommand([]interface{}{"seek", float64(ms) / 1000, "absolute"})
	return err
}

// CurrentPosition returns the last observed time-pos in milliseconds.
func (m *MPV) CurrentPosition() int {
	m.props.Lock()
	defer m.props.Unlock()
	return int(m.position * 1000)
}

// Duration returns the last observed duration in milliseconds, or -1 when mpv has not reported one.
func (m *MPV) Duration() int {
	m.props.Lock()
	defer m.props.Unlock()
	if m.duration < 0 {
		return -1
	}
	return int(m.duration * 1000)
}

// IsPlaying reports whether a file is loaded and not paused.
func (m *MPV) IsPlaying() bool {
	m.props.Lock()
	defer m.props.Unlock()
	return m.loaded && !m.paused
}

// Release shuts down the mpv process and cleans up the socket. It blocks until mpv exits
// or the quit timeout elapses, after which the process group is killed. An engine that
// never launched has nothing to release.
func (m *MPV) Release() error {
	m.props.Lock()
	m.releasing = true
	m.props.Unlock()

	// a launch in progress finishes first
	m.wg.Wait()
	if m.cmd == nil || m.launchErr != nil {
		return nil
	}

	if m.listener != nil {
		m.listener.Stop()
	}

	// Try graceful quit via IPC
	_, _ = m.sendCommand([]interface{}{"quit"})

	var err error
	select {
	case <-m.exited:
	case <-time.After(quitTimeout):
		err = killProcess(m.cmd)
		<-m.exited
	}

	_ = filesystem.API().Remove(m.socketPath)
	return err
}

// Socket returns the IPC socket path.
func (m *MPV) Socket() string {
	return m.socketPath
}

// set writes an mpv property.
func (m *MPV) set(property string, value interface{}) error {
	_, err := m.sendCommand([]interface{}{"set_property", property, value})
	return err
}

// handle translates mpv property changes and events into engine events.
func (m *MPV) handle(name string, data interface{}) {
	switch name {
	case "time-pos":
		if v, ok := data.(float64); ok {
			m.props.Lock()
			m.position = v
			m.props.Unlock()
		}
	case "duration":
		m.props.Lock()
		if v, ok := data.(float64); ok {
			m.duration = v
		} else {
			m.duration = -1
		}
		m.props.Unlock()
		m.emitBuffer(false)
	case "pause":
		if v, ok := data.(bool); ok {
			m.props.Lock()
			m.paused = v
			m.props.Unlock()
		}
	case "demuxer-cache-state":
		state, ok := data.(map[string]interface{})
		if !ok {
			return
		}
		end, _ := state["cache-end"].(float64)
		ahead, _ := state["cache-duration"].(float64)
		eof, _ := state["eof"].(bool)

		m.props.Lock()
		m.cacheEnd, m.cacheAhead, m.cacheEOF = end, ahead, eof
		m.props.Unlock()
		m.emitBuffer(false)
	case "video-params":
		params, ok := data.(map[string]interface{})
		if !ok {
			return
		}
		w, _ := params["w"].(float64)
		h, _ := params["h"].(float64)
		if w <= 0 || h <= 0 {
			return
		}

		m.props.Lock()
		changed := int(w) != m.width || int(h) != m.height
		m.width, m.height = int(w), int(h)
		m.props.Unlock()

		if changed {
			m.emit(VideoSizeChanged{Width: int(w), Height: int(h)})
		}
	case "file-loaded":
		m.props.Lock()
		m.loaded = true
		w, h := m.width, m.height
		m.props.Unlock()

		m.emit(Prepared{Width: w, Height: h})
		// observe_property only reports changes, so a level reached before
		// the file loaded is not sent again on its own
		m.emitBuffer(true)
	case "end-file":
		event, _ := data.(map[string]interface{})
		reason, _ := event["reason"].(string)

		m.props.Lock()
		m.loaded = false
		m.ended = reason == "eof"
		m.props.Unlock()

		switch reason {
		case "eof":
			m.emit(Completion{})
		case "error":
			msg, _ := event["file_error"].(string)
			m.emit(Error{Code: fileErrorCode(msg), Err: fmt.Errorf("mpv: %s", msg)})
		}
	}
}

// resetCache forgets the demuxer cache of the previous file.
func (m *MPV) resetCache() {
	m.props.Lock()
	m.cacheEnd, m.cacheAhead, m.cacheEOF = 0, 0, false
	m.buffer = -1
	m.props.Unlock()
}

// bufferedPercent is how much of the stream the demuxer holds, as a share of
// the duration. Without a duration any data ahead of the reader counts as full.
// Callers hold props.
func (m *MPV) bufferedPercent() int {
	switch {
	case m.cacheEOF:
		return 100
	case m.duration <= 0:
		if m.cacheAhead > 0 {
			return 100
		}
		return 0
	default:
		return clampPercent(int(m.cacheEnd * 100 / m.duration))
	}
}

// emitBuffer reports the buffered percentage when it changed, or always when forced.
func (m *MPV) emitBuffer(force bool) {
	m.props.Lock()
	p := m.bufferedPercent()
	changed := p != m.buffer
	m.buffer = p
	m.props.Unlock()

	if changed || force {
		m.emit(BufferingUpdate{Percent: p})
	}
}

// fileErrorCode maps mpv's file_error strings onto engine error codes.
func fileErrorCode(msg string) int {
	switch msg {
	case "loading failed", "no audio or video data played":
		return CodeIO
	case "unrecognized file format":
		return CodeUnsupported
	case "timeout":
		return CodeTimedOut
	default:
		return CodeUnknown
	}
}

func clampPercent(p int) int {
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	default:
		return p
	}
}

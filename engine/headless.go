package engine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/surfplay/surfplay/constant"
	"github.com/surfplay/surfplay/log"
)

const readChunk = 32 << 10

// HeadlessOptions tunes the headless engine.
type HeadlessOptions struct {
	Client *http.Client
	// ProbeSize caps the bytes read while looking for the moov box.
	ProbeSize int64
	// Tick is the resolution of the playback clock.
	Tick time.Duration
}

// Headless implements Engine without decoding anything: it downloads a
// progressive MP4 over HTTP, reads its metadata and advances a playback clock
// that never outruns the downloaded fraction of the stream.
type Headless struct {
	opts HeadlessOptions
	emit func(Event)

	source string

	mu       sync.Mutex
	info     *Info
	total    int64
	received int64
	position int
	playing  bool
	prepared bool
	released bool

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewHeadless returns a Factory for headless engines.
func NewHeadless(opts HeadlessOptions) Factory {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.ProbeSize <= 0 {
		opts.ProbeSize = 1 << 20
	}
	if opts.Tick <= 0 {
		opts.Tick = 200 * time.Millisecond
	}

	return func(emit func(Event)) (Engine, error) {
		return &Headless{opts: opts, emit: emit}, nil
	}
}

// SetSource records the stream locator after validating it.
func (h *Headless) SetSource(locator string) error {
	safe, err := ValidateLocator(locator)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}
	h.source = safe
	return nil
}

// PrepareAsync starts downloading the stream; Prepared is emitted once moov has been read.
func (h *Headless) PrepareAsync() error {
	if h.source == "" {
		return errors.New("no source set")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.released {
		return errors.New("engine released")
	}
	if h.cancel != nil {
		return errors.New("already preparing")
	}

	ctx, cancel := context.WithCancel(context.Background())
	h.cancel = cancel
	h.received, h.total, h.position = 0, 0, 0

	h.wg.Add(2)
	go h.download(ctx)
	go h.clock(ctx)
	return nil
}

// Start begins advancing the playback clock.
func (h *Headless) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.prepared {
		return errors.New("not prepared")
	}
	if h.info.Duration > 0 && h.position >= h.info.Duration {
		h.position = 0
	}
	h.playing = true
	return nil
}

// Pause stops the playback clock.
func (h *Headless) Pause() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.playing = false
	return nil
}

// Stop aborts the download and rewinds. PrepareAsync must be called again before Start.
func (h *Headless) Stop() error {
	h.halt()
	return nil
}

// SeekTo moves the playback clock, clamped to the stream bounds.
func (h *Headless) SeekTo(ms int) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if ms < 0 {
		ms = 0
	}
	if h.info != nil && h.info.Duration > 0 && ms > h.info.Duration {
		ms = h.info.Duration
	}
	h.position = ms
	return nil
}

// CurrentPosition returns the playback clock in milliseconds.
func (h *Headless) CurrentPosition() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.position
}

// Duration returns the stream duration from the movie header, or -1.
func (h *Headless) Duration() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.info == nil {
		return -1
	}
	return h.info.Duration
}

// IsPlaying reports whether the clock is running.
func (h *Headless) IsPlaying() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.playing
}

// Release aborts the download and waits for every goroutine to exit.
func (h *Headless) Release() error {
	h.mu.Lock()
	h.released = true
	h.mu.Unlock()

	h.halt()
	return nil
}

// halt cancels the running download and clock and waits for them.
func (h *Headless) halt() {
	h.mu.Lock()
	cancel := h.cancel
	h.cancel = nil
	h.playing = false
	h.prepared = false
	h.position = 0
	h.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	h.wg.Wait()
}

// send delivers an event unless the engine has been released or the run cancelled.
func (h *Headless) send(ctx context.Context, e Event) {
	h.mu.Lock()
	released := h.released
	h.mu.Unlock()

	if released || ctx.Err() != nil {
		return
	}
	h.emit(e)
}

func (h *Headless) download(ctx context.Context) {
	defer h.wg.Done()

	if err := h.fetch(ctx); err != nil && ctx.Err() == nil {
		log.Warnf("headless download of %s failed: %v", h.source, err)
		h.send(ctx, toErrorEvent(err))
	}
}

func (h *Headless) fetch(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.source, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := h.opts.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &statusError{code: resp.StatusCode}
	}

	h.mu.Lock()
	h.total = resp.ContentLength
	h.mu.Unlock()

	body := &countingReader{r: resp.Body, onRead: h.addReceived}

	info, err := ReadInfo(io.LimitReader(body, h.opts.ProbeSize))
	if err != nil {
		return err
	}

	h.mu.Lock()
	h.info = info
	h.prepared = true
	h.mu.Unlock()

	h.send(ctx, VideoSizeChanged{Width: info.Width, Height: info.Height})
	h.send(ctx, Prepared{Width: info.Width, Height: info.Height})

	last := h.bufferedPercent()
	h.send(ctx, BufferingUpdate{Percent: last})

	buf := make([]byte, readChunk)
	for {
		n, err := body.Read(buf)
		if n > 0 {
			if p := h.bufferedPercent(); p != last {
				last = p
				h.send(ctx, BufferingUpdate{Percent: p})
			}
		}

		if errors.Is(err, io.EOF) {
			if last != 100 {
				h.send(ctx, BufferingUpdate{Percent: 100})
			}
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// clock advances the position while playing and emits Completion each time the end is reached.
func (h *Headless) clock(ctx context.Context) {
	defer h.wg.Done()

	ticker := time.NewTicker(h.opts.Tick)
	defer ticker.Stop()

	step := int(h.opts.Tick / time.Millisecond)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if h.advance(step) {
				h.send(ctx, Completion{})
			}
		}
	}
}

// advance moves the clock by step milliseconds and reports whether the end was reached.
func (h *Headless) advance(step int) (completed bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if !h.playing || h.info == nil {
		return false
	}

	next := h.position + step

	// Stall at the buffered edge.
	if limit := h.bufferedMillis(); limit >= 0 && next > limit {
		next = limit
	}
	if next > h.position {
		h.position = next
	}

	if h.info.Duration > 0 && h.position >= h.info.Duration && h.received >= h.total {
		h.position = h.info.Duration
		h.playing = false
		return true
	}
	return false
}

// bufferedMillis is the playable edge derived from the downloaded fraction,
// or -1 when the stream length is unknown. Requires h.mu.
func (h *Headless) bufferedMillis() int {
	if h.total <= 0 || h.info.Duration <= 0 {
		return -1
	}
	return int(int64(h.info.Duration) * h.received / h.total)
}

func (h *Headless) bufferedPercent() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.total <= 0 {
		return 0
	}
	return clampPercent(int(h.received * 100 / h.total))
}

func (h *Headless) addReceived(n int) {
	h.mu.Lock()
	h.received += int64(n)
	h.mu.Unlock()
}

type countingReader struct {
	r      io.Reader
	onRead func(int)
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.onRead(n)
	}
	return n, err
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.code)
}

// toErrorEvent classifies a download failure.
func toErrorEvent(err error) Error {
	var status *statusError
	switch {
	case errors.As(err, &status):
		return Error{Code: CodeIO, Extra: ExtraHTTPStatus, Err: err}
	case errors.Is(err, ErrMoovNotAtHead):
		return Error{Code: CodeUnsupported, Err: err}
	case errors.Is(err, ErrNotMP4):
		return Error{Code: CodeMalformed, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return Error{Code: CodeTimedOut, Err: err}
	default:
		return Error{Code: CodeIO, Err: err}
	}
}

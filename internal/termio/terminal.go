// Package termio implements trial.Display and trial.Input on a terminal.
//
// Refresh boundaries come from a ticker at the nominal interval, so frame
// durations are only as accurate as the host scheduler. The backend exists
// for rehearsing a session and for demos; data collection needs a display
// driver that blocks on the real vertical refresh.
package termio

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/roach88/maskprime/internal/trial"
)

var (
	// ErrNotTerminal is returned by Open when stdin is not a terminal.
	ErrNotTerminal = errors.New("input is not a terminal")

	// ErrInterrupted is returned when the subject presses Ctrl-C.
	ErrInterrupted = errors.New("session interrupted")
)

const (
	clearScreen = "\x1b[H\x1b[2J"
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
)

type event struct {
	key string
	at  time.Time
}

// Terminal is a ticker-paced display and a timestamping key reader.
//
// Display methods must be called from a single goroutine. Key events are
// collected by a background reader and are safe to consume concurrently.
type Terminal struct {
	out      io.Writer
	width    int
	height   int
	interval time.Duration
	now      func() time.Time

	ticker *time.Ticker
	last   time.Time
	staged []byte

	mu      sync.Mutex
	events  []event
	readErr error
	notify  chan struct{}

	restore func() error
}

// Option configures a Terminal.
type Option func(*Terminal)

// WithSize sets the screen size in cells. The default is 80x24.
func WithSize(width, height int) Option {
	return func(t *Terminal) {
		if width > 0 && height > 0 {
			t.width, t.height = width, height
		}
	}
}

// WithNow sets the time source used to timestamp refreshes and keys.
func WithNow(now func() time.Time) Option {
	return func(t *Terminal) {
		t.now = now
	}
}

// New starts a terminal backend on arbitrary streams.
// The reader goroutine runs until in returns an error.
func New(in io.Reader, out io.Writer, interval time.Duration, opts ...Option) *Terminal {
	t := &Terminal{
		out:      out,
		width:    80,
		height:   24,
		interval: interval,
		now:      time.Now,
		notify:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(t)
	}

	t.ticker = time.NewTicker(interval)
	t.last = t.now()
	go t.readLoop(in)
	return t
}

// Open puts in into raw mode and starts a backend drawing to out.
// Close restores the terminal.
func Open(in, out *os.File, interval time.Duration, opts ...Option) (*Terminal, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, ErrNotTerminal
	}

	if w, h, err := term.GetSize(int(out.Fd())); err == nil {
		opts = append([]Option{WithSize(w, h)}, opts...)
	}

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("enter raw mode: %w", err)
	}

	t := New(in, out, interval, opts...)
	t.restore = func() error { return term.Restore(fd, state) }
	if _, err := io.WriteString(out, hideCursor); err != nil {
		t.Close()
		return nil, fmt.Errorf("hide cursor: %w", err)
	}
	return t, nil
}

// Close stops the ticker, clears the screen and restores the terminal mode.
func (t *Terminal) Close() error {
	t.ticker.Stop()
	_, werr := io.WriteString(t.out, clearScreen+showCursor)
	if t.restore != nil {
		if err := t.restore(); err != nil {
			return fmt.Errorf("restore terminal: %w", err)
		}
	}
	return werr
}

// Present stages v; it is drawn at the next refresh.
func (t *Terminal) Present(v trial.Visual) error {
	t.staged = Render(v, t.width, t.height)
	return nil
}

// WaitForRefresh blocks until the next tick, draws the staged frame and
// returns the measured interval since the previous refresh.
func (t *Terminal) WaitForRefresh() (time.Duration, error) {
	<-t.ticker.C
	now := t.now()

	if t.staged != nil {
		if _, err := t.out.Write(t.staged); err != nil {
			return 0, fmt.Errorf("%w: %v", trial.ErrSurfaceClosed, err)
		}
		t.staged = nil
	}

	interval := now.Sub(t.last)
	t.last = now
	return interval, nil
}

// resync restarts the refresh cadence after an unbounded wait so the next
// frame is not measured against a stale tick.
func (t *Terminal) resync() {
	t.ticker.Reset(t.interval)
	select {
	case <-t.ticker.C:
	default:
	}
	t.last = t.now()
}

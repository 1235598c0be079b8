package termio

import (
	"context"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/roach88/maskprime/internal/trial"
)

// KeyInterrupt is the name of Ctrl-C.
const KeyInterrupt = "ctrl+c"

// decodeKey names a raw input byte.
// Printable characters are lowercased so "F" and "f" are the same key.
func decodeKey(b byte) string {
	switch {
	case b == 0x03:
		return KeyInterrupt
	case b == '\r' || b == '\n':
		return "return"
	case b == ' ':
		return "space"
	case b == 0x1b:
		return "escape"
	case b == 0x7f:
		return "backspace"
	case b == '\t':
		return "tab"
	case b >= 'A' && b <= 'Z':
		return string(rune(b + 'a' - 'A'))
	case b > ' ' && b < 0x7f:
		return string(rune(b))
	default:
		return fmt.Sprintf("0x%02x", b)
	}
}

func (t *Terminal) readLoop(in io.Reader) {
	buf := make([]byte, 64)
	for {
		n, err := in.Read(buf)
		at := t.now()

		t.mu.Lock()
		for _, b := range buf[:n] {
			t.events = append(t.events, event{key: decodeKey(b), at: at})
		}
		if err != nil {
			t.readErr = err
		}
		t.mu.Unlock()

		if n > 0 || err != nil {
			select {
			case t.notify <- struct{}{}:
			default:
			}
		}
		if err != nil {
			return
		}
	}
}

// PollKeys drains buffered key events and returns those matching keys,
// with offsets relative to since.
func (t *Terminal) PollKeys(keys []string, since time.Time) ([]trial.KeyPress, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []trial.KeyPress
	for _, e := range t.events {
		if e.key == KeyInterrupt {
			t.events = nil
			return nil, ErrInterrupted
		}
		if slices.Contains(keys, e.key) {
			out = append(out, trial.KeyPress{Key: e.key, Offset: e.at.Sub(since)})
		}
	}
	t.events = nil
	return out, nil
}

// ClearPending discards buffered key events.
func (t *Terminal) ClearPending() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = nil
	return nil
}

// WaitForAnyKey blocks until a key arrives or ctx is done.
func (t *Terminal) WaitForAnyKey(ctx context.Context) (string, error) {
	for {
		t.mu.Lock()
		if len(t.events) > 0 {
			e := t.events[0]
			t.events = t.events[1:]
			t.mu.Unlock()

			if e.key == KeyInterrupt {
				return "", ErrInterrupted
			}
			t.resync()
			return e.key, nil
		}
		if t.readErr != nil {
			err := t.readErr
			t.mu.Unlock()
			return "", fmt.Errorf("read keys: %w", err)
		}
		t.mu.Unlock()

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-t.notify:
		}
	}
}

package termio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/maskprime/internal/trial"
)

func newPiped(t *testing.T, out io.Writer) (*Terminal, *io.PipeWriter) {
	t.Helper()
	r, w := io.Pipe()
	term := New(r, out, time.Millisecond)
	t.Cleanup(func() {
		w.Close()
		term.Close()
	})
	return term, w
}

func TestDecodeKey(t *testing.T) {
	tests := []struct {
		in   byte
		want string
	}{
		{'f', "f"},
		{'J', "j"},
		{'1', "1"},
		{' ', "space"},
		{'\r', "return"},
		{0x1b, "escape"},
		{0x03, KeyInterrupt},
		{0x7f, "backspace"},
		{0x01, "0x01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, decodeKey(tt.in), "byte %#x", tt.in)
	}
}

func TestWaitForAnyKey(t *testing.T) {
	term, w := newPiped(t, io.Discard)

	go w.Write([]byte("x"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	key, err := term.WaitForAnyKey(ctx)
	require.NoError(t, err)
	assert.Equal(t, "x", key)
}

func TestWaitForAnyKey_Interrupt(t *testing.T) {
	term, w := newPiped(t, io.Discard)

	go w.Write([]byte{0x03})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := term.WaitForAnyKey(ctx)
	assert.ErrorIs(t, err, ErrInterrupted)
}

func TestWaitForAnyKey_Cancelled(t *testing.T) {
	term, _ := newPiped(t, io.Discard)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := term.WaitForAnyKey(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWaitForAnyKey_ClosedInput(t *testing.T) {
	term, w := newPiped(t, io.Discard)
	w.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := term.WaitForAnyKey(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestPollKeys_FiltersAndTimestamps(t *testing.T) {
	term, w := newPiped(t, io.Discard)
	since := time.Now()

	_, err := w.Write([]byte("qfj"))
	require.NoError(t, err)

	var got []trial.KeyPress
	require.Eventually(t, func() bool {
		presses, err := term.PollKeys([]string{"f", "j"}, since)
		if err != nil {
			return false
		}
		got = append(got, presses...)
		return len(got) >= 2
	}, 5*time.Second, time.Millisecond)

	assert.Equal(t, "f", got[0].Key)
	assert.Equal(t, "j", got[1].Key)
	for _, p := range got {
		assert.GreaterOrEqual(t, p.Offset, time.Duration(0))
	}
}

func TestClearPending(t *testing.T) {
	term, w := newPiped(t, io.Discard)

	_, err := w.Write([]byte("f"))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		term.mu.Lock()
		defer term.mu.Unlock()
		return len(term.events) == 1
	}, 5*time.Second, time.Millisecond)

	require.NoError(t, term.ClearPending())
	presses, err := term.PollKeys([]string{"f"}, time.Now())
	require.NoError(t, err)
	assert.Empty(t, presses)
}

func TestWaitForRefresh_DrawsStagedFrame(t *testing.T) {
	var out bytes.Buffer
	term, _ := newPiped(t, &out)

	require.NoError(t, term.Present(trial.Visual{Kind: trial.VisualFixation}))
	interval, err := term.WaitForRefresh()
	require.NoError(t, err)
	assert.Positive(t, interval)
	assert.Contains(t, out.String(), "+")

	// Nothing staged: the screen is left alone.
	n := out.Len()
	_, err = term.WaitForRefresh()
	require.NoError(t, err)
	assert.Equal(t, n, out.Len())
}

type brokenWriter struct{}

func (brokenWriter) Write([]byte) (int, error) { return 0, errors.New("tty gone") }

func TestWaitForRefresh_WriteFailure(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	term := New(r, brokenWriter{}, time.Millisecond)

	require.NoError(t, term.Present(trial.Visual{Kind: trial.VisualBlank}))
	_, err := term.WaitForRefresh()
	assert.ErrorIs(t, err, trial.ErrSurfaceClosed)
}

func TestRender(t *testing.T) {
	frame := string(Render(trial.Visual{Kind: trial.VisualFixation}, 80, 24))
	assert.True(t, strings.HasPrefix(frame, clearScreen))
	assert.Contains(t, frame, "\x1b[12;40H+")

	blank := string(Render(trial.Visual{Kind: trial.VisualBlank}, 80, 24))
	assert.Equal(t, clearScreen, blank)

	stim := string(Render(trial.Visual{Kind: trial.VisualStimulus, Image: "stimuli/cat/adv/adv00001.png"}, 80, 24))
	assert.Contains(t, stim, "[ adv00001.png ]")
}

func TestRender_Mask(t *testing.T) {
	mask := trial.NewMask(rand.New(rand.NewPCG(1, 2)), 256)
	lines := maskLines(mask)
	require.Len(t, lines, 16)
	for _, l := range lines {
		assert.Equal(t, 32, len([]rune(l)))
	}
	assert.Nil(t, maskLines(nil))
}

func TestWrap(t *testing.T) {
	got := wrap("one two three four\n\nfive", 9)
	assert.Equal(t, []string{"one two", "three", "four", "", "five"}, got)
}

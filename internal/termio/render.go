package termio

import (
	"bytes"
	"fmt"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/roach88/maskprime/internal/trial"
)

// maskCols bounds the mask preview width in cells.
const maskCols = 32

// Render draws v as a full-screen ANSI frame of width x height cells.
func Render(v trial.Visual, width, height int) []byte {
	var lines []string
	switch v.Kind {
	case trial.VisualFixation:
		lines = []string{"+"}
	case trial.VisualStimulus:
		lines = []string{"[ " + path.Base(v.Image) + " ]"}
	case trial.VisualMask:
		lines = maskLines(v.Mask)
	case trial.VisualText:
		lines = wrap(v.Text, max(width-8, 20))
	}

	var b bytes.Buffer
	b.WriteString(clearScreen)

	top := max((height-len(lines))/2, 0) + 1
	for i, line := range lines {
		col := max((width-utf8.RuneCountInString(line))/2, 0) + 1
		fmt.Fprintf(&b, "\x1b[%d;%dH%s", top+i, col, line)
	}
	return b.Bytes()
}

// maskLines downsamples m to at most maskCols cells wide. Terminal cells
// are about twice as tall as wide, so rows are halved.
func maskLines(m *trial.Mask) []string {
	if m == nil || m.Size == 0 {
		return nil
	}
	cols := min(m.Size, maskCols)
	rows := max(cols/2, 1)

	lines := make([]string, rows)
	for y := 0; y < rows; y++ {
		var sb strings.Builder
		for x := 0; x < cols; x++ {
			if m.At(x*m.Size/cols, y*m.Size/rows) > 0 {
				sb.WriteRune('█')
			} else {
				sb.WriteByte(' ')
			}
		}
		lines[y] = sb.String()
	}
	return lines
}

// wrap breaks text into lines of at most width runes. Newlines in text are
// kept as paragraph breaks.
func wrap(text string, width int) []string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		line := words[0]
		for _, w := range words[1:] {
			if utf8.RuneCountInString(line)+1+utf8.RuneCountInString(w) > width {
				lines = append(lines, line)
				line = w
				continue
			}
			line += " " + w
		}
		lines = append(lines, line)
	}
	return lines
}

// Package widgets provides the concrete widgets of a textgui tree:
// containers, labels, buttons, inputs, the log pane, borders and bars.
package widgets

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/textgui/pkg/logging"
	"github.com/odvcencio/textgui/pkg/ui/runtime"
)

// Range is an inclusive value range.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether Min <= v <= Max.
func (r Range) Contains(v float64) bool {
	return r.Min <= v && v <= r.Max
}

// fraction maps v into [0, 1] relative to the range.
func (r Range) fraction(v float64) float64 {
	span := r.Max - r.Min
	if span <= 0 {
		if v >= r.Max {
			return 1
		}
		return 0
	}
	return min(max((v-r.Min)/span, 0), 1)
}

// reportDraw logs a draw failure from a path that cannot return it,
// such as a focus callback.
func reportDraw(w runtime.Widget, logger *logging.Logger, err error) {
	if err == nil {
		return
	}
	logger.Error(logging.CategoryUI, "draw_failed", err.Error(), map[string]any{
		"widget": runtime.Name(w),
	})
}

// padRight pads s with spaces to width cells.
func padRight(s string, width int) string {
	if w := runewidth.StringWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// splitLine chops line into chunks of at most width cells.
func splitLine(line string, width int) []string {
	if width <= 0 {
		return nil
	}
	var chunks []string
	var b strings.Builder
	used := 0
	for _, r := range line {
		rw := runewidth.RuneWidth(r)
		if used+rw > width && used > 0 {
			chunks = append(chunks, b.String())
			b.Reset()
			used = 0
		}
		b.WriteRune(r)
		used += rw
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}

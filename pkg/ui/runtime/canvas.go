package runtime

import (
	"fmt"
	"sync"

	tgerrors "github.com/odvcencio/textgui/pkg/errors"
	"github.com/odvcencio/textgui/pkg/logging"
	"github.com/odvcencio/textgui/pkg/ui/backend"
)

// Canvas is the drawing surface shared by a widget tree. Writes go into a
// cell buffer and are flushed to the backend immediately. All methods are
// safe for concurrent use.
type Canvas struct {
	mu      sync.Mutex
	backend backend.Backend
	buf     *Buffer
	cursor  Point
	visible bool
	logger  *logging.Logger
}

// NewCanvas creates a canvas sized to the backend.
func NewCanvas(be backend.Backend, logger *logging.Logger) *Canvas {
	w, h := be.Size()
	return &Canvas{
		backend: be,
		buf:     NewBuffer(max(w, 0), max(h, 0)),
		logger:  logger,
	}
}

// Size returns the canvas size.
func (c *Canvas) Size() Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Size()
}

// Resize re-measures the backend and resizes the buffer.
func (c *Canvas) Resize() Point {
	c.mu.Lock()
	w, h := c.backend.Size()
	c.buf.Resize(max(w, 0), max(h, 0))
	size := c.buf.Size()
	c.mu.Unlock()

	// Log outside mu: outputs may draw on this canvas.
	c.logger.Debug(logging.CategoryCanvas, "resize", "", map[string]any{"width": w, "height": h})
	return size
}

// Clear blanks the whole screen.
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buf.Clear()
	c.buf.ClearDirty()
	c.backend.Clear()
	c.backend.Show()
}

// Sync repaints every cell on the next flush.
func (c *Canvas) Sync() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buf.MarkAllDirty()
	c.backend.Sync()
	c.flush()
}

// SetCursor moves the visible cursor. pos must lie inside the canvas.
func (c *Canvas) SetCursor(pos Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setCursor(pos)
}

func (c *Canvas) setCursor(pos Point) error {
	size := c.buf.Size()
	if !RectAt(Point{}, size).Contains(pos) {
		return tgerrors.Newf(tgerrors.ErrCodeInvalidConfig, "cursor position %s outside canvas %s", pos, size)
	}
	c.cursor = pos
	c.visible = true
	c.backend.SetCursorPos(pos.X, pos.Y)
	c.backend.Show()
	return nil
}

// Cursor returns the cursor position and whether it is visible.
func (c *Canvas) Cursor() (Point, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cursor, c.visible
}

// HideCursor hides the cursor.
func (c *Canvas) HideCursor() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.visible = false
	c.backend.HideCursor()
	c.backend.Show()
}

// Print writes text at pos without moving the cursor.
func (c *Canvas) Print(pos Point, text string, style backend.Style) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buf.SetString(pos.X, pos.Y, text, style)
	c.flush()
}

// PrintCursor writes text at pos and leaves the cursor after it, clamped
// to the last column.
func (c *Canvas) PrintCursor(pos Point, text string, style backend.Style) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.buf.SetString(pos.X, pos.Y, text, style)
	c.flush()

	size := c.buf.Size()
	return c.setCursor(Point{X: min(next, size.X-1), Y: pos.Y})
}

// Printf formats and writes text at pos.
func (c *Canvas) Printf(pos Point, style backend.Style, format string, args ...any) {
	c.Print(pos, fmt.Sprintf(format, args...), style)
}

// Fill paints a rectangle with ch in the default style.
func (c *Canvas) Fill(r Rect, ch rune) {
	c.FillStyle(r, ch, backend.DefaultStyle())
}

// FillStyle paints a rectangle with ch in style.
func (c *Canvas) FillStyle(r Rect, ch rune, style backend.Style) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buf.Fill(r, ch, style)
	c.flush()
}

// Box draws a single-line frame around r.
func (c *Canvas) Box(r Rect, style backend.Style) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.buf.DrawBox(r, style)
	c.flush()
}

// Cell returns the buffered cell at pos.
func (c *Canvas) Cell(pos Point) Cell {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Get(pos.X, pos.Y)
}

// Row returns the buffered text of row y.
func (c *Canvas) Row(y int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Row(y)
}

// flush pushes changed cells to the backend and shows them. Callers hold mu.
func (c *Canvas) flush() {
	buf := c.buf
	if buf.IsDirty() {
		size := buf.Size()
		put := func(x, y int, cell Cell) {
			r, style := cell.Rune, cell.Style
			if r == 0 {
				r, style = ' ', backend.DefaultStyle()
			}
			c.backend.SetContent(x, y, r, nil, style)
		}

		if buf.DirtyCount() > size.X*size.Y/2 {
			buf.ForEachCell(put)
		} else {
			buf.ForEachDirtyCell(put)
		}
		buf.ClearDirty()
	}

	c.backend.Show()
}

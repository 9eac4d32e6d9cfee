package runtime

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/textgui/pkg/ui/backend"
)

// Cell represents a single character cell in the buffer.
type Cell struct {
	Rune  rune
	Style backend.Style

	// cont marks the right half of a double-width rune.
	cont bool
}

// Buffer is a 2D grid of cells mirroring the screen.
// The canvas writes into the buffer, then flushes changed cells to the
// backend.
type Buffer struct {
	cells  []Cell
	width  int
	height int

	// Dirty tracking - tracks which cells have changed
	dirty      []bool // Parallel to cells, true if cell changed
	dirtyCount int    // Number of dirty cells (fast check)
	dirtyRect  Rect   // Bounding box of dirty region
}

// NewBuffer creates a buffer with the given dimensions.
func NewBuffer(w, h int) *Buffer {
	return &Buffer{
		cells:  make([]Cell, w*h),
		dirty:  make([]bool, w*h),
		width:  w,
		height: h,
	}
}

// Size returns the buffer dimensions.
func (b *Buffer) Size() Point {
	return Point{X: b.width, Y: b.height}
}

// Resize changes the buffer dimensions, preserving content where possible.
func (b *Buffer) Resize(w, h int) {
	if w == b.width && h == b.height {
		return
	}
	newCells := make([]Cell, w*h)
	for y := 0; y < min(h, b.height); y++ {
		for x := 0; x < min(w, b.width); x++ {
			newCells[y*w+x] = b.cells[y*b.width+x]
		}
	}
	b.cells = newCells
	b.dirty = make([]bool, w*h)
	b.width = w
	b.height = h
	b.MarkAllDirty()
}

// Clear fills the buffer with spaces and default style.
func (b *Buffer) Clear() {
	b.Fill(Rect{0, 0, b.width, b.height}, ' ', backend.DefaultStyle())
}

// Get returns the cell at position (x, y).
// Returns empty cell if out of bounds.
func (b *Buffer) Get(x, y int) Cell {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return Cell{Rune: ' '}
	}
	return b.cells[y*b.width+x]
}

// Set writes a rune with style at position (x, y).
// No-op if out of bounds. Marks the cell as dirty if changed.
func (b *Buffer) Set(x, y int, r rune, s backend.Style) {
	b.put(x, y, Cell{Rune: r, Style: s})
}

func (b *Buffer) put(x, y int, c Cell) {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return
	}
	idx := y*b.width + x
	if b.cells[idx] != c {
		b.cells[idx] = c
		b.markCellDirty(x, y, idx)
	}
}

// SetString writes a string starting at (x, y), advancing by the display
// width of each rune. Clips to buffer bounds and returns the column after
// the last cell written.
func (b *Buffer) SetString(x, y int, s string, style backend.Style) int {
	px := x
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if px+w > b.width {
			break
		}
		if px >= 0 {
			b.put(px, y, Cell{Rune: r, Style: style})
			if w == 2 {
				b.put(px+1, y, Cell{Style: style, cont: true})
			}
		}
		px += w
	}
	return px
}

// Fill fills a rectangular region with a rune and style.
// Marks changed cells as dirty.
func (b *Buffer) Fill(r Rect, ch rune, s backend.Style) {
	if r.Empty() {
		return
	}
	x0 := max(0, r.X)
	y0 := max(0, r.Y)
	x1 := min(b.width, r.X+r.Width)
	y1 := min(b.height, r.Y+r.Height)

	cell := Cell{Rune: ch, Style: s}
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			b.put(x, y, cell)
		}
	}
}

// DrawBox draws a border around a rect using box-drawing characters.
func (b *Buffer) DrawBox(r Rect, s backend.Style) {
	if r.Width < 2 || r.Height < 2 {
		return
	}

	for x := r.X + 1; x < r.X+r.Width-1; x++ {
		b.Set(x, r.Y, '─', s)
		b.Set(x, r.Y+r.Height-1, '─', s)
	}
	for y := r.Y + 1; y < r.Y+r.Height-1; y++ {
		b.Set(r.X, y, '│', s)
		b.Set(r.X+r.Width-1, y, '│', s)
	}

	b.Set(r.X, r.Y, '┌', s)
	b.Set(r.X+r.Width-1, r.Y, '┐', s)
	b.Set(r.X, r.Y+r.Height-1, '└', s)
	b.Set(r.X+r.Width-1, r.Y+r.Height-1, '┘', s)
}

// Row returns the text of row y with double-width continuations removed.
func (b *Buffer) Row(y int) string {
	if y < 0 || y >= b.height {
		return ""
	}
	out := make([]rune, 0, b.width)
	for x := 0; x < b.width; x++ {
		c := b.cells[y*b.width+x]
		switch {
		case c.cont:
		case c.Rune == 0:
			out = append(out, ' ')
		default:
			out = append(out, c.Rune)
		}
	}
	return string(out)
}

// --- Dirty Tracking Methods ---

// markCellDirty marks a single cell as dirty and updates the bounding box.
func (b *Buffer) markCellDirty(x, y, idx int) {
	if b.dirty[idx] {
		return
	}
	b.dirty[idx] = true
	b.dirtyCount++

	if b.dirtyCount == 1 {
		b.dirtyRect = Rect{X: x, Y: y, Width: 1, Height: 1}
		return
	}
	if x < b.dirtyRect.X {
		b.dirtyRect.Width += b.dirtyRect.X - x
		b.dirtyRect.X = x
	} else if x >= b.dirtyRect.X+b.dirtyRect.Width {
		b.dirtyRect.Width = x - b.dirtyRect.X + 1
	}
	if y < b.dirtyRect.Y {
		b.dirtyRect.Height += b.dirtyRect.Y - y
		b.dirtyRect.Y = y
	} else if y >= b.dirtyRect.Y+b.dirtyRect.Height {
		b.dirtyRect.Height = y - b.dirtyRect.Y + 1
	}
}

// MarkAllDirty marks the entire buffer as dirty.
func (b *Buffer) MarkAllDirty() {
	for i := range b.dirty {
		b.dirty[i] = true
	}
	b.dirtyCount = len(b.dirty)
	b.dirtyRect = Rect{X: 0, Y: 0, Width: b.width, Height: b.height}
}

// ClearDirty resets all dirty flags.
func (b *Buffer) ClearDirty() {
	clear(b.dirty)
	b.dirtyCount = 0
	b.dirtyRect = Rect{}
}

// IsDirty returns true if any cells have changed.
func (b *Buffer) IsDirty() bool {
	return b.dirtyCount > 0
}

// DirtyCount returns the number of dirty cells.
func (b *Buffer) DirtyCount() int {
	return b.dirtyCount
}

// DirtyRect returns the bounding box of dirty cells.
// Returns empty rect if nothing is dirty.
func (b *Buffer) DirtyRect() Rect {
	return b.dirtyRect
}

// IsCellDirty returns true if the cell at (x, y) is dirty.
func (b *Buffer) IsCellDirty(x, y int) bool {
	if x < 0 || x >= b.width || y < 0 || y >= b.height {
		return false
	}
	return b.dirty[y*b.width+x]
}

// ForEachDirtyCell calls fn for each dirty cell, skipping the right
// halves of double-width runes.
func (b *Buffer) ForEachDirtyCell(fn func(x, y int, cell Cell)) {
	if b.dirtyCount == 0 {
		return
	}
	r := b.dirtyRect
	for y := r.Y; y < r.Y+r.Height && y < b.height; y++ {
		for x := r.X; x < r.X+r.Width && x < b.width; x++ {
			idx := y*b.width + x
			if b.dirty[idx] && !b.cells[idx].cont {
				fn(x, y, b.cells[idx])
			}
		}
	}
}

// ForEachCell calls fn for every cell, skipping the right halves of
// double-width runes.
func (b *Buffer) ForEachCell(fn func(x, y int, cell Cell)) {
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			if c := b.cells[y*b.width+x]; !c.cont {
				fn(x, y, c)
			}
		}
	}
}

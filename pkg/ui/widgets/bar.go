package widgets

import (
	"fmt"
	"math"
	"strings"

	tgerrors "github.com/odvcencio/textgui/pkg/errors"
	"github.com/odvcencio/textgui/pkg/ui/backend"
	"github.com/odvcencio/textgui/pkg/ui/runtime"
)

// Default bar styles.
var (
	DefaultBarStyle      = backend.DefaultStyle().Foreground(backend.ColorGreen)
	DefaultBarsStyle     = backend.DefaultStyle().Foreground(backend.ColorRed)
	DefaultOverflowStyle = backend.DefaultStyle().Foreground(backend.ColorRed).Bold(true)
)

// BarConfig configures a Bar.
type BarConfig struct {
	ID    string
	Value float64

	// Format renders the value; defaults to "%.3f".
	Format string

	// Range defaults to [0, 1].
	Range *Range

	Style    backend.Style
	Overflow backend.Style
}

// Bar is a one-row progress bar showing a value against a range. The
// leading part of the row, proportional to the value, is drawn reversed.
// Values outside the range are drawn in the overflow style.
type Bar struct {
	runtime.Base
	value    float64
	format   string
	rng      Range
	style    backend.Style
	overflow backend.Style
}

// NewBar creates a bar.
func NewBar(tree *runtime.Tree, cfg BarConfig) (*Bar, error) {
	b := &Bar{
		value:    cfg.Value,
		format:   cfg.Format,
		rng:      Range{Min: 0, Max: 1},
		style:    cfg.Style,
		overflow: cfg.Overflow,
	}
	if cfg.Range != nil {
		if cfg.Range.Min > cfg.Range.Max {
			return nil, tgerrors.Newf(tgerrors.ErrCodeInvalidConfig, "bar range min %g exceeds max %g", cfg.Range.Min, cfg.Range.Max).
				WithContext("id", cfg.ID)
		}
		b.rng = *cfg.Range
	}
	if b.format == "" {
		b.format = "%.3f"
	}
	if b.style == (backend.Style{}) {
		b.style = DefaultBarStyle
	}
	if b.overflow == (backend.Style{}) {
		b.overflow = DefaultOverflowStyle
	}
	if err := b.Init(tree, b, runtime.BaseConfig{ID: cfg.ID, Stretch: runtime.StretchHorizontal}); err != nil {
		return nil, err
	}
	return b, nil
}

// Value returns the current value.
func (b *Bar) Value() float64 {
	return b.value
}

// Update sets the value and redraws.
func (b *Bar) Update(v float64) error {
	b.value = v
	return b.Draw()
}

// SetSize takes the offered width and one row.
func (b *Bar) SetSize(maxsize runtime.Point) (runtime.Point, error) {
	if err := b.CheckFits(runtime.Pt(1, 1), maxsize); err != nil {
		return b.Size(), err
	}
	size := runtime.Pt(maxsize.X, 1)
	b.SetComputedSize(size)
	return size, nil
}

// Filled returns how many cells the current value fills.
func (b *Bar) Filled() int {
	return int(math.Ceil(float64(b.Size().X) * b.rng.fraction(b.value)))
}

// Draw prints the formatted value padded to the width, the filled part
// reversed.
func (b *Bar) Draw() error {
	c := b.Canvas()
	if c == nil {
		return nil
	}
	width := b.Size().X
	text := runtime.Truncate(padRight(fmt.Sprintf(b.format, b.value), width), width)

	filledStyle, restStyle := b.style, backend.DefaultStyle()
	if !b.rng.Contains(b.value) {
		filledStyle, restStyle = b.overflow, b.overflow
	}
	drawSplit(c, b.Pos(), text, b.Filled(), filledStyle.Reverse(true), restStyle)
	return nil
}

// BarsConfig configures a Bars chart.
type BarsConfig struct {
	ID   string
	Data []float64

	// MaxVal scales the rows; when zero the largest datum is used.
	MaxVal float64

	// Range, when set, marks data outside it with the overflow style.
	Range *Range

	Style    backend.Style
	Overflow backend.Style
}

// Bars is a horizontal bar chart with one row per datum.
type Bars struct {
	runtime.Base
	data     []float64
	maxval   float64
	rng      *Range
	style    backend.Style
	overflow backend.Style
}

// NewBars creates a bar chart. The number of rows is fixed by the
// initial data.
func NewBars(tree *runtime.Tree, cfg BarsConfig) (*Bars, error) {
	if cfg.MaxVal < 0 {
		return nil, tgerrors.Newf(tgerrors.ErrCodeInvalidConfig, "negative max value %g", cfg.MaxVal).
			WithContext("id", cfg.ID)
	}
	if cfg.Range != nil && cfg.Range.Min > cfg.Range.Max {
		return nil, tgerrors.Newf(tgerrors.ErrCodeInvalidConfig, "bars range min %g exceeds max %g", cfg.Range.Min, cfg.Range.Max).
			WithContext("id", cfg.ID)
	}
	b := &Bars{
		data:     append([]float64(nil), cfg.Data...),
		maxval:   cfg.MaxVal,
		rng:      cfg.Range,
		style:    cfg.Style,
		overflow: cfg.Overflow,
	}
	if len(b.data) == 0 {
		b.data = []float64{0}
	}
	if b.style == (backend.Style{}) {
		b.style = DefaultBarsStyle
	}
	if b.overflow == (backend.Style{}) {
		b.overflow = DefaultOverflowStyle
	}
	err := b.Init(tree, b, runtime.BaseConfig{
		ID:      cfg.ID,
		MinSize: runtime.Pt(1, len(b.data)),
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Data returns a copy of the current data.
func (b *Bars) Data() []float64 {
	return append([]float64(nil), b.data...)
}

// Update replaces the data and redraws.
func (b *Bars) Update(data []float64) error {
	b.data = append(b.data[:0], data...)
	return b.Draw()
}

// SetSize takes the offered width and one row per datum. The offered
// height must exceed the row count.
func (b *Bars) SetSize(maxsize runtime.Point) (runtime.Point, error) {
	rows := b.MinSize().Y
	if !maxsize.Dominates(runtime.Pt(0, rows)) {
		return b.Size(), tgerrors.Newf(tgerrors.ErrCodeNoSpace, "%s: needs %d rows below %s", runtime.Name(b), rows, maxsize).
			WithContext("widget", runtime.Name(b))
	}
	size := runtime.Pt(maxsize.X, rows)
	b.SetComputedSize(size)
	return size, nil
}

// Draw renders each datum as "%.2f" followed by a bar, the filled part
// reversed. Nothing is drawn while the scale is zero.
func (b *Bars) Draw() error {
	c := b.Canvas()
	if c == nil {
		return nil
	}
	maxval := b.scale()
	if maxval == 0 {
		return nil
	}

	size := b.Size()
	for i, datum := range b.data {
		if i >= size.Y {
			break
		}
		filled := max(int(math.Ceil(float64(size.X)*min(1, datum/maxval))), 0)
		text := fmt.Sprintf("%.2f", datum)
		if pad := filled - runtime.TextWidth(text); pad > 0 {
			text += strings.Repeat("█", pad)
		}
		text = runtime.Truncate(padRight(text, size.X), size.X)

		style := b.style
		if b.rng != nil && !b.rng.Contains(datum) {
			style = b.overflow
		}
		drawSplit(c, b.Pos().Add(runtime.Pt(0, i)), text, filled, style.Reverse(true), backend.DefaultStyle())
	}
	return nil
}

func (b *Bars) scale() float64 {
	if b.maxval > 0 {
		return b.maxval
	}
	var top float64
	for i, v := range b.data {
		if i == 0 || v > top {
			top = v
		}
	}
	return top
}

// drawSplit prints text at pos with its first n cells in head and the
// rest in tail.
func drawSplit(c *runtime.Canvas, pos runtime.Point, text string, n int, head, tail backend.Style) {
	headText := runtime.Truncate(text, n)
	c.Print(pos, headText, head)
	if rest := text[len(headText):]; rest != "" {
		c.Print(pos.Add(runtime.Pt(runtime.TextWidth(headText), 0)), rest, tail)
	}
}

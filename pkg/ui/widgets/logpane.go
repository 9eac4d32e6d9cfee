package widgets

import (
	"bytes"
	"strings"
	"sync"
	"time"

	tgerrors "github.com/odvcencio/textgui/pkg/errors"
	"github.com/odvcencio/textgui/pkg/ui/backend"
	"github.com/odvcencio/textgui/pkg/ui/runtime"
	"github.com/odvcencio/textgui/pkg/ui/timer"
)

// LogPane defaults.
const (
	DefaultLogCapacity   = 1000
	DefaultFlushInterval = 300 * time.Millisecond
	DefaultFlushLines    = 5
)

// LogPaneConfig configures a LogPane.
type LogPaneConfig struct {
	ID string

	// Capacity is the number of lines kept.
	Capacity int

	// FlushInterval bounds how long an appended line waits to be drawn.
	FlushInterval time.Duration

	// FlushLines is the number of pending lines that forces a redraw.
	FlushLines int

	Style backend.Style
}

// LogPane is a scrolling log showing the newest lines, wrapped at its
// width. Appends are coalesced: the pane redraws once FlushLines lines
// are pending or FlushInterval after the first pending line, whichever
// comes first.
//
// Println, Write and Clear may be called from any goroutine.
type LogPane struct {
	runtime.Base

	mu       sync.Mutex
	lines    []string
	partial  []byte
	dirty    int
	redraws  int
	capacity int
	interval time.Duration
	batch    int
	style    backend.Style

	timer *timer.Timer
}

// NewLogPane creates a log pane. Call Close to stop its flush timer.
func NewLogPane(tree *runtime.Tree, cfg LogPaneConfig) (*LogPane, error) {
	p := &LogPane{
		capacity: cfg.Capacity,
		interval: cfg.FlushInterval,
		batch:    cfg.FlushLines,
		style:    cfg.Style,
	}
	if p.capacity == 0 {
		p.capacity = DefaultLogCapacity
	}
	if p.interval == 0 {
		p.interval = DefaultFlushInterval
	}
	if p.batch == 0 {
		p.batch = DefaultFlushLines
	}
	if p.capacity < 0 || p.interval < 0 || p.batch < 0 {
		return nil, tgerrors.New(tgerrors.ErrCodeInvalidConfig, "log pane limits must be positive").
			WithContext("id", cfg.ID)
	}
	if p.style == (backend.Style{}) {
		p.style = backend.DefaultStyle()
	}

	err := p.Init(tree, p, runtime.BaseConfig{
		ID:      cfg.ID,
		MinSize: runtime.Pt(5, 5),
		Stretch: runtime.StretchBoth,
	})
	if err != nil {
		return nil, err
	}
	p.timer = timer.New(p.interval, p.onTimer, tree.Logger())
	return p, nil
}

// Close stops the flush timer. Pending lines stay undrawn until the next
// Draw.
func (p *LogPane) Close() error {
	p.timer.Abort()
	return nil
}

// Println appends a line.
func (p *LogPane) Println(line string) {
	p.mu.Lock()
	arm, flushed := p.appendLocked(line)
	p.mu.Unlock()
	p.schedule(arm, flushed)
}

// Write appends one trimmed line per newline-terminated chunk of data.
// An unterminated tail is kept until its newline arrives.
func (p *LogPane) Write(data []byte) (int, error) {
	p.mu.Lock()
	p.partial = append(p.partial, data...)
	var arm, flushed bool
	for {
		i := bytes.IndexByte(p.partial, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimSpace(string(p.partial[:i]))
		p.partial = p.partial[i+1:]
		if a, f := p.appendLocked(line); a || f {
			arm, flushed = a, f
		}
	}
	if len(p.partial) == 0 {
		p.partial = nil
	}
	p.mu.Unlock()
	p.schedule(arm, flushed)
	return len(data), nil
}

// Clear drops every line and redraws.
func (p *LogPane) Clear() {
	p.mu.Lock()
	p.lines = nil
	p.renderLocked()
	p.mu.Unlock()
	p.timer.Cancel()
}

// Lines returns the stored lines, oldest first.
func (p *LogPane) Lines() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.lines...)
}

// Redraws returns how many times the pane has been painted.
func (p *LogPane) Redraws() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.redraws
}

// SetSize applies the stretch policy under the pane lock.
func (p *LogPane) SetSize(maxsize runtime.Point) (runtime.Point, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.Base.SetSize(maxsize)
}

// SetPos stores the position under the pane lock.
func (p *LogPane) SetPos(pos runtime.Point) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Base.SetPos(pos)
}

// Draw repaints the pane immediately.
func (p *LogPane) Draw() error {
	p.mu.Lock()
	p.renderLocked()
	p.mu.Unlock()
	p.timer.Cancel()
	return nil
}

// appendLocked stores line and reports whether the flush timer must be
// armed and whether the pane was just painted.
func (p *LogPane) appendLocked(line string) (arm, flushed bool) {
	if len(p.lines) == p.capacity {
		copy(p.lines, p.lines[1:])
		p.lines = p.lines[:len(p.lines)-1]
	}
	p.lines = append(p.lines, line)

	p.dirty++
	if p.dirty >= p.batch {
		p.renderLocked()
		return false, true
	}
	return p.dirty == 1, false
}

func (p *LogPane) schedule(arm, flushed bool) {
	switch {
	case flushed:
		p.timer.Cancel()
	case arm:
		p.timer.Restart(p.interval)
	}
}

func (p *LogPane) onTimer() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dirty > 0 {
		p.renderLocked()
	}
	return nil
}

// renderLocked paints the newest wrapped lines, padding every row.
func (p *LogPane) renderLocked() {
	p.dirty = 0
	c := p.Canvas()
	if c == nil {
		return
	}
	p.redraws++

	pos, size := p.Pos(), p.Size()
	var wrapped []string
	for _, line := range p.lines {
		if line == "" {
			wrapped = append(wrapped, "")
			continue
		}
		wrapped = append(wrapped, splitLine(line, size.X)...)
	}
	if len(wrapped) > size.Y {
		wrapped = wrapped[len(wrapped)-size.Y:]
	}

	for row := 0; row < size.Y; row++ {
		var line string
		if row < len(wrapped) {
			line = wrapped[row]
		}
		c.Print(pos.Add(runtime.Pt(0, row)), padRight(line, size.X), p.style)
	}
}

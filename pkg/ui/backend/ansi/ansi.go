// Package ansi provides a backend that drives the terminal directly with
// ANSI escape sequences and decodes raw input bytes itself.
package ansi

import (
	"bytes"
	"errors"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/muesli/termenv"
	"golang.org/x/term"

	tgerrors "github.com/odvcencio/textgui/pkg/errors"
	"github.com/odvcencio/textgui/pkg/logging"
	"github.com/odvcencio/textgui/pkg/ui/backend"
	"github.com/odvcencio/textgui/pkg/ui/input"
	"github.com/odvcencio/textgui/pkg/ui/terminal"
)

// DefaultInputTimeout bounds each input read so the reader notices Fini.
const DefaultInputTimeout = 100 * time.Millisecond

// Options configures a Backend.
type Options struct {
	// In and Out default to os.Stdin and os.Stdout.
	In  *os.File
	Out *os.File

	// InputTimeout bounds each input read; defaults to DefaultInputTimeout.
	InputTimeout time.Duration

	// Interrupt handles Ctrl+C bytes; defaults to terminal.Interrupt.
	Interrupt terminal.Interrupter

	Logger *logging.Logger
}

type cell struct {
	r     rune
	style backend.Style
}

// Backend renders to a raw-mode terminal in the alternate screen.
type Backend struct {
	in        *os.File
	out       io.Writer
	outFd     int
	timeout   time.Duration
	interrupt terminal.Interrupter
	logger    *logging.Logger

	mu       sync.Mutex
	frame    bytes.Buffer
	output   *termenv.Output
	state    *term.State
	width    int
	height   int
	cells    []cell
	dirty    []bool
	cursorX  int
	cursorY  int
	cursorOn bool
	failing  bool

	// failures carries write errors to reportFailures, which logs them
	// off the drawing goroutine.
	failures chan error

	events chan terminal.Event
	winch  chan os.Signal
	quit   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// New creates a backend on the process terminal.
func New(opts Options) *Backend {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.InputTimeout <= 0 {
		opts.InputTimeout = DefaultInputTimeout
	}
	b := newBackend(opts.Out, termenv.NewOutput(opts.Out).EnvColorProfile())
	b.in = opts.In
	b.outFd = int(opts.Out.Fd())
	b.timeout = opts.InputTimeout
	b.interrupt = opts.Interrupt
	b.logger = opts.Logger
	return b
}

func newBackend(out io.Writer, profile termenv.Profile) *Backend {
	b := &Backend{
		out:     out,
		outFd:   -1,
		cursorX: -1,
		cursorY: -1,
		events:   make(chan terminal.Event, 64),
		failures: make(chan error, 1),
		quit:     make(chan struct{}),
	}
	b.output = termenv.NewOutput(&b.frame, termenv.WithProfile(profile))
	return b
}

// DecodesInput reports that Ctrl+C never arrives as a key event.
func (b *Backend) DecodesInput() bool { return true }

// Init switches the terminal to raw mode and the alternate screen, then
// starts reading input and watching for resizes.
func (b *Backend) Init() error {
	inFd := int(b.in.Fd())
	if !term.IsTerminal(inFd) {
		return tgerrors.New(tgerrors.ErrCodeTerminal, "stdin is not a terminal")
	}
	w, h, err := term.GetSize(b.outFd)
	if err != nil {
		return tgerrors.Wrap(err, tgerrors.ErrCodeTerminal, "reading terminal size")
	}
	state, err := term.MakeRaw(inFd)
	if err != nil {
		return tgerrors.Wrap(err, tgerrors.ErrCodeTerminal, "entering raw mode")
	}

	b.mu.Lock()
	b.state = state
	b.resize(w, h)
	b.output.AltScreen()
	b.output.HideCursor()
	b.output.ClearScreen()
	err = b.flush()
	b.mu.Unlock()
	b.report(err)

	b.winch = make(chan os.Signal, 1)
	signal.Notify(b.winch, syscall.SIGWINCH)

	decoder := input.NewDecoder(input.NewFileSource(b.in), input.Options{
		Timeout:   b.timeout,
		Interrupt: b.interrupt,
		Logger:    b.logger,
	})
	b.wg.Add(3)
	go b.readLoop(decoder)
	go b.watchResize()
	go b.reportFailures()
	return nil
}

// Fini restores the terminal. Failures are logged.
func (b *Backend) Fini() {
	b.once.Do(func() {
		close(b.quit)
		if b.winch != nil {
			signal.Stop(b.winch)
		}
		b.wg.Wait()

		b.mu.Lock()
		b.output.ShowCursor()
		b.output.ExitAltScreen()
		b.failing = false
		writeErr := b.flush()
		var restoreErr error
		if b.state != nil {
			restoreErr = term.Restore(int(b.in.Fd()), b.state)
		}
		b.mu.Unlock()

		select {
		case err := <-b.failures:
			b.logger.Error(logging.CategoryCanvas, "write_failed", err.Error(), nil)
		default:
		}
		if writeErr != nil {
			b.logger.Error(logging.CategoryCanvas, "write_failed", writeErr.Error(), nil)
		}
		if restoreErr != nil {
			b.logger.Error(logging.CategoryApp, "restore_failed", restoreErr.Error(), nil)
		}
	})
}

// Size returns the terminal size.
func (b *Backend) Size() (width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}

// SetContent stores a cell; it reaches the terminal on Show.
func (b *Backend) SetContent(x, y int, mainc rune, _ []rune, style backend.Style) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if x < 0 || y < 0 || x >= b.width || y >= b.height {
		return
	}
	idx := y*b.width + x
	c := cell{r: mainc, style: style}
	if b.cells[idx] != c {
		b.cells[idx] = c
		b.dirty[idx] = true
	}
}

// Show writes changed cells and the cursor state.
func (b *Backend) Show() {
	b.mu.Lock()
	err := b.show()
	b.mu.Unlock()
	b.report(err)
}

func (b *Backend) show() error {
	nextX, nextY := -1, -1
	for idx, d := range b.dirty {
		if !d {
			continue
		}
		b.dirty[idx] = false
		x, y := idx%b.width, idx/b.width
		if x != nextX || y != nextY {
			b.output.MoveCursor(y+1, x+1)
		}
		c := b.cells[idx]
		r := c.r
		if r == 0 {
			r = ' '
		}
		b.frame.WriteString(b.styled(string(r), c.style))
		nextX, nextY = x+1, y
	}

	if b.cursorOn && b.cursorX >= 0 && b.cursorY >= 0 {
		b.output.MoveCursor(b.cursorY+1, b.cursorX+1)
		b.output.ShowCursor()
	} else {
		b.output.HideCursor()
	}
	return b.flush()
}

// Clear blanks the screen.
func (b *Backend) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.cells {
		b.cells[i] = cell{r: ' ', style: backend.DefaultStyle()}
		b.dirty[i] = false
	}
	b.output.ClearScreen()
}

// HideCursor hides the cursor on the next Show.
func (b *Backend) HideCursor() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorOn = false
}

// ShowCursor shows the cursor on the next Show.
func (b *Backend) ShowCursor() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorOn = true
}

// SetCursorPos moves the cursor and makes it visible on the next Show.
func (b *Backend) SetCursorPos(x, y int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursorX, b.cursorY = x, y
	b.cursorOn = true
}

// PollEvent blocks until an event arrives or the backend is finalized.
func (b *Backend) PollEvent() terminal.Event {
	select {
	case ev := <-b.events:
		return ev
	case <-b.quit:
		return nil
	}
}

// PostEvent queues an event without blocking.
func (b *Backend) PostEvent(ev terminal.Event) error {
	select {
	case b.events <- ev:
		return nil
	default:
		return tgerrors.New(tgerrors.ErrCodeTerminal, "event queue full")
	}
}

// Sync repaints the whole screen.
func (b *Backend) Sync() {
	b.mu.Lock()
	b.output.ClearScreen()
	for i := range b.dirty {
		b.dirty[i] = true
	}
	err := b.show()
	b.mu.Unlock()
	b.report(err)
}

func (b *Backend) readLoop(decoder *input.Decoder) {
	defer b.wg.Done()
	for {
		select {
		case <-b.quit:
			return
		default:
		}

		ev, err := decoder.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				b.logger.Error(logging.CategoryInput, "read_failed", err.Error(), nil)
			}
			return
		}
		if ev.IsNone() {
			continue
		}
		select {
		case b.events <- ev:
		case <-b.quit:
			return
		}
	}
}

func (b *Backend) watchResize() {
	defer b.wg.Done()
	for {
		select {
		case <-b.quit:
			return
		case <-b.winch:
			w, h, err := term.GetSize(b.outFd)
			if err != nil {
				b.logger.Error(logging.CategoryApp, "size_failed", err.Error(), nil)
				continue
			}
			b.mu.Lock()
			b.resize(w, h)
			b.mu.Unlock()

			select {
			case b.events <- terminal.ResizeEvent{Width: w, Height: h}:
			case <-b.quit:
				return
			}
		}
	}
}

// resize reallocates the cell grid. Callers hold mu.
func (b *Backend) resize(w, h int) {
	w, h = max(w, 0), max(h, 0)
	b.width, b.height = w, h
	b.cells = make([]cell, w*h)
	b.dirty = make([]bool, w*h)
}

// flush writes the pending frame to the terminal. Callers hold mu. Only
// the first failure of a run of failed writes is returned.
func (b *Backend) flush() error {
	if b.frame.Len() == 0 {
		return nil
	}
	_, err := b.out.Write(b.frame.Bytes())
	b.frame.Reset()
	if err == nil {
		b.failing = false
		return nil
	}
	if b.failing {
		return nil
	}
	b.failing = true
	return err
}

// report hands a write error to reportFailures without blocking. Show is
// called with canvas locks held and the logger may draw on that canvas.
func (b *Backend) report(err error) {
	if err == nil {
		return
	}
	select {
	case b.failures <- err:
	default:
	}
}

func (b *Backend) reportFailures() {
	defer b.wg.Done()
	for {
		select {
		case <-b.quit:
			return
		case err := <-b.failures:
			b.logger.Error(logging.CategoryCanvas, "write_failed", err.Error(), nil)
		}
	}
}

func (b *Backend) styled(s string, style backend.Style) string {
	fg, bg, attrs := style.Decompose()
	out := b.output.String(s)
	if fg != backend.ColorDefault {
		out = out.Foreground(termenv.ANSIColor(fg))
	}
	if bg != backend.ColorDefault {
		out = out.Background(termenv.ANSIColor(bg))
	}
	if attrs&backend.AttrBold != 0 {
		out = out.Bold()
	}
	if attrs&backend.AttrUnderline != 0 {
		out = out.Underline()
	}
	if attrs&backend.AttrReverse != 0 {
		out = out.Reverse()
	}
	return out.String()
}

var (
	_ backend.Backend  = (*Backend)(nil)
	_ backend.Decoding = (*Backend)(nil)
)

package runtime

import (
	"context"
	"sync"

	tgerrors "github.com/odvcencio/textgui/pkg/errors"
	"github.com/odvcencio/textgui/pkg/logging"
	"github.com/odvcencio/textgui/pkg/ui/backend"
	"github.com/odvcencio/textgui/pkg/ui/terminal"
)

// AppConfig configures a runtime App.
type AppConfig struct {
	Backend backend.Backend
	Root    Widget

	// Clear blanks the screen before the first draw.
	Clear bool

	// Interrupt is invoked for Ctrl+C key events delivered by backends
	// that do not decode raw bytes themselves. Defaults to
	// terminal.Interrupt.
	Interrupt terminal.Interrupter

	Logger        *logging.Logger
	MessageBuffer int
}

// App runs a widget tree against a terminal backend: it lays the tree
// out, draws it and dispatches key events to the focused widget.
type App struct {
	backend   backend.Backend
	root      Widget
	clear     bool
	interrupt terminal.Interrupter
	logger    *logging.Logger

	canvas      *Canvas
	initialized bool

	events   chan terminal.Event
	posted   chan func()
	quit     chan struct{}
	quitOnce sync.Once
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewApp creates a new App from config.
func NewApp(cfg AppConfig) *App {
	bufferSize := cfg.MessageBuffer
	if bufferSize <= 0 {
		bufferSize = 128
	}
	interrupt := cfg.Interrupt
	if interrupt == nil {
		interrupt = terminal.Interrupt
	}
	return &App{
		backend:   cfg.Backend,
		root:      cfg.Root,
		clear:     cfg.Clear,
		interrupt: interrupt,
		logger:    cfg.Logger,
		events:    make(chan terminal.Event, bufferSize),
		posted:    make(chan func(), bufferSize),
		quit:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
}

// Canvas returns the canvas, or nil before Init.
func (a *App) Canvas() *Canvas {
	return a.canvas
}

// Init initializes the backend, attaches a canvas to the root's tree,
// lays the tree out over the whole screen, draws it and notifies the
// focused widget.
func (a *App) Init() error {
	if a.backend == nil {
		return tgerrors.New(tgerrors.ErrCodeInvalidConfig, "backend is required")
	}
	if a.root == nil {
		return tgerrors.New(tgerrors.ErrCodeInvalidConfig, "root widget is required")
	}
	if err := a.backend.Init(); err != nil {
		return tgerrors.Wrap(err, tgerrors.ErrCodeTerminal, "init backend")
	}
	a.initialized = true

	a.backend.HideCursor()
	a.canvas = NewCanvas(a.backend, a.logger)
	a.root.base().tree.Attach(a.canvas)
	if a.clear {
		a.canvas.Clear()
	}

	return a.layout()
}

// Fini restores the terminal. Safe to call more than once.
func (a *App) Fini() {
	a.Quit()
	if a.initialized {
		a.initialized = false
		a.backend.Fini()
	}
}

// Quit makes Run return nil.
func (a *App) Quit() {
	a.quitOnce.Do(func() { close(a.quit) })
}

// Post schedules fn on the event loop goroutine. It returns false when
// the queue is full and fn was dropped.
func (a *App) Post(fn func()) bool {
	select {
	case a.posted <- fn:
		return true
	default:
		return false
	}
}

// Run dispatches events until Quit, context cancellation, backend
// shutdown or a layout failure. Init is called first if needed.
func (a *App) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if a.canvas == nil {
		if err := a.Init(); err != nil {
			return err
		}
	}
	defer a.stopOnce.Do(func() { close(a.stopped) })

	go a.pollEvents()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-a.quit:
			return nil
		case fn := <-a.posted:
			fn()
		case ev, ok := <-a.events:
			if !ok {
				return nil
			}
			if err := a.dispatch(ev); err != nil {
				return err
			}
		}
	}
}

// Relayout re-measures the screen, redraws the whole tree and repaints
// every cell, since terminals may reflow their contents on resize.
func (a *App) Relayout() error {
	size := a.canvas.Resize()
	a.logger.Info(logging.CategoryLayout, "relayout", "terminal resized", map[string]any{
		"width":  size.X,
		"height": size.Y,
	})
	a.canvas.Clear()
	if err := a.layout(); err != nil {
		return err
	}
	a.canvas.Sync()
	return nil
}

func (a *App) layout() error {
	size := a.canvas.Size()
	if _, err := a.root.SetSize(size); err != nil {
		a.logger.Critical(logging.CategoryLayout, "layout_failed", err.Error(), nil)
		return err
	}
	a.root.SetPos(Point{})
	if err := a.root.Draw(); err != nil {
		return err
	}
	if w := a.root.base().tree.Focus().Current(); w != nil {
		w.OnFocus()
	}
	return nil
}

func (a *App) dispatch(ev terminal.Event) error {
	switch e := ev.(type) {
	case terminal.KeyEvent:
		if e.Key == terminal.KeyCtrlC && !a.decodesInput() {
			if err := a.interrupt(); err != nil {
				a.logger.Error(logging.CategoryApp, "interrupt_failed", err.Error(), nil)
			}
			return nil
		}
		if e.IsNone() {
			return nil
		}
		if w := a.root.base().tree.Focus().Current(); w != nil {
			w.Input(e)
		}
	case terminal.ResizeEvent:
		return a.Relayout()
	}
	return nil
}

func (a *App) decodesInput() bool {
	d, ok := a.backend.(backend.Decoding)
	return ok && d.DecodesInput()
}

func (a *App) pollEvents() {
	defer close(a.events)
	for {
		ev := a.backend.PollEvent()
		if ev == nil {
			return
		}
		select {
		case a.events <- ev:
		case <-a.stopped:
			return
		}
	}
}

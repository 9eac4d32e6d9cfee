// Package tcell provides a Backend implementation using tcell.
package tcell

import (
	"github.com/gdamore/tcell/v2"

	"github.com/odvcencio/textgui/pkg/ui/backend"
	"github.com/odvcencio/textgui/pkg/ui/terminal"
)

// Backend implements backend.Backend using tcell.
type Backend struct {
	screen tcell.Screen

	cursorX, cursorY int
}

// New creates a new tcell backend.
func New() (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return NewWithScreen(screen), nil
}

// NewWithScreen creates a backend with an existing tcell screen (for testing).
func NewWithScreen(screen tcell.Screen) *Backend {
	return &Backend{screen: screen, cursorX: -1, cursorY: -1}
}

// Init initializes the backend.
func (b *Backend) Init() error {
	return b.screen.Init()
}

// Fini cleans up the backend.
func (b *Backend) Fini() {
	b.screen.Fini()
}

// Size returns the terminal dimensions.
func (b *Backend) Size() (width, height int) {
	return b.screen.Size()
}

// SetContent sets a cell at position (x, y).
func (b *Backend) SetContent(x, y int, mainc rune, comb []rune, style backend.Style) {
	b.screen.SetContent(x, y, mainc, comb, convertStyle(style))
}

// Show synchronizes the buffer to the terminal.
func (b *Backend) Show() {
	b.screen.Show()
}

// Clear clears the screen.
func (b *Backend) Clear() {
	b.screen.Clear()
}

// HideCursor hides the cursor.
func (b *Backend) HideCursor() {
	b.screen.HideCursor()
}

// ShowCursor shows the cursor at the last position set.
func (b *Backend) ShowCursor() {
	if b.cursorX >= 0 && b.cursorY >= 0 {
		b.screen.ShowCursor(b.cursorX, b.cursorY)
	}
}

// SetCursorPos sets the cursor position.
func (b *Backend) SetCursorPos(x, y int) {
	b.cursorX, b.cursorY = x, y
	b.screen.ShowCursor(x, y)
}

// CursorPos returns the last cursor position set, or (-1, -1).
func (b *Backend) CursorPos() (x, y int) {
	return b.cursorX, b.cursorY
}

// PollEvent blocks until an event is available.
// Events that have no terminal equivalent are skipped.
func (b *Backend) PollEvent() terminal.Event {
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if converted := convertEvent(ev); converted != nil {
			return converted
		}
	}
}

// PostEvent injects an event into the queue.
func (b *Backend) PostEvent(ev terminal.Event) error {
	tev := reverseConvertEvent(ev)
	if tev != nil {
		return b.screen.PostEvent(tev)
	}
	return nil
}

// Sync forces a full redraw.
func (b *Backend) Sync() {
	b.screen.Sync()
}

// convertStyle converts backend.Style to tcell.Style.
func convertStyle(s backend.Style) tcell.Style {
	fg, bg, attrs := s.Decompose()
	style := tcell.StyleDefault.
		Foreground(convertColor(fg)).
		Background(convertColor(bg))

	if attrs&backend.AttrBold != 0 {
		style = style.Bold(true)
	}
	if attrs&backend.AttrUnderline != 0 {
		style = style.Underline(true)
	}
	if attrs&backend.AttrReverse != 0 {
		style = style.Reverse(true)
	}

	return style
}

// convertColor converts backend.Color to tcell.Color.
func convertColor(c backend.Color) tcell.Color {
	if c == backend.ColorDefault {
		return tcell.ColorDefault
	}
	return tcell.PaletteColor(int(c))
}

// convertEvent converts a tcell event to terminal.Event.
func convertEvent(ev tcell.Event) terminal.Event {
	switch e := ev.(type) {
	case *tcell.EventKey:
		key := convertKey(e.Key())
		if key == terminal.KeyNone {
			return nil
		}
		ke := terminal.KeyEvent{Key: key}
		if key == terminal.KeyRune {
			ke.Rune = e.Rune()
		}
		return ke
	case *tcell.EventResize:
		w, h := e.Size()
		return terminal.ResizeEvent{Width: w, Height: h}
	default:
		return nil
	}
}

var keyMap = map[tcell.Key]terminal.Key{
	tcell.KeyRune:       terminal.KeyRune,
	tcell.KeyUp:         terminal.KeyUp,
	tcell.KeyDown:       terminal.KeyDown,
	tcell.KeyRight:      terminal.KeyRight,
	tcell.KeyLeft:       terminal.KeyLeft,
	tcell.KeyBackspace:  terminal.KeyBackspace,
	tcell.KeyBackspace2: terminal.KeyBackspace,
	tcell.KeyTab:        terminal.KeyTab,
	tcell.KeyEnter:      terminal.KeyEnter,
	tcell.KeyEscape:     terminal.KeyEscape,
	tcell.KeyCtrlC:      terminal.KeyCtrlC,
}

// convertKey converts tcell.Key to terminal.Key.
func convertKey(k tcell.Key) terminal.Key {
	if key, ok := keyMap[k]; ok {
		return key
	}
	return terminal.KeyNone
}

// reverseKey converts terminal.Key back to tcell.Key.
func reverseKey(k terminal.Key) (tcell.Key, bool) {
	switch k {
	case terminal.KeyRune:
		return tcell.KeyRune, true
	case terminal.KeyUp:
		return tcell.KeyUp, true
	case terminal.KeyDown:
		return tcell.KeyDown, true
	case terminal.KeyRight:
		return tcell.KeyRight, true
	case terminal.KeyLeft:
		return tcell.KeyLeft, true
	case terminal.KeyBackspace:
		return tcell.KeyBackspace2, true
	case terminal.KeyTab:
		return tcell.KeyTab, true
	case terminal.KeyEnter:
		return tcell.KeyEnter, true
	case terminal.KeyEscape:
		return tcell.KeyEscape, true
	case terminal.KeyCtrlC:
		return tcell.KeyCtrlC, true
	default:
		return 0, false
	}
}

// reverseConvertEvent converts terminal.Event to tcell.Event for PostEvent.
func reverseConvertEvent(ev terminal.Event) tcell.Event {
	switch e := ev.(type) {
	case terminal.KeyEvent:
		k, ok := reverseKey(e.Key)
		if !ok {
			return nil
		}
		return tcell.NewEventKey(k, e.Rune, tcell.ModNone)
	case terminal.ResizeEvent:
		return tcell.NewEventResize(e.Width, e.Height)
	default:
		return nil
	}
}

// Ensure Backend implements backend.Backend
var _ backend.Backend = (*Backend)(nil)

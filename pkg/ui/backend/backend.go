// Package backend defines the terminal backend interface for the widget engine.
// This abstraction allows swapping between tcell, raw ANSI and simulation
// backends, enabling golden-frame tests.
package backend

import "github.com/odvcencio/textgui/pkg/ui/terminal"

// Backend is the terminal abstraction layer.
// Implementations handle terminal I/O, input events, and screen rendering.
type Backend interface {
	// Init initializes the backend (enters alt screen, raw mode, etc).
	Init() error

	// Fini cleans up the backend (restores terminal state).
	Fini()

	// Size returns the current terminal dimensions.
	Size() (width, height int)

	// SetContent sets a cell at position (x, y) with the given rune and style.
	// The comb parameter contains combining characters (can be nil).
	SetContent(x, y int, mainc rune, comb []rune, style Style)

	// Show synchronizes the internal buffer to the terminal.
	// This is where actual output happens.
	Show()

	// Clear clears the screen.
	Clear()

	// HideCursor hides the terminal cursor.
	HideCursor()

	// ShowCursor shows the terminal cursor at its last position.
	ShowCursor()

	// SetCursorPos moves the cursor and makes it visible.
	SetCursorPos(x, y int)

	// PollEvent blocks until an event is available and returns it.
	// Returns nil if the backend is shutting down.
	PollEvent() terminal.Event

	// PostEvent injects an event into the event queue.
	PostEvent(ev terminal.Event) error

	// Sync forces a full redraw on next Show().
	Sync()
}

// Decoding is implemented by backends that decode raw terminal bytes
// themselves. Such backends handle Ctrl+C at the byte level, so the event
// loop must not translate KeyCtrlC events into interrupts a second time.
type Decoding interface {
	DecodesInput() bool
}

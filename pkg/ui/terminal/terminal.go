// Package terminal provides terminal event types used throughout the UI.
package terminal

import "fmt"

// Event represents a terminal input event.
type Event interface {
	eventMarker()
}

// KeyEvent represents a key press.
type KeyEvent struct {
	Key  Key
	Rune rune
}

func (KeyEvent) eventMarker() {}

// String renders the event the way the key tester prints it.
func (e KeyEvent) String() string {
	if e.Key == KeyRune {
		return fmt.Sprintf("%q", e.Rune)
	}
	return e.Key.String()
}

// IsNone reports whether the event is a timeout marker.
func (e KeyEvent) IsNone() bool {
	return e.Key == KeyNone
}

// ResizeEvent indicates terminal size changed.
type ResizeEvent struct {
	Width  int
	Height int
}

func (ResizeEvent) eventMarker() {}

// Key represents special keys.
type Key int

const (
	KeyNone Key = iota // No key; produced when a read times out
	KeyRune            // Regular character
	KeyEnter
	KeyBackspace
	KeyTab
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlC
)

var keyNames = map[Key]string{
	KeyNone:      "None",
	KeyRune:      "Rune",
	KeyEnter:     "Enter",
	KeyBackspace: "Backspace",
	KeyTab:       "Tab",
	KeyEscape:    "Escape",
	KeyUp:        "Up",
	KeyDown:      "Down",
	KeyLeft:      "Left",
	KeyRight:     "Right",
	KeyCtrlC:     "Ctrl+C",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// Printable reports whether the event carries a rune that can be inserted
// into a text field.
func (e KeyEvent) Printable() bool {
	return e.Key == KeyRune && e.Rune >= ' ' && e.Rune != 0x7f
}

package runtime

import (
	"github.com/odvcencio/textgui/pkg/logging"
)

// FocusManager keeps the ordered ring of focusable widgets and the
// currently focused one. Widgets join the ring in construction order and
// are never removed.
type FocusManager struct {
	widgets []Widget
	current int // Index of focused widget, -1 if none
	logger  *logging.Logger
}

func newFocusManager(logger *logging.Logger) *FocusManager {
	return &FocusManager{current: -1, logger: logger}
}

// register appends w. The first widget registered becomes current
// without being notified; the event loop notifies it on start.
func (f *FocusManager) register(w Widget) {
	f.widgets = append(f.widgets, w)
	if f.current == -1 {
		f.current = len(f.widgets) - 1
	}
}

// Current returns the focused widget, or nil.
func (f *FocusManager) Current() Widget {
	if f.current >= 0 && f.current < len(f.widgets) {
		return f.widgets[f.current]
	}
	return nil
}

// Widgets returns the focus ring in order.
func (f *FocusManager) Widgets() []Widget {
	return append([]Widget(nil), f.widgets...)
}

// Len returns the number of focusable widgets.
func (f *FocusManager) Len() int {
	return len(f.widgets)
}

// Move shifts focus by n positions around the ring, wrapping in both
// directions. Returns true if focus changed.
func (f *FocusManager) Move(n int) bool {
	if len(f.widgets) == 0 {
		return false
	}
	size := len(f.widgets)
	idx := ((f.current+n)%size + size) % size
	return f.focusIndex(idx)
}

// Focus moves focus to w. Returns true if focus changed.
func (f *FocusManager) Focus(w Widget) bool {
	for i, existing := range f.widgets {
		if existing == w {
			return f.focusIndex(i)
		}
	}
	return false
}

// focusIndex changes focus to the widget at index i. The old widget's
// OnFocusLoss completes before the new widget's OnFocus runs.
func (f *FocusManager) focusIndex(i int) bool {
	if i == f.current {
		return false
	}

	old := f.Current()
	f.current = i
	next := f.widgets[i]

	if old != nil {
		old.OnFocusLoss()
	}
	next.OnFocus()

	f.logger.Debug(logging.CategoryFocus, "focus_moved", "", map[string]any{
		"from": Name(old),
		"to":   Name(next),
	})
	return true
}

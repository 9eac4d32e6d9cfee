package runtime

import (
	"sync"

	tgerrors "github.com/odvcencio/textgui/pkg/errors"
	"github.com/odvcencio/textgui/pkg/logging"
)

// Tree owns the state shared by every widget of one UI: the id registry,
// the focus ring, the canvas and the logger.
type Tree struct {
	mu     sync.RWMutex
	ids    map[string]Widget
	focus  *FocusManager
	canvas *Canvas
	logger *logging.Logger
}

// NewTree creates an empty tree. logger may be nil.
func NewTree(logger *logging.Logger) *Tree {
	return &Tree{
		ids:    make(map[string]Widget),
		focus:  newFocusManager(logger),
		logger: logger,
	}
}

func (t *Tree) register(w Widget) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if id := w.ID(); id != "" {
		if _, dup := t.ids[id]; dup {
			return tgerrors.Newf(tgerrors.ErrCodeDuplicateID, "duplicate ID %q, IDs must be unique", id)
		}
		t.ids[id] = w
	}
	if w.CanFocus() {
		t.focus.register(w)
	}
	return nil
}

// Lookup returns the widget registered under id.
func (t *Tree) Lookup(id string) (Widget, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	w, ok := t.ids[id]
	return w, ok
}

// Focus returns the focus manager.
func (t *Tree) Focus() *FocusManager {
	return t.focus
}

// Attach sets the canvas widgets draw on.
func (t *Tree) Attach(c *Canvas) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.canvas = c
}

// Canvas returns the attached canvas, or nil.
func (t *Tree) Canvas() *Canvas {
	if t == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.canvas
}

// Logger returns the tree's logger, which may be nil.
func (t *Tree) Logger() *logging.Logger {
	if t == nil {
		return nil
	}
	return t.logger
}

// Package runtime provides the retained-mode widget runtime: geometry,
// the widget base with its layout rules, focus management, the canvas and
// the event loop.
package runtime

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	tgerrors "github.com/odvcencio/textgui/pkg/errors"
	"github.com/odvcencio/textgui/pkg/logging"
	"github.com/odvcencio/textgui/pkg/ui/terminal"
)

// Stretch is a widget's size policy, consumed by its parent's layout.
type Stretch int

const (
	// StretchFixed keeps the size the widget set for itself.
	StretchFixed Stretch = iota
	// StretchHorizontal takes the offered width and the minimum height.
	StretchHorizontal
	// StretchVertical takes the minimum width and the offered height.
	StretchVertical
	// StretchBoth takes everything offered.
	StretchBoth
)

func (s Stretch) String() string {
	switch s {
	case StretchFixed:
		return "fixed"
	case StretchHorizontal:
		return "horizontal"
	case StretchVertical:
		return "vertical"
	case StretchBoth:
		return "both"
	default:
		return fmt.Sprintf("Stretch(%d)", int(s))
	}
}

// Rigid reports whether a vertical list lays this policy out before
// distributing leftover height.
func (s Stretch) Rigid() bool {
	return s == StretchFixed || s == StretchHorizontal
}

// Widget is the interface all UI components implement. Concrete widgets
// embed Base, which supplies the defaults.
type Widget interface {
	ID() string
	Parent() Widget
	Children() []Widget
	Pos() Point
	Size() Point
	MinSize() Point
	Stretch() Stretch
	CanFocus() bool
	HasFocus() bool

	// SetSize assigns and returns the widget's size given the space
	// offered by its parent.
	SetSize(maxsize Point) (Point, error)

	// SetPos assigns the absolute position; containers position children.
	SetPos(pos Point)

	// Draw paints the widget (and its children) on the tree's canvas.
	Draw() error

	// Input handles a key event while the widget has focus.
	Input(ev terminal.KeyEvent)

	OnFocus()
	OnFocusLoss()

	base() *Base
}

// BaseConfig holds the attributes every widget declares.
type BaseConfig struct {
	ID       string
	MinSize  Point
	Stretch  Stretch
	CanFocus bool
}

// Base provides common functionality for widgets.
// Embed it and call Init from the widget's constructor.
type Base struct {
	tree     *Tree
	self     Widget
	id       string
	parent   Widget
	children []Widget

	pos     Point
	size    Point
	minsize Point
	stretch Stretch

	canFocus bool
	focused  bool
}

// Init wires the widget into tree: the id is registered, children are
// adopted and a focusable widget joins the focus ring. self must be the
// embedding widget.
func (b *Base) Init(tree *Tree, self Widget, cfg BaseConfig, children ...Widget) error {
	if tree == nil {
		return tgerrors.New(tgerrors.ErrCodeInvalidConfig, "widget requires a tree")
	}
	b.tree = tree
	b.self = self
	b.id = cfg.ID
	b.minsize = cfg.MinSize
	if b.minsize == (Point{}) {
		b.minsize = Pt(1, 1)
	}
	b.size = b.minsize
	b.stretch = cfg.Stretch
	b.canFocus = cfg.CanFocus

	for _, child := range children {
		if child == nil {
			return tgerrors.New(tgerrors.ErrCodeInvalidConfig, "nil child").
				WithContext("widget", Name(self))
		}
		if child.base().tree != tree {
			return tgerrors.New(tgerrors.ErrCodeInvalidConfig, "child belongs to another tree").
				WithContext("widget", Name(self)).
				WithContext("child", Name(child))
		}
	}

	if err := tree.register(self); err != nil {
		return err
	}

	for _, child := range children {
		child.base().parent = self
	}
	b.children = append([]Widget(nil), children...)
	return nil
}

func (b *Base) base() *Base { return b }

// ID returns the widget id, or "".
func (b *Base) ID() string { return b.id }

// Parent returns the containing widget, or nil for the root.
func (b *Base) Parent() Widget { return b.parent }

// Children returns the child widgets in order.
func (b *Base) Children() []Widget { return b.children }

// Pos returns the absolute position assigned by SetPos.
func (b *Base) Pos() Point { return b.pos }

// Size returns the size assigned by SetSize.
func (b *Base) Size() Point { return b.size }

// MinSize returns the declared minimum size.
func (b *Base) MinSize() Point { return b.minsize }

// Stretch returns the size policy.
func (b *Base) Stretch() Stretch { return b.stretch }

// CanFocus reports whether the widget participates in focus traversal.
func (b *Base) CanFocus() bool { return b.canFocus }

// HasFocus reports whether the widget currently has focus.
func (b *Base) HasFocus() bool { return b.focused }

// Self returns the widget that embeds b.
func (b *Base) Self() Widget { return b.self }

// Tree returns the tree the widget belongs to.
func (b *Base) Tree() *Tree { return b.tree }

// Canvas returns the canvas widgets draw on, or nil before the tree is
// attached to one.
func (b *Base) Canvas() *Canvas { return b.tree.Canvas() }

// Logger returns the tree's logger.
func (b *Base) Logger() *logging.Logger { return b.tree.Logger() }

// SetStretch replaces the size policy.
func (b *Base) SetStretch(s Stretch) { b.stretch = s }

// SetFixedSize sets the size kept by the fixed policy and raises the
// minimum size to match.
func (b *Base) SetFixedSize(size Point) {
	b.size = size
	b.minsize = size
}

// SetComputedSize stores a size a widget computed in its own SetSize.
func (b *Base) SetComputedSize(size Point) {
	b.size = size
}

// SetSize applies the widget's stretch policy.
func (b *Base) SetSize(maxsize Point) (Point, error) {
	if err := b.CheckFits(b.minsize, maxsize); err != nil {
		return b.size, err
	}

	switch b.stretch {
	case StretchBoth:
		b.size = maxsize
	case StretchHorizontal:
		b.size = Point{X: maxsize.X, Y: b.minsize.Y}
	case StretchVertical:
		b.size = Point{X: b.minsize.X, Y: maxsize.Y}
	case StretchFixed:
		if err := b.CheckFits(b.size, maxsize); err != nil {
			return b.size, err
		}
	default:
		return b.size, tgerrors.Newf(tgerrors.ErrCodeUnknownStretch, "unknown stretch policy %s", b.stretch).
			WithContext("widget", Name(b.self))
	}
	return b.size, nil
}

// CheckFits fails with NO_SPACE unless maxsize dominates-or-equals need.
func (b *Base) CheckFits(need, maxsize Point) error {
	if maxsize.DominatesOrEqual(need) {
		return nil
	}
	return tgerrors.Newf(tgerrors.ErrCodeNoSpace, "%s: min size: %s, available: %s", Name(b.self), need, maxsize).
		WithContext("widget", Name(b.self))
}

// SetPos stores the position.
func (b *Base) SetPos(pos Point) {
	b.pos = pos
}

// Draw draws the children in order.
func (b *Base) Draw() error {
	for _, child := range b.children {
		if err := child.Draw(); err != nil {
			return err
		}
	}
	return nil
}

// Clear blanks the widget's area.
func (b *Base) Clear() {
	if c := b.Canvas(); c != nil {
		c.Fill(RectAt(b.pos, b.size), ' ')
	}
}

// Input moves focus: Up goes back, Down, Tab and Enter go forward.
func (b *Base) Input(ev terminal.KeyEvent) {
	switch ev.Key {
	case terminal.KeyUp:
		b.tree.Focus().Move(-1)
	case terminal.KeyDown, terminal.KeyTab, terminal.KeyEnter:
		b.tree.Focus().Move(1)
	}
}

// OnFocus marks the widget focused.
func (b *Base) OnFocus() { b.focused = true }

// OnFocusLoss marks the widget unfocused.
func (b *Base) OnFocusLoss() { b.focused = false }

// Name renders a widget as "<Type@id>" for messages.
func Name(w Widget) string {
	if w == nil {
		return "<nil>"
	}
	typ := fmt.Sprintf("%T", w)
	typ = typ[strings.LastIndex(typ, ".")+1:]
	if id := w.ID(); id != "" {
		return fmt.Sprintf("<%s@%s>", typ, id)
	}
	return fmt.Sprintf("<%s@%p>", typ, w)
}

// Find searches the subtree rooted at root depth-first for id.
func Find(root Widget, id string) (Widget, bool) {
	if root == nil || id == "" {
		return nil, false
	}
	if root.ID() == id {
		return root, true
	}
	for _, child := range root.Children() {
		if w, ok := Find(child, id); ok {
			return w, true
		}
	}
	return nil, false
}

// TextWidth returns the display width of s in cells.
func TextWidth(s string) int {
	return runewidth.StringWidth(s)
}

// Truncate cuts s to at most width cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "")
}

package widgets

import (
	tgerrors "github.com/odvcencio/textgui/pkg/errors"
	"github.com/odvcencio/textgui/pkg/ui/backend"
	"github.com/odvcencio/textgui/pkg/ui/runtime"
)

// BorderConfig configures a Border.
type BorderConfig struct {
	ID    string
	Label string
	Style backend.Style
}

// Border frames exactly one child with box-drawing glyphs and an optional
// label on the top edge.
type Border struct {
	runtime.Base
	label string
	style backend.Style
}

// NewBorder wraps child. It fails unless exactly one child is given.
func NewBorder(tree *runtime.Tree, cfg BorderConfig, children ...runtime.Widget) (*Border, error) {
	if len(children) != 1 {
		return nil, tgerrors.Newf(tgerrors.ErrCodeInvalidConfig, "border fits only one child, got %d", len(children)).
			WithContext("id", cfg.ID)
	}
	if children[0] == nil {
		return nil, tgerrors.New(tgerrors.ErrCodeInvalidConfig, "nil child").WithContext("id", cfg.ID)
	}

	b := &Border{label: cfg.Label, style: cfg.Style}
	if b.style == (backend.Style{}) {
		b.style = backend.DefaultStyle()
	}
	err := b.Init(tree, b, runtime.BaseConfig{
		ID:      cfg.ID,
		Stretch: children[0].Stretch(),
	}, children...)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Child returns the framed widget.
func (b *Border) Child() runtime.Widget {
	return b.Children()[0]
}

// SetSize offers the child two cells less in each axis and adds the frame
// back, widening to fit the label.
func (b *Border) SetSize(maxsize runtime.Point) (runtime.Point, error) {
	child, err := b.Child().SetSize(maxsize.Sub(runtime.Pt(2, 2)))
	if err != nil {
		return b.Size(), err
	}
	size := runtime.Pt(max(child.X, runtime.TextWidth(b.label)), child.Y).Add(runtime.Pt(2, 2))
	if err := b.CheckFits(size, maxsize); err != nil {
		return b.Size(), err
	}
	b.SetComputedSize(size)
	return size, nil
}

// SetPos places the child inside the frame.
func (b *Border) SetPos(pos runtime.Point) {
	b.Base.SetPos(pos)
	b.Child().SetPos(pos.Add(runtime.Pt(1, 1)))
}

// Draw paints the frame, the label, then the child.
func (b *Border) Draw() error {
	if c := b.Canvas(); c != nil {
		c.Box(runtime.RectAt(b.Pos(), b.Size()), b.style)
		if b.label != "" {
			c.Print(b.Pos().Add(runtime.Pt(1, 0)), b.label, b.style)
		}
	}
	return b.Child().Draw()
}

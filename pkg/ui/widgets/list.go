package widgets

import (
	tgerrors "github.com/odvcencio/textgui/pkg/errors"
	"github.com/odvcencio/textgui/pkg/ui/runtime"
)

// ListConfig configures a VList or HList.
type ListConfig struct {
	ID      string
	Stretch runtime.Stretch
}

// VList stacks its children top to bottom.
type VList struct {
	runtime.Base
}

// NewVList creates a vertical list of children.
func NewVList(tree *runtime.Tree, cfg ListConfig, children ...runtime.Widget) (*VList, error) {
	l := &VList{}
	if err := l.Init(tree, l, runtime.BaseConfig{ID: cfg.ID, Stretch: cfg.Stretch}, children...); err != nil {
		return nil, err
	}
	return l, nil
}

// SetSize lays out rigid children first, each bounded by the height still
// unused, then splits what is left evenly between the flexible ones.
// The remainder of the split is dropped.
func (l *VList) SetSize(maxsize runtime.Point) (runtime.Point, error) {
	var rigid, flexible []runtime.Widget
	for _, child := range l.Children() {
		if child.Stretch().Rigid() {
			rigid = append(rigid, child)
		} else {
			flexible = append(flexible, child)
		}
	}

	var size runtime.Point
	place := func(child runtime.Widget, bound runtime.Point) error {
		got, err := child.SetSize(bound)
		if err != nil {
			return err
		}
		size.X = max(size.X, got.X)
		size.Y += got.Y
		return nil
	}

	for _, child := range rigid {
		if err := place(child, runtime.Pt(maxsize.X, maxsize.Y-size.Y)); err != nil {
			return l.Size(), err
		}
	}
	if len(flexible) > 0 {
		share := (maxsize.Y - size.Y) / len(flexible)
		for _, child := range flexible {
			if err := place(child, runtime.Pt(maxsize.X, share)); err != nil {
				return l.Size(), err
			}
		}
	}

	l.SetComputedSize(size)
	return size, nil
}

// SetPos positions the children one below the other.
func (l *VList) SetPos(pos runtime.Point) {
	l.Base.SetPos(pos)
	y := 0
	for _, child := range l.Children() {
		child.SetPos(pos.Add(runtime.Pt(0, y)))
		y += child.Size().Y
	}
}

// HList places its children side by side in equal columns.
type HList struct {
	runtime.Base
}

// NewHList creates a horizontal list. At least one child is required.
func NewHList(tree *runtime.Tree, cfg ListConfig, children ...runtime.Widget) (*HList, error) {
	if len(children) == 0 {
		return nil, tgerrors.New(tgerrors.ErrCodeInvalidConfig, "hlist needs at least one child").
			WithContext("id", cfg.ID)
	}
	l := &HList{}
	if err := l.Init(tree, l, runtime.BaseConfig{ID: cfg.ID, Stretch: cfg.Stretch}, children...); err != nil {
		return nil, err
	}
	return l, nil
}

// SetSize offers every child the same column width whatever its stretch
// policy. The list takes the full width and its tallest child's height.
func (l *HList) SetSize(maxsize runtime.Point) (runtime.Point, error) {
	children := l.Children()
	column := runtime.Pt(maxsize.X/len(children), maxsize.Y)

	height := 0
	for _, child := range children {
		got, err := child.SetSize(column)
		if err != nil {
			return l.Size(), err
		}
		height = max(height, got.Y)
	}

	size := runtime.Pt(maxsize.X, height)
	l.SetComputedSize(size)
	return size, nil
}

// SetPos positions child i at the start of column i.
func (l *HList) SetPos(pos runtime.Point) {
	l.Base.SetPos(pos)
	children := l.Children()
	column := l.Size().X / len(children)
	for i, child := range children {
		child.SetPos(pos.Add(runtime.Pt(column*i, 0)))
	}
}

package runtime

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tgerrors "github.com/odvcencio/textgui/pkg/errors"
	"github.com/odvcencio/textgui/pkg/ui/terminal"
)

func TestSetSizePolicies(t *testing.T) {
	tests := []struct {
		stretch Stretch
		want    Point
	}{
		{StretchFixed, Pt(3, 2)},
		{StretchHorizontal, Pt(10, 2)},
		{StretchVertical, Pt(3, 5)},
		{StretchBoth, Pt(10, 5)},
	}

	for _, tt := range tests {
		t.Run(tt.stretch.String(), func(t *testing.T) {
			w := newProbe(t, NewTree(nil), BaseConfig{MinSize: Pt(3, 2), Stretch: tt.stretch})

			got, err := w.SetSize(Pt(10, 5))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want, w.Size())

			again, err := w.SetSize(Pt(10, 5))
			require.NoError(t, err)
			assert.Equal(t, got, again, "layout must be idempotent")
		})
	}
}

func TestSetSizeExactFit(t *testing.T) {
	w := newProbe(t, NewTree(nil), BaseConfig{MinSize: Pt(5, 5), Stretch: StretchBoth})

	got, err := w.SetSize(Pt(5, 5))
	require.NoError(t, err)
	assert.Equal(t, Pt(5, 5), got)
}

func TestSetSizeNoSpace(t *testing.T) {
	tests := []struct {
		name string
		max  Point
	}{
		{"too narrow", Pt(4, 10)},
		{"too short", Pt(10, 4)},
		{"both", Pt(1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newProbe(t, NewTree(nil), BaseConfig{ID: "pane", MinSize: Pt(5, 5), Stretch: StretchBoth})

			_, err := w.SetSize(tt.max)
			require.Error(t, err)
			assert.True(t, tgerrors.IsCode(err, tgerrors.ErrCodeNoSpace))
			assert.Contains(t, err.Error(), "<probe@pane>")
			assert.Contains(t, err.Error(), "min size: Point(5, 5)")
		})
	}
}

func TestSetSizeFixedMustFit(t *testing.T) {
	w := newProbe(t, NewTree(nil), BaseConfig{})
	w.SetFixedSize(Pt(8, 1))
	assert.Equal(t, Pt(8, 1), w.MinSize())

	_, err := w.SetSize(Pt(5, 5))
	assert.True(t, tgerrors.IsCode(err, tgerrors.ErrCodeNoSpace))

	got, err := w.SetSize(Pt(8, 3))
	require.NoError(t, err)
	assert.Equal(t, Pt(8, 1), got)
}

func TestSetSizeUnknownStretch(t *testing.T) {
	w := newProbe(t, NewTree(nil), BaseConfig{Stretch: Stretch(42)})

	_, err := w.SetSize(Pt(10, 10))
	require.Error(t, err)
	assert.True(t, tgerrors.IsCode(err, tgerrors.ErrCodeUnknownStretch))
	assert.Equal(t, "Stretch(42)", Stretch(42).String())
}

func TestDefaultMinSize(t *testing.T) {
	w := newProbe(t, NewTree(nil), BaseConfig{})

	assert.Equal(t, Pt(1, 1), w.MinSize())
	assert.Equal(t, Pt(1, 1), w.Size())
	assert.Equal(t, StretchFixed, w.Stretch())
}

func TestStretchRigid(t *testing.T) {
	assert.True(t, StretchFixed.Rigid())
	assert.True(t, StretchHorizontal.Rigid())
	assert.False(t, StretchVertical.Rigid())
	assert.False(t, StretchBoth.Rigid())
}

func TestDuplicateID(t *testing.T) {
	tree := NewTree(nil)
	newProbe(t, tree, BaseConfig{ID: "same"})

	dup := &probe{}
	err := dup.Init(tree, dup, BaseConfig{ID: "same"})
	require.Error(t, err)
	assert.True(t, tgerrors.IsCode(err, tgerrors.ErrCodeDuplicateID))

	// Anonymous widgets never collide.
	newProbe(t, tree, BaseConfig{})
	newProbe(t, tree, BaseConfig{})
}

func TestInitValidatesChildren(t *testing.T) {
	tree := NewTree(nil)

	nilChild := &probe{}
	err := nilChild.Init(tree, nilChild, BaseConfig{}, nil)
	assert.True(t, tgerrors.IsCode(err, tgerrors.ErrCodeInvalidConfig))

	foreign := newProbe(t, NewTree(nil), BaseConfig{})
	parent := &probe{}
	err = parent.Init(tree, parent, BaseConfig{ID: "parent"}, foreign)
	assert.True(t, tgerrors.IsCode(err, tgerrors.ErrCodeInvalidConfig))
	_, registered := tree.Lookup("parent")
	assert.False(t, registered, "a rejected widget must not be registered")

	noTree := &probe{}
	err = noTree.Init(nil, noTree, BaseConfig{})
	assert.True(t, tgerrors.IsCode(err, tgerrors.ErrCodeInvalidConfig))
}

func TestFindAndLookup(t *testing.T) {
	tree := NewTree(nil)
	leaf := newProbe(t, tree, BaseConfig{ID: "leaf"})
	other := newProbe(t, tree, BaseConfig{})
	mid := newProbe(t, tree, BaseConfig{ID: "mid"}, leaf, other)
	root := newProbe(t, tree, BaseConfig{ID: "root"}, mid)

	assert.Same(t, root, mid.Parent())
	assert.Same(t, mid, leaf.Parent())
	assert.Nil(t, root.Parent())

	w, ok := Find(root, "leaf")
	require.True(t, ok)
	assert.Same(t, leaf, w)

	w, ok = Find(mid, "root")
	assert.False(t, ok, "Find only searches the subtree")
	assert.Nil(t, w)

	_, ok = Find(root, "")
	assert.False(t, ok)

	w, ok = tree.Lookup("root")
	require.True(t, ok)
	assert.Same(t, root, w)
	_, ok = tree.Lookup("missing")
	assert.False(t, ok)
}

func TestBaseDrawDrawsChildren(t *testing.T) {
	tree := NewTree(nil)
	a := newProbe(t, tree, BaseConfig{})
	b := newProbe(t, tree, BaseConfig{})
	root := newProbe(t, tree, BaseConfig{}, a, b)

	require.NoError(t, root.Draw())
	assert.Equal(t, 1, root.draws)
	assert.Equal(t, 1, a.draws)
	assert.Equal(t, 1, b.draws)
}

func TestBaseInputNavigatesFocus(t *testing.T) {
	tree := NewTree(nil)
	a := newProbe(t, tree, BaseConfig{ID: "a", CanFocus: true})
	b := newProbe(t, tree, BaseConfig{ID: "b", CanFocus: true})
	c := newProbe(t, tree, BaseConfig{ID: "c", CanFocus: true})
	fm := tree.Focus()

	steps := []struct {
		key  terminal.Key
		want Widget
	}{
		{terminal.KeyDown, b},
		{terminal.KeyTab, c},
		{terminal.KeyEnter, a},
		{terminal.KeyUp, c},
		{terminal.KeyLeft, c},
		{terminal.KeyRune, c},
	}
	for _, step := range steps {
		fm.Current().Input(terminal.KeyEvent{Key: step.key, Rune: 'x'})
		assert.Same(t, step.want, fm.Current(), "after %s", step.key)
	}
}

func TestName(t *testing.T) {
	tree := NewTree(nil)
	named := newProbe(t, tree, BaseConfig{ID: "x"})
	anon := newProbe(t, tree, BaseConfig{})

	assert.Equal(t, "<probe@x>", Name(named))
	assert.True(t, strings.HasPrefix(Name(anon), "<probe@0x"))
	assert.Equal(t, "<nil>", Name(nil))
}

func TestTextWidthAndTruncate(t *testing.T) {
	assert.Equal(t, 5, TextWidth("hello"))
	assert.Equal(t, 4, TextWidth("日本"))
	assert.Equal(t, "hel", Truncate("hello", 3))
	assert.Equal(t, "日", Truncate("日本", 3))
	assert.Equal(t, "", Truncate("hello", 0))
}

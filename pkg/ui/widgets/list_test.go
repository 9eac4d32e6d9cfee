package widgets

import (
	"testing"

	tgerrors "github.com/odvcencio/textgui/pkg/errors"
	"github.com/odvcencio/textgui/pkg/ui/runtime"
)

func TestVListLayout(t *testing.T) {
	tree := runtime.NewTree(nil)
	label := must[*Label](t)(NewLabel(tree, LabelConfig{Text: "abc"}))
	button := must[*Button](t)(NewButton(tree, ButtonConfig{Label: "OK"}))
	pane := must[*LogPane](t)(NewLogPane(tree, LogPaneConfig{}))
	t.Cleanup(func() { pane.Close() })
	input := must[*Input](t)(NewInput(tree, InputConfig{}))
	list := must[*VList](t)(NewVList(tree, ListConfig{}, label, button, pane, input))

	size, err := list.SetSize(runtime.Pt(40, 20))
	if err != nil {
		t.Fatalf("SetSize failed: %v", err)
	}
	list.SetPos(runtime.Pt(2, 3))

	tests := []struct {
		name string
		w    runtime.Widget
		size runtime.Point
		pos  runtime.Point
	}{
		{"label", label, runtime.Pt(3, 1), runtime.Pt(2, 3)},
		{"button", button, runtime.Pt(40, 1), runtime.Pt(2, 4)},
		{"pane", pane, runtime.Pt(40, 17), runtime.Pt(2, 5)},
		{"input", input, runtime.Pt(40, 1), runtime.Pt(2, 22)},
	}

	sumY, maxX := 0, 0
	for _, tt := range tests {
		if got := tt.w.Size(); got != tt.size {
			t.Errorf("%s size = %s, want %s", tt.name, got, tt.size)
		}
		if got := tt.w.Pos(); got != tt.pos {
			t.Errorf("%s pos = %s, want %s", tt.name, got, tt.pos)
		}
		sumY += tt.w.Size().Y
		maxX = max(maxX, tt.w.Size().X)
	}
	if size != runtime.Pt(maxX, sumY) {
		t.Errorf("list size = %s, want Point(%d, %d)", size, maxX, sumY)
	}

	again, err := list.SetSize(runtime.Pt(40, 20))
	if err != nil || again != size {
		t.Errorf("second SetSize = %s, %v; want %s", again, err, size)
	}
}

func TestVListDropsRemainder(t *testing.T) {
	tree := runtime.NewTree(nil)
	label := must[*Label](t)(NewLabel(tree, LabelConfig{Text: "x"}))
	a := must[*LogPane](t)(NewLogPane(tree, LogPaneConfig{}))
	b := must[*LogPane](t)(NewLogPane(tree, LogPaneConfig{}))
	t.Cleanup(func() { a.Close(); b.Close() })
	list := must[*VList](t)(NewVList(tree, ListConfig{}, a, label, b))

	size, err := list.SetSize(runtime.Pt(20, 12))
	if err != nil {
		t.Fatalf("SetSize failed: %v", err)
	}
	// 11 rows left after the label, 5 each.
	if size != runtime.Pt(20, 11) {
		t.Errorf("size = %s, want Point(20, 11)", size)
	}
	if a.Size() != runtime.Pt(20, 5) || b.Size() != runtime.Pt(20, 5) {
		t.Errorf("flexible sizes = %s, %s; want Point(20, 5)", a.Size(), b.Size())
	}

	list.SetPos(runtime.Point{})
	if label.Pos() != runtime.Pt(0, 5) || b.Pos() != runtime.Pt(0, 6) {
		t.Errorf("positions = %s, %s; children must stack in declaration order", label.Pos(), b.Pos())
	}
}

func TestVListNoSpace(t *testing.T) {
	tests := []struct {
		name  string
		build func(tree *runtime.Tree) []runtime.Widget
	}{
		{"rigid too wide", func(tree *runtime.Tree) []runtime.Widget {
			return []runtime.Widget{must[*Label](t)(NewLabel(tree, LabelConfig{Text: "far too wide for it"}))}
		}},
		{"flexible share too small", func(tree *runtime.Tree) []runtime.Widget {
			pane := must[*LogPane](t)(NewLogPane(tree, LogPaneConfig{}))
			t.Cleanup(func() { pane.Close() })
			return []runtime.Widget{must[*Button](t)(NewButton(tree, ButtonConfig{})), pane}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := runtime.NewTree(nil)
			list := must[*VList](t)(NewVList(tree, ListConfig{}, tt.build(tree)...))

			_, err := list.SetSize(runtime.Pt(10, 5))
			if !tgerrors.IsCode(err, tgerrors.ErrCodeNoSpace) {
				t.Errorf("SetSize error = %v, want NO_SPACE", err)
			}
		})
	}
}

// HList splits width evenly whatever the children's stretch policies,
// unlike VList, which lets rigid children keep their own height.
func TestHListIgnoresStretch(t *testing.T) {
	tree := runtime.NewTree(nil)
	label := must[*Label](t)(NewLabel(tree, LabelConfig{Text: "ab"}))
	button := must[*Button](t)(NewButton(tree, ButtonConfig{Label: "Quit"}))
	pane := must[*LogPane](t)(NewLogPane(tree, LogPaneConfig{}))
	t.Cleanup(func() { pane.Close() })
	list := must[*HList](t)(NewHList(tree, ListConfig{}, label, button, pane))

	size, err := list.SetSize(runtime.Pt(31, 8))
	if err != nil {
		t.Fatalf("SetSize failed: %v", err)
	}
	list.SetPos(runtime.Pt(1, 1))

	if size != runtime.Pt(31, 8) {
		t.Errorf("size = %s, want Point(31, 8)", size)
	}
	if label.Size() != runtime.Pt(2, 1) {
		t.Errorf("fixed label size = %s, want Point(2, 1)", label.Size())
	}
	if button.Size() != runtime.Pt(10, 1) {
		t.Errorf("button size = %s, want a 10 cell column", button.Size())
	}
	if pane.Size() != runtime.Pt(10, 8) {
		t.Errorf("pane size = %s, want Point(10, 8)", pane.Size())
	}
	for i, w := range []runtime.Widget{label, button, pane} {
		if want := runtime.Pt(1+10*i, 1); w.Pos() != want {
			t.Errorf("child %d pos = %s, want %s", i, w.Pos(), want)
		}
	}
}

func TestHListRequiresChildren(t *testing.T) {
	_, err := NewHList(runtime.NewTree(nil), ListConfig{ID: "row"})
	if !tgerrors.IsCode(err, tgerrors.ErrCodeInvalidConfig) {
		t.Errorf("NewHList() error = %v, want INVALID_CONFIG", err)
	}
}

func TestHListChildTooWide(t *testing.T) {
	tree := runtime.NewTree(nil)
	a := must[*Button](t)(NewButton(tree, ButtonConfig{Label: "Cancel"}))
	b := must[*Button](t)(NewButton(tree, ButtonConfig{Label: "OK"}))
	list := must[*HList](t)(NewHList(tree, ListConfig{}, a, b))

	_, err := list.SetSize(runtime.Pt(12, 1))
	if !tgerrors.IsCode(err, tgerrors.ErrCodeNoSpace) {
		t.Errorf("SetSize error = %v, want NO_SPACE", err)
	}
}

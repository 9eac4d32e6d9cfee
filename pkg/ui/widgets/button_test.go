package widgets

import (
	"testing"

	"github.com/odvcencio/textgui/pkg/ui/runtime"
	"github.com/odvcencio/textgui/pkg/ui/terminal"
)

func TestButtonFocusRendering(t *testing.T) {
	tree := runtime.NewTree(nil)
	ok := must[*Button](t)(NewButton(tree, ButtonConfig{Label: "OK"}))
	quit := must[*Button](t)(NewButton(tree, ButtonConfig{Label: "Quit"}))
	row := must[*HList](t)(NewHList(tree, ListConfig{}, ok, quit))
	be, canvas := mount(t, tree, row, 20, 1)

	tree.Focus().Current().OnFocus()
	if got := be.CaptureLines()[0]; got != "█OK█       Quit     " {
		t.Errorf("row = %q", got)
	}
	if pos, visible := canvas.Cursor(); pos != ok.Pos() || visible {
		t.Errorf("cursor = %s visible=%v, want hidden at the button", pos, visible)
	}

	ok.Input(key(terminal.KeyDown))
	if got := be.CaptureLines()[0]; got != " OK       █Quit█    " {
		t.Errorf("row after focus move = %q", got)
	}
}

func TestButtonInput(t *testing.T) {
	tree := runtime.NewTree(nil)
	clicks := 0
	a := must[*Button](t)(NewButton(tree, ButtonConfig{OnClick: func() { clicks++ }}))
	b := must[*Button](t)(NewButton(tree, ButtonConfig{}))

	if a.Label() != DefaultButtonLabel || a.MinSize() != runtime.Pt(5, 1) {
		t.Errorf("default button: label %q min %s", a.Label(), a.MinSize())
	}

	a.Input(key(terminal.KeyEnter))
	a.Input(runeKey('x'))
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
	if tree.Focus().Current() != runtime.Widget(a) {
		t.Error("Enter and plain keys must not move focus")
	}

	a.Input(key(terminal.KeyTab))
	if tree.Focus().Current() != runtime.Widget(b) {
		t.Error("Tab must move focus")
	}

	b.Click()
	if clicks != 1 {
		t.Error("a button without OnClick must do nothing")
	}
}

func TestButtonFixedStretch(t *testing.T) {
	tree := runtime.NewTree(nil)
	b := must[*Button](t)(NewButton(tree, ButtonConfig{Label: "OK"}))
	b.SetStretch(runtime.StretchFixed)

	got, err := b.SetSize(runtime.Pt(40, 10))
	if err != nil || got != runtime.Pt(4, 1) {
		t.Errorf("SetSize = %s, %v; want Point(4, 1)", got, err)
	}
}

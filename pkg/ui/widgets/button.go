package widgets

import (
	"github.com/odvcencio/textgui/pkg/ui/backend"
	"github.com/odvcencio/textgui/pkg/ui/runtime"
	"github.com/odvcencio/textgui/pkg/ui/terminal"
)

// DefaultButtonLabel is used when ButtonConfig.Label is empty.
const DefaultButtonLabel = "OK!"

// ButtonConfig configures a Button.
type ButtonConfig struct {
	ID      string
	Label   string
	OnClick func()
	Style   backend.Style
}

// Button is a focusable label that fires OnClick on Enter. It stretches
// horizontally by default; call SetStretch(runtime.StretchFixed) to keep
// it at its label width.
type Button struct {
	runtime.Base
	label   string
	onClick func()
	style   backend.Style
}

// NewButton creates a button.
func NewButton(tree *runtime.Tree, cfg ButtonConfig) (*Button, error) {
	b := &Button{label: cfg.Label, onClick: cfg.OnClick, style: cfg.Style}
	if b.label == "" {
		b.label = DefaultButtonLabel
	}
	if b.style == (backend.Style{}) {
		b.style = backend.DefaultStyle()
	}
	size := runtime.Pt(runtime.TextWidth(b.label)+2, 1)
	err := b.Init(tree, b, runtime.BaseConfig{
		ID:       cfg.ID,
		MinSize:  size,
		Stretch:  runtime.StretchHorizontal,
		CanFocus: true,
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Label returns the button text.
func (b *Button) Label() string {
	return b.label
}

// Click invokes the OnClick callback, if any.
func (b *Button) Click() {
	if b.onClick != nil {
		b.onClick()
	}
}

// Input clicks on Enter and passes navigation keys to the focus ring.
func (b *Button) Input(ev terminal.KeyEvent) {
	if ev.Key == terminal.KeyEnter {
		b.Click()
		return
	}
	b.Base.Input(ev)
}

// OnFocus redraws the button highlighted and parks the hidden cursor on it.
func (b *Button) OnFocus() {
	b.Base.OnFocus()
	c := b.Canvas()
	if c == nil {
		return
	}
	if err := c.SetCursor(b.Pos()); err != nil {
		reportDraw(b, b.Logger(), err)
	}
	reportDraw(b, b.Logger(), b.Draw())
	c.HideCursor()
}

// OnFocusLoss redraws the button plain.
func (b *Button) OnFocusLoss() {
	b.Base.OnFocusLoss()
	reportDraw(b, b.Logger(), b.Draw())
}

// Draw prints "█label█" when focused and " label " otherwise.
func (b *Button) Draw() error {
	c := b.Canvas()
	if c == nil {
		return nil
	}
	text := " " + b.label + " "
	if b.HasFocus() {
		text = "█" + b.label + "█"
	}
	c.Print(b.Pos(), runtime.Truncate(text, b.Size().X), b.style)
	return nil
}

package widgets

import (
	"github.com/mattn/go-runewidth"

	"github.com/odvcencio/textgui/pkg/ui/backend"
	"github.com/odvcencio/textgui/pkg/ui/runtime"
	"github.com/odvcencio/textgui/pkg/ui/terminal"
)

// InputConfig configures an Input.
type InputConfig struct {
	ID    string
	Text  string
	Style backend.Style
}

// textField holds the editing behavior shared by Input and CmdInput.
type textField struct {
	runtime.Base
	text  []rune
	style backend.Style
}

func (f *textField) init(tree *runtime.Tree, self runtime.Widget, cfg InputConfig) error {
	f.text = []rune(cfg.Text)
	f.style = cfg.Style
	if f.style == (backend.Style{}) {
		f.style = backend.DefaultStyle()
	}
	return f.Init(tree, self, runtime.BaseConfig{
		ID:       cfg.ID,
		MinSize:  runtime.Pt(5, 1),
		Stretch:  runtime.StretchHorizontal,
		CanFocus: true,
	})
}

// Text returns the current text.
func (f *textField) Text() string {
	return string(f.text)
}

// SetText replaces the text and redraws.
func (f *textField) SetText(text string) error {
	f.text = []rune(text)
	return f.Draw()
}

// edit applies a key. Arrow keys move focus; Enter and other control
// keys are ignored. A rune is appended only if it fits in the field.
func (f *textField) edit(ev terminal.KeyEvent) {
	switch {
	case ev.Key == terminal.KeyUp, ev.Key == terminal.KeyDown,
		ev.Key == terminal.KeyLeft, ev.Key == terminal.KeyRight:
		f.Base.Input(ev)
	case ev.Key == terminal.KeyBackspace:
		if len(f.text) > 0 {
			f.text = f.text[:len(f.text)-1]
			f.redraw()
		}
	case ev.Printable():
		if runtime.TextWidth(string(f.text))+runewidth.RuneWidth(ev.Rune) <= f.Size().X {
			f.text = append(f.text, ev.Rune)
			f.redraw()
		}
	}
}

// OnFocus redraws, which places the cursor after the text.
func (f *textField) OnFocus() {
	f.Base.OnFocus()
	f.redraw()
}

// Draw blanks the field and prints the text with the cursor after it.
func (f *textField) Draw() error {
	c := f.Canvas()
	if c == nil {
		return nil
	}
	c.Fill(runtime.RectAt(f.Pos(), runtime.Pt(f.Size().X, 1)), ' ')
	return c.PrintCursor(f.Pos(), runtime.Truncate(string(f.text), f.Size().X), f.style)
}

func (f *textField) redraw() {
	reportDraw(f.Self(), f.Logger(), f.Draw())
}

// Input is a single-line text field. It stretches horizontally and grows
// its text until it is as wide as the field.
type Input struct {
	textField
}

// NewInput creates a text input.
func NewInput(tree *runtime.Tree, cfg InputConfig) (*Input, error) {
	in := &Input{}
	if err := in.init(tree, in, cfg); err != nil {
		return nil, err
	}
	return in, nil
}

// Input edits the text.
func (in *Input) Input(ev terminal.KeyEvent) {
	in.edit(ev)
}

// CmdInputConfig configures a CmdInput.
type CmdInputConfig struct {
	InputConfig
	OnSubmit func(text string)
}

// CmdInput is an Input that submits its text on Enter and starts over.
type CmdInput struct {
	textField
	onSubmit func(string)
}

// NewCmdInput creates a command input.
func NewCmdInput(tree *runtime.Tree, cfg CmdInputConfig) (*CmdInput, error) {
	c := &CmdInput{onSubmit: cfg.OnSubmit}
	if err := c.init(tree, c, cfg.InputConfig); err != nil {
		return nil, err
	}
	return c, nil
}

// Input submits on Enter and edits otherwise.
func (c *CmdInput) Input(ev terminal.KeyEvent) {
	if ev.Key != terminal.KeyEnter {
		c.edit(ev)
		return
	}
	if c.onSubmit != nil {
		c.onSubmit(c.Text())
	}
	c.text = c.text[:0]
	c.redraw()
}

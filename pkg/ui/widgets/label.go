package widgets

import (
	"github.com/odvcencio/textgui/pkg/ui/backend"
	"github.com/odvcencio/textgui/pkg/ui/runtime"
)

// LabelConfig configures a Label.
type LabelConfig struct {
	ID    string
	Text  string
	Style backend.Style
}

// Label is a single line of static text sized to its initial text.
type Label struct {
	runtime.Base
	text  string
	style backend.Style
}

// NewLabel creates a label.
func NewLabel(tree *runtime.Tree, cfg LabelConfig) (*Label, error) {
	l := &Label{text: cfg.Text, style: cfg.Style}
	if l.style == (backend.Style{}) {
		l.style = backend.DefaultStyle()
	}
	if err := l.Init(tree, l, runtime.BaseConfig{ID: cfg.ID}); err != nil {
		return nil, err
	}
	l.SetFixedSize(runtime.Pt(max(runtime.TextWidth(cfg.Text), 1), 1))
	return l, nil
}

// Text returns the current text.
func (l *Label) Text() string {
	return l.text
}

// SetText replaces the text and redraws. The old text is cleared first
// when the new one is shorter; text wider than the label is clipped.
func (l *Label) SetText(text string) error {
	if runtime.TextWidth(text) < runtime.TextWidth(l.text) {
		l.Clear()
	}
	l.text = runtime.Truncate(text, l.Size().X)
	return l.Draw()
}

// Draw prints the text.
func (l *Label) Draw() error {
	if c := l.Canvas(); c != nil {
		c.Print(l.Pos(), runtime.Truncate(l.text, l.Size().X), l.style)
	}
	return nil
}

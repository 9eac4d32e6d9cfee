package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/odvcencio/textgui/pkg/ui/backend/sim"
	"github.com/odvcencio/textgui/pkg/ui/terminal"
)

// probe is a minimal widget that records what the runtime does to it.
type probe struct {
	Base
	draws  int
	inputs []terminal.KeyEvent
	trace  *[]string

	// keys, when set, receives every input event.
	keys chan terminal.KeyEvent
}

func newProbe(t *testing.T, tree *Tree, cfg BaseConfig, children ...Widget) *probe {
	t.Helper()
	p := &probe{}
	require.NoError(t, p.Init(tree, p, cfg, children...))
	return p
}

func (p *probe) Draw() error {
	p.draws++
	return p.Base.Draw()
}

func (p *probe) Input(ev terminal.KeyEvent) {
	p.inputs = append(p.inputs, ev)
	if p.keys != nil {
		p.keys <- ev
	}
	p.Base.Input(ev)
}

func (p *probe) OnFocus() {
	p.Base.OnFocus()
	if p.trace != nil {
		*p.trace = append(*p.trace, "gain "+p.ID())
	}
}

func (p *probe) OnFocusLoss() {
	p.Base.OnFocusLoss()
	if p.trace != nil {
		*p.trace = append(*p.trace, "loss "+p.ID())
	}
}

func newSim(t *testing.T, w, h int) *sim.Backend {
	t.Helper()
	be := sim.New(w, h)
	require.NoError(t, be.Init())
	t.Cleanup(be.Fini)
	return be
}

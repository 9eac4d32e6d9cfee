package widgets

import (
	"context"
	"testing"
	"time"

	"github.com/odvcencio/textgui/pkg/ui/backend/sim"
	"github.com/odvcencio/textgui/pkg/ui/runtime"
	"github.com/odvcencio/textgui/pkg/ui/terminal"
)

// must fails the test on a construction error.
func must[W any](t *testing.T) func(W, error) W {
	return func(w W, err error) W {
		t.Helper()
		if err != nil {
			t.Fatalf("construction failed: %v", err)
		}
		return w
	}
}

// mount lays root out on a fresh w x h simulation screen and draws it.
func mount(t *testing.T, tree *runtime.Tree, root runtime.Widget, w, h int) (*sim.Backend, *runtime.Canvas) {
	t.Helper()
	be := sim.New(w, h)
	if err := be.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(be.Fini)

	canvas := runtime.NewCanvas(be, nil)
	tree.Attach(canvas)
	if _, err := root.SetSize(canvas.Size()); err != nil {
		t.Fatalf("SetSize failed: %v", err)
	}
	root.SetPos(runtime.Point{})
	if err := root.Draw(); err != nil {
		t.Fatalf("Draw failed: %v", err)
	}
	return be, canvas
}

func TestEndToEndLayout(t *testing.T) {
	tree := runtime.NewTree(nil)
	button := must[*Button](t)(NewButton(tree, ButtonConfig{ID: "ok", Label: "OK"}))
	input := must[*Input](t)(NewInput(tree, InputConfig{ID: "input"}))
	root := must[*VList](t)(NewVList(tree, ListConfig{}, button, input))

	be := sim.New(40, 10)
	app := runtime.NewApp(runtime.AppConfig{Backend: be, Root: root, Clear: true})
	if err := app.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(app.Fini)

	if got := button.Size(); got != runtime.Pt(40, 1) {
		t.Errorf("button size = %s, want Point(40, 1)", got)
	}
	if got := button.Pos(); got != runtime.Pt(0, 0) {
		t.Errorf("button pos = %s, want Point(0, 0)", got)
	}
	if got := input.Size(); got != runtime.Pt(40, 1) {
		t.Errorf("input size = %s, want Point(40, 1)", got)
	}
	if got := input.Pos(); got != runtime.Pt(0, 1) {
		t.Errorf("input pos = %s, want Point(0, 1)", got)
	}
	if got := root.Size(); got != runtime.Pt(40, 2) {
		t.Errorf("root size = %s, want Point(40, 2)", got)
	}

	if x, y := be.FindText("█OK█"); x != 0 || y != 0 {
		t.Errorf("focused button drawn at (%d, %d), want (0, 0)", x, y)
	}
}

func TestEndToEndTyping(t *testing.T) {
	tree := runtime.NewTree(nil)
	submitted := make(chan string, 1)
	button := must[*Button](t)(NewButton(tree, ButtonConfig{Label: "Go"}))
	cmd := must[*CmdInput](t)(NewCmdInput(tree, CmdInputConfig{
		OnSubmit: func(text string) { submitted <- text },
	}))
	root := must[*VList](t)(NewVList(tree, ListConfig{}, button, cmd))

	be := sim.New(20, 4)
	app := runtime.NewApp(runtime.AppConfig{Backend: be, Root: root})
	if err := app.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(app.Fini)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go app.Run(ctx)

	if err := be.InjectKey(terminal.KeyDown, 0); err != nil {
		t.Fatal(err)
	}
	if err := be.InjectKeyString("ls"); err != nil {
		t.Fatal(err)
	}
	if err := be.InjectKey(terminal.KeyEnter, 0); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-submitted:
		if got != "ls" {
			t.Errorf("submitted %q, want %q", got, "ls")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("command was not submitted")
	}

	// Focus left the button, so it is drawn plain.
	if !be.ContainsText(" Go ") {
		t.Errorf("button not redrawn unfocused:\n%s", be.Capture())
	}
}

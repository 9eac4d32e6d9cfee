package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/odvcencio/textgui/pkg/config"
	"github.com/odvcencio/textgui/pkg/logging"
	"github.com/odvcencio/textgui/pkg/ui/runtime"
	"github.com/odvcencio/textgui/pkg/ui/widgets"
)

const demoTick = 200 * time.Millisecond

func newDemoCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the interactive widget demo",
		Long: `Shows a log pane, a progress bar, a bar chart, two buttons and a command line.
Arrow keys move focus. Type "clear" to empty the log and "quit" to exit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd, opts)
		},
	}
}

// demoUI is the widget tree shown by the demo command.
type demoUI struct {
	root  *widgets.VList
	pane  *widgets.LogPane
	bar   *widgets.Bar
	bars  *widgets.Bars
	input *widgets.CmdInput
}

// buildDemo assembles the demo tree. quit is called by the Quit button
// and the "quit" command.
func buildDemo(tree *runtime.Tree, cfg *config.Config, quit func()) (*demoUI, error) {
	ui := &demoUI{}
	var err error

	ui.pane, err = widgets.NewLogPane(tree, widgets.LogPaneConfig{
		ID:            "log",
		Capacity:      cfg.LogPane.Capacity,
		FlushInterval: cfg.LogPane.FlushInterval,
		FlushLines:    cfg.LogPane.FlushLines,
	})
	if err != nil {
		return nil, err
	}
	frame, err := widgets.NewBorder(tree, widgets.BorderConfig{ID: "log-frame", Label: "log"}, ui.pane)
	if err != nil {
		return nil, err
	}

	ui.bar, err = widgets.NewBar(tree, widgets.BarConfig{ID: "progress"})
	if err != nil {
		return nil, err
	}
	ui.bars, err = widgets.NewBars(tree, widgets.BarsConfig{
		ID:     "load",
		Data:   make([]float64, 4),
		MaxVal: 1,
		Range:  &widgets.Range{Min: 0, Max: 0.9},
	})
	if err != nil {
		return nil, err
	}

	ok, err := widgets.NewButton(tree, widgets.ButtonConfig{
		ID:      "ok",
		OnClick: func() { ui.pane.Println("ok pressed") },
	})
	if err != nil {
		return nil, err
	}
	stop, err := widgets.NewButton(tree, widgets.ButtonConfig{
		ID:      "quit",
		Label:   "Quit",
		OnClick: quit,
	})
	if err != nil {
		return nil, err
	}
	buttons, err := widgets.NewHList(tree, widgets.ListConfig{ID: "buttons"}, ok, stop)
	if err != nil {
		return nil, err
	}

	ui.input, err = widgets.NewCmdInput(tree, widgets.CmdInputConfig{
		InputConfig: widgets.InputConfig{ID: "cmd"},
		OnSubmit: func(text string) {
			switch strings.TrimSpace(text) {
			case "":
			case "clear":
				ui.pane.Clear()
			case "quit":
				quit()
			default:
				ui.pane.Println("> " + text)
			}
		},
	})
	if err != nil {
		return nil, err
	}

	ui.root, err = widgets.NewVList(tree, widgets.ListConfig{ID: "root"},
		frame, ui.bar, ui.bars, buttons, ui.input)
	if err != nil {
		return nil, err
	}
	return ui, nil
}

// sample returns the bar value and chart data for tick n. The value
// swings slightly outside [0, 1] so overflow rendering shows up.
func sample(n int) (float64, []float64) {
	t := float64(n) / 10
	value := 0.5 + 0.6*math.Sin(t)
	data := make([]float64, 4)
	for i := range data {
		data[i] = 0.5 + 0.5*math.Sin(t+float64(i)*math.Pi/4)
	}
	return value, data
}

// paneSink forwards log output to the pane until closed.
type paneSink struct {
	mu     sync.Mutex
	pane   *widgets.LogPane
	closed bool
}

func (s *paneSink) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return len(p), nil
	}
	return s.pane.Write(p)
}

func (s *paneSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func runDemo(cmd *cobra.Command, opts *globalOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, true)
	if err != nil {
		return err
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	screen, err := newBackend(cfg, logger)
	if err != nil {
		return err
	}

	var app *runtime.App
	ui, err := buildDemo(runtime.NewTree(logger), cfg, func() { app.Quit() })
	if err != nil {
		return err
	}
	defer ui.pane.Close()

	app = runtime.NewApp(runtime.AppConfig{
		Backend: screen,
		Root:    ui.root,
		Clear:   cfg.UI.ClearOnStart,
		Logger:  logger,
	})
	if err := app.Init(); err != nil {
		app.Fini()
		return err
	}
	defer app.Fini()

	sink := &paneSink{pane: ui.pane}
	defer sink.Close()
	logger.AddOutput(logging.NewWriterOutput(sink))
	logger.Info(logging.CategoryApp, "demo_started", "arrows move focus, type quit to exit", map[string]any{
		"backend": cfg.UI.Backend,
	})

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		defer cancel()
		return app.Run(gctx)
	})
	g.Go(func() error {
		return feedDemo(gctx, app, ui, logger)
	})

	err = g.Wait()
	if ctx.Err() != nil {
		return withExitCode(ctx.Err(), exitInterrupted)
	}
	return err
}

// feedDemo updates the bars every tick until ctx is done.
func feedDemo(ctx context.Context, app *runtime.App, ui *demoUI, logger *logging.Logger) error {
	ticker := time.NewTicker(demoTick)
	defer ticker.Stop()

	for n := 0; ; n++ {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		value, data := sample(n)
		posted := app.Post(func() {
			if err := ui.bar.Update(value); err != nil {
				logger.Error(logging.CategoryUI, "update_failed", err.Error(), map[string]any{"widget": "progress"})
			}
			if err := ui.bars.Update(data); err != nil {
				logger.Error(logging.CategoryUI, "update_failed", err.Error(), map[string]any{"widget": "load"})
			}
		})
		if !posted {
			logger.Debug(logging.CategoryApp, "update_dropped", "event queue full", nil)
		}
		if n%25 == 0 {
			ui.pane.Println(fmt.Sprintf("tick %d value %.3f", n, value))
		}
	}
}

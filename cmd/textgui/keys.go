package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	tgerrors "github.com/odvcencio/textgui/pkg/errors"
	"github.com/odvcencio/textgui/pkg/logging"
	"github.com/odvcencio/textgui/pkg/ui/input"
	"github.com/odvcencio/textgui/pkg/ui/terminal"
)

const keysPollInterval = 100 * time.Millisecond

func newKeysCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Print decoded key events until q is pressed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeys(cmd, opts)
		},
	}
}

func runKeys(cmd *cobra.Command, opts *globalOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, false)
	if err != nil {
		return err
	}
	defer logger.Close()

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return tgerrors.New(tgerrors.ErrCodeTerminal, "stdin is not a terminal")
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return tgerrors.Wrap(err, tgerrors.ErrCodeTerminal, "enter raw mode")
	}
	defer func() {
		if err := term.Restore(fd, state); err != nil {
			logger.Error(logging.CategoryApp, "restore_failed", err.Error(), nil)
		}
	}()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	keyStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	fmt.Fprint(out, "press keys, q quits\r\n")

	decoder := input.NewDecoder(input.NewFileSource(os.Stdin), input.Options{
		Timeout: keysPollInterval,
		Logger:  logger,
	})
	for ev, err := range decoder.Events() {
		if ctx.Err() != nil {
			return withExitCode(ctx.Err(), exitInterrupted)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return tgerrors.Wrap(err, tgerrors.ErrCodeTerminal, "read input")
		}
		if ev.IsNone() {
			continue
		}
		fmt.Fprintf(out, "%s\r\n", keyStyle.Render(ev.String()))
		if ev.Key == terminal.KeyRune && ev.Rune == 'q' {
			return nil
		}
	}
	return nil
}

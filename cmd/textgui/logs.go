package main

import (
	"fmt"

	"github.com/spf13/cobra"

	tgerrors "github.com/odvcencio/textgui/pkg/errors"
	"github.com/odvcencio/textgui/pkg/logging"
)

type logsOptions struct {
	count   int
	session string
	errors  bool
}

func newLogsCmd(opts *globalOptions) *cobra.Command {
	logsOpts := &logsOptions{}
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the newest events of a session log",
		Long: `Prints the newest events of the most recent session log. Use --session to
pick another session or --errors for the shared error log.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLogs(cmd, opts, logsOpts)
		},
	}
	cmd.Flags().IntVarP(&logsOpts.count, "lines", "n", 20, "Number of events to print")
	cmd.Flags().StringVar(&logsOpts.session, "session", "", "Session id (default: most recent)")
	cmd.Flags().BoolVar(&logsOpts.errors, "errors", false, "Read the error log instead of a session log")
	return cmd
}

func runLogs(cmd *cobra.Command, opts *globalOptions, logsOpts *logsOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if logsOpts.count <= 0 {
		return tgerrors.New(tgerrors.ErrCodeInvalidConfig, "--lines must be positive")
	}

	dir := cfg.Logging.Dir
	var path string
	switch {
	case logsOpts.errors:
		path = logging.ErrorLogPath(dir)
	case logsOpts.session != "":
		path = logging.SessionLogPath(dir, logsOpts.session)
	default:
		path, err = logging.LatestSessionLog(dir)
		if err != nil {
			return err
		}
	}

	events, err := logging.ReadRecentEvents(path, logsOpts.count)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, event := range events {
		fmt.Fprintln(out, logging.FormatLine(event))
	}
	return nil
}

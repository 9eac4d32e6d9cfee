package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/odvcencio/textgui/pkg/config"
	tgerrors "github.com/odvcencio/textgui/pkg/errors"
	"github.com/odvcencio/textgui/pkg/logging"
	"github.com/odvcencio/textgui/pkg/ui/backend"
	"github.com/odvcencio/textgui/pkg/ui/backend/ansi"
	"github.com/odvcencio/textgui/pkg/ui/backend/tcell"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	backend    string
	logLevel   string
	console    bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "textgui",
		Short: "Terminal widget toolkit",
		Long: `textgui lays out widgets on a character grid and drives them from the keyboard.
Running it without a subcommand starts the interactive demo.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd, opts)
		},
	}
	root.SetVersionTemplate(versionTemplate())

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Config file (default ~/.textgui/config.yaml then ./.textgui/config.yaml)")
	flags.StringVar(&opts.backend, "backend", "", "Screen backend: tcell or ansi")
	flags.StringVar(&opts.logLevel, "log-level", "", "Minimum log level: debug, info, notice, error, critical")
	flags.BoolVar(&opts.console, "console", false, "Also write log events to stderr")

	root.AddCommand(newDemoCmd(opts))
	root.AddCommand(newKeysCmd(opts))
	root.AddCommand(newLogsCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), versionTemplate())
		},
	}
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("textgui %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("textgui %s\n", version)
}

// loadConfig resolves the configuration and applies flag overrides on top.
func loadConfig(opts *globalOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFromPath(opts.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if opts.backend != "" {
		cfg.UI.Backend = opts.backend
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.console {
		cfg.Logging.Console = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger opens the session log. Console output is skipped when the
// screen belongs to the UI.
func newLogger(cfg *config.Config, ownsScreen bool) (*logging.Logger, error) {
	logger, err := logging.NewLogger(cfg.Logging.Dir, logging.NewSessionID())
	if err != nil {
		return nil, err
	}
	logger.SetName("textgui")
	logger.SetMinLevel(cfg.LogLevel())
	if cfg.Logging.Console && !ownsScreen {
		logger.AddOutput(logging.NewConsoleOutput())
	}
	return logger, nil
}

func newBackend(cfg *config.Config, logger *logging.Logger) (backend.Backend, error) {
	switch cfg.UI.Backend {
	case config.BackendANSI:
		return ansi.New(ansi.Options{
			InputTimeout: cfg.UI.InputTimeout,
			Logger:       logger,
		}), nil
	default:
		b, err := tcell.New()
		if err != nil {
			return nil, tgerrors.Wrap(err, tgerrors.ErrCodeTerminal, "open tcell screen")
		}
		return b, nil
	}
}

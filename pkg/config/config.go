package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tgerrors "github.com/odvcencio/textgui/pkg/errors"
	"github.com/odvcencio/textgui/pkg/logging"
)

// Config represents the complete textgui configuration
type Config struct {
	UI      UIConfig      `yaml:"ui"`
	LogPane LogPaneConfig `yaml:"log_pane"`
	Logging LoggingConfig `yaml:"logging"`
}

// UIConfig controls the terminal backend and event loop
type UIConfig struct {
	// Backend selects the screen implementation: "tcell" or "ansi".
	Backend      string        `yaml:"backend"`
	ClearOnStart bool          `yaml:"clear_on_start"`
	InputTimeout time.Duration `yaml:"input_timeout"`
}

// LogPaneConfig controls redraw coalescing of log panes
type LogPaneConfig struct {
	Capacity      int           `yaml:"capacity"`
	FlushInterval time.Duration `yaml:"flush_interval"`
	FlushLines    int           `yaml:"flush_lines"`
}

// LoggingConfig controls the structured logger
type LoggingConfig struct {
	Dir     string `yaml:"dir"`
	Level   string `yaml:"level"`
	Console bool   `yaml:"console"`
}

const (
	BackendTcell = "tcell"
	BackendANSI  = "ansi"
)

// DefaultConfig returns the configuration used when no file or env override is present
func DefaultConfig() *Config {
	logDir := filepath.Join(".textgui", "logs")
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		logDir = filepath.Join(home, ".textgui", "logs")
	}

	return &Config{
		UI: UIConfig{
			Backend:      BackendTcell,
			ClearOnStart: true,
			InputTimeout: 0,
		},
		LogPane: LogPaneConfig{
			Capacity:      1000,
			FlushInterval: 300 * time.Millisecond,
			FlushLines:    5,
		},
		Logging: LoggingConfig{
			Dir:     logDir,
			Level:   string(logging.LevelInfo),
			Console: false,
		},
	}
}

// Load loads configuration from default locations with proper precedence
func Load() (*Config, error) {
	cfg := DefaultConfig()

	// User config (~/.textgui/config.yaml)
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	if home != "" {
		userConfigPath := filepath.Join(home, ".textgui", "config.yaml")
		if err := loadAndMerge(cfg, userConfigPath); err != nil && !os.IsNotExist(err) {
			return nil, tgerrors.Wrap(err, tgerrors.ErrCodeConfigLoad, "loading user config").
				WithContext("path", userConfigPath)
		}
	}

	// Project config (./.textgui/config.yaml)
	projectConfigPath := filepath.Join(".", ".textgui", "config.yaml")
	if err := loadAndMerge(cfg, projectConfigPath); err != nil && !os.IsNotExist(err) {
		return nil, tgerrors.Wrap(err, tgerrors.ErrCodeConfigLoad, "loading project config").
			WithContext("path", projectConfigPath)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := loadAndMerge(cfg, path); err != nil {
		return nil, tgerrors.Wrap(err, tgerrors.ErrCodeConfigLoad, "loading config").
			WithContext("path", path)
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("TEXTGUI_BACKEND"); v != "" {
		cfg.UI.Backend = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("TEXTGUI_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("TEXTGUI_LOG_DIR"); v != "" {
		cfg.Logging.Dir = expandHomeDir(v)
	}
	if val, ok := envBool("TEXTGUI_LOG_CONSOLE"); ok {
		cfg.Logging.Console = val
	}
	if v := os.Getenv("TEXTGUI_INPUT_TIMEOUT"); v != "" {
		d, err := envDuration("TEXTGUI_INPUT_TIMEOUT", v)
		if err != nil {
			return err
		}
		cfg.UI.InputTimeout = d
	}
	if v := os.Getenv("TEXTGUI_FLUSH_INTERVAL"); v != "" {
		d, err := envDuration("TEXTGUI_FLUSH_INTERVAL", v)
		if err != nil {
			return err
		}
		cfg.LogPane.FlushInterval = d
	}
	return nil
}

// envDuration accepts Go durations ("250ms") or bare milliseconds ("250").
func envDuration(key, raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if ms, err := strconv.Atoi(raw); err == nil {
		return time.Duration(ms) * time.Millisecond, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, tgerrors.Wrap(err, tgerrors.ErrCodeConfigParse, "invalid duration").
			WithContext("env", key)
	}
	return d, nil
}

func envBool(key string) (bool, bool) {
	val := os.Getenv(key)
	if val == "" {
		return false, false
	}
	switch strings.ToLower(val) {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	default:
		return false, false
	}
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	switch c.UI.Backend {
	case BackendTcell, BackendANSI:
	default:
		return invalid("ui.backend", fmt.Sprintf("unknown backend %q (valid: tcell, ansi)", c.UI.Backend))
	}

	if c.UI.InputTimeout < 0 {
		return invalid("ui.input_timeout", "must not be negative")
	}
	if c.LogPane.Capacity <= 0 {
		return invalid("log_pane.capacity", "must be positive")
	}
	if c.LogPane.FlushInterval <= 0 {
		return invalid("log_pane.flush_interval", "must be positive")
	}
	if c.LogPane.FlushLines <= 0 {
		return invalid("log_pane.flush_lines", "must be positive")
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return invalid("logging.level", err.Error())
	}
	if strings.TrimSpace(c.Logging.Dir) == "" {
		return invalid("logging.dir", "must not be empty")
	}

	return nil
}

// LogLevel returns the configured level, falling back to info.
func (c *Config) LogLevel() logging.Level {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return logging.LevelInfo
	}
	return level
}

func invalid(field, msg string) error {
	return tgerrors.New(tgerrors.ErrCodeConfigInvalid, msg).WithContext("field", field)
}

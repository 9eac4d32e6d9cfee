package config

import (
	"os"
	"path/filepath"
	"strings"

	tgerrors "github.com/odvcencio/textgui/pkg/errors"
	"gopkg.in/yaml.v3"
)

// loadAndMerge loads a YAML file and merges it into the config.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return tgerrors.Wrap(err, tgerrors.ErrCodeConfigParse, "parsing YAML")
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return tgerrors.Wrap(err, tgerrors.ErrCodeConfigParse, "parsing YAML")
	}

	mergeConfigs(cfg, &override, raw)
	return nil
}

// mergeConfigs merges override into base. Zero values in override are
// treated as unset, except for booleans that are explicitly present in raw.
func mergeConfigs(base, override *Config, raw map[string]any) {
	if override == nil {
		return
	}

	if override.UI.Backend != "" {
		base.UI.Backend = strings.ToLower(strings.TrimSpace(override.UI.Backend))
	}
	if fieldSet(raw, "ui", "clear_on_start") {
		base.UI.ClearOnStart = override.UI.ClearOnStart
	}
	if fieldSet(raw, "ui", "input_timeout") {
		base.UI.InputTimeout = override.UI.InputTimeout
	}

	if override.LogPane.Capacity != 0 {
		base.LogPane.Capacity = override.LogPane.Capacity
	}
	if override.LogPane.FlushInterval != 0 {
		base.LogPane.FlushInterval = override.LogPane.FlushInterval
	}
	if override.LogPane.FlushLines != 0 {
		base.LogPane.FlushLines = override.LogPane.FlushLines
	}

	if override.Logging.Dir != "" {
		base.Logging.Dir = expandHomeDir(override.Logging.Dir)
	}
	if override.Logging.Level != "" {
		base.Logging.Level = strings.ToLower(strings.TrimSpace(override.Logging.Level))
	}
	if fieldSet(raw, "logging", "console") {
		base.Logging.Console = override.Logging.Console
	}
}

func fieldSet(raw map[string]any, path ...string) bool {
	if len(path) == 0 || raw == nil {
		return false
	}
	current := any(raw)
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return false
		}
		val, ok := m[key]
		if !ok {
			return false
		}
		current = val
	}
	return true
}

func expandHomeDir(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if path == "~" {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			return home
		}
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil && strings.TrimSpace(home) != "" {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

package config

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/ini.v1"
	"gopkg.in/yaml.v3"
)

// EnvPath names the variable that overrides the default config location.
const EnvPath = "KBACK_CONFIG"

// matches $(VAR_NAME)
var envPattern = regexp.MustCompile(`\$\(([A-Za-z0-9_]+)\)`)

// replaces $(VAR) with os.Getenv(VAR)
func expandEnvVars(s string) string {
	return envPattern.ReplaceAllStringFunc(s, func(m string) string {
		key := mapEnvKey(envPattern.FindStringSubmatch(m)[1])
		return os.Getenv(key)
	})
}

// ResolvePath picks the config file: explicit flag, then $KBACK_CONFIG,
// then DefaultPath.
func ResolvePath(flag string) string {
	if flag != "" {
		return flag
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env
	}
	return DefaultPath
}

// Load reads the config file at path. Files ending in .yaml or .yml are
// parsed as YAML, anything else as INI.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// expand $(ENV_VAR) placeholders
	expanded := []byte(expandEnvVars(string(data)))

	var cfg *Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		cfg, err = parseYAML(expanded)
	default:
		cfg, err = parseINI(expanded)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func parseINI(data []byte) (*Config, error) {
	if !startsWithSection(data) {
		return nil, ErrMissingSectionHeader
	}

	f, err := ini.LoadSources(ini.LoadOptions{InsensitiveKeys: true}, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	sec, err := f.GetSection(SettingsSection)
	if err != nil {
		return nil, ErrNoSection
	}
	if !sec.HasKey(BackupDirKey) || strings.TrimSpace(sec.Key(BackupDirKey).String()) == "" {
		return nil, ErrNoOption
	}

	cfg := Default()
	if err := f.MapTo(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	cfg.Settings.BackupDir = strings.TrimSpace(cfg.Settings.BackupDir)
	return cfg, nil
}

// startsWithSection reports whether the first meaningful line is a
// [section] header. Keys above the first header are an error.
func startsWithSection(data []byte) bool {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		return strings.HasPrefix(line, "[")
	}
	// empty file: no section at all
	return true
}

func parseYAML(data []byte) (*Config, error) {
	var raw struct {
		Settings *SettingsConfig `yaml:"settings"`
		Logging  *LoggingConfig  `yaml:"logging"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if raw.Settings == nil {
		return nil, ErrNoSection
	}
	if strings.TrimSpace(raw.Settings.BackupDir) == "" {
		return nil, ErrNoOption
	}

	cfg := Default()
	cfg.Settings.BackupDir = strings.TrimSpace(raw.Settings.BackupDir)
	if raw.Logging != nil {
		if raw.Logging.Level != "" {
			cfg.Logging.Level = raw.Logging.Level
		}
		if raw.Logging.Format != "" {
			cfg.Logging.Format = raw.Logging.Format
		}
	}
	return cfg, nil
}

// Package config loads the mavenmenu tool configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	menuerrors "github.com/Aman-CERP/mavenmenu/internal/errors"
	"github.com/Aman-CERP/mavenmenu/internal/logging"
	"github.com/Aman-CERP/mavenmenu/internal/watcher"
)

// DefaultSettingsKey is the settings key holding the user's command list.
const DefaultSettingsKey = "maven_menu_commands"

// Settings watch modes.
const (
	WatchModeAuto     = "auto"
	WatchModeFsnotify = "fsnotify"
	WatchModePolling  = "polling"
)

// Config represents the complete mavenmenu configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Plugin  PluginConfig  `yaml:"plugin" json:"plugin"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Watch   WatchConfig   `yaml:"watch" json:"watch"`
	Locator LocatorConfig `yaml:"locator" json:"locator"`
	Log     LogConfig     `yaml:"log" json:"log"`

	// DataDir holds logs and driver locks. Defaults to ~/.mavenmenu.
	DataDir string `yaml:"data_dir" json:"data_dir"`
}

// PluginConfig locates the editor package and its settings.
type PluginConfig struct {
	// Dir is the package directory the menu files are written into.
	Dir string `yaml:"dir" json:"dir"`
	// SettingsFile is the .sublime-settings file holding SettingsKey.
	SettingsFile string `yaml:"settings_file" json:"settings_file"`
	// SettingsKey names the command list setting.
	SettingsKey string `yaml:"settings_key" json:"settings_key"`
	// StartupDelay is how long `watch` waits before the first generation.
	StartupDelay string `yaml:"startup_delay" json:"startup_delay"`
}

// OutputConfig controls how menu files are written.
type OutputConfig struct {
	// AtomicWrites writes through a temp file and rename instead of
	// truncating in place.
	AtomicWrites bool `yaml:"atomic_writes" json:"atomic_writes"`
}

// WatchConfig tunes the settings file watcher.
type WatchConfig struct {
	// Mode is auto (fsnotify, else polling), fsnotify or polling.
	Mode         string `yaml:"mode" json:"mode"`
	Debounce     string `yaml:"debounce" json:"debounce"`
	PollInterval string `yaml:"poll_interval" json:"poll_interval"`
}

// LocatorConfig tunes the pom.xml locator.
type LocatorConfig struct {
	// CacheSize is the number of directories remembered by the locator.
	CacheSize int `yaml:"cache_size" json:"cache_size"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level" json:"level"`
}

// NewConfig creates a new Config with defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Plugin: PluginConfig{
			SettingsKey:  DefaultSettingsKey,
			StartupDelay: "1s",
		},
		Watch: WatchConfig{
			Mode:         WatchModeAuto,
			Debounce:     "200ms",
			PollInterval: "2s",
		},
		Locator: LocatorConfig{
			CacheSize: 256,
		},
		Log: LogConfig{
			Level: "info",
		},
		DataDir: defaultDataDir(),
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".mavenmenu")
	}
	return filepath.Join(home, ".mavenmenu")
}

// GetUserConfigPath returns the path to the user configuration file:
//   - $XDG_CONFIG_HOME/mavenmenu/config.yaml (if XDG_CONFIG_HOME is set)
//   - ~/.config/mavenmenu/config.yaml (default)
func GetUserConfigPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mavenmenu", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".config", "mavenmenu", "config.yaml")
	}
	return filepath.Join(home, ".config", "mavenmenu", "config.yaml")
}

// GetUserConfigDir returns the directory containing the user configuration.
func GetUserConfigDir() string {
	return filepath.Dir(GetUserConfigPath())
}

// UserConfigExists returns true if the user configuration file exists.
func UserConfigExists() bool {
	info, err := os.Stat(GetUserConfigPath())
	return err == nil && !info.IsDir()
}

// Load builds the effective configuration. Precedence, lowest first:
//  1. Hardcoded defaults
//  2. The config file: explicit path if given, else the user config
//  3. Environment variables (MAVENMENU_*)
//
// Command-line flags are applied by the caller on top of the result.
func Load(explicitPath string) (*Config, error) {
	cfg := NewConfig()

	path := explicitPath
	if path == "" && UserConfigExists() {
		path = GetUserConfigPath()
	}
	if path != "" {
		if err := cfg.loadYAML(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnvOverrides()
	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, menuerrors.ConfigError("invalid configuration: "+err.Error(), err).
			WithSuggestion("Fix the value in " + displayPath(path) + " or the MAVENMENU_* environment")
	}
	return cfg, nil
}

// loadYAML reads path and merges its non-zero values into c.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return menuerrors.New(menuerrors.ErrCodeConfigNotFound, "config file not found: "+path, err).
			WithDetail("path", path).
			WithSuggestion("Run 'mavenmenu config init' or drop --config")
	}
	if err != nil {
		return menuerrors.ConfigError("failed to read config file "+path, err).
			WithDetail("path", path)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return menuerrors.ConfigError("failed to parse config file "+path, err).
			WithDetail("path", path).
			WithSuggestion("Check the YAML syntax, or compare with 'mavenmenu config init'")
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.Plugin.Dir != "" {
		c.Plugin.Dir = other.Plugin.Dir
	}
	if other.Plugin.SettingsFile != "" {
		c.Plugin.SettingsFile = other.Plugin.SettingsFile
	}
	if other.Plugin.SettingsKey != "" {
		c.Plugin.SettingsKey = other.Plugin.SettingsKey
	}
	if other.Plugin.StartupDelay != "" {
		c.Plugin.StartupDelay = other.Plugin.StartupDelay
	}

	// false is indistinguishable from unset, so a file can only turn it on
	if other.Output.AtomicWrites {
		c.Output.AtomicWrites = true
	}

	if other.Watch.Mode != "" {
		c.Watch.Mode = other.Watch.Mode
	}
	if other.Watch.Debounce != "" {
		c.Watch.Debounce = other.Watch.Debounce
	}
	if other.Watch.PollInterval != "" {
		c.Watch.PollInterval = other.Watch.PollInterval
	}

	if other.Locator.CacheSize != 0 {
		c.Locator.CacheSize = other.Locator.CacheSize
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}

	if other.DataDir != "" {
		c.DataDir = other.DataDir
	}
}

// applyEnvOverrides applies MAVENMENU_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("MAVENMENU_PLUGIN_DIR"); v != "" {
		c.Plugin.Dir = v
	}
	if v := os.Getenv("MAVENMENU_SETTINGS_FILE"); v != "" {
		c.Plugin.SettingsFile = v
	}
	if v := os.Getenv("MAVENMENU_SETTINGS_KEY"); v != "" {
		c.Plugin.SettingsKey = v
	}
	if v := os.Getenv("MAVENMENU_ATOMIC_WRITES"); v != "" {
		c.Output.AtomicWrites = strings.EqualFold(v, "true") || v == "1"
	}
	if v := os.Getenv("MAVENMENU_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("MAVENMENU_DATA_DIR"); v != "" {
		c.DataDir = v
	}
}

// expandPaths resolves a leading ~ in path settings.
func (c *Config) expandPaths() {
	c.Plugin.Dir = ExpandHome(c.Plugin.Dir)
	c.Plugin.SettingsFile = ExpandHome(c.Plugin.SettingsFile)
	c.DataDir = ExpandHome(c.DataDir)
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.Plugin.SettingsKey == "" {
		return fmt.Errorf("plugin.settings_key must not be empty")
	}

	durations := []struct {
		name, value string
	}{
		{"plugin.startup_delay", c.Plugin.StartupDelay},
		{"watch.debounce", c.Watch.Debounce},
		{"watch.poll_interval", c.Watch.PollInterval},
	}
	for _, d := range durations {
		if _, err := parseDuration(d.value); err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
	}

	switch c.Watch.Mode {
	case WatchModeAuto, WatchModeFsnotify, WatchModePolling:
	default:
		return fmt.Errorf("watch.mode must be 'auto', 'fsnotify', or 'polling', got %s", c.Watch.Mode)
	}

	if c.Locator.CacheSize <= 0 {
		return fmt.Errorf("locator.cache_size must be positive, got %d", c.Locator.CacheSize)
	}

	if !logging.ValidLevel(c.Log.Level) {
		return fmt.Errorf("log.level must be 'debug', 'info', 'warn', or 'error', got %s", c.Log.Level)
	}

	return nil
}

// StartupDelay returns the parsed plugin.startup_delay.
func (c *Config) StartupDelay() time.Duration {
	d, _ := parseDuration(c.Plugin.StartupDelay)
	return d
}

// Debounce returns the parsed watch.debounce.
func (c *Config) Debounce() time.Duration {
	d, _ := parseDuration(c.Watch.Debounce)
	return d
}

// PollInterval returns the parsed watch.poll_interval.
func (c *Config) PollInterval() time.Duration {
	d, _ := parseDuration(c.Watch.PollInterval)
	return d
}

// WatchOptions returns the settings watcher options for watch.*.
func (c *Config) WatchOptions() watcher.Options {
	return watcher.Options{
		Debounce:     c.Debounce(),
		PollInterval: c.PollInterval(),
		ForcePolling: c.Watch.Mode == WatchModePolling,
		NoFallback:   c.Watch.Mode == WatchModeFsnotify,
	}
}

// displayPath names the config file in messages.
func displayPath(path string) string {
	if path == "" {
		return "the config file"
	}
	return path
}

// parseDuration accepts Go duration strings; empty and "0" mean zero.
func parseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", s, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must not be negative, got %s", s)
	}
	return d, nil
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

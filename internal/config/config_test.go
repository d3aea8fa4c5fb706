package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	menuerrors "github.com/Aman-CERP/mavenmenu/internal/errors"
)

// isolate points the user config at an empty temp dir and clears env overrides.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, k := range []string{
		"MAVENMENU_PLUGIN_DIR", "MAVENMENU_SETTINGS_FILE", "MAVENMENU_SETTINGS_KEY",
		"MAVENMENU_ATOMIC_WRITES", "MAVENMENU_LOG_LEVEL", "MAVENMENU_DATA_DIR",
	} {
		t.Setenv(k, "")
	}
	return dir
}

func writeUserConfig(t *testing.T, xdg, content string) string {
	t.Helper()
	dir := filepath.Join(xdg, "mavenmenu")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewConfig_ReturnsDefaults(t *testing.T) {
	cfg := NewConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, 1, cfg.Version)
	assert.Equal(t, "maven_menu_commands", cfg.Plugin.SettingsKey)
	assert.Equal(t, time.Second, cfg.StartupDelay())
	assert.Equal(t, 200*time.Millisecond, cfg.Debounce())
	assert.Equal(t, 2*time.Second, cfg.PollInterval())
	assert.False(t, cfg.Output.AtomicWrites)
	assert.Equal(t, 256, cfg.Locator.CacheSize)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Contains(t, cfg.DataDir, ".mavenmenu")
	assert.NoError(t, cfg.Validate())
}

func TestGetUserConfigPath_HonorsXDG(t *testing.T) {
	xdg := isolate(t)

	assert.Equal(t, filepath.Join(xdg, "mavenmenu", "config.yaml"), GetUserConfigPath())
	assert.Equal(t, filepath.Join(xdg, "mavenmenu"), GetUserConfigDir())
	assert.False(t, UserConfigExists())
}

func TestLoad_NoFile_UsesDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, NewConfig().Plugin, cfg.Plugin)
}

func TestLoad_UserConfigMergesOverDefaults(t *testing.T) {
	// Given: a user config setting some fields
	xdg := isolate(t)
	writeUserConfig(t, xdg, `
plugin:
  dir: /opt/sublime/Packages/Maven
  startup_delay: 250ms
output:
  atomic_writes: true
log:
  level: debug
`)

	// When: loading
	cfg, err := Load("")

	// Then: set fields override, unset fields keep defaults
	require.NoError(t, err)
	assert.Equal(t, "/opt/sublime/Packages/Maven", cfg.Plugin.Dir)
	assert.Equal(t, 250*time.Millisecond, cfg.StartupDelay())
	assert.True(t, cfg.Output.AtomicWrites)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "maven_menu_commands", cfg.Plugin.SettingsKey)
	assert.Equal(t, 256, cfg.Locator.CacheSize)
}

func TestLoad_ExplicitPathWinsOverUserConfig(t *testing.T) {
	xdg := isolate(t)
	writeUserConfig(t, xdg, "plugin:\n  dir: /from/user\n")

	explicit := filepath.Join(t.TempDir(), "other.yaml")
	require.NoError(t, os.WriteFile(explicit, []byte("plugin:\n  dir: /from/flag\n"), 0o644))

	cfg, err := Load(explicit)

	require.NoError(t, err)
	assert.Equal(t, "/from/flag", cfg.Plugin.Dir)
}

func TestLoad_MissingExplicitPath_ReturnsError(t *testing.T) {
	isolate(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.Error(t, err)
	assert.Equal(t, menuerrors.ErrCodeConfigNotFound, menuerrors.GetCode(err))
	assert.Contains(t, err.Error(), "config file not found")
}

func TestLoad_InvalidYAML_ReturnsError(t *testing.T) {
	xdg := isolate(t)
	writeUserConfig(t, xdg, "plugin: [not, a, map\n")

	_, err := Load("")

	require.Error(t, err)
	assert.Equal(t, menuerrors.ErrCodeConfigInvalid, menuerrors.GetCode(err))
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	xdg := isolate(t)
	writeUserConfig(t, xdg, "plugin:\n  dir: /from/file\nlog:\n  level: warn\n")
	t.Setenv("MAVENMENU_PLUGIN_DIR", "/from/env")
	t.Setenv("MAVENMENU_SETTINGS_FILE", "/env/Preferences.sublime-settings")
	t.Setenv("MAVENMENU_ATOMIC_WRITES", "1")
	t.Setenv("MAVENMENU_LOG_LEVEL", "error")
	t.Setenv("MAVENMENU_DATA_DIR", "/env/data")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, "/from/env", cfg.Plugin.Dir)
	assert.Equal(t, "/env/Preferences.sublime-settings", cfg.Plugin.SettingsFile)
	assert.True(t, cfg.Output.AtomicWrites)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "/env/data", cfg.DataDir)
}

func TestLoad_InvalidValuesFailValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"bad log level", "log:\n  level: loud\n", "log.level"},
		{"bad duration", "watch:\n  debounce: soon\n", "watch.debounce"},
		{"negative delay", "plugin:\n  startup_delay: -1s\n", "plugin.startup_delay"},
		{"negative cache", "locator:\n  cache_size: -4\n", "locator.cache_size"},
		{"bad watch mode", "watch:\n  mode: inotify\n", "watch.mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			xdg := isolate(t)
			writeUserConfig(t, xdg, tt.content)

			_, err := Load("")

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.Equal(t, menuerrors.ErrCodeConfigInvalid, menuerrors.GetCode(err))
		})
	}
}

func TestParseDuration_ZeroForms(t *testing.T) {
	for _, s := range []string{"", "0", "  "} {
		d, err := parseDuration(s)
		require.NoError(t, err)
		assert.Zero(t, d)
	}
}

func TestWriteYAML_RoundTripsThroughLoad(t *testing.T) {
	isolate(t)
	cfg := NewConfig()
	cfg.Plugin.Dir = "/pkgs/Maven"
	cfg.Watch.Debounce = "50ms"

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.WriteYAML(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/pkgs/Maven", loaded.Plugin.Dir)
	assert.Equal(t, 50*time.Millisecond, loaded.Debounce())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, filepath.Join(home, ".mavenmenu"), ExpandHome("~/.mavenmenu"))
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path"))
	assert.Equal(t, "rel/~x", ExpandHome("rel/~x"))
	assert.Equal(t, "", ExpandHome(""))
}

func TestLoad_ExpandsHomeInPaths(t *testing.T) {
	xdg := isolate(t)
	writeUserConfig(t, xdg, "plugin:\n  dir: ~/Packages/Maven\ndata_dir: ~/.mm\n")

	cfg, err := Load("")
	require.NoError(t, err)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "Packages", "Maven"), cfg.Plugin.Dir)
	assert.Equal(t, filepath.Join(home, ".mm"), cfg.DataDir)
}

func TestWatchOptions(t *testing.T) {
	tests := []struct {
		mode         string
		forcePolling bool
		noFallback   bool
	}{
		{WatchModeAuto, false, false},
		{WatchModePolling, true, false},
		{WatchModeFsnotify, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Watch.Mode = tt.mode

			opts := cfg.WatchOptions()
			assert.Equal(t, 200*time.Millisecond, opts.Debounce)
			assert.Equal(t, 2*time.Second, opts.PollInterval)
			assert.Equal(t, tt.forcePolling, opts.ForcePolling)
			assert.Equal(t, tt.noFallback, opts.NoFallback)
		})
	}
}

// Package cmd provides the CLI commands for mavenmenu.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/mavenmenu/internal/config"
	menuerrors "github.com/Aman-CERP/mavenmenu/internal/errors"
	"github.com/Aman-CERP/mavenmenu/internal/logging"
	"github.com/Aman-CERP/mavenmenu/pkg/version"
)

// Persistent flags and per-run state.
var (
	debugMode      bool
	configFile     string
	pluginDirFlag  string
	loadedConfig   *config.Config
	loadErr        error
	loggingCleanup func()
)

// NewRootCmd creates the root command for the mavenmenu CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mavenmenu",
		Short: "Generate Maven menus for the Sublime Text Maven package",
		Long: `mavenmenu writes the Maven context menu, side-bar menu, and command
palette entries of the Sublime Text Maven package from the user's
maven_menu_commands setting, and hides those menus for files that are not
part of a Maven project.

Run 'mavenmenu watch' to keep the menus in sync with the settings file.`,
		Version:       version.Version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.SetVersionTemplate("mavenmenu version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.mavenmenu/logs/")
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ~/.config/mavenmenu/config.yaml)")
	cmd.PersistentFlags().StringVar(&pluginDirFlag, "plugin-dir", "", "Editor package directory to write menus into")

	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRunE = stopLogging

	cmd.AddCommand(newGenerateCmd())
	cmd.AddCommand(newToggleCmd())
	cmd.AddCommand(newWatchCmd())
	cmd.AddCommand(newPOMCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newLogsCmd())

	return cmd
}

// Execute runs the root command and prints any error in CLI form.
func Execute() error {
	err := NewRootCmd().Execute()
	if err != nil {
		fmt.Fprint(os.Stderr, menuerrors.FormatForCLI(err))
	}
	return err
}

// ExitCode maps a command error to the process exit status: 2 for
// configuration errors, 3 for fatal ones such as a full disk, 1 otherwise.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case menuerrors.IsFatal(err):
		return 3
	case menuerrors.GetCategory(err) == menuerrors.CategoryConfig:
		return 2
	default:
		return 1
	}
}

// startLogging loads the configuration and installs the default logger:
// a rotating JSON file log with --debug or log.level=debug, otherwise a
// text handler on stderr. A config load error is kept for the commands
// that need the config.
func startLogging(cmd *cobra.Command, _ []string) error {
	loadedConfig, loadErr = config.Load(configFile)
	cfg := loadedConfig
	if cfg == nil {
		cfg = config.NewConfig()
	}

	if debugMode || cfg.Log.Level == "debug" {
		logCfg := logging.FileConfig(cfg.DataDir, "debug")
		logger, cleanup, err := logging.Setup(logCfg)
		if err != nil {
			return fmt.Errorf("failed to setup debug logging: %w", err)
		}
		loggingCleanup = cleanup
		slog.SetDefault(logger)
		slog.Debug("debug logging enabled",
			slog.String("log_file", logCfg.FilePath),
			slog.String("version", version.Version))
		return nil
	}

	slog.SetDefault(logging.SetupConsole(cmd.ErrOrStderr(), cfg.Log.Level))
	return nil
}

func stopLogging(_ *cobra.Command, _ []string) error {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
	return nil
}

// appConfig returns the loaded configuration with flag overrides applied.
func appConfig() (*config.Config, error) {
	if loadErr != nil {
		var me *menuerrors.MenuError
		if errors.As(loadErr, &me) {
			return nil, me
		}
		return nil, menuerrors.ConfigError("failed to load configuration", loadErr).
			WithSuggestion("Run 'mavenmenu config show' or fix " + config.GetUserConfigPath())
	}
	cfg := loadedConfig
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if pluginDirFlag != "" {
		cfg.Plugin.Dir = config.ExpandHome(pluginDirFlag)
	}
	return cfg, nil
}

// requirePluginDir rejects an unset package directory.
func requirePluginDir(cfg *config.Config) error {
	if cfg.Plugin.Dir != "" {
		return nil
	}
	return menuerrors.New(menuerrors.ErrCodePluginDirMissing, "no package directory configured", nil).
		WithSuggestion("Pass --plugin-dir, set MAVENMENU_PLUGIN_DIR, or set plugin.dir in the config file")
}

// pluginDirExists reports whether the package directory is present. A path
// that exists but is not a directory is an ERR_402 error.
func pluginDirExists(cfg *config.Config) (bool, error) {
	info, err := os.Stat(cfg.Plugin.Dir)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, menuerrors.New(menuerrors.ErrCodeInvalidPath, "cannot read package directory "+cfg.Plugin.Dir, err).
			WithDetail("path", cfg.Plugin.Dir)
	}
	if !info.IsDir() {
		return false, menuerrors.New(menuerrors.ErrCodeInvalidPath, cfg.Plugin.Dir+" is not a directory", nil).
			WithDetail("path", cfg.Plugin.Dir).
			WithSuggestion("Point --plugin-dir at the editor package directory")
	}
	return true, nil
}

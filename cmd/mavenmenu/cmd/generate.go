package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/mavenmenu/internal/config"
	menuerrors "github.com/Aman-CERP/mavenmenu/internal/errors"
	"github.com/Aman-CERP/mavenmenu/internal/menu"
	"github.com/Aman-CERP/mavenmenu/internal/output"
	"github.com/Aman-CERP/mavenmenu/internal/plugin"
	"github.com/Aman-CERP/mavenmenu/internal/pom"
	"github.com/Aman-CERP/mavenmenu/internal/settings"
)

func newGenerateCmd() *cobra.Command {
	var (
		settingsFile string
		active       string
		printDoc     string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the Maven menus once",
		Long: `Write Context.sublime-menu, Side Bar.sublime-menu and
Generated.sublime-commands into the package directory from the
maven_menu_commands setting, or from the built-in commands when the setting
is absent. Menus are then shown or hidden for --active.

A missing package directory is not an error; nothing is written.`,
		Example: `  # Generate from the user's settings
  mavenmenu generate --plugin-dir ~/.config/sublime-text/Packages/Maven \
    --settings ~/.config/sublime-text/Packages/User/Preferences.sublime-settings

  # Print the menu file instead of writing
  mavenmenu generate --print menu`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, settingsFile, active, printDoc)
		},
	}

	cmd.Flags().StringVar(&settingsFile, "settings", "", "Settings file holding maven_menu_commands")
	cmd.Flags().StringVar(&active, "active", "", "Active document; menus are shown if it belongs to a Maven project")
	cmd.Flags().StringVar(&printDoc, "print", "", "Print a document instead of writing: menu or commands")

	return cmd
}

func runGenerate(cmd *cobra.Command, settingsFile, active, printDoc string) error {
	cfg, err := appConfig()
	if err != nil {
		return err
	}
	if settingsFile != "" {
		cfg.Plugin.SettingsFile = config.ExpandHome(settingsFile)
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}

	if printDoc != "" {
		return printDocument(cmd, cfg, store, printDoc)
	}

	if err := requirePluginDir(cfg); err != nil {
		return err
	}

	out := output.New(cmd.OutOrStdout())
	exists, err := pluginDirExists(cfg)
	if err != nil {
		return err
	}
	if !exists {
		out.Warningf("Package directory %s does not exist, nothing written", cfg.Plugin.Dir)
		return nil
	}

	p := plugin.New(cfg, store, pom.Walker{}, plugin.WithLogger(slog.Default()))
	p.SetActive(active)
	if err := p.Generate(cmd.Context()); err != nil {
		return err
	}

	out.Successf("Menus written to %s", cfg.Plugin.Dir)
	return nil
}

// openStore opens the configured settings file, or an empty store that
// yields the built-in commands.
func openStore(cfg *config.Config) (settings.Store, error) {
	if cfg.Plugin.SettingsFile == "" {
		return settings.NewMemory(), nil
	}
	return settings.OpenFile(cfg.Plugin.SettingsFile, slog.Default())
}

func printDocument(cmd *cobra.Command, cfg *config.Config, store settings.Store, which string) error {
	p := plugin.New(cfg, store, pom.Walker{})
	commands, err := p.Commands()
	if err != nil {
		return err
	}
	docs, err := menu.Build(commands)
	if err != nil {
		return err
	}

	switch which {
	case "menu":
		_, err = cmd.OutOrStdout().Write(docs.MenuText)
	case "commands":
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(docs.CommandsText))
	default:
		return menuerrors.ValidationError(fmt.Sprintf("unknown document %q", which), nil).
			WithSuggestion("Use --print menu or --print commands")
	}
	return err
}

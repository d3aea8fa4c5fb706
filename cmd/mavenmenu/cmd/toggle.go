package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/mavenmenu/internal/output"
	"github.com/Aman-CERP/mavenmenu/internal/plugin"
	"github.com/Aman-CERP/mavenmenu/internal/pom"
	"github.com/Aman-CERP/mavenmenu/internal/settings"
	"github.com/Aman-CERP/mavenmenu/internal/visibility"
)

func newToggleCmd() *cobra.Command {
	var status bool

	cmd := &cobra.Command{
		Use:   "toggle [ACTIVE_FILE]",
		Short: "Show or hide the menus for a document",
		Long: `Show the Maven context and side-bar menus if ACTIVE_FILE lives under a
directory with a pom.xml, and hide them otherwise. Without ACTIVE_FILE the
menus are hidden.`,
		Example: `  mavenmenu toggle ~/work/app/src/main/java/App.java
  mavenmenu toggle --status`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appConfig()
			if err != nil {
				return err
			}
			if err := requirePluginDir(cfg); err != nil {
				return err
			}

			out := output.New(cmd.OutOrStdout())
			if status {
				out.Infof("Menus: %s", visibility.New(cfg.Plugin.Dir, slog.Default()).Current())
				return nil
			}

			active := ""
			if len(args) == 1 {
				active = args[0]
			}
			p := plugin.New(cfg, settings.NewMemory(), pom.Walker{}, plugin.WithLogger(slog.Default()))
			state := p.OnDocumentActivated(active)
			out.Successf("Menus %s", state)
			return nil
		},
	}

	cmd.Flags().BoolVar(&status, "status", false, "Report the current state without changing it")

	return cmd
}

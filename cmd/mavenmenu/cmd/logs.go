package cmd

import (
	"fmt"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/mavenmenu/internal/config"
	"github.com/Aman-CERP/mavenmenu/internal/logging"
)

func newLogsCmd() *cobra.Command {
	var (
		lines   int
		level   string
		filter  string
		logFile string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the debug log",
		Long: `Show the tail of the log written with --debug or log.level: debug.`,
		Example: `  mavenmenu logs -n 100
  mavenmenu logs --level warn
  mavenmenu logs --filter "menu"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := logFile
			if path == "" {
				cfg := loadedConfig
				if cfg == nil {
					cfg = config.NewConfig()
				}
				path = logging.LogPathIn(cfg.DataDir)
			}
			path, err := logging.FindLogFile(path)
			if err != nil {
				return err
			}

			var pattern *regexp.Regexp
			if filter != "" {
				pattern, err = regexp.Compile(filter)
				if err != nil {
					return fmt.Errorf("invalid filter pattern: %w", err)
				}
			}

			viewer := logging.NewViewer(logging.ViewerConfig{
				Level:   level,
				Pattern: pattern,
				NoColor: noColor,
			}, cmd.OutOrStdout())

			entries, err := viewer.Tail(path, lines)
			if err != nil {
				return err
			}
			viewer.Print(entries)
			return nil
		},
	}

	cmd.Flags().IntVarP(&lines, "lines", "n", 50, "Number of lines to show")
	cmd.Flags().StringVar(&level, "level", "", "Minimum level (debug|info|warn|error)")
	cmd.Flags().StringVar(&filter, "filter", "", "Only lines matching this regex")
	cmd.Flags().StringVar(&logFile, "file", "", "Log file to read")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored levels")

	return cmd
}

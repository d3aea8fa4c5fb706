package cmd

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/mavenmenu/internal/config"
	menuerrors "github.com/Aman-CERP/mavenmenu/internal/errors"
	"github.com/Aman-CERP/mavenmenu/internal/lock"
	"github.com/Aman-CERP/mavenmenu/internal/output"
	"github.com/Aman-CERP/mavenmenu/internal/plugin"
	"github.com/Aman-CERP/mavenmenu/internal/pom"
	"github.com/Aman-CERP/mavenmenu/internal/settings"
)

func newWatchCmd() *cobra.Command {
	var (
		settingsFile string
		noDelay      bool
		wait         bool
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the menus in sync with the settings file",
		Long: `Generate the menus after the startup delay, then regenerate them whenever
the maven_menu_commands setting changes.

Each line read from stdin is taken as the path of the newly active document
and shows or hides the menus for it; an empty line means no document.

Only one watcher may serve a package directory at a time; with --wait a
second watcher blocks until the first exits.`,
		Example: `  # Follow settings changes until interrupted
  mavenmenu watch --plugin-dir ~/.config/sublime-text/Packages/Maven \
    --settings ~/.config/sublime-text/Packages/User/Preferences.sublime-settings`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := appConfig()
			if err != nil {
				return err
			}
			if settingsFile != "" {
				cfg.Plugin.SettingsFile = config.ExpandHome(settingsFile)
			}
			if noDelay {
				cfg.Plugin.StartupDelay = "0"
			}
			if err := requirePluginDir(cfg); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return runWatch(ctx, cmd, cfg, wait)
		},
	}

	cmd.Flags().StringVar(&settingsFile, "settings", "", "Settings file holding maven_menu_commands")
	cmd.Flags().BoolVar(&noDelay, "no-delay", false, "Skip the startup delay")
	cmd.Flags().BoolVar(&wait, "wait", false, "Wait for another watcher of the package directory to exit instead of failing")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, cfg *config.Config, wait bool) error {
	logger := slog.Default()

	fl := lock.ForPlugin(cfg.DataDir, cfg.Plugin.Dir)
	if wait {
		if err := fl.Lock(ctx); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}
	} else if err := fl.Acquire(cfg.Plugin.Dir); err != nil {
		return err
	}
	defer func() { _ = fl.Unlock() }()

	var (
		store settings.Store = settings.NewMemory()
		file  *settings.File
	)
	if cfg.Plugin.SettingsFile != "" {
		f, err := settings.OpenFile(cfg.Plugin.SettingsFile, logger)
		if err != nil {
			return err
		}
		store, file = f, f
	}

	locator := pom.NewCached(pom.Walker{}, cfg.Locator.CacheSize)
	p := plugin.New(cfg, store, locator, plugin.WithLogger(logger))

	out := output.New(cmd.ErrOrStderr())
	out.Infof("Watching %s", cfg.Plugin.Dir)

	select {
	case <-ctx.Done():
		return nil
	case <-time.After(cfg.StartupDelay()):
	}

	if err := p.OnStartup(ctx); err != nil {
		logger.Warn("initial menu generation failed", slog.Any("error", menuerrors.FormatForLog(err)))
	}

	g, gctx := errgroup.WithContext(ctx)
	if file != nil {
		g.Go(func() error {
			return file.Watch(gctx, cfg.WatchOptions())
		})
	}
	g.Go(func() error {
		return readActivations(gctx, cmd.InOrStdin(), p)
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// readActivations feeds each stdin line to the plugin as the active
// document until ctx is done. End of input is not an error.
func readActivations(ctx context.Context, r io.Reader, p *plugin.Plugin) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				return nil
			}
			p.OnDocumentActivated(strings.TrimSpace(line))
		}
	}
}

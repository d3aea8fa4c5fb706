// Package plugin ties the menu generator to the editor's events: startup,
// a change of the command list setting, and activation of a document.
package plugin

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Aman-CERP/mavenmenu/internal/config"
	menuerrors "github.com/Aman-CERP/mavenmenu/internal/errors"
	"github.com/Aman-CERP/mavenmenu/internal/menu"
	"github.com/Aman-CERP/mavenmenu/internal/pom"
	"github.com/Aman-CERP/mavenmenu/internal/settings"
	"github.com/Aman-CERP/mavenmenu/internal/visibility"
)

// Plugin reacts to editor events for one package directory.
type Plugin struct {
	key     string
	store   settings.Store
	locator pom.Locator
	synth   *menu.Synthesizer
	toggler *visibility.Toggler
	logger  *slog.Logger

	mu     sync.Mutex
	active string
}

// Option configures a Plugin.
type Option func(*pluginOptions)

type pluginOptions struct {
	logger   *slog.Logger
	menuOpts []menu.Option
}

// WithLogger sets the logger used by the plugin and its components.
func WithLogger(l *slog.Logger) Option {
	return func(o *pluginOptions) { o.logger = l }
}

// WithMenuOptions passes extra options to the synthesizer.
func WithMenuOptions(opts ...menu.Option) Option {
	return func(o *pluginOptions) { o.menuOpts = append(o.menuOpts, opts...) }
}

// New creates a Plugin writing into cfg.Plugin.Dir and reading the command
// list from store under cfg.Plugin.SettingsKey.
func New(cfg *config.Config, store settings.Store, locator pom.Locator, opts ...Option) *Plugin {
	o := pluginOptions{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	key := cfg.Plugin.SettingsKey
	if key == "" {
		key = config.DefaultSettingsKey
	}
	if locator == nil {
		locator = pom.Walker{}
	}

	p := &Plugin{
		key:     key,
		store:   store,
		locator: locator,
		toggler: visibility.New(cfg.Plugin.Dir, o.logger),
		logger:  o.logger,
	}

	menuOpts := []menu.Option{
		menu.WithAtomicWrites(cfg.Output.AtomicWrites),
		menu.WithLogger(o.logger),
		menu.WithAfterWrite(func() { p.RefreshVisibility() }),
	}
	p.synth = menu.NewSynthesizer(cfg.Plugin.Dir, append(menuOpts, o.menuOpts...)...)
	return p
}

// OnStartup subscribes to changes of the command list, replacing any
// earlier subscription, and generates the menus once.
func (p *Plugin) OnStartup(ctx context.Context) error {
	p.store.ClearOnChange(p.key)
	p.store.AddOnChange(p.key, func() {
		if err := p.OnSettingChanged(ctx); err != nil {
			p.logger.Warn("menu regeneration failed",
				slog.String("key", p.key),
				slog.Any("error", menuerrors.FormatForLog(err)))
		}
	})
	return p.Generate(ctx)
}

// OnSettingChanged regenerates the menus from the current setting value.
func (p *Plugin) OnSettingChanged(ctx context.Context) error {
	p.logger.Debug("command list changed", slog.String("key", p.key))
	return p.Generate(ctx)
}

// Generate runs one synthesis with the configured command list, or the
// built-in defaults when the setting is absent.
func (p *Plugin) Generate(ctx context.Context) error {
	commands, err := p.Commands()
	if err != nil {
		return err
	}
	return p.synth.Synthesize(ctx, commands)
}

// Commands returns the configured command list, or nil when the setting is
// absent or null.
func (p *Plugin) Commands() ([]menu.CommandDescriptor, error) {
	var commands []menu.CommandDescriptor
	if _, err := p.store.Get(p.key, &commands); err != nil {
		return nil, err
	}
	return commands, nil
}

// OnDocumentActivated records path as the active document and shows the
// menus only if it belongs to a Maven project. An empty path means no
// document is active.
func (p *Plugin) OnDocumentActivated(path string) visibility.State {
	p.SetActive(path)
	return p.RefreshVisibility()
}

// SetActive records the active document without touching the menus.
func (p *Plugin) SetActive(path string) {
	p.mu.Lock()
	p.active = path
	p.mu.Unlock()
}

// RefreshVisibility re-applies visibility for the active document.
func (p *Plugin) RefreshVisibility() visibility.State {
	p.mu.Lock()
	active := p.active
	p.mu.Unlock()

	state := p.toggler.Refresh(func() bool {
		return active != "" && p.locator.FindNearestPOM(active) != ""
	})
	p.logger.Debug("menu visibility refreshed",
		slog.String("active", active),
		slog.String("state", state.String()))
	return state
}

// Active returns the active document path.
func (p *Plugin) Active() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Dir returns the package directory.
func (p *Plugin) Dir() string {
	return p.synth.Dir()
}

// Key returns the settings key holding the command list.
func (p *Plugin) Key() string {
	return p.key
}

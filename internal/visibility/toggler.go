// Package visibility shows or hides the generated context and side-bar menus
// by renaming them, since the editor offers no other way to hide a menu file.
package visibility

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// HiddenSuffix is appended to a menu file name to hide it from the editor.
const HiddenSuffix = "-hidden"

// Menu files toggled, in the order they are moved.
var menuFiles = []string{"Side Bar.sublime-menu", "Context.sublime-menu"}

// State is the visibility of the generated menus.
type State int

const (
	// Unknown means neither visible nor hidden menu files exist.
	Unknown State = iota
	Visible
	Hidden
)

func (s State) String() string {
	switch s {
	case Visible:
		return "visible"
	case Hidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Toggler moves the menu files of one package directory between their
// visible and hidden names.
type Toggler struct {
	dir    string
	logger *slog.Logger
}

// New creates a Toggler for dir. A nil logger uses slog.Default.
func New(dir string, logger *slog.Logger) *Toggler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Toggler{dir: dir, logger: logger}
}

// Refresh evaluates show and applies the matching state. The menus are
// visible only when show reports true.
func (t *Toggler) Refresh(show func() bool) State {
	state := Hidden
	if show != nil && show() {
		state = Visible
	}
	t.Apply(state)
	return state
}

// Apply moves every menu file into state. A file already in place, or
// missing altogether, is left alone; each move is attempted on its own so
// one failure does not strand the other menu. Errors are logged, never
// returned.
//
// The visible name always holds the newest output: when showing a menu that
// was regenerated while hidden, the stale hidden copy is removed instead of
// renamed over it.
func (t *Toggler) Apply(state State) {
	if state != Visible && state != Hidden {
		return
	}
	for _, name := range menuFiles {
		origin := filepath.Join(t.dir, name)
		hidden := origin + HiddenSuffix

		if state == Visible && exists(origin) {
			if err := os.Remove(hidden); err != nil && !errors.Is(err, fs.ErrNotExist) {
				t.logger.Debug("stale hidden menu not removed",
					slog.String("path", hidden),
					slog.String("error", err.Error()))
			}
			continue
		}

		from, to := origin, hidden
		if state == Visible {
			from, to = hidden, origin
		}

		if err := os.Rename(from, to); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			t.logger.Debug("menu rename failed",
				slog.String("from", from),
				slog.String("to", to),
				slog.String("error", err.Error()))
		}
	}
}

// Current infers the state from the files on disk. Mixed states report the
// state of the context menu.
func (t *Toggler) Current() State {
	base := filepath.Join(t.dir, menuFiles[len(menuFiles)-1])
	switch {
	case exists(base):
		return Visible
	case exists(base + HiddenSuffix):
		return Hidden
	default:
		return Unknown
	}
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

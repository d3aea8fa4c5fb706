package menu

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	menuerrors "github.com/Aman-CERP/mavenmenu/internal/errors"
)

// Documents is the rendered output of one synthesis run.
type Documents struct {
	// Commands is the list as written to the command palette file,
	// captions still carrying the "Maven: " prefix.
	Commands []CommandDescriptor
	// Menu is the tree written to both menu files.
	Menu []MenuItem

	CommandsText []byte
	MenuText     []byte
}

// Build renders the three output documents from the user's command list,
// or from DefaultCommands when commands is nil. The input is not modified.
//
// The palette list is serialized after the catch-all entry is ensured but
// before the caption prefix is stripped, so only the menu files lose it.
func Build(commands []CommandDescriptor) (*Documents, error) {
	if commands == nil {
		commands = DefaultCommands()
	}

	list := make([]CommandDescriptor, 0, len(commands)+3)
	hasCatchAll := false
	for i, c := range commands {
		if c.Args == nil || c.Args.Goals == nil {
			return nil, menuerrors.ValidationError(
				fmt.Sprintf("command %d (%q) has no args.goals", i, c.Caption), nil).
				WithSuggestion("Give every maven_menu_commands entry an args object with a goals list")
		}
		if c.IsCatchAll() {
			hasCatchAll = true
		}
		list = append(list, c.Clone())
	}
	if !hasCatchAll {
		list = append(list, catchAll())
	}

	commandsText, err := encode(list)
	if err != nil {
		return nil, err
	}
	palette := make([]CommandDescriptor, len(list))
	for i, c := range list {
		palette[i] = c.Clone()
	}

	items := make([]MenuItem, 0, len(list)+2)
	for _, c := range list {
		c.Caption = strings.Replace(c.Caption, CaptionPrefix, "", 1)
		items = append(items, c.Item())
	}
	items = append(items, MenuItem{Caption: SeparatorCaption}, importProjects().Item())

	tree := []MenuItem{{
		Caption: ProjectMenuCaption,
		ID:      ProjectMenuID,
		Children: []MenuItem{
			{Caption: SeparatorCaption, ID: CommandsSeparatorID},
			{Caption: MavenSubmenuCaption, Children: items},
		},
	}}

	treeText, err := encode(tree)
	if err != nil {
		return nil, err
	}
	var menuText bytes.Buffer
	menuText.WriteString(AutoGeneratedComment + "\n")
	menuText.Write(treeText)
	menuText.WriteString("\n" + AutoGeneratedComment + "\n")

	return &Documents{
		Commands:     palette,
		Menu:         tree,
		CommandsText: commandsText,
		MenuText:     menuText.Bytes(),
	}, nil
}

// encode renders v as JSON with a four space indent and no trailing newline.
func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, menuerrors.New(menuerrors.ErrCodeEncodeFailed, "failed to encode menu document", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// WriteFunc writes a whole file.
type WriteFunc func(path string, data []byte, perm os.FileMode) error

// Synthesizer writes the generated menus into a package directory.
type Synthesizer struct {
	dir        string
	write      WriteFunc
	afterWrite func()
	logger     *slog.Logger
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithAtomicWrites switches between in-place truncating writes (the
// default) and temp-file-and-rename writes.
func WithAtomicWrites(atomic bool) Option {
	return func(s *Synthesizer) {
		if atomic {
			s.write = writeFileAtomic
		} else {
			s.write = os.WriteFile
		}
	}
}

// WithWriteFunc replaces the file writer.
func WithWriteFunc(fn WriteFunc) Option {
	return func(s *Synthesizer) { s.write = fn }
}

// WithAfterWrite registers a hook run once after all three files are
// written, typically the visibility refresh.
func WithAfterWrite(fn func()) Option {
	return func(s *Synthesizer) { s.afterWrite = fn }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Synthesizer) { s.logger = l }
}

// NewSynthesizer creates a Synthesizer bound to the package directory dir.
func NewSynthesizer(dir string, opts ...Option) *Synthesizer {
	s := &Synthesizer{
		dir:    dir,
		write:  os.WriteFile,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the package directory.
func (s *Synthesizer) Dir() string {
	return s.dir
}

// Synthesize builds the documents for commands and overwrites the three
// output files. A missing package directory is not an error: the editor
// removes it while uninstalling, so the run does nothing.
func (s *Synthesizer) Synthesize(ctx context.Context, commands []CommandDescriptor) error {
	if info, err := os.Stat(s.dir); err != nil || !info.IsDir() {
		s.logger.Debug("package directory missing, skipping generation",
			slog.String("dir", s.dir))
		return nil
	}

	docs, err := Build(commands)
	if err != nil {
		return err
	}

	files := []struct {
		name string
		data []byte
	}{
		{ContextMenuFile, docs.MenuText},
		{SideBarMenuFile, docs.MenuText},
		{CommandsFile, docs.CommandsText},
	}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(s.dir, f.name)
		if err := s.write(path, f.data, 0o644); err != nil {
			return writeError(path, err)
		}
	}

	s.logger.Info("menus generated",
		slog.String("dir", s.dir),
		slog.Int("commands", len(docs.Commands)))

	if s.afterWrite != nil {
		s.afterWrite()
	}
	return nil
}

func writeError(path string, err error) error {
	switch {
	case errors.Is(err, syscall.ENOSPC):
		return menuerrors.New(menuerrors.ErrCodeDiskFull, "no space left writing "+path, err).
			WithDetail("path", path)
	case os.IsPermission(err):
		return menuerrors.New(menuerrors.ErrCodeFilePermission, "permission denied writing "+path, err).
			WithDetail("path", path).
			WithSuggestion("Check that the package directory is writable")
	default:
		return menuerrors.WriteError(path, err)
	}
}

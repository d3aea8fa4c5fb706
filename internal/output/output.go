// Package output formats CLI status lines. Icons are used only when the
// destination is a terminal.
package output

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Writer prints status lines for the CLI.
type Writer struct {
	out   io.Writer
	icons bool
}

// New creates a Writer. Icons are enabled when out is a terminal.
func New(out io.Writer) *Writer {
	return &Writer{out: out, icons: isTerminal(out)}
}

// NewPlain creates a Writer that never prints icons.
func NewPlain(out io.Writer) *Writer {
	return &Writer{out: out}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Status prints msg behind icon, or behind a plain tag when icons are off.
func (w *Writer) Status(icon, tag, msg string) {
	prefix := tag
	if w.icons {
		prefix = icon
	}
	if prefix == "" {
		_, _ = fmt.Fprintln(w.out, msg)
		return
	}
	_, _ = fmt.Fprintf(w.out, "%s %s\n", prefix, msg)
}

// Success prints a success line.
func (w *Writer) Success(msg string) {
	w.Status("✅", "ok:", msg)
}

// Successf prints a formatted success line.
func (w *Writer) Successf(format string, args ...any) {
	w.Success(fmt.Sprintf(format, args...))
}

// Warning prints a warning line.
func (w *Writer) Warning(msg string) {
	w.Status("⚠️ ", "warning:", msg)
}

// Warningf prints a formatted warning line.
func (w *Writer) Warningf(format string, args ...any) {
	w.Warning(fmt.Sprintf(format, args...))
}

// Info prints an untagged line.
func (w *Writer) Info(msg string) {
	w.Status("", "", msg)
}

// Infof prints a formatted untagged line.
func (w *Writer) Infof(format string, args ...any) {
	w.Info(fmt.Sprintf(format, args...))
}

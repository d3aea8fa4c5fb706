package logging

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"slices"
	"strings"
	"time"
)

// LogEntry is one parsed JSON log line.
type LogEntry struct {
	Time    time.Time
	Level   string
	Msg     string
	Attrs   map[string]any
	Raw     string
	IsValid bool
}

// ViewerConfig configures the log viewer.
type ViewerConfig struct {
	Level   string         // minimum level to show
	Pattern *regexp.Regexp // raw-line filter
	NoColor bool
}

// Viewer prints the tail of a mavenmenu log file.
type Viewer struct {
	config ViewerConfig
	out    io.Writer
}

// NewViewer creates a new log viewer.
func NewViewer(cfg ViewerConfig, out io.Writer) *Viewer {
	return &Viewer{config: cfg, out: out}
}

// Tail reads the last n lines from path and returns the entries that pass
// the configured filters.
func (v *Viewer) Tail(path string, n int) ([]LogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
		if len(lines) > n {
			lines = lines[1:]
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read log file: %w", err)
	}

	var entries []LogEntry
	for _, line := range lines {
		if e := parseLine(line); v.matches(e) {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// Print writes entries to the viewer output, one per line.
func (v *Viewer) Print(entries []LogEntry) {
	for _, e := range entries {
		_, _ = fmt.Fprintln(v.out, v.FormatEntry(e))
	}
}

// FormatEntry renders a single entry as "15:04:05.000 LEVEL msg k=v ...".
// Attributes are sorted by key so output is stable.
func (v *Viewer) FormatEntry(e LogEntry) string {
	if !e.IsValid {
		return e.Raw
	}

	keys := make([]string, 0, len(e.Attrs))
	for k := range e.Attrs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var sb strings.Builder
	sb.WriteString(e.Time.Format("15:04:05.000"))
	sb.WriteByte(' ')
	sb.WriteString(v.formatLevel(e.Level))
	sb.WriteByte(' ')
	sb.WriteString(e.Msg)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, e.Attrs[k])
	}
	return sb.String()
}

func parseLine(line string) LogEntry {
	e := LogEntry{Raw: line}

	var data map[string]any
	if err := json.Unmarshal([]byte(line), &data); err != nil {
		return e
	}
	e.IsValid = true

	if s, ok := data["time"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
			e.Time = t
		}
	}
	e.Level, _ = data["level"].(string)
	e.Msg, _ = data["msg"].(string)

	e.Attrs = make(map[string]any, len(data))
	for k, val := range data {
		switch k {
		case "time", "level", "msg":
		default:
			e.Attrs[k] = val
		}
	}
	return e
}

func (v *Viewer) matches(e LogEntry) bool {
	if v.config.Level != "" && LevelFromString(e.Level) < LevelFromString(v.config.Level) {
		return false
	}
	if v.config.Pattern != nil && !v.config.Pattern.MatchString(e.Raw) {
		return false
	}
	return true
}

func (v *Viewer) formatLevel(level string) string {
	s := strings.ToUpper(level)
	if len(s) > 5 {
		s = s[:5]
	}
	s = fmt.Sprintf("%-5s", s)

	if v.config.NoColor {
		return s
	}

	switch strings.ToLower(level) {
	case "debug":
		return "\033[90m" + s + "\033[0m"
	case "info":
		return "\033[32m" + s + "\033[0m"
	case "warn", "warning":
		return "\033[33m" + s + "\033[0m"
	case "error":
		return "\033[31m" + s + "\033[0m"
	default:
		return s
	}
}

package logging

import (
	"io"
	"log/slog"
	"strings"
)

// Config describes the JSON file log.
type Config struct {
	Level     string // debug, info, warn, error
	FilePath  string // empty uses DefaultLogPath
	MaxSizeMB int    // rotate past this size
	MaxFiles  int    // rolled files kept

	// Tee, when set, receives a copy of every entry (usually stderr).
	Tee io.Writer
}

// DefaultConfig logs at info to the default path, 10 MB x 5 files.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		FilePath:  DefaultLogPath(),
		MaxSizeMB: 10,
		MaxFiles:  5,
	}
}

// FileConfig is DefaultConfig at level, writing under dataDir.
func FileConfig(dataDir, level string) Config {
	cfg := DefaultConfig()
	cfg.Level = level
	cfg.FilePath = LogPathIn(dataDir)
	return cfg
}

// Setup opens the rotating log file and returns a JSON logger over it.
// Call the returned func to flush and close the file.
func Setup(cfg Config) (*slog.Logger, func(), error) {
	path := cfg.FilePath
	if path == "" {
		path = DefaultLogPath()
	}

	rw, err := NewRotatingWriter(path, cfg.MaxSizeMB, cfg.MaxFiles)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = rw
	if cfg.Tee != nil {
		w = io.MultiWriter(rw, cfg.Tee)
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLevel(cfg.Level)}))
	closeFn := func() {
		_ = rw.Sync()
		_ = rw.Close()
	}
	return logger, closeFn, nil
}

// SetupConsole returns a text logger on w for runs without a log file.
func SetupConsole(w io.Writer, level string) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: parseLevel(level)}))
}

// parseLevel maps a level name to slog; unknown names mean info.
func parseLevel(level string) slog.Level {
	levels := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	if l, ok := levels[strings.ToLower(level)]; ok {
		return l
	}
	return slog.LevelInfo
}

// LevelFromString converts string level to slog.Level (exported for use by log viewer).
func LevelFromString(level string) slog.Level {
	return parseLevel(level)
}

// ValidLevel reports whether level names one of the supported log levels.
func ValidLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

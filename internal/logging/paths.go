package logging

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultLogDir returns the default log directory (~/.mavenmenu/logs/).
// Falls back to temp directory if home directory is unavailable.
func DefaultLogDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".mavenmenu", "logs")
	}
	return filepath.Join(home, ".mavenmenu", "logs")
}

// DefaultLogPath returns the default log file path.
func DefaultLogPath() string {
	return filepath.Join(DefaultLogDir(), "mavenmenu.log")
}

// LogPathIn returns the log file path under a custom data directory.
func LogPathIn(dataDir string) string {
	if dataDir == "" {
		return DefaultLogPath()
	}
	return filepath.Join(dataDir, "logs", "mavenmenu.log")
}

// FindLogFile attempts to find the log file for viewing.
// An explicit path wins; otherwise the default path is tried.
func FindLogFile(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit, nil
		}
		return "", fmt.Errorf("log file not found: %s", explicit)
	}

	path := DefaultLogPath()
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	return "", fmt.Errorf("no log file found. Run with --debug first.\nExpected at: %s", path)
}

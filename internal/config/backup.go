package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

const (
	// MaxBackups is the maximum number of config backups to keep
	MaxBackups = 3

	// BackupSuffix is the file extension for backup files
	BackupSuffix = ".bak"
)

// BackupUserConfig copies the user config to a timestamped sibling and
// returns its path. It returns "" and no error when there is nothing to back up.
func BackupUserConfig() (string, error) {
	if !UserConfigExists() {
		return "", nil
	}

	configPath := GetUserConfigPath()
	data, err := os.ReadFile(configPath)
	if err != nil {
		return "", fmt.Errorf("failed to read config for backup: %w", err)
	}

	backupPath := fmt.Sprintf("%s%s.%s", configPath, BackupSuffix, time.Now().Format("20060102-150405.000"))
	if err := os.WriteFile(backupPath, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	// best effort; the backup itself succeeded
	_ = pruneBackups()

	return backupPath, nil
}

// ListUserConfigBackups returns all backup files for the user config, newest first.
func ListUserConfigBackups() ([]string, error) {
	configDir := GetUserConfigDir()
	entries, err := os.ReadDir(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list config directory: %w", err)
	}

	prefix := filepath.Base(GetUserConfigPath()) + BackupSuffix + "."
	var backups []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), prefix) {
			backups = append(backups, filepath.Join(configDir, e.Name()))
		}
	}

	// timestamps sort lexically; reverse for newest first
	slices.Sort(backups)
	slices.Reverse(backups)
	return backups, nil
}

func pruneBackups() error {
	backups, err := ListUserConfigBackups()
	if err != nil || len(backups) <= MaxBackups {
		return err
	}
	for _, b := range backups[MaxBackups:] {
		_ = os.Remove(b)
	}
	return nil
}

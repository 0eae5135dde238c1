package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	envDataDir = "INVEST_DATA_DIR"
	envDBPath  = "INVEST_DB_PATH"

	defaultDBName = "portfolio.db"
)

var runtimeDataDir string

// SetRuntimeDataDir overrides the data directory, typically from a flag.
func SetRuntimeDataDir(dir string) {
	runtimeDataDir = strings.TrimSpace(dir)
}

// GetDataDir resolves the data directory: flag override, then environment,
// then the platform user config dir.
func GetDataDir() (string, error) {
	if runtimeDataDir != "" {
		return runtimeDataDir, nil
	}
	if env := strings.TrimSpace(os.Getenv(envDataDir)); env != "" {
		return env, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return "", err
		}
		return filepath.Join(home, ".invest"), nil
	}
	return filepath.Join(configDir, "invest"), nil
}

// GetDBPath resolves the SQLite database path.
func GetDBPath() (string, error) {
	if env := strings.TrimSpace(os.Getenv(envDBPath)); env != "" {
		return env, nil
	}
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, defaultDBName), nil
}

package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "sampledb"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/sampledb by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// DataDir returns the directory path for local data such as the SQLite
// document store.
// Returns ~/.local/share/sampledb by default.
func DataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/sampledb/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(DataDir(homeDir), "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/sampledb/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// CentresFilePath returns the full path to the centres.yaml file.
// Returns ~/.config/sampledb/centres.yaml by default.
func CentresFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "centres.yaml")
}

// SQLitePath returns the SQLite file used by the sqlite backend.
func (c *Config) SQLitePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return filepath.Join(DataDir(c.HomeDir), AppName+".sqlite")
}

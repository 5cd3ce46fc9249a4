// Package iofs prepares the directories and default configuration files
// of sampledb.
package iofs

import (
	_ "embed"
	"os"

	"github.com/gnames/sampledb/pkg/config"
)

// ConfigYAML is the default config.yaml with all settings documented.
//
//go:embed config.yaml
var ConfigYAML string

// CentresYAML is the default centres.yaml.
//
//go:embed centres.yaml
var CentresYAML string

// EnsureDirs creates config, data and log directories if they are
// missing.
func EnsureDirs(homeDir string) error {
	dirs := []struct{ kind, path string }{
		{"config", config.ConfigDir(homeDir)},
		{"data", config.DataDir(homeDir)},
		{"log", config.LogDir(homeDir)},
	}
	for _, v := range dirs {
		if err := os.MkdirAll(v.path, 0755); err != nil {
			return DirError(v.kind, v.path, err)
		}
	}
	return nil
}

// EnsureConfigFile writes the default config.yaml unless the user
// already has one.
func EnsureConfigFile(homeDir string) error {
	return ensureFile(config.ConfigFilePath(homeDir), ConfigYAML)
}

// EnsureCentresFile writes the default centres.yaml unless the user
// already has one.
func EnsureCentresFile(homeDir string) error {
	return ensureFile(config.CentresFilePath(homeDir), CentresYAML)
}

func ensureFile(path, content string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return DefaultFileError(path, err)
	}

	return nil
}

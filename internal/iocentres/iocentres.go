// Package iocentres loads centres.yaml from the configuration directory.
package iocentres

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gnames/sampledb/pkg/centres"
	"github.com/gnames/sampledb/pkg/config"
	"gopkg.in/yaml.v3"
)

type iocentres struct {
	path string
}

// New creates a loader of centres.yaml located in the configuration
// directory of cfg.HomeDir.
func New(cfg *config.Config) centres.Centres {
	res := iocentres{path: config.CentresFilePath(cfg.HomeDir)}
	return &res
}

// NewFromFile creates a loader of a centres file at the given path.
func NewFromFile(path string) centres.Centres {
	return &iocentres{path: path}
}

func (c *iocentres) Load() (*centres.CentresConfig, error) {
	res, err := loadCentresConfig(c.path)
	if err != nil {
		return nil, CentresConfigError(c.path, err)
	}
	slog.Info("Centres configuration loaded",
		"path", c.path, "centres", len(res.Centres))
	return res, nil
}

// loadCentresConfig reads and validates centres.yaml from disk.
func loadCentresConfig(path string) (*centres.CentresConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read centres config file: %w", err)
	}

	var res centres.CentresConfig
	if err := yaml.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("failed to parse centres config: %w", err)
	}

	if err := res.Validate(); err != nil {
		return nil, err
	}

	return &res, nil
}

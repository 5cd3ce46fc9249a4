// Package iostore selects a document store implementation according to
// the configuration.
package iostore

import (
	"github.com/gnames/sampledb/internal/iomongo"
	"github.com/gnames/sampledb/internal/iopg"
	"github.com/gnames/sampledb/internal/iosqlite"
	"github.com/gnames/sampledb/pkg/config"
	"github.com/gnames/sampledb/pkg/docstore"
)

// New validates the configuration and returns a provider of the
// configured backend (without connecting).
func New(cfg *config.Config) (docstore.Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Database.Backend {
	case "postgres":
		return iopg.New(cfg), nil
	case "sqlite":
		return iosqlite.New(cfg), nil
	default:
		return iomongo.New(cfg), nil
	}
}

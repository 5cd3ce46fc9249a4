package config

import (
	"errors"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/sampledb/pkg/errcode"
)

// Validate checks that the connection parameters required by the selected
// backend are present. It is called right before a connection is made,
// because options cannot express "required together" constraints.
func (c *Config) Validate() error {
	db := c.Database
	var missing []string
	switch db.Backend {
	case "mongo":
		if db.URI == "" && db.Host == "" {
			missing = append(missing, "uri or host")
		}
		if db.Database == "" {
			missing = append(missing, "database")
		}
	case "postgres":
		if db.Host == "" {
			missing = append(missing, "host")
		}
		if db.User == "" {
			missing = append(missing, "user")
		}
		if db.Database == "" {
			missing = append(missing, "database")
		}
	case "sqlite":
		if db.Path == "" && c.HomeDir == "" {
			missing = append(missing, "path")
		}
	default:
		return &gn.Error{
			Code: errcode.ConfigBackendError,
			Msg:  "Unknown database backend <em>%s</em>",
			Vars: []any{db.Backend},
			Err:  fmt.Errorf("unknown backend %q", db.Backend),
		}
	}

	if c.Import.FilterField == "" {
		missing = append(missing, "import.filter_field")
	}

	if len(missing) > 0 {
		return MissingParamError(db.Backend, missing)
	}
	return nil
}

// MissingParamError is returned when required connection parameters
// are absent.
func MissingParamError(backend string, params []string) error {
	msg := `Configuration is incomplete for <em>%s</em> backend

<em>Missing parameters:</em> %v

<em>How to fix:</em>
  1. Set the parameters in ~/.config/sampledb/config.yaml
  2. Or use SAMPLEDB_DATABASE_* environment variables`

	return &gn.Error{
		Code: errcode.ConfigMissingParamError,
		Msg:  msg,
		Vars: []any{backend, params},
		Err: fmt.Errorf("missing configuration for %s: %w",
			backend, errors.New(fmt.Sprint(params))),
	}
}

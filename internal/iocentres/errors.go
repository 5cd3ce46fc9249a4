package iocentres

import (
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/sampledb/pkg/errcode"
)

// CentresConfigError creates an error for when centres.yaml
// cannot be loaded.
func CentresConfigError(path string, err error) error {
	msg := `Cannot load centres configuration

<em>Configuration file:</em> %s

<em>Possible causes:</em>
  - File does not exist
  - Invalid YAML format
  - Invalid regular expression

<em>How to fix:</em>
  1. Check if file exists: <em>ls -l %s</em>
  2. Validate YAML syntax
  3. Remove the file to restore defaults on the next run`

	vars := []any{path, path}

	return &gn.Error{
		Code: errcode.CentresConfigError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to load centres config: %w", err),
	}
}

// CentresNotFoundError is returned when requested centres are absent
// from centres.yaml.
func CentresNotFoundError(names []string) error {
	msg := "Unknown centres: <em>%s</em>"
	list := strings.Join(names, ", ")
	return &gn.Error{
		Code: errcode.CentresNotFoundError,
		Msg:  msg,
		Vars: []any{list},
		Err:  fmt.Errorf("centres not found in configuration: %s", list),
	}
}

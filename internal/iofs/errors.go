package iofs

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/sampledb/pkg/errcode"
)

// DirError is returned when a config, data or log directory cannot be
// created.
func DirError(kind, dir string, err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CreateDirError,
		Msg:  "Cannot create %s directory <em>%s</em>",
		Vars: []any{kind, dir},
		Err: fmt.Errorf("from %s: mkdir %s: %w",
			fn.Name(), dir, err),
	}
}

// DefaultFileError is returned when a default config.yaml or centres.yaml
// cannot be written.
func DefaultFileError(path string, err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.WriteDefaultFileError,
		Msg:  "Cannot write default <em>%s</em> into %s",
		Vars: []any{filepath.Base(path), filepath.Dir(path)},
		Err: fmt.Errorf("from %s: write %s: %w",
			fn.Name(), path, err),
	}
}

// ConfigReadError is returned when config.yaml cannot be read or
// decoded.
func ConfigReadError(path string, err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ConfigReadError,
		Msg:  "Cannot read configuration from <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("from %s: read %s: %w", fn.Name(), path, err),
	}
}

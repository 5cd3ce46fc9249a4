package iocsv

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/sampledb/pkg/errcode"
)

// OpenError is returned when a report cannot be opened.
func OpenError(path string, err error) error {
	msg := "Cannot open report <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CSVOpenError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("from %s: cannot open %s: %w", fn.Name(), path, err),
	}
}

// HeaderError is returned when the header of a report is absent or
// misses required columns.
func HeaderError(path string, missing []string, err error) error {
	msg := `Report <em>%s</em> has an invalid header

<em>Missing columns:</em> %s`
	list := strings.Join(missing, ", ")
	vars := []any{path, list}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	if err == nil {
		err = fmt.Errorf("missing columns: %s", list)
	}
	return &gn.Error{
		Code: errcode.CSVHeaderError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: bad header in %s: %w",
			fn.Name(), path, err),
	}
}

// ReadError is returned when a report is not a valid CSV file.
func ReadError(path string, line int, err error) error {
	msg := "Cannot read report <em>%s</em> at line %d"
	vars := []any{path, line}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CSVReadError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot read %s line %d: %w",
			fn.Name(), path, line, err),
	}
}

package iologger

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/sampledb/pkg/errcode"
)

// LogFileError is returned when the log file cannot be opened for
// appending.
func LogFileError(logDir string, err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.LogFileError,
		Msg:  "Cannot open <em>%s</em> in %s",
		Vars: []any{LogFile, logDir},
		Err:  fmt.Errorf("from %s: open log in %s: %w", fn.Name(), logDir, err),
	}
}

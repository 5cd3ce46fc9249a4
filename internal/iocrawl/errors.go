package iocrawl

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/sampledb/pkg/errcode"
)

// FileNotFoundError is returned when a centre has no report to import.
func FileNotFoundError(centre, dir string, err error) error {
	msg := `No report found for <em>%s</em>

<em>Directory:</em> %s

<em>How to fix:</em>
  1. Download reports into the directory
  2. Check <em>file_regex</em> of the centre in centres.yaml`
	vars := []any{centre, dir}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	if err == nil {
		err = fmt.Errorf("no matching files")
	}
	return &gn.Error{
		Code: errcode.CrawlFileNotFoundError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: no report for %s in %s: %w",
			fn.Name(), centre, dir, err),
	}
}

// CancelledError is returned when a crawl is interrupted.
func CancelledError(err error) error {
	msg := "Import was cancelled"

	return &gn.Error{
		Code: errcode.CrawlCancelledError,
		Msg:  msg,
		Err:  fmt.Errorf("import cancelled: %w", err),
	}
}

// AllCentresFailedError is returned when no centre was imported.
func AllCentresFailedError(count int) error {
	msg := `Failed number of centres: <em>%d</em>`

	vars := []any{count}

	plural := "s"
	if count == 1 {
		plural = ""
	}

	return &gn.Error{
		Code: errcode.CrawlAllCentresFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("%d centre%s failed to import", count, plural),
	}
}

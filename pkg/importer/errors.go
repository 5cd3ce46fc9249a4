package importer

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/sampledb/pkg/errcode"
)

// ErrKeyLookup is wrapped by errors for records without a merge key.
var ErrKeyLookup = fmt.Errorf("record has no merge key")

// KeyLookupError is returned when a record does not contain the filter
// field or its value is empty.
func KeyLookupError(field string, index int) error {
	msg := `Record <em>%d</em> has no value for the filter field <em>%s</em>`
	vars := []any{index, field}
	return &gn.Error{
		Code: errcode.PopulateKeyLookupError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("record %d, field %q: %w",
			index, field, ErrKeyLookup),
	}
}

// MergeError is returned when a record cannot be merged into a collection.
func MergeError(
	coll, field, value string,
	index int,
	err error,
) error {
	msg := `Cannot merge record <em>%d</em> (%s: %s) into <em>%s</em>`
	vars := []any{index, field, value, coll}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.PopulateMergeError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot merge %s=%s into %s: %w",
			fn.Name(), field, value, coll, err),
	}
}

// CancelledError is returned when the context is done before all records
// are merged.
func CancelledError(coll string, index int, err error) error {
	msg := `Populating <em>%s</em> cancelled at record %d`
	vars := []any{coll, index}
	return &gn.Error{
		Code: errcode.PopulateCancelledError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("populate %s cancelled: %w", coll, err),
	}
}

// RecordCountError is returned for a negative number of records.
func RecordCountError(centre string, count int) error {
	msg := `Number of records for <em>%s</em> cannot be negative: %d`
	vars := []any{centre, count}
	return &gn.Error{
		Code: errcode.ImportRecordCountError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("negative number of records %d", count),
	}
}

// RecordWriteError is returned when an import record cannot be saved.
func RecordWriteError(centre, coll string, err error) error {
	msg := `Cannot save import record of <em>%s</em> to <em>%s</em>`
	vars := []any{centre, coll}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ImportRecordWriteError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot insert import record: %w",
			fn.Name(), err),
	}
}

// RecordReadError is returned when import records cannot be read.
func RecordReadError(coll string, err error) error {
	msg := `Cannot read import records from <em>%s</em>`
	vars := []any{coll}
	return &gn.Error{
		Code: errcode.ImportRecordReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot read %s: %w", coll, err),
	}
}

// SnapshotExistsError is returned when the target of a collection copy
// already exists.
func SnapshotExistsError(source, target string) error {
	msg := `Cannot copy <em>%s</em>: collection <em>%s</em> already exists

<em>How to fix:</em>
  Wait a minute and copy again, copies are named by minute.`
	vars := []any{source, target}
	return &gn.Error{
		Code: errcode.SnapshotExistsError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("collection %s already exists", target),
	}
}

// SnapshotReadError is returned when a collection cannot be read for
// copying.
func SnapshotReadError(source string, err error) error {
	msg := `Cannot read <em>%s</em> for copying`
	vars := []any{source}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SnapshotReadError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot read %s: %w",
			fn.Name(), source, err),
	}
}

// SnapshotWriteError is returned when copied documents cannot be written.
func SnapshotWriteError(source, target string, err error) error {
	msg := `Cannot copy <em>%s</em> to <em>%s</em>`
	vars := []any{source, target}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.SnapshotWriteError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot insert into %s: %w",
			fn.Name(), target, err),
	}
}

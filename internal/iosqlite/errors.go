package iosqlite

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/sampledb/pkg/errcode"
)

// ConnectionError is returned when the SQLite file cannot be opened.
func ConnectionError(path string, err error) error {
	msg := `Cannot open SQLite database <em>%s</em>

<em>How to fix:</em>
  1. Check that the directory exists and is writable
  2. Set <em>database.path</em> in ~/.config/sampledb/config.yaml`
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot open sqlite %s: %w",
			fn.Name(), path, err),
	}
}

// NotConnectedError is returned when the database is used before Connect.
func NotConnectedError() error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Database is not connected",
		Err:  fmt.Errorf("from %s: database is not connected", fn.Name()),
	}
}

// CollectionCheckError is returned when the list of tables cannot be read.
func CollectionCheckError(err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBCollectionCheckError,
		Msg:  "Cannot read the list of collections",
		Err: fmt.Errorf("from %s: cannot list tables: %w",
			fn.Name(), err),
	}
}

// QueryError is returned when documents of a collection cannot be read.
func QueryError(coll string, err error) error {
	msg := "Cannot read documents from <em>%s</em>"
	vars := []any{coll}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBQueryError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot query %s: %w",
			fn.Name(), coll, err),
	}
}

// WriteError is returned when documents cannot be saved to a collection.
func WriteError(coll string, err error) error {
	msg := "Cannot write documents to <em>%s</em>"
	vars := []any{coll}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBWriteError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot write to %s: %w",
			fn.Name(), coll, err),
	}
}

// CloseError is returned when the database file cannot be closed.
func CloseError(path string, err error) error {
	msg := "Cannot close SQLite database <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBCloseError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot close %s: %w",
			fn.Name(), path, err),
	}
}

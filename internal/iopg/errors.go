package iopg

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/sampledb/pkg/errcode"
)

// ConnectionError is returned when PostgreSQL server cannot be reached.
func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Could not connect to PostgreSQL database

<em>Possible causes:</em>
  * PostgreSQL is not running
  * Database configuration is incorrect

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>

  2. Check your configuration file:
     <em>~/.config/sampledb/config.yaml</em>

  3. Review connection settings:
     Host: %s
     Port: %d
     Database: %s
     User: %s`
	vars := []any{host, port, host, port, database, user}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: failed to connect to %s:%d/%s: %w",
			fn.Name(), host, port, database, err),
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

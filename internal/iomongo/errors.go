package iomongo

import (
	"fmt"
	"runtime"

	"github.com/gnames/gn"
	"github.com/gnames/sampledb/pkg/errcode"
)

// ConnectionError is returned when MongoDB server cannot be reached.
func ConnectionError(addr, database string, err error) error {
	msg := `Could not connect to MongoDB at <em>%s</em>

<em>Possible causes:</em>
  * MongoDB is not running
  * Connection settings are incorrect

<em>How to fix:</em>
  1. Check if MongoDB is running:
     <em>mongosh %s --eval "db.runCommand({ping: 1})"</em>

  2. Check your configuration file:
     <em>~/.config/sampledb/config.yaml</em>

  3. Review connection settings:
     Address: %s
     Database: %s`
	vars := []any{addr, addr, addr, database}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: failed to connect to %s/%s: %w",
			fn.Name(), addr, database, err),
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

// CollectionCheckError is returned when the list of collections cannot
// be read.
func CollectionCheckError(err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBCollectionCheckError,
		Msg:  "Cannot read the list of collections",
		Err: fmt.Errorf("from %s: cannot list collections: %w",
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

// CloseError is returned when the client cannot disconnect.
func CloseError(addr string, err error) error {
	msg := "Cannot disconnect from MongoDB at <em>%s</em>"
	vars := []any{addr}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBCloseError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot disconnect from %s: %w",
			fn.Name(), addr, err),
	}
}

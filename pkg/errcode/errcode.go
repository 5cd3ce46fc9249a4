package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	WriteDefaultFileError

	// Logging errors
	LogFileError

	// Configuration errors
	ConfigReadError
	ConfigMissingParamError
	ConfigBackendError

	// Centres errors
	CentresConfigError
	CentresNotFoundError

	// Document store errors
	DBConnectionError
	DBNotConnectedError
	DBCollectionCheckError
	DBQueryError
	DBWriteError
	DBCloseError

	// Populate errors
	PopulateKeyLookupError
	PopulateMergeError
	PopulateCancelledError

	// Import record errors
	ImportRecordCountError
	ImportRecordWriteError
	ImportRecordReadError

	// Snapshot errors
	SnapshotExistsError
	SnapshotReadError
	SnapshotWriteError

	// CSV errors
	CSVOpenError
	CSVHeaderError
	CSVReadError

	// Crawl errors
	CrawlFileNotFoundError
	CrawlCancelledError
	CrawlAllCentresFailedError
)

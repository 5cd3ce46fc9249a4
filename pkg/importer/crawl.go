package importer

import (
	"context"
	"time"
)

// Crawler imports the latest reports of all configured centres.
type Crawler interface {
	// Run syncs centres, parses reports, populates samples and records
	// an import for every centre.
	Run(ctx context.Context) (*Summary, error)
}

// Summary describes the outcome of a crawl.
type Summary struct {
	// Snapshot is the name of the copy of samples made before the import.
	// It is empty if no copy was requested.
	Snapshot string

	// Centres has one result per processed centre, in configuration order.
	Centres []CentreResult

	// Duration of the whole run.
	Duration time.Duration
}

// CentreResult is the outcome of importing one centre.
type CentreResult struct {
	// Centre is the name of the centre.
	Centre string

	// File is the report used for the import.
	File string

	// Parsed is the number of records read from the report.
	Parsed int

	// Inserted is the number of records merged into samples.
	Inserted int

	// Errors are the messages saved in the import record.
	Errors []string

	// Err is set if the import of the centre failed.
	Err error
}

// Failed returns the number of centres with errors.
func (s *Summary) Failed() int {
	var res int
	for _, v := range s.Centres {
		if v.Err != nil {
			res++
		}
	}
	return res
}

// Package importer merges lab report records into a document store,
// keeps an audit trail of imports, and copies collections before risky
// writes.
//
// Functions of the package are synchronous and keep no state between
// calls. They do not coordinate concurrent callers; the only atomicity
// guarantee is the one the store gives to a single document write.
package importer

import (
	"time"

	"github.com/gnames/sampledb/pkg/docstore"
)

// now is replaced in tests.
var now = time.Now

// Record is one observation from a report, for example one sample.
type Record map[string]string

// Doc converts a record to a document.
func (r Record) Doc() docstore.Document {
	res := make(docstore.Document, len(r))
	for k, v := range r {
		res[k] = v
	}
	return res
}

// ImportRecord is an audit document that summarizes one import attempt.
type ImportRecord struct {
	// Date is the time of the import in DateLayout format.
	Date string
	// CentreName is the name of the centre that produced the report.
	CentreName string
	// CSVFileUsed is the name of the imported report.
	CSVFileUsed string
	// NumberOfRecords is the number of merged records.
	NumberOfRecords int
	// Errors contains messages collected during the import.
	Errors []string
}

// Doc converts an import record to a document. Errors are never nil, an
// import without errors keeps an empty list.
func (ir ImportRecord) Doc() docstore.Document {
	errs := ir.Errors
	if errs == nil {
		errs = []string{}
	}
	return docstore.Document{
		FieldDate:            ir.Date,
		FieldCentreName:      ir.CentreName,
		FieldCSVFileUsed:     ir.CSVFileUsed,
		FieldNumberOfRecords: ir.NumberOfRecords,
		FieldErrors:          errs,
	}
}

// ImportRecordFromDoc restores an import record from a stored document.
func ImportRecordFromDoc(doc docstore.Document) ImportRecord {
	var res ImportRecord
	res.Date, _ = doc.String(FieldDate)
	res.CentreName, _ = doc.String(FieldCentreName)
	res.CSVFileUsed, _ = doc.String(FieldCSVFileUsed)
	res.NumberOfRecords, _ = doc.Int(FieldNumberOfRecords)
	res.Errors, _ = doc.Strings(FieldErrors)
	if res.Errors == nil {
		res.Errors = []string{}
	}
	return res
}

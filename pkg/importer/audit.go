package importer

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/gnames/sampledb/pkg/centres"
	"github.com/gnames/sampledb/pkg/docstore"
)

// RecordImport inserts a new import record for a centre and returns the
// identifier of the inserted document. The record is always inserted,
// repeated imports of the same centre build a history.
//
// RecordImport does not depend on the outcome of Populate, callers pass
// the errors they collected, so a failed import is still documented.
func RecordImport(
	ctx context.Context,
	coll docstore.Collection,
	centre centres.Centre,
	docsInserted int,
	fileName string,
	errs []string,
) (any, error) {
	if docsInserted < 0 {
		return nil, RecordCountError(centre.Name, docsInserted)
	}

	slog.Debug("Creating the import record", "centre", centre.Name)

	ir := ImportRecord{
		Date:            now().Truncate(time.Second).Format(DateLayout),
		CentreName:      centre.Name,
		CSVFileUsed:     fileName,
		NumberOfRecords: docsInserted,
		Errors:          slices.Clone(errs),
	}

	id, err := coll.InsertOne(ctx, ir.Doc())
	if err != nil {
		return nil, RecordWriteError(centre.Name, coll.FullName(), err)
	}
	return id, nil
}

// ListImports returns import records sorted by date. If centreName is not
// empty, only records of that centre are returned.
func ListImports(
	ctx context.Context,
	coll docstore.Collection,
	centreName string,
) ([]ImportRecord, error) {
	var filter docstore.Filter
	if centreName != "" {
		filter = docstore.Filter{FieldCentreName: centreName}
	}

	docs, err := coll.Find(ctx, filter)
	if err != nil {
		return nil, RecordReadError(coll.FullName(), err)
	}

	res := make([]ImportRecord, len(docs))
	for i := range docs {
		res[i] = ImportRecordFromDoc(docs[i])
	}
	slices.SortStableFunc(res, func(a, b ImportRecord) int {
		return strings.Compare(a.Date, b.Date)
	})
	return res, nil
}

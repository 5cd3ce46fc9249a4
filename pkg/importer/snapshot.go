package importer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gnames/sampledb/pkg/docstore"
)

// SnapshotName returns the name of a copy of a collection made at the
// given time.
func SnapshotName(collName string, t time.Time) string {
	return fmt.Sprintf("%s_%s", collName, t.Format(SnapshotLayout))
}

// CopyCollection copies all documents of a collection, identifiers
// included, into a new collection named after the source and the current
// minute. It returns the name of the copy.
//
// The whole collection is loaded into memory first. If a collection with
// the computed name already exists (two copies within one minute),
// nothing is written and an error is returned. A copy of an empty
// collection writes nothing. A failed bulk insert is not cleaned up.
func CopyCollection(
	ctx context.Context,
	db docstore.Database,
	coll docstore.Collection,
) (string, error) {
	name := SnapshotName(coll.Name(), now())

	slog.Debug("Copying collection", "from", coll.Name(), "to", name)

	exists, err := db.HasCollection(ctx, name)
	if err != nil {
		return name, SnapshotReadError(coll.Name(), err)
	}
	if exists {
		return name, SnapshotExistsError(coll.Name(), name)
	}

	docs, err := coll.Find(ctx, nil)
	if err != nil {
		return name, SnapshotReadError(coll.Name(), err)
	}

	if len(docs) == 0 {
		slog.Debug("Nothing to copy", "collection", coll.Name())
		return name, nil
	}

	ids, err := db.Collection(name).InsertMany(ctx, docs)
	if err != nil {
		return name, SnapshotWriteError(coll.Name(), name, err)
	}

	slog.Debug("Documents copied", "count", len(ids), "to", name)
	return name, nil
}

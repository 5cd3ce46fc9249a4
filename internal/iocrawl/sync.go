package iocrawl

import (
	"context"
	"log/slog"

	"github.com/gnames/sampledb/pkg/centres"
	"github.com/gnames/sampledb/pkg/docstore"
	"github.com/gnames/sampledb/pkg/importer"
)

// SyncCentres saves the configuration of centres into the centres
// collection, keyed on the centre name.
func SyncCentres(
	ctx context.Context,
	db docstore.Database,
	cs []centres.Centre,
) error {
	records := make([]importer.Record, len(cs))
	for i := range cs {
		records[i] = importer.Record(cs[i].Fields())
	}

	coll := db.Collection(importer.CollectionCentres)
	err := importer.Populate(ctx, coll, records, importer.CentreNameField)
	if err != nil {
		return err
	}
	slog.Info("Centres synced", "collection", coll.FullName(), "count", len(cs))
	return nil
}

package iotesting

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gnames/sampledb/pkg/centres"
	"github.com/gnames/sampledb/pkg/docstore"
	"github.com/gnames/sampledb/pkg/importer"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreSuite checks that a docstore implementation behaves the same
// way as the others. Collections get a random prefix, so the suite can
// run against a shared server.
func RunStoreSuite(t *testing.T, db docstore.Database) {
	t.Helper()
	prefix := "t" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8] + "_"

	t.Run("missing collection", func(t *testing.T) {
		testMissingCollection(t, db, prefix+"missing")
	})
	t.Run("replace one", func(t *testing.T) {
		testReplaceOne(t, db, prefix+"replace")
	})
	t.Run("insert", func(t *testing.T) {
		testInsert(t, db, prefix+"insert")
	})
	t.Run("collection names", func(t *testing.T) {
		testCollectionNames(t, db, prefix+"names")
	})
	t.Run("populate and copy", func(t *testing.T) {
		testPopulateAndCopy(t, db, prefix+"samples")
	})
	t.Run("import records", func(t *testing.T) {
		testImportRecords(t, db, prefix+"imports")
	})
}

func testMissingCollection(t *testing.T, db docstore.Database, name string) {
	ctx := context.Background()
	ok, err := db.HasCollection(ctx, name)
	require.NoError(t, err)
	assert.False(t, ok)

	coll := db.Collection(name)
	docs, err := coll.Find(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, docs)

	n, err := coll.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	assert.Equal(t, db.Name()+"."+name, coll.FullName())
}

func testReplaceOne(t *testing.T, db docstore.Database, name string) {
	ctx := context.Background()
	coll := db.Collection(name)

	err := coll.ReplaceOne(ctx,
		docstore.Filter{"key": "a"},
		docstore.Document{"key": "a", "old": "value", "n": 1},
	)
	require.NoError(t, err)

	docs, err := coll.Find(ctx, docstore.Filter{"key": "a"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	id := fmt.Sprint(docs[0][docstore.IDField])
	assert.NotEmpty(t, id)
	n, ok := docs[0].Int("n")
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	err = coll.ReplaceOne(ctx,
		docstore.Filter{"key": "a"},
		docstore.Document{"key": "a", "new": "value"},
	)
	require.NoError(t, err)
	err = coll.ReplaceOne(ctx,
		docstore.Filter{"key": "b"},
		docstore.Document{"key": "b"},
	)
	require.NoError(t, err)

	cnt, err := coll.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cnt)

	docs, err = coll.Find(ctx, docstore.Filter{"key": "a"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, id, fmt.Sprint(docs[0][docstore.IDField]),
		"replaced document keeps its id")
	assert.NotContains(t, docs[0], "old", "whole document is replaced")
	s, _ := docs[0].String("new")
	assert.Equal(t, "value", s)

	ok, err = db.HasCollection(ctx, name)
	require.NoError(t, err)
	assert.True(t, ok)
}

func testInsert(t *testing.T, db docstore.Database, name string) {
	ctx := context.Background()
	coll := db.Collection(name)

	id, err := coll.InsertOne(ctx, docstore.Document{
		"label":  "first",
		"errors": []string{"e1", "e2"},
	})
	require.NoError(t, err)
	require.NotNil(t, id)

	ids, err := coll.InsertMany(ctx, []docstore.Document{
		{"label": "second"},
		{"label": "third"},
	})
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	ids, err = coll.InsertMany(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, ids)

	docs, err := coll.Find(ctx, nil)
	require.NoError(t, err)
	require.Len(t, docs, 3)
	var labels []string
	for _, v := range docs {
		s, _ := v.String("label")
		labels = append(labels, s)
	}
	assert.Equal(t, []string{"first", "second", "third"}, labels)
	assert.Equal(t, fmt.Sprint(id), fmt.Sprint(docs[0][docstore.IDField]))

	errs, ok := docs[0].Strings("errors")
	assert.True(t, ok)
	assert.Equal(t, []string{"e1", "e2"}, errs)
}

func testCollectionNames(t *testing.T, db docstore.Database, name string) {
	ctx := context.Background()
	_, err := db.Collection(name).InsertOne(ctx, docstore.Document{"a": "b"})
	require.NoError(t, err)

	names, err := db.CollectionNames(ctx)
	require.NoError(t, err)
	assert.Contains(t, names, name)
}

func testPopulateAndCopy(t *testing.T, db docstore.Database, name string) {
	ctx := context.Background()
	coll := db.Collection(name)
	records := []importer.Record{
		{"plate_barcode": "DN1", "Result": "Positive"},
		{"plate_barcode": "DN2", "Result": "Negative"},
	}

	for range 2 {
		err := importer.Populate(ctx, coll, records, "plate_barcode")
		require.NoError(t, err)
	}
	cnt, err := coll.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), cnt, "populate is idempotent")

	err = importer.Populate(ctx, coll,
		[]importer.Record{{"plate_barcode": "DN1", "Result": "Void"}},
		"plate_barcode",
	)
	require.NoError(t, err)
	docs, err := coll.Find(ctx, docstore.Filter{"plate_barcode": "DN1"})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	res, _ := docs[0].String("Result")
	assert.Equal(t, "Void", res)

	snap, err := importer.CopyCollection(ctx, db, coll)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(snap, name+"_"))

	orig, err := coll.Find(ctx, nil)
	require.NoError(t, err)
	copied, err := db.Collection(snap).Find(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, orig, copied)

	_, err = importer.CopyCollection(ctx, db, coll)
	if snap == importer.SnapshotName(name, time.Now()) {
		assert.Error(t, err, "second copy in the same minute")
	}
}

func testImportRecords(t *testing.T, db docstore.Database, name string) {
	ctx := context.Background()
	coll := db.Collection(name)

	alderley := centres.Centre{Name: "Alderley", Prefix: "ALDP"}
	milk := centres.Centre{Name: "UK Biocentre", Prefix: "MILK"}

	_, err := importer.RecordImport(ctx, coll, alderley, 3, "a.csv", nil)
	require.NoError(t, err)
	_, err = importer.RecordImport(ctx, coll, milk, 0, "b.csv",
		[]string{"Wrong barcode"})
	require.NoError(t, err)

	recs, err := importer.ListImports(ctx, coll, "UK Biocentre")
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "b.csv", recs[0].CSVFileUsed)
	assert.Equal(t, []string{"Wrong barcode"}, recs[0].Errors)

	recs, err = importer.ListImports(ctx, coll, "")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 3, recs[0].NumberOfRecords)
	assert.Equal(t, []string{}, recs[0].Errors)
}

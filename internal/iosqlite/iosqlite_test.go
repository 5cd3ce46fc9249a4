package iosqlite_test

import (
	"context"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/sampledb/internal/iosqlite"
	"github.com/gnames/sampledb/internal/iotesting"
	"github.com/gnames/sampledb/pkg/docstore"
	"github.com/gnames/sampledb/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T) docstore.Provider {
	t.Helper()
	cfg := iotesting.GetTestConfig(t, "sqlite")
	p := iosqlite.New(cfg)
	require.NoError(t, p.Connect(context.Background()))
	t.Cleanup(func() { p.Close(context.Background()) })
	return p
}

func TestStore(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	p := connect(t)
	db := p.Database()
	require.NotNil(t, db)
	assert.Equal(t, iotesting.TestDatabaseName, db.Name())

	iotesting.RunStoreSuite(t, db)
}

func TestDatabaseBeforeConnect(t *testing.T) {
	cfg := iotesting.GetTestConfig(t, "sqlite")
	p := iosqlite.New(cfg)
	assert.Nil(t, p.Database())
	assert.NoError(t, p.Close(context.Background()))
}

func TestConnectError(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	cfg := iotesting.GetTestConfig(t, "sqlite")
	cfg.Database.Path = "/nonexistent/dir/test.sqlite"
	p := iosqlite.New(cfg)

	err := p.Connect(context.Background())
	require.Error(t, err)
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.DBConnectionError, gnErr.Code)
}

func TestFilterSpecialFields(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	ctx := context.Background()
	coll := connect(t).Database().Collection("samples")

	docs := []docstore.Document{
		{"Root Sample ID": "R1", "Result": "Positive"},
		{"Root Sample ID": "R2", "Result": "Negative"},
		{"Root Sample ID": `R"3`, "Result": "Void"},
	}
	_, err := coll.InsertMany(ctx, docs)
	require.NoError(t, err)

	res, err := coll.Find(ctx, docstore.Filter{"Root Sample ID": "R2"})
	require.NoError(t, err)
	require.Len(t, res, 1)
	s, _ := res[0].String("Result")
	assert.Equal(t, "Negative", s)

	n, err := coll.Count(ctx, docstore.Filter{
		"Root Sample ID": "R1",
		"Result":         "Positive",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	res, err = coll.Find(ctx, docstore.Filter{docstore.IDField: res[0][docstore.IDField]})
	require.NoError(t, err)
	require.Len(t, res, 1)
}

func TestInsertKeepsIDs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that uses file system in short mode")
	}
	ctx := context.Background()
	coll := connect(t).Database().Collection("copy")

	ids, err := coll.InsertMany(ctx, []docstore.Document{
		{docstore.IDField: "abc", "n": 1},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{"abc"}, ids)

	_, err = coll.InsertOne(ctx, docstore.Document{docstore.IDField: "abc"})
	require.Error(t, err, "duplicate id")
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.DBWriteError, gnErr.Code)
}

package importer

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/gnames/sampledb/pkg/docstore"
)

var errFake = errors.New("fake write failure")

// fakeDB is an in-memory docstore.Database for unit tests.
type fakeDB struct {
	name  string
	colls map[string]*fakeColl
}

func newFakeDB() *fakeDB {
	return &fakeDB{name: "test", colls: make(map[string]*fakeColl)}
}

func (db *fakeDB) Name() string { return db.name }

func (db *fakeDB) Collection(name string) docstore.Collection {
	return db.coll(name)
}

func (db *fakeDB) coll(name string) *fakeColl {
	if c, ok := db.colls[name]; ok {
		return c
	}
	c := &fakeColl{db: db, name: name, failAt: -1}
	db.colls[name] = c
	return c
}

func (db *fakeDB) CollectionNames(context.Context) ([]string, error) {
	var res []string
	for k, v := range db.colls {
		if v.created {
			res = append(res, k)
		}
	}
	slices.Sort(res)
	return res, nil
}

func (db *fakeDB) HasCollection(_ context.Context, name string) (bool, error) {
	c, ok := db.colls[name]
	return ok && c.created, nil
}

type fakeColl struct {
	db      *fakeDB
	name    string
	created bool
	docs    []docstore.Document
	nextID  int
	writes  int
	failAt  int
}

func (c *fakeColl) Name() string     { return c.name }
func (c *fakeColl) FullName() string { return c.db.name + "." + c.name }

func (c *fakeColl) write() error {
	c.writes++
	if c.failAt >= 0 && c.writes > c.failAt {
		return errFake
	}
	c.created = true
	return nil
}

func (c *fakeColl) newID() string {
	c.nextID++
	return fmt.Sprintf("id-%d", c.nextID)
}

func (c *fakeColl) ReplaceOne(
	_ context.Context,
	filter docstore.Filter,
	doc docstore.Document,
) error {
	if err := c.write(); err != nil {
		return err
	}
	doc = doc.Clone()
	for i := range c.docs {
		if matches(c.docs[i], filter) {
			doc[docstore.IDField] = c.docs[i][docstore.IDField]
			c.docs[i] = doc
			return nil
		}
	}
	doc[docstore.IDField] = c.newID()
	c.docs = append(c.docs, doc)
	return nil
}

func (c *fakeColl) InsertOne(
	_ context.Context,
	doc docstore.Document,
) (any, error) {
	if err := c.write(); err != nil {
		return nil, err
	}
	doc = doc.Clone()
	if _, ok := doc[docstore.IDField]; !ok {
		doc[docstore.IDField] = c.newID()
	}
	c.docs = append(c.docs, doc)
	return doc[docstore.IDField], nil
}

func (c *fakeColl) InsertMany(
	ctx context.Context,
	docs []docstore.Document,
) ([]any, error) {
	var res []any
	for _, v := range docs {
		id, err := c.InsertOne(ctx, v)
		if err != nil {
			return res, err
		}
		res = append(res, id)
	}
	return res, nil
}

func (c *fakeColl) Find(
	_ context.Context,
	filter docstore.Filter,
) ([]docstore.Document, error) {
	var res []docstore.Document
	for _, v := range c.docs {
		if matches(v, filter) {
			res = append(res, v.Clone())
		}
	}
	return res, nil
}

func (c *fakeColl) Count(
	ctx context.Context,
	filter docstore.Filter,
) (int64, error) {
	docs, err := c.Find(ctx, filter)
	return int64(len(docs)), err
}

func matches(doc docstore.Document, filter docstore.Filter) bool {
	for k, v := range filter {
		if doc[k] != v {
			return false
		}
	}
	return true
}

// Package iomongo implements docstore contracts with MongoDB.
// This is an impure I/O package that implements contracts
// defined in pkg/.
package iomongo

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/gnames/sampledb/pkg/config"
	"github.com/gnames/sampledb/pkg/docstore"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type provider struct {
	cfg    config.DatabaseConfig
	client *mongo.Client
	db     *database
}

// New creates a MongoDB provider (without connecting).
func New(cfg *config.Config) docstore.Provider {
	res := provider{cfg: cfg.Database}
	return &res
}

// Connect creates a client and verifies that the server responds.
func (p *provider) Connect(ctx context.Context) error {
	opts := options.Client().ApplyURI(p.uri()).
		SetMaxPoolSize(20).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(10 * time.Second)

	if p.cfg.URI == "" && p.cfg.User != "" {
		authSource := p.cfg.AuthSource
		if authSource == "" {
			authSource = p.cfg.Database
		}
		opts.SetAuth(options.Credential{
			Username:   p.cfg.User,
			Password:   p.cfg.Password,
			AuthSource: authSource,
		})
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return ConnectionError(p.addr(), p.cfg.Database, err)
	}

	ctxPing, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = client.Ping(ctxPing, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return ConnectionError(p.addr(), p.cfg.Database, err)
	}

	p.client = client
	p.db = &database{db: client.Database(p.cfg.Database)}
	slog.Info("Connected to MongoDB",
		"address", p.addr(), "database", p.cfg.Database)
	return nil
}

func (p *provider) Database() docstore.Database {
	if p.db == nil {
		return nil
	}
	return p.db
}

func (p *provider) Close(ctx context.Context) error {
	if p.client == nil {
		return nil
	}
	err := p.client.Disconnect(ctx)
	p.client = nil
	p.db = nil
	if err != nil {
		return CloseError(p.addr(), err)
	}
	return nil
}

func (p *provider) uri() string {
	if p.cfg.URI != "" {
		return p.cfg.URI
	}
	return "mongodb://" + net.JoinHostPort(
		p.cfg.Host, strconv.Itoa(p.cfg.ServerPort()),
	)
}

// addr returns the server address without credentials.
func (p *provider) addr() string {
	u, err := url.Parse(p.uri())
	if err != nil {
		return "mongodb server"
	}
	return u.Host
}

type database struct {
	db *mongo.Database
}

func (d *database) Name() string {
	return d.db.Name()
}

func (d *database) Collection(name string) docstore.Collection {
	return &collection{coll: d.db.Collection(name)}
}

func (d *database) CollectionNames(ctx context.Context) ([]string, error) {
	res, err := d.db.ListCollectionNames(ctx, bson.D{})
	if err != nil {
		return nil, CollectionCheckError(err)
	}
	slices.Sort(res)
	return res, nil
}

func (d *database) HasCollection(
	ctx context.Context,
	name string,
) (bool, error) {
	res, err := d.db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return false, CollectionCheckError(err)
	}
	return len(res) > 0, nil
}

type collection struct {
	coll *mongo.Collection
}

func (c *collection) Name() string {
	return c.coll.Name()
}

func (c *collection) FullName() string {
	return fmt.Sprintf("%s.%s", c.coll.Database().Name(), c.coll.Name())
}

func (c *collection) ReplaceOne(
	ctx context.Context,
	filter docstore.Filter,
	doc docstore.Document,
) error {
	// _id is immutable, the matched document keeps its own.
	d := doc.Clone()
	delete(d, docstore.IDField)

	opts := options.Replace().SetUpsert(true)
	_, err := c.coll.ReplaceOne(ctx, toFilter(filter), bson.M(d), opts)
	if err != nil {
		return WriteError(c.FullName(), err)
	}
	return nil
}

func (c *collection) InsertOne(
	ctx context.Context,
	doc docstore.Document,
) (any, error) {
	res, err := c.coll.InsertOne(ctx, bson.M(doc))
	if err != nil {
		return nil, WriteError(c.FullName(), err)
	}
	return res.InsertedID, nil
}

func (c *collection) InsertMany(
	ctx context.Context,
	docs []docstore.Document,
) ([]any, error) {
	// the driver rejects an empty batch
	if len(docs) == 0 {
		return nil, nil
	}

	batch := make([]any, len(docs))
	for i := range docs {
		batch[i] = bson.M(docs[i])
	}

	opts := options.InsertMany().SetOrdered(true)
	res, err := c.coll.InsertMany(ctx, batch, opts)
	if err != nil {
		return nil, WriteError(c.FullName(), err)
	}
	return res.InsertedIDs, nil
}

func (c *collection) Find(
	ctx context.Context,
	filter docstore.Filter,
) ([]docstore.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "$natural", Value: 1}})
	cur, err := c.coll.Find(ctx, toFilter(filter), opts)
	if err != nil {
		return nil, QueryError(c.FullName(), err)
	}

	var raw []bson.M
	if err = cur.All(ctx, &raw); err != nil {
		return nil, QueryError(c.FullName(), err)
	}

	var res []docstore.Document
	for _, v := range raw {
		res = append(res, normalizeDoc(v))
	}
	return res, nil
}

func (c *collection) Count(
	ctx context.Context,
	filter docstore.Filter,
) (int64, error) {
	res, err := c.coll.CountDocuments(ctx, toFilter(filter))
	if err != nil {
		return 0, QueryError(c.FullName(), err)
	}
	return res, nil
}

func toFilter(f docstore.Filter) bson.M {
	if f == nil {
		return bson.M{}
	}
	return bson.M(f)
}

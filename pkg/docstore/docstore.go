// Package docstore defines the contracts of a document store used by
// sampledb. Implementations live in internal/iomongo, internal/iopg and
// internal/iosqlite.
//
// Databases and collections are lazy: a collection does not need to exist
// before it is written to, the first write creates it.
package docstore

import (
	"context"
)

// IDField is the name of the field that keeps a document identifier.
const IDField = "_id"

// Document is a schemaless document stored in a collection.
type Document map[string]any

// Filter selects documents with top-level fields equal to given values.
// An empty or nil Filter selects every document of a collection.
type Filter map[string]any

// Provider establishes a connection to a database server and hands out
// the configured database.
type Provider interface {
	// Connect opens and verifies the connection.
	Connect(ctx context.Context) error

	// Database returns a handle to the configured database. It returns nil
	// if Connect was not called.
	Database() Database

	// Close releases the connection.
	Close(ctx context.Context) error
}

// Database is a named group of collections.
type Database interface {
	// Name returns the database name.
	Name() string

	// Collection returns a handle to a collection. The collection is
	// created on the first write.
	Collection(name string) Collection

	// CollectionNames lists existing collections.
	CollectionNames(ctx context.Context) ([]string, error)

	// HasCollection checks if a collection exists.
	HasCollection(ctx context.Context, name string) (bool, error)
}

// Collection is a set of documents.
type Collection interface {
	// Name returns the collection name.
	Name() string

	// FullName returns the collection name qualified by the database name.
	FullName() string

	// ReplaceOne atomically replaces a document that matches the filter
	// with doc, or inserts doc if no document matches. A replaced
	// document keeps its identifier.
	ReplaceOne(ctx context.Context, filter Filter, doc Document) error

	// InsertOne inserts a new document and returns its identifier.
	InsertOne(ctx context.Context, doc Document) (any, error)

	// InsertMany inserts documents in the given order and returns their
	// identifiers. Documents that carry IDField keep it.
	InsertMany(ctx context.Context, docs []Document) ([]any, error)

	// Find returns all documents that match the filter in insertion order.
	Find(ctx context.Context, filter Filter) ([]Document, error)

	// Count returns the number of documents that match the filter.
	Count(ctx context.Context, filter Filter) (int64, error)
}

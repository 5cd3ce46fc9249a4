package importer

import (
	"context"
	"log/slog"

	"github.com/gnames/sampledb/pkg/docstore"
)

// Option modifies the behavior of Populate.
type Option func(*populateOpts)

type populateOpts struct {
	onMerge func(merged int)
}

// OptOnMerge sets a callback that is called after every merged record
// with the number of records merged so far.
func OptOnMerge(fn func(merged int)) Option {
	return func(o *populateOpts) {
		o.onMerge = fn
	}
}

// Populate merges records into a collection using filterField as the
// merge key. A record whose key value is absent from the collection is
// inserted, otherwise it replaces the existing document completely.
//
// Records are processed in order, each merge is atomic on its own.
// The first failure stops processing; records merged before it stay in
// the collection. Every record must have a non-empty filterField.
func Populate(
	ctx context.Context,
	coll docstore.Collection,
	records []Record,
	filterField string,
	opts ...Option,
) error {
	var o populateOpts
	for _, opt := range opts {
		opt(&o)
	}

	slog.Debug("Populating collection",
		"collection", coll.FullName(),
		"filter", filterField,
		"records", len(records),
	)

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return CancelledError(coll.FullName(), i, err)
		}

		val, ok := rec[filterField]
		if !ok || val == "" {
			return KeyLookupError(filterField, i)
		}

		filter := docstore.Filter{filterField: val}
		if err := coll.ReplaceOne(ctx, filter, rec.Doc()); err != nil {
			return MergeError(coll.FullName(), filterField, val, i, err)
		}

		if o.onMerge != nil {
			o.onMerge(i + 1)
		}
	}

	return nil
}

package iosqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/gnames/gnfmt"
	"github.com/gnames/sampledb/pkg/docstore"
	"github.com/google/uuid"
)

var enc = gnfmt.GNjson{}

type collection struct {
	db   *database
	name string
}

func (c *collection) Name() string {
	return c.name
}

func (c *collection) FullName() string {
	return c.db.name + "." + c.name
}

func (c *collection) ReplaceOne(
	ctx context.Context,
	filter docstore.Filter,
	doc docstore.Document,
) error {
	if err := c.db.ensureTable(ctx, c.name); err != nil {
		return WriteError(c.FullName(), err)
	}

	data, err := encode(doc)
	if err != nil {
		return WriteError(c.FullName(), err)
	}

	tx, err := c.db.db.BeginTx(ctx, nil)
	if err != nil {
		return WriteError(c.FullName(), err)
	}
	defer tx.Rollback()

	table := quoteIdent(c.name)
	where, args := whereClause(filter)
	q := fmt.Sprintf("SELECT id FROM %s%s ORDER BY rowid LIMIT 1", table, where)

	var id string
	err = tx.QueryRowContext(ctx, q, args...).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		q = fmt.Sprintf("INSERT INTO %s (id, doc) VALUES (?, ?)", table)
		_, err = tx.ExecContext(ctx, q, newID(doc), data)
	case err == nil:
		q = fmt.Sprintf("UPDATE %s SET doc = ? WHERE id = ?", table)
		_, err = tx.ExecContext(ctx, q, data, id)
	}
	if err != nil {
		return WriteError(c.FullName(), err)
	}

	if err = tx.Commit(); err != nil {
		return WriteError(c.FullName(), err)
	}
	return nil
}

func (c *collection) InsertOne(
	ctx context.Context,
	doc docstore.Document,
) (any, error) {
	ids, err := c.InsertMany(ctx, []docstore.Document{doc})
	if err != nil {
		return nil, err
	}
	return ids[0], nil
}

func (c *collection) InsertMany(
	ctx context.Context,
	docs []docstore.Document,
) ([]any, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	if err := c.db.ensureTable(ctx, c.name); err != nil {
		return nil, WriteError(c.FullName(), err)
	}

	tx, err := c.db.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, WriteError(c.FullName(), err)
	}
	defer tx.Rollback()

	q := fmt.Sprintf("INSERT INTO %s (id, doc) VALUES (?, ?)", quoteIdent(c.name))
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		return nil, WriteError(c.FullName(), err)
	}
	defer stmt.Close()

	res := make([]any, len(docs))
	for i, doc := range docs {
		data, err := encode(doc)
		if err != nil {
			return nil, WriteError(c.FullName(), err)
		}
		id := newID(doc)
		if _, err = stmt.ExecContext(ctx, id, data); err != nil {
			return nil, WriteError(c.FullName(), err)
		}
		res[i] = id
	}

	if err = tx.Commit(); err != nil {
		return nil, WriteError(c.FullName(), err)
	}
	return res, nil
}

func (c *collection) Find(
	ctx context.Context,
	filter docstore.Filter,
) ([]docstore.Document, error) {
	exists, err := c.db.HasCollection(ctx, c.name)
	if err != nil || !exists {
		return nil, err
	}

	where, args := whereClause(filter)
	q := fmt.Sprintf(
		"SELECT id, doc FROM %s%s ORDER BY rowid", quoteIdent(c.name), where,
	)
	rows, err := c.db.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, QueryError(c.FullName(), err)
	}
	defer rows.Close()

	var res []docstore.Document
	for rows.Next() {
		var id, data string
		if err = rows.Scan(&id, &data); err != nil {
			return nil, QueryError(c.FullName(), err)
		}
		doc, err := decode(id, data)
		if err != nil {
			return nil, QueryError(c.FullName(), err)
		}
		res = append(res, doc)
	}
	if err = rows.Err(); err != nil {
		return nil, QueryError(c.FullName(), err)
	}
	return res, nil
}

func (c *collection) Count(
	ctx context.Context,
	filter docstore.Filter,
) (int64, error) {
	exists, err := c.db.HasCollection(ctx, c.name)
	if err != nil || !exists {
		return 0, err
	}

	where, args := whereClause(filter)
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", quoteIdent(c.name), where)
	var res int64
	if err = c.db.db.QueryRowContext(ctx, q, args...).Scan(&res); err != nil {
		return 0, QueryError(c.FullName(), err)
	}
	return res, nil
}

// whereClause converts a filter to an SQL condition. Keys are sorted to
// keep the statement stable.
func whereClause(filter docstore.Filter) (string, []any) {
	if len(filter) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	conds := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys)*2)
	for _, k := range keys {
		if k == docstore.IDField {
			conds = append(conds, "id = ?")
			args = append(args, fmt.Sprint(filter[k]))
			continue
		}
		conds = append(conds, "json_extract(doc, ?) = ?")
		args = append(args, jsonPath(k), filter[k])
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func newID(doc docstore.Document) string {
	if id, ok := doc[docstore.IDField]; ok && id != nil {
		return fmt.Sprint(id)
	}
	return uuid.NewString()
}

// encode serializes a document without its identifier, the identifier
// is kept in its own column.
func encode(doc docstore.Document) (string, error) {
	d := doc
	if _, ok := doc[docstore.IDField]; ok {
		d = doc.Clone()
		delete(d, docstore.IDField)
	}
	bs, err := enc.Encode(d)
	if err != nil {
		return "", err
	}
	return string(bs), nil
}

func decode(id, data string) (docstore.Document, error) {
	var res docstore.Document
	if err := enc.Decode([]byte(data), &res); err != nil {
		return nil, err
	}
	if res == nil {
		res = make(docstore.Document)
	}
	res[docstore.IDField] = id
	return res, nil
}

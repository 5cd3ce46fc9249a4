package iopg

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/gnames/sampledb/pkg/docstore"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

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

func (c *collection) table() string {
	return pgx.Identifier{c.name}.Sanitize()
}

// ReplaceOne updates the first matching row or inserts a new one. An
// advisory lock on the filter serializes concurrent upserts of the same
// key.
func (c *collection) ReplaceOne(
	ctx context.Context,
	filter docstore.Filter,
	doc docstore.Document,
) error {
	if err := c.db.ensureTable(ctx, c.name); err != nil {
		return WriteError(c.FullName(), err)
	}

	tx, err := c.db.pool.Begin(ctx)
	if err != nil {
		return WriteError(c.FullName(), err)
	}
	defer tx.Rollback(ctx)

	lockKey := c.name + "\x00" + fmt.Sprint(filter)
	_, err = tx.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext($1))", lockKey)
	if err != nil {
		return WriteError(c.FullName(), err)
	}

	data := stripID(doc)
	where, args := whereClause(filter, 2)
	q := fmt.Sprintf(
		`UPDATE %[1]s SET doc = $1
		WHERE id = (SELECT id FROM %[1]s%[2]s ORDER BY seq LIMIT 1)`,
		c.table(), where,
	)
	tag, err := tx.Exec(ctx, q, append([]any{data}, args...)...)
	if err != nil {
		return WriteError(c.FullName(), err)
	}

	if tag.RowsAffected() == 0 {
		q = fmt.Sprintf("INSERT INTO %s (id, doc) VALUES ($1, $2)", c.table())
		if _, err = tx.Exec(ctx, q, newID(doc), data); err != nil {
			return WriteError(c.FullName(), err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return WriteError(c.FullName(), err)
	}
	return nil
}

func (c *collection) InsertOne(
	ctx context.Context,
	doc docstore.Document,
) (any, error) {
	if err := c.db.ensureTable(ctx, c.name); err != nil {
		return nil, WriteError(c.FullName(), err)
	}

	id := newID(doc)
	q := fmt.Sprintf("INSERT INTO %s (id, doc) VALUES ($1, $2)", c.table())
	if _, err := c.db.pool.Exec(ctx, q, id, stripID(doc)); err != nil {
		return nil, WriteError(c.FullName(), err)
	}
	return id, nil
}

// InsertMany uses COPY protocol, rows keep the order of docs.
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

	ids := make([]any, len(docs))
	rows := make([][]any, len(docs))
	for i, doc := range docs {
		id := newID(doc)
		ids[i] = id
		rows[i] = []any{id, stripID(doc)}
	}

	_, err := c.db.pool.CopyFrom(
		ctx,
		pgx.Identifier{c.name},
		[]string{"id", "doc"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return nil, WriteError(c.FullName(), err)
	}
	return ids, nil
}

func (c *collection) Find(
	ctx context.Context,
	filter docstore.Filter,
) ([]docstore.Document, error) {
	exists, err := c.db.HasCollection(ctx, c.name)
	if err != nil || !exists {
		return nil, err
	}

	where, args := whereClause(filter, 1)
	q := fmt.Sprintf(
		"SELECT id, doc FROM %s%s ORDER BY seq", c.table(), where,
	)
	rows, err := c.db.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, QueryError(c.FullName(), err)
	}
	defer rows.Close()

	var res []docstore.Document
	for rows.Next() {
		var id string
		var doc map[string]any
		if err = rows.Scan(&id, &doc); err != nil {
			return nil, QueryError(c.FullName(), err)
		}
		if doc == nil {
			doc = make(map[string]any)
		}
		doc[docstore.IDField] = id
		res = append(res, docstore.Document(doc))
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

	where, args := whereClause(filter, 1)
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s%s", c.table(), where)
	var res int64
	if err = c.db.pool.QueryRow(ctx, q, args...).Scan(&res); err != nil {
		return 0, QueryError(c.FullName(), err)
	}
	return res, nil
}

// whereClause converts a filter to an SQL condition with placeholders
// numbered from start. Values are compared as text.
func whereClause(filter docstore.Filter, start int) (string, []any) {
	if len(filter) == 0 {
		return "", nil
	}

	keys := make([]string, 0, len(filter))
	for k := range filter {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	n := start
	conds := make([]string, 0, len(keys))
	var args []any
	for _, k := range keys {
		val := fmt.Sprint(filter[k])
		if k == docstore.IDField {
			conds = append(conds, fmt.Sprintf("id = $%d", n))
			args = append(args, val)
			n++
			continue
		}
		conds = append(conds, fmt.Sprintf("doc ->> $%d = $%d", n, n+1))
		args = append(args, k, val)
		n += 2
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func newID(doc docstore.Document) string {
	if id, ok := doc[docstore.IDField]; ok && id != nil {
		return fmt.Sprint(id)
	}
	return uuid.NewString()
}

// stripID returns the document without its identifier, the identifier
// is kept in its own column.
func stripID(doc docstore.Document) map[string]any {
	res := doc.Clone()
	if res == nil {
		return map[string]any{}
	}
	delete(res, docstore.IDField)
	return res
}

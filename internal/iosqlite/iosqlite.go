// Package iosqlite implements docstore contracts on top of a SQLite file.
// Every collection is a table with an id and a JSON document, so that
// sampledb can run without a database server.
package iosqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gnames/sampledb/pkg/config"
	"github.com/gnames/sampledb/pkg/docstore"
	_ "modernc.org/sqlite"
)

type provider struct {
	path string
	name string
	db   *sql.DB
	dbs  *database
}

// New creates a SQLite provider (without connecting).
func New(cfg *config.Config) docstore.Provider {
	res := provider{
		path: cfg.SQLitePath(),
		name: cfg.Database.Database,
	}
	return &res
}

// Connect opens the SQLite file, creating it if necessary.
func (p *provider) Connect(ctx context.Context) error {
	db, err := sql.Open("sqlite", p.path)
	if err != nil {
		return ConnectionError(p.path, err)
	}

	// SQLite allows a single writer, a single connection keeps
	// transactions from waiting on each other.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
	}
	for _, v := range pragmas {
		if _, err = db.ExecContext(ctx, v); err != nil {
			db.Close()
			return ConnectionError(p.path, err)
		}
	}

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return ConnectionError(p.path, err)
	}

	p.db = db
	p.dbs = &database{
		db:    db,
		name:  p.name,
		ready: make(map[string]struct{}),
	}
	slog.Info("Connected to SQLite", "path", p.path)
	return nil
}

func (p *provider) Database() docstore.Database {
	if p.dbs == nil {
		return nil
	}
	return p.dbs
}

func (p *provider) Close(_ context.Context) error {
	if p.db == nil {
		return nil
	}
	err := p.db.Close()
	p.db = nil
	p.dbs = nil
	if err != nil {
		return CloseError(p.path, err)
	}
	return nil
}

type database struct {
	db   *sql.DB
	name string

	mu    sync.Mutex
	ready map[string]struct{}
}

func (d *database) Name() string {
	return d.name
}

func (d *database) Collection(name string) docstore.Collection {
	return &collection{db: d, name: name}
}

func (d *database) CollectionNames(ctx context.Context) ([]string, error) {
	q := `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`
	rows, err := d.db.QueryContext(ctx, q)
	if err != nil {
		return nil, CollectionCheckError(err)
	}
	defer rows.Close()

	var res []string
	for rows.Next() {
		var name string
		if err = rows.Scan(&name); err != nil {
			return nil, CollectionCheckError(err)
		}
		res = append(res, name)
	}
	if err = rows.Err(); err != nil {
		return nil, CollectionCheckError(err)
	}
	return res, nil
}

func (d *database) HasCollection(
	ctx context.Context,
	name string,
) (bool, error) {
	q := `
		SELECT EXISTS (
			SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?
		)`
	var exists bool
	if err := d.db.QueryRowContext(ctx, q, name).Scan(&exists); err != nil {
		return false, CollectionCheckError(err)
	}
	return exists, nil
}

// ensureTable creates the table of a collection before the first write.
func (d *database) ensureTable(ctx context.Context, name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.ready[name]; ok {
		return nil
	}

	q := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (id TEXT PRIMARY KEY, doc TEXT NOT NULL)",
		quoteIdent(name),
	)
	if _, err := d.db.ExecContext(ctx, q); err != nil {
		return err
	}
	d.ready[name] = struct{}{}
	return nil
}

func quoteIdent(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// jsonPath builds a JSON path to a top-level field.
func jsonPath(field string) string {
	return `$."` + strings.ReplaceAll(field, `"`, `\"`) + `"`
}

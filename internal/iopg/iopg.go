// Package iopg implements docstore contracts on PostgreSQL using pgxpool.
// Every collection is a table that keeps documents in a jsonb column.
// This is an impure I/O package that implements contracts
// defined in pkg/.
package iopg

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"sync"

	"github.com/gnames/sampledb/pkg/config"
	"github.com/gnames/sampledb/pkg/docstore"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgProvider implements docstore.Provider interface using
// pgxpool for connection pooling.
type pgProvider struct {
	cfg  config.DatabaseConfig
	pool *pgxpool.Pool
	db   *database
}

// New creates a new PostgreSQL provider (without connecting).
func New(cfg *config.Config) docstore.Provider {
	return &pgProvider{cfg: cfg.Database}
}

// Connect establishes a connection pool to PostgreSQL.
func (p *pgProvider) Connect(ctx context.Context) error {
	cfg := p.cfg
	port := cfg.ServerPort()
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		url.PathEscape(cfg.User),
		url.PathEscape(cfg.Password),
		cfg.Host,
		port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return ConnectionError(cfg.Host, port, cfg.Database, cfg.User, err)
	}

	poolConfig.MaxConns = 10
	poolConfig.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg.Host, port, cfg.Database, cfg.User, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(cfg.Host, port, cfg.Database, cfg.User, err)
	}

	p.pool = pool
	p.db = &database{
		pool:  pool,
		name:  cfg.Database,
		ready: make(map[string]struct{}),
	}
	slog.Info("Connected to PostgreSQL",
		"host", cfg.Host, "port", port, "database", cfg.Database)
	return nil
}

func (p *pgProvider) Database() docstore.Database {
	if p.db == nil {
		return nil
	}
	return p.db
}

// Close releases all database connections.
func (p *pgProvider) Close(_ context.Context) error {
	if p.pool != nil {
		p.pool.Close()
	}
	p.pool = nil
	p.db = nil
	return nil
}

type database struct {
	pool *pgxpool.Pool
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
	query := `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = current_schema()
		ORDER BY table_name
	`

	rows, err := d.pool.Query(ctx, query)
	if err != nil {
		return nil, CollectionCheckError(err)
	}
	res, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, CollectionCheckError(err)
	}
	return res, nil
}

// HasCollection checks if a table exists in the current schema.
func (d *database) HasCollection(
	ctx context.Context,
	name string,
) (bool, error) {
	if d.pool == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = current_schema()
			AND table_name = $1
		)
	`

	var exists bool
	err := d.pool.QueryRow(ctx, query, name).Scan(&exists)
	if err != nil {
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

	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id TEXT PRIMARY KEY,
	seq BIGSERIAL,
	doc JSONB NOT NULL
)`, pgx.Identifier{name}.Sanitize())
	if _, err := d.pool.Exec(ctx, q); err != nil {
		return err
	}
	d.ready[name] = struct{}{}
	return nil
}

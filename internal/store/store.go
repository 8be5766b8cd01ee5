package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dvrpc/tp-updater/internal/catalog"
	"github.com/dvrpc/tp-updater/internal/model"
	"github.com/dvrpc/tp-updater/internal/store/migrate"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" with database/sql
)

// Supported database/sql driver names.
const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "pgx"
)

// Options configure a Store. Zero values fall back to defaults.
type Options struct {
	Catalog      *catalog.Catalog
	QueryTimeout time.Duration
	Clock        func() time.Time
}

// Store persists overlay records in the updates table and answers
// windowed listings.
type Store struct {
	db           *sql.DB
	mu           sync.RWMutex
	catalog      *catalog.Catalog
	now          func() time.Time
	dbPath       string // DuckDB file; empty for in-memory and Postgres
	QueryTimeout time.Duration
}

// Open connects to the database for driver and dsn, applies migrations and
// returns a ready Store. For DuckDB an empty dsn opens an in-memory database.
func Open(driver, dsn string, opts Options) (*Store, error) {
	switch driver {
	case DriverDuckDB:
		if dsn != "" {
			if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return nil, err
			}
		}
	case DriverPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("store: %s requires a connection string", driver)
		}
	default:
		return nil, fmt.Errorf("store: unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", driver, err)
	}
	s, err := New(db, opts)
	if err != nil {
		db.Close()
		return nil, err
	}
	if driver == DriverDuckDB {
		s.dbPath = dsn
	}
	return s, nil
}

// New wraps an already opened handle. The handle is owned by the Store
// afterwards and released by Close.
func New(db *sql.DB, opts Options) (*Store, error) {
	qt := opts.QueryTimeout
	if qt <= 0 {
		qt = model.DefaultQueryTimeout
	}
	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}

	ctx, cancel := context.WithTimeout(context.Background(), qt)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, model.Unavailable("ping", err)
	}
	if err := migrate.NewRunner(db).Run(); err != nil {
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	return &Store{
		db:           db,
		catalog:      cat,
		now:          clock,
		QueryTimeout: qt,
	}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Catalog returns the catalog used to validate adds.
func (s *Store) Catalog() *catalog.Catalog {
	return s.catalog
}

// queryCtx derives a context bounded by the store's query timeout.
func (s *Store) queryCtx(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, s.QueryTimeout)
}

// MigrationStatus reports the applied schema version and how many embedded
// migrations are still pending.
func (s *Store) MigrationStatus() (current int, pending int, err error) {
	return migrate.NewRunner(s.db).Status()
}

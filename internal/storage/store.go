// Package storage is the relational store boundary: it inspects the catalog,
// applies DDL batches and replaces tables with dataset contents.
//
// Engines plug in through Dialect. Import sheetsync/internal/storage/all (or
// an individual dialect package) for its side effects before calling Open.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Config selects and configures a store.
type Config struct {
	// Kind is a registered dialect name: sqlite, postgres, mssql or mysql.
	Kind string
	DSN  string
	// IndexColumn, when set, adds a 0-based row number column to every
	// table written by WriteTables.
	IndexColumn string
	Logger      *slog.Logger
}

// Store is an open connection pool plus the dialect that drives it.
type Store struct {
	db  *sql.DB
	d   Dialect
	cfg Config
	log *slog.Logger
}

// Open validates the DSN, opens a pool and pings it. The pool is closed if
// the ping fails.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	d, err := Lookup(cfg.Kind)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("storage: %s: DSN must not be empty", cfg.Kind)
	}
	if err := d.ValidateDSN(cfg.DSN); err != nil {
		return nil, fmt.Errorf("storage: %s: invalid DSN: %w", cfg.Kind, err)
	}

	db, err := sql.Open(d.Driver(), cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("storage: %s: open: %w", cfg.Kind, err)
	}
	if n := d.MaxOpenConns(); n > 0 {
		db.SetMaxOpenConns(n)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage: %s: ping: %w", cfg.Kind, err)
	}

	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Store{db: db, d: d, cfg: cfg, log: log.With("store", cfg.Kind)}, nil
}

// Close releases the pool.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("storage: close: %w", err)
	}
	return nil
}

// Dialect returns the dialect in use.
func (s *Store) Dialect() Dialect { return s.d }

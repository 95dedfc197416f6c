//go:build cgo && !windows

// Package duckdb backs the Snapshot Consistency Checker (C12): an
// admin-only cross-check of a table's Go-native snapshot row count against
// DuckDB's own delta_scan reader, gated by ENABLE_DUCKDB_CHECK. The Delta
// extension is installed and loaded once into a pooled connection rather
// than on every check.
//
// NOTE: This package requires CGO and is not available on Windows.
package duckdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	_ "github.com/marcboeker/go-duckdb" // DuckDB driver
)

// Pool manages a pool of DuckDB connections with the Delta extension pre-loaded.
type Pool struct {
	db    *sql.DB
	mu    sync.RWMutex
	ready bool
}

var (
	pool     *Pool
	poolOnce sync.Once
	poolErr  error
)

// Config holds DuckDB pool configuration.
type Config struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// GetPool returns the global DuckDB pool instance, initializing it if
// needed. Singleton so the Delta extension is installed only once.
func GetPool() (*Pool, error) {
	poolOnce.Do(func() {
		pool, poolErr = NewPool(DefaultConfig())
	})
	return pool, poolErr
}

// NewPool creates a new DuckDB connection pool with the Delta extension
// installed and loaded.
func NewPool(cfg Config) (*Pool, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	// First-time extension download can take 60-90s.
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	conn, err := db.Conn(ctx)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	var installErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if _, installErr = conn.ExecContext(ctx, "INSTALL delta"); installErr == nil {
			break
		}
		if attempt < 3 {
			time.Sleep(time.Duration(attempt) * 2 * time.Second)
		}
	}
	if installErr != nil {
		db.Close()
		return nil, fmt.Errorf("failed to install delta extension after 3 attempts: %w", installErr)
	}

	if _, err := conn.ExecContext(ctx, "LOAD delta"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load delta extension: %w", err)
	}

	return &Pool{db: db, ready: true}, nil
}

// Close closes all connections in the pool.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ready = false
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// IsReady returns whether the pool is ready to accept queries.
func (p *Pool) IsReady() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.ready
}

// RowCount runs "SELECT COUNT(*) FROM delta_scan('<path>')" against a
// table's storage root and returns the live row count DuckDB computes from
// the Delta log independent of this server's own reader.
func (p *Pool) RowCount(ctx context.Context, storageRoot string) (int64, error) {
	if !p.IsReady() {
		return 0, fmt.Errorf("duckdb pool not ready")
	}
	path := normalizePath(strings.TrimPrefix(storageRoot, "file://"))
	if !deltaTableExists(path) {
		return 0, fmt.Errorf("delta table not found at %s", path)
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM delta_scan(%s)", quoteLiteral(path))
	var count int64
	if err := p.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("row count query failed: %w", err)
	}
	return count, nil
}

func deltaTableExists(path string) bool {
	info, err := os.Stat(path + "/_delta_log")
	return err == nil && info.IsDir()
}

// normalizePath converts Windows paths to forward slashes for DuckDB.
func normalizePath(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}

// quoteLiteral escapes a path for embedding in a single-quoted SQL string
// literal (DuckDB does not support query parameters for table functions).
func quoteLiteral(path string) string {
	return "'" + strings.ReplaceAll(path, "'", "''") + "'"
}

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "modernc.org/sqlite" // register the sqlite driver

	"github.com/ospoc/ospoc/constants"
)

const (
	healthRetryInterval = time.Second
	healthMaxRetries    = 5
)

var memDBCounter atomic.Int64

type OpenOption func(opts *openOpts)

// WithDir sets the directory for the SQLite database file for opening a
// database connection.
func WithDir(dir string) OpenOption {
	return func(opts *openOpts) {
		opts.dir = dir
	}
}

// WithInMemory enables an in-memory SQLite database. Each opened in-memory
// database is isolated from the others.
func WithInMemory() OpenOption {
	return func(opts *openOpts) {
		opts.inMemory = true
	}
}

type openOpts struct {
	dir      string
	inMemory bool
}

// Open opens a SQLite database and waits for it to become healthy.
func Open(ctx context.Context, opts ...OpenOption) (*sql.DB, error) {
	var o openOpts
	for _, opt := range opts {
		opt(&o)
	}

	var dsn string

	if o.inMemory {
		name := constants.AppName + "_" + strconv.FormatInt(memDBCounter.Add(1), 10)
		dsn = "file:" + name + "?mode=memory&cache=shared"
	} else {
		file := constants.AppName + ".db"
		if o.dir != "" {
			if err := os.MkdirAll(o.dir, 0755); err != nil {
				return nil, fmt.Errorf("create sqlite directory: %w", err)
			}
			file = filepath.Join(o.dir, file)
		}
		dsn = "file:" + file + "?_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	// Set max connections to 1 since sqlite only supports a single writer at a time
	db.SetMaxOpenConns(1)

	if !o.inMemory {
		// Use WAL mode only for file backed DBs
		if _, err = db.ExecContext(ctx, "PRAGMA journal_mode = WAL;"); err != nil {
			db.Close() //nolint:errcheck
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	if err = waitHealthy(ctx, db); err != nil {
		db.Close() //nolint:errcheck
		return nil, err
	}

	return db, nil
}

func waitHealthy(ctx context.Context, db *sql.DB) error {
	pingFn := func() error {
		pctx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		return db.PingContext(pctx)
	}
	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(healthRetryInterval), healthMaxRetries), ctx)
	if err := backoff.Retry(pingFn, bo); err != nil {
		return fmt.Errorf("sqlite connection unhealthy: %w", err)
	}
	return nil
}

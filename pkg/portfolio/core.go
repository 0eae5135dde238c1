package portfolio

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Options controls Core initialization.
type Options struct {
	DBPath string
	Logger *slog.Logger

	// Quotes and Funds default to the Yahoo and mfapi.in clients when nil.
	Quotes QuoteProvider
	Funds  FundDataProvider

	// LookupTimeout bounds each external call during a refresh pass.
	LookupTimeout time.Duration
}

// Core owns the portfolio document and provides the consolidation, refresh,
// and CRUD operations over it. The document is a single mutable aggregate;
// Core serializes all operations on it.
type Core struct {
	mu     sync.Mutex
	db     *sql.DB
	logger *slog.Logger
	quotes QuoteProvider
	funds  FundDataProvider
	cache  *viewCache
	dbPath string

	lookupTimeout time.Duration
}

// Open initializes a Core using the provided database path.
func Open(dbPath string) (*Core, error) {
	return OpenWithOptions(Options{DBPath: dbPath})
}

// OpenWithOptions initializes a Core using the provided options.
func OpenWithOptions(opts Options) (*Core, error) {
	if opts.DBPath == "" {
		return nil, errors.New("db path is required")
	}
	cleanPath := filepath.Clean(opts.DBPath)
	if err := os.MkdirAll(filepath.Dir(cleanPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", cleanPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// SQLite performs best with a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		logger.Warn("pragma busy_timeout failed", "err", err)
	}

	if err := initDatabase(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init database: %w", err)
	}

	quotes := opts.Quotes
	if quotes == nil {
		quotes = NewYahooQuotes(logger)
	}
	funds := opts.Funds
	if funds == nil {
		funds = NewMFAPIClient(logger, nil)
	}

	return &Core{
		db:            db,
		logger:        logger,
		quotes:        quotes,
		funds:         funds,
		cache:         newViewCache(),
		dbPath:        cleanPath,
		lookupTimeout: defaultDuration(opts.LookupTimeout, 10*time.Second),
	}, nil
}

// Close releases database resources.
func (c *Core) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// DBPath returns the resolved database path.
func (c *Core) DBPath() string {
	return c.dbPath
}

func defaultDuration(value, fallback time.Duration) time.Duration {
	if value > 0 {
		return value
	}
	return fallback
}

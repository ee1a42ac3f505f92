// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package sqlite opens the embedded, single-file store used for local runs and
store tests.

It is a pure-Go driver (glebarez/sqlite on top of gorm), so the server can run
without a PostgreSQL instance. All statements share one connection: SQLite
serialises writers anyway, and a single connection avoids SQLITE_BUSY errors
under concurrent votes.
*/
package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// pragmas applied to every connection through the DSN.
const pragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"

// Open creates the parent directory if needed and opens the database at path.
//
// # Parameters
//   - ctx: Context for the initial ping.
//   - path: A filesystem path, or ":memory:".
//   - logger: Structured logger for connection events.
func Open(ctx context.Context, path string, logger *slog.Logger) (*gorm.DB, error) {
	if err := ensureDirectory(path); err != nil {
		return nil, err
	}

	db, err := gorm.Open(gormsqlite.Open(DSN(path)), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite: underlying db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("sqlite: ping failed: %w", err)
	}

	logger.Info("sqlite_opened", slog.String("path", path))

	return db, nil
}

// Close releases the underlying connection.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DSN appends the connection pragmas to path.
func DSN(path string) string {
	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}
	return path + separator + pragmas
}

// ensureDirectory creates the directory that will hold the database file.
func ensureDirectory(path string) error {
	candidate := strings.TrimPrefix(strings.TrimSpace(path), "file:")
	if candidate == "" || candidate == ":memory:" {
		return nil
	}
	if idx := strings.Index(candidate, "?"); idx >= 0 {
		candidate = candidate[:idx]
	}

	dir := filepath.Dir(candidate)
	if dir == "" || dir == "." {
		return nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("sqlite: create directory %q: %w", dir, err)
	}
	return nil
}

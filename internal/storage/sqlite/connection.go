package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"fraudguard/config"
)

// SQLiteStorage is the SQLite-backed implementation of every storage repository.
type SQLiteStorage struct {
	DB *sql.DB
}

// NewConnection opens the database file, creating its directory and schema when missing.
func NewConnection(cfg *config.Config) (*SQLiteStorage, error) {
	dbPath := cfg.DB.DBPath
	if dbPath == "" {
		dbPath = "./data/fraudguard.db"
	}
	return Open(dbPath)
}

// Open connects to the SQLite file at dbPath.
func Open(dbPath string) (*SQLiteStorage, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)

	slog.Info("connecting to SQLite", "path", dbPath)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// A single connection serialises writers; balance updates rely on it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	storage := &SQLiteStorage{DB: db}
	if err := storage.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	slog.Info("SQLite connection established")
	return storage, nil
}

// Ping checks that the database answers.
func (s *SQLiteStorage) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

// Close closes the database.
func (s *SQLiteStorage) Close() error {
	return s.DB.Close()
}

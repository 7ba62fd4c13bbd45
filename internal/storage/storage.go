package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

var ErrSessionNotFound = errors.New("session not found")

type Storage struct {
	DB     *sql.DB
	driver string
}

// NewStorage opens the database behind connectionString. Remote libsql/Turso URLs go through
// the libsql client, everything else is treated as a local SQLite file.
func NewStorage(connectionString, authToken string) (*Storage, error) {
	driver, dsn := driverFor(connectionString, authToken)

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db %s: %w", redact(connectionString), err)
	}
	if driver == "sqlite" {
		// One writer at a time keeps the connection-scoped pragmas in effect.
		db.SetMaxOpenConns(1)
		if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
		}
	}

	if err := initializeDB(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return &Storage{DB: db, driver: driver}, nil
}

func (s *Storage) Close() error {
	return s.DB.Close()
}

func driverFor(connectionString, authToken string) (string, string) {
	u, err := url.Parse(connectionString)
	if err != nil {
		return "sqlite", connectionString
	}
	switch u.Scheme {
	case "libsql", "https", "http", "wss", "ws":
		if authToken != "" && u.Query().Get("authToken") == "" {
			q := u.Query()
			q.Set("authToken", authToken)
			u.RawQuery = q.Encode()
		}
		return "libsql", u.String()
	default:
		return "sqlite", connectionString
	}
}

func redact(connectionString string) string {
	if i := strings.Index(connectionString, "?"); i >= 0 {
		return connectionString[:i]
	}
	return connectionString
}

func initializeDB(db *sql.DB) error {
	_, err := db.ExecContext(context.Background(), `
        CREATE TABLE IF NOT EXISTS coach_sessions (
            id TEXT PRIMARY KEY,
            username TEXT NOT NULL,
            source TEXT,
            started_at TEXT NOT NULL,
            ended_at TEXT,
            frames INTEGER NOT NULL DEFAULT 0,
            detected_frames INTEGER NOT NULL DEFAULT 0,
            safety_score INTEGER NOT NULL DEFAULT 100
        );

        CREATE TABLE IF NOT EXISTS user_progress (
            id TEXT PRIMARY KEY,
            session_id TEXT NOT NULL,
            username TEXT NOT NULL,
            exercise TEXT NOT NULL,
            reps INTEGER NOT NULL,
            date TEXT NOT NULL,
            FOREIGN KEY (session_id) REFERENCES coach_sessions(id) ON DELETE CASCADE
        );

        CREATE INDEX IF NOT EXISTS idx_user_progress_username ON user_progress (username);
        CREATE INDEX IF NOT EXISTS idx_user_progress_date ON user_progress (date);
    `)
	return err
}

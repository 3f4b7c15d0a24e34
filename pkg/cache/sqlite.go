package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const blobsSchema = `CREATE TABLE IF NOT EXISTS blobs (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL
)`

//SQLiteStore keeps all values as rows of a single table in one database file
type SQLiteStore struct {
	db *sql.DB
}

//OpenSQLite opens (and creates if needed) the cache database at path
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("OpenSQLite: Could not open '%s', got '%w'", path, err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("OpenSQLite: Failed to execute %q, got '%w'", pragma, err)
		}
	}

	if _, err := db.Exec(blobsSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("OpenSQLite: Could not create schema, got '%w'", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(key string, v any) (bool, error) {
	var data []byte
	err := s.db.QueryRow(`SELECT value FROM blobs WHERE key = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("SQLiteStore: Could not read '%s', got '%w'", key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("SQLiteStore: Could not decode '%s', got '%w'", key, err)
	}

	return true, nil
}

func (s *SQLiteStore) Save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("SQLiteStore: Could not encode value for '%s', got '%w'", key, err)
	}

	_, err = s.db.Exec(`INSERT INTO blobs (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, data, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("SQLiteStore: Could not write '%s', got '%w'", key, err)
	}

	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

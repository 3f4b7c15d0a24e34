//Package cache is the optional side channel pipeline stages use to skip recomputation.
//Values are opaque to the store, they are json encoded so float64 values round-trip exactly.
//None of the stores supports concurrent writers to the same key from different processes.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

//Store reads and writes opaque values keyed by a path-like string
type Store interface {
	//Load decodes the value stored under key into v, it returns false in case nothing is stored
	Load(key string, v any) (bool, error)
	Save(key string, v any) error
}

//FileStore keeps every value in its own file, the key is the file path
type FileStore struct{}

func (FileStore) Load(key string, v any) (bool, error) {
	data, err := os.ReadFile(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("FileStore: Could not read '%s', got '%w'", key, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("FileStore: Could not decode '%s', got '%w'", key, err)
	}

	return true, nil
}

func (FileStore) Save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("FileStore: Could not encode value for '%s', got '%w'", key, err)
	}

	if dir := filepath.Dir(key); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("FileStore: Could not create '%s', got '%w'", dir, err)
		}
	}

	//write aside and rename so a crashed run never leaves half a value behind
	tmp := key + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("FileStore: Could not write '%s', got '%w'", tmp, err)
	}

	return os.Rename(tmp, key)
}

//Nop never has anything stored and drops every write
type Nop struct{}

func (Nop) Load(string, any) (bool, error) { return false, nil }
func (Nop) Save(string, any) error         { return nil }

//Open returns the store for given backend name ("file", "sqlite" or "none").
//For sqlite, path is the database file.
func Open(backend, path string) (Store, error) {
	switch backend {
	case "file":
		return FileStore{}, nil
	case "sqlite":
		s, err := OpenSQLite(path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "none":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("Open: Unknown cache backend '%s'", backend)
	}
}

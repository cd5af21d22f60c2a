package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/yourusername/techspec-bot/internal/domain/repository"
)

// fileStore keeps one JSON document per owner: {"key": "raw value", ...}.
// Values are stored as strings, exactly like browser localStorage.
type fileStore struct {
	mu  sync.Mutex
	dir string
}

// NewFileStore JSON-file backed store under dir
func NewFileStore(dir string) (repository.KeyValueStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &fileStore{dir: dir}, nil
}

func (f *fileStore) path(ownerID int64) string {
	return filepath.Join(f.dir, "owner_"+strconv.FormatInt(ownerID, 10)+".json")
}

func (f *fileStore) readAll(ownerID int64) (map[string]string, error) {
	data, err := os.ReadFile(f.path(ownerID))
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read storage file: %w", err)
	}
	records := map[string]string{}
	if len(data) == 0 {
		return records, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse storage file: %w", err)
	}
	return records, nil
}

func (f *fileStore) writeAll(ownerID int64, records map[string]string) error {
	path := f.path(ownerID)
	if len(records) == 0 {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove storage file: %w", err)
		}
		return nil
	}
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal storage file: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write storage file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace storage file: %w", err)
	}
	return nil
}

func (f *fileStore) Get(_ context.Context, ownerID int64, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.readAll(ownerID)
	if err != nil {
		return nil, false, err
	}
	value, ok := records[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(value), true, nil
}

func (f *fileStore) Set(_ context.Context, ownerID int64, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.readAll(ownerID)
	if err != nil {
		// a corrupt file must not block new writes
		records = map[string]string{}
	}
	records[key] = string(value)
	return f.writeAll(ownerID, records)
}

func (f *fileStore) Delete(_ context.Context, ownerID int64, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	records, err := f.readAll(ownerID)
	if err != nil {
		return f.writeAll(ownerID, nil)
	}
	delete(records, key)
	return f.writeAll(ownerID, records)
}

func (f *fileStore) Close() error { return nil }

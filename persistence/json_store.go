package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"numcom/server/models"
)

// JSONStore archives matches in a single JSON document on disk
type JSONStore struct {
	path    string
	mutex   sync.RWMutex
	archive matchArchive
}

// matchArchive is the on-disk document
type matchArchive struct {
	Matches []*models.MatchResult `json:"matches"`
}

// NewJSONStore opens the archive at path, creating an empty one if the file does not exist
func NewJSONStore(path string) (*JSONStore, error) {
	js := &JSONStore{
		path:    path,
		archive: matchArchive{Matches: make([]*models.MatchResult, 0)},
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if err := js.flush(); err != nil {
			return nil, fmt.Errorf("failed to create JSON store file: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to load JSON store: %w", err)
	default:
		if err := json.Unmarshal(data, &js.archive); err != nil {
			return nil, fmt.Errorf("failed to load JSON store: %w", err)
		}
	}

	return js, nil
}

// SaveMatch appends a result and rewrites the file
func (js *JSONStore) SaveMatch(result *models.MatchResult) error {
	js.mutex.Lock()
	defer js.mutex.Unlock()

	js.archive.Matches = append(js.archive.Matches, result)
	if err := js.flush(); err != nil {
		js.archive.Matches = js.archive.Matches[:len(js.archive.Matches)-1]
		return fmt.Errorf("failed to save match: %w", err)
	}
	return nil
}

// RecentMatches returns up to limit results, newest first
func (js *JSONStore) RecentMatches(limit int) ([]*models.MatchResult, error) {
	js.mutex.RLock()
	defer js.mutex.RUnlock()

	return newestFirst(js.archive.Matches, limit), nil
}

func (js *JSONStore) Close() error {
	return nil
}

// flush writes the archive to a sibling temp file and renames it over path.
// Callers hold the write lock.
func (js *JSONStore) flush() error {
	data, err := json.MarshalIndent(js.archive, "", "  ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(js.path), filepath.Base(js.path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), js.path)
}

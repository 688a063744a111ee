package persistence

import (
	"sync"

	"numcom/server/models"
)

// MemoryStore keeps match results for the lifetime of the process
type MemoryStore struct {
	mutex   sync.RWMutex
	matches []*models.MatchResult
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (ms *MemoryStore) SaveMatch(result *models.MatchResult) error {
	ms.mutex.Lock()
	defer ms.mutex.Unlock()

	ms.matches = append(ms.matches, result)
	return nil
}

func (ms *MemoryStore) RecentMatches(limit int) ([]*models.MatchResult, error) {
	ms.mutex.RLock()
	defer ms.mutex.RUnlock()

	return newestFirst(ms.matches, limit), nil
}

func (ms *MemoryStore) Close() error {
	return nil
}

// newestFirst returns the last limit entries of an append-ordered slice, reversed
func newestFirst(matches []*models.MatchResult, limit int) []*models.MatchResult {
	if limit <= 0 || limit > len(matches) {
		limit = len(matches)
	}
	out := make([]*models.MatchResult, 0, limit)
	for i := len(matches) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, matches[i])
	}
	return out
}

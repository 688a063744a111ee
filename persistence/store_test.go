package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pixil98/go-testutil"
	"go.uber.org/zap"

	"numcom/server/config"
	"numcom/server/models"
)

func testMatch(n int) *models.MatchResult {
	return &models.MatchResult{
		ID:       fmt.Sprintf("match-%d", n),
		WinnerID: fmt.Sprintf("player-%d", n),
		EndedAt:  time.Date(2024, 1, 1, 12, n, 0, 0, time.UTC),
		Scoreboard: []models.ScoreEntry{
			{ID: fmt.Sprintf("player-%d", n), Name: "num1", Score: n},
		},
	}
}

// exerciseStore saves three matches and checks the newest-first reads
func exerciseStore(t *testing.T, store Storage) {
	t.Helper()

	for n := 1; n <= 3; n++ {
		if err := store.SaveMatch(testMatch(n)); err != nil {
			t.Fatalf("SaveMatch: %v", err)
		}
	}

	tests := map[string]struct {
		limit  int
		expIDs []string
	}{
		"all":          {limit: 0, expIDs: []string{"match-3", "match-2", "match-1"}},
		"limited":      {limit: 2, expIDs: []string{"match-3", "match-2"}},
		"beyond count": {limit: 10, expIDs: []string{"match-3", "match-2", "match-1"}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			matches, err := store.RecentMatches(tt.limit)
			if err != nil {
				t.Fatalf("RecentMatches: %v", err)
			}
			testutil.AssertEqual(t, "count", len(matches), len(tt.expIDs))
			for i, id := range tt.expIDs {
				testutil.AssertEqual(t, "id", matches[i].ID, id)
			}
		})
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()

	empty, err := store.RecentMatches(5)
	if err != nil {
		t.Fatalf("RecentMatches: %v", err)
	}
	testutil.AssertEqual(t, "empty", len(empty), 0)

	exerciseStore(t, store)
}

func TestJSONStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")

	store, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("NewJSONStore: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("store file not created: %v", err)
	}

	exerciseStore(t, store)
	store.Close()

	// a second store over the same file sees the archived matches
	reopened, err := NewJSONStore(path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	matches, err := reopened.RecentMatches(1)
	if err != nil {
		t.Fatalf("RecentMatches: %v", err)
	}
	testutil.AssertEqual(t, "count", len(matches), 1)
	testutil.AssertEqual(t, "id", matches[0].ID, "match-3")
	testutil.AssertEqual(t, "winner", matches[0].WinnerID, "player-3")
	testutil.AssertEqual(t, "ended at", matches[0].EndedAt.Equal(testMatch(3).EndedAt), true)
	testutil.AssertEqual(t, "scoreboard", len(matches[0].Scoreboard), 1)
	testutil.AssertEqual(t, "entry", matches[0].Scoreboard[0], models.ScoreEntry{ID: "player-3", Name: "num1", Score: 3})
}

func TestJSONStoreCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	_, err := NewJSONStore(path)
	testutil.AssertErrorContains(t, err, "failed to load JSON store")
}

func TestPostgresStore(t *testing.T) {
	url := os.Getenv("NUMCOM_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("NUMCOM_TEST_DATABASE_URL not set")
	}

	store, err := NewPostgresStore(url, zap.NewNop())
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}
	defer store.Close()

	if _, err := store.db.Exec(`DELETE FROM matches WHERE id LIKE 'match-%'`); err != nil {
		t.Fatalf("clearing matches: %v", err)
	}
	exerciseStore(t, store)
}

func TestOpen(t *testing.T) {
	tests := map[string]struct {
		cfg     config.StorageConfig
		expType string
		expErr  string
	}{
		"memory": {
			cfg:     config.StorageConfig{Type: config.StorageMemory},
			expType: "*persistence.MemoryStore",
		},
		"unset": {
			expType: "*persistence.MemoryStore",
		},
		"json": {
			cfg:     config.StorageConfig{Type: config.StorageJSON},
			expType: "*persistence.JSONStore",
		},
		"unknown": {
			cfg:    config.StorageConfig{Type: "redis"},
			expErr: `unknown storage type "redis"`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if tt.cfg.Type == config.StorageJSON {
				tt.cfg.File = filepath.Join(t.TempDir(), "db.json")
			}

			store, err := Open(tt.cfg, zap.NewNop())
			if tt.expErr != "" {
				testutil.AssertErrorContains(t, err, tt.expErr)
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer store.Close()
			testutil.AssertEqual(t, "type", fmt.Sprintf("%T", store), tt.expType)
		})
	}
}

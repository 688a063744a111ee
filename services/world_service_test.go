package services

import (
	"errors"
	"sync"
	"testing"

	"github.com/pixil98/go-testutil"
	"go.uber.org/zap"

	"numcom/server/config"
	"numcom/server/models"
)

func testWorldConfig() config.WorldConfig {
	return config.WorldConfig{
		Size:     8,
		Lake:     config.Rect{X0: 2, Y0: 2, X1: 5, Y1: 5},
		MaxDepth: DefaultMaxDepth,
		Seed:     "test",
	}
}

func testDynamicConfig() config.DynamicConfig {
	return config.DynamicConfig{
		WeightMin:   1,
		WeightMax:   9,
		GemCount:    4,
		GemBonusMin: 1,
		GemBonusMax: 5,
		DoorCount:   1,
	}
}

func TestEnsureWorldGeneratesOnce(t *testing.T) {
	ws := NewWorldService(testWorldConfig(), testDynamicConfig(), zap.NewNop())
	if ws.World() != nil {
		t.Fatalf("world generated before the first join")
	}

	const callers = 32
	var wg sync.WaitGroup
	results := make([]*models.World, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w, err := ws.EnsureWorld()
			if err != nil {
				t.Errorf("EnsureWorld: %v", err)
				return
			}
			results[i] = w
		}(i)
	}
	wg.Wait()

	testutil.AssertEqual(t, "generations", ws.Generations(), 1)
	first := ws.World()
	for i, w := range results {
		if w != first {
			t.Fatalf("caller %d saw a different world", i)
		}
	}

	again, err := ws.EnsureWorld()
	if err != nil {
		t.Fatalf("EnsureWorld: %v", err)
	}
	if again != first {
		t.Fatalf("later call returned a different world")
	}
	testutil.AssertEqual(t, "generations after reuse", ws.Generations(), 1)
}

func TestEnsureWorldContents(t *testing.T) {
	ws := NewWorldService(testWorldConfig(), testDynamicConfig(), zap.NewNop())
	world, err := ws.EnsureWorld()
	if err != nil {
		t.Fatalf("EnsureWorld: %v", err)
	}

	testutil.AssertEqual(t, "size", world.Terrain.Size, 8)
	testutil.AssertEqual(t, "walkable", len(world.Terrain.AllWalkableTiles()), 64-16)
	testutil.AssertEqual(t, "artifacts", len(world.DynamicMap.Artifacts), 5)
	testutil.AssertEqual(t, "grid size", world.DynamicMap.NumbersGrid.Size(), 8)
}

func TestEnsureWorldInvalidConfig(t *testing.T) {
	tests := map[string]struct {
		world   func(*config.WorldConfig)
		dynamic func(*config.DynamicConfig)
		expErr  error
	}{
		"lake outside grid": {
			world:  func(c *config.WorldConfig) { c.Lake.X1 = 8 },
			expErr: ErrInvalidTerrain,
		},
		"too many artifacts": {
			dynamic: func(c *config.DynamicConfig) { c.GemCount = 100 },
			expErr:  ErrInvalidDynamic,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			wc, dc := testWorldConfig(), testDynamicConfig()
			if tt.world != nil {
				tt.world(&wc)
			}
			if tt.dynamic != nil {
				tt.dynamic(&dc)
			}
			ws := NewWorldService(wc, dc, zap.NewNop())

			for attempt := 0; attempt < 2; attempt++ {
				w, err := ws.EnsureWorld()
				if !errors.Is(err, tt.expErr) {
					t.Fatalf("attempt %d: expected %v, got %v", attempt, tt.expErr, err)
				}
				if w != nil {
					t.Fatalf("attempt %d: expected no world", attempt)
				}
				// a failed generation does not hold the claim
				testutil.AssertEqual(t, "generations", ws.Generations(), 0)
			}
		})
	}
}

func TestNewWorldServiceDefaultsDepth(t *testing.T) {
	wc := testWorldConfig()
	wc.MaxDepth = 0
	ws := NewWorldService(wc, testDynamicConfig(), zap.NewNop())
	testutil.AssertEqual(t, "max depth", ws.MaxDepth(), DefaultMaxDepth)
}

package services

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"numcom/server/config"
	"numcom/server/models"
)

// WorldService owns the single World of a run. The world is generated lazily,
// exactly once, by whichever caller first claims it.
type WorldService struct {
	worldCfg   config.WorldConfig
	dynamicCfg config.DynamicConfig
	logger     *zap.Logger

	world       atomic.Pointer[models.World]
	claimMutex  sync.Mutex
	generations atomic.Int32
}

// NewWorldService creates a world service; no generation happens until EnsureWorld
func NewWorldService(worldCfg config.WorldConfig, dynamicCfg config.DynamicConfig, logger *zap.Logger) *WorldService {
	if worldCfg.MaxDepth <= 0 {
		worldCfg.MaxDepth = DefaultMaxDepth
	}
	return &WorldService{
		worldCfg:   worldCfg,
		dynamicCfg: dynamicCfg,
		logger:     logger,
	}
}

// World returns the generated world, or nil if no join has happened yet
func (ws *WorldService) World() *models.World {
	return ws.world.Load()
}

// EnsureWorld returns the world, generating it on the first call.
// Concurrent callers block on the claim and all observe the same instance.
func (ws *WorldService) EnsureWorld() (*models.World, error) {
	if w := ws.world.Load(); w != nil {
		return w, nil
	}

	ws.claimMutex.Lock()
	defer ws.claimMutex.Unlock()

	if w := ws.world.Load(); w != nil {
		return w, nil
	}

	if n := ws.generations.Add(1); n > 1 {
		panic(fmt.Sprintf("world generated %d times", n))
	}

	world, err := ws.generate()
	if err != nil {
		// release the claim so a later join can retry
		ws.generations.Add(-1)
		return nil, err
	}

	ws.world.Store(world)
	ws.logger.Info("world generated",
		zap.Int("size", world.Terrain.Size),
		zap.Int("walkable", len(world.Terrain.AllWalkableTiles())),
		zap.Int("artifacts", len(world.DynamicMap.Artifacts)),
		zap.String("seed", ws.worldCfg.Seed),
	)
	return world, nil
}

// Generations reports how many times the world has been generated
func (ws *WorldService) Generations() int {
	return int(ws.generations.Load())
}

// MaxDepth is the search depth bound for number commands
func (ws *WorldService) MaxDepth() int {
	return ws.worldCfg.MaxDepth
}

func (ws *WorldService) generate() (*models.World, error) {
	terrain, err := GenerateTerrain(ws.worldCfg.Size, ws.worldCfg.Lake)
	if err != nil {
		return nil, fmt.Errorf("generating terrain: %w", err)
	}

	rng := seededRNG(ws.worldCfg.Seed, "dynamic")
	dynamicMap, err := GenerateDynamicMap(terrain, ws.dynamicCfg, rng)
	if err != nil {
		return nil, fmt.Errorf("generating dynamic map: %w", err)
	}

	return &models.World{
		Terrain:    terrain,
		DynamicMap: dynamicMap,
	}, nil
}

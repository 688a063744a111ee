package services

import (
	"errors"
	"fmt"
	"math/rand"

	"numcom/server/config"
	"numcom/server/models"
)

// ErrInvalidDynamic is returned when the dynamic layer cannot be placed on the terrain
var ErrInvalidDynamic = errors.New("invalid dynamic layer parameters")

// GenerateDynamicMap weights every tile and scatters artifacts over walkable tiles.
// The same terrain, config and rng seed always produce the same map.
func GenerateDynamicMap(terrain *models.Terrain, cfg config.DynamicConfig, rng *rand.Rand) (*models.DynamicMap, error) {
	if cfg.WeightMin < 0 || cfg.WeightMax < cfg.WeightMin {
		return nil, fmt.Errorf("%w: weight range [%d,%d]", ErrInvalidDynamic, cfg.WeightMin, cfg.WeightMax)
	}

	grid := models.NewNumberGrid(terrain.Size)
	for _, tile := range terrain.Tiles {
		grid.Set(tile.X, tile.Y, randomBetween(rng, cfg.WeightMin, cfg.WeightMax))
	}

	walkable := terrain.AllWalkableTiles()
	needed := cfg.DoorCount + cfg.GemCount
	if needed > len(walkable) {
		return nil, fmt.Errorf("%w: %d artifacts but only %d walkable tiles", ErrInvalidDynamic, needed, len(walkable))
	}

	// a permutation prefix gives distinct tiles, so no two artifacts collide
	order := rng.Perm(len(walkable))
	artifacts := make([]models.Artifact, 0, needed)
	for i := 0; i < needed; i++ {
		tile := walkable[order[i]]
		if i < cfg.DoorCount {
			artifacts = append(artifacts, models.Artifact{
				X:            tile.X,
				Y:            tile.Y,
				ArtifactType: models.ArtifactDoor,
			})
			continue
		}
		artifacts = append(artifacts, models.Artifact{
			X:            tile.X,
			Y:            tile.Y,
			ArtifactType: models.ArtifactGems,
			ScoreBonus:   randomBetween(rng, cfg.GemBonusMin, cfg.GemBonusMax),
		})
	}

	return models.NewDynamicMap(grid, artifacts)
}

// randomBetween returns an integer in [lo, hi]
func randomBetween(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

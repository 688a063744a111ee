package services

import (
	"errors"
	"testing"

	"github.com/pixil98/go-testutil"

	"numcom/server/config"
	"numcom/server/models"
)

func TestGenerateTerrainLakeKeys(t *testing.T) {
	lake := config.Rect{X0: 2, Y0: 3, X1: 6, Y1: 7}
	terrain, err := GenerateTerrain(10, lake)
	if err != nil {
		t.Fatalf("GenerateTerrain: %v", err)
	}

	tests := map[string]struct {
		x, y     int
		exp      models.SpriteKey
		walkable bool
	}{
		"ground":       {x: 0, y: 0, exp: models.KeyGround, walkable: true},
		"beside lake":  {x: 1, y: 5, exp: models.KeyGround, walkable: true},
		"top left":     {x: 2, y: 3, exp: models.KeyLakeTopLeft},
		"top right":    {x: 6, y: 3, exp: models.KeyLakeTopRight},
		"bottom left":  {x: 2, y: 7, exp: models.KeyLakeBottomLeft},
		"bottom right": {x: 6, y: 7, exp: models.KeyLakeBottomRight},
		"top edge":     {x: 4, y: 3, exp: models.KeyLakeTop},
		"bottom edge":  {x: 4, y: 7, exp: models.KeyLakeBottom},
		"left edge":    {x: 2, y: 5, exp: models.KeyLakeLeft},
		"right edge":   {x: 6, y: 5, exp: models.KeyLakeRight},
		"interior":     {x: 4, y: 5, exp: models.KeyLakeCenter},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			tile := terrain.Tile(tt.x, tt.y)
			testutil.AssertEqual(t, "terrain type", tile.TerrainType, models.TerrainIceGrass)
			testutil.AssertEqual(t, "sprite", tile.TerrainSpriteIndices, tt.exp)
			testutil.AssertEqual(t, "walkable", tile.Walkable, tt.walkable)
		})
	}

	testutil.AssertEqual(t, "walkable count", len(terrain.AllWalkableTiles()), 100-25)
}

func TestGenerateTerrainInvalid(t *testing.T) {
	tests := map[string]struct {
		size int
		lake config.Rect
	}{
		"zero size":         {size: 0, lake: config.Rect{X0: 1, Y0: 1, X1: 2, Y1: 2}},
		"flat lake":         {size: 8, lake: config.Rect{X0: 1, Y0: 3, X1: 5, Y1: 3}},
		"inverted lake":     {size: 8, lake: config.Rect{X0: 5, Y0: 1, X1: 2, Y1: 4}},
		"negative origin":   {size: 8, lake: config.Rect{X0: -1, Y0: 1, X1: 2, Y1: 4}},
		"past the far edge": {size: 8, lake: config.Rect{X0: 1, Y0: 1, X1: 3, Y1: 8}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			terrain, err := GenerateTerrain(tt.size, tt.lake)
			if !errors.Is(err, ErrInvalidTerrain) {
				t.Fatalf("expected ErrInvalidTerrain, got %v", err)
			}
			if terrain != nil {
				t.Fatalf("expected no terrain")
			}
		})
	}
}

package services

import (
	"errors"
	"fmt"

	"numcom/server/config"
	"numcom/server/models"
)

// ErrInvalidTerrain is returned when the requested grid or lake cannot be built
var ErrInvalidTerrain = errors.New("invalid terrain parameters")

// GenerateTerrain builds the static grid: open ground everywhere with one
// impassable lake carved out of it
func GenerateTerrain(size int, lake config.Rect) (*models.Terrain, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: size %d", ErrInvalidTerrain, size)
	}
	if lake.X1 <= lake.X0 || lake.Y1 <= lake.Y0 {
		return nil, fmt.Errorf("%w: degenerate lake %+v", ErrInvalidTerrain, lake)
	}
	if lake.X0 < 0 || lake.Y0 < 0 || lake.X1 >= size || lake.Y1 >= size {
		return nil, fmt.Errorf("%w: lake %+v outside %dx%d grid", ErrInvalidTerrain, lake, size, size)
	}

	terrain := models.NewTerrain(size)
	for _, tile := range terrain.Tiles {
		paint(tile, models.KeyGround)
	}

	addLake(terrain, lake)

	terrain.UpdateWalkable()
	return terrain, nil
}

func addLake(terrain *models.Terrain, r config.Rect) {
	for y := r.Y0; y <= r.Y1; y++ {
		for x := r.X0; x <= r.X1; x++ {
			paint(terrain.Tile(x, y), lakeKey(r, x, y))
		}
	}
}

// lakeKey picks the edge, corner or interior subtype for a tile inside r
func lakeKey(r config.Rect, x, y int) models.SpriteKey {
	top, bottom := y == r.Y0, y == r.Y1
	left, right := x == r.X0, x == r.X1

	switch {
	case top && left:
		return models.KeyLakeTopLeft
	case top && right:
		return models.KeyLakeTopRight
	case bottom && left:
		return models.KeyLakeBottomLeft
	case bottom && right:
		return models.KeyLakeBottomRight
	case top:
		return models.KeyLakeTop
	case bottom:
		return models.KeyLakeBottom
	case left:
		return models.KeyLakeLeft
	case right:
		return models.KeyLakeRight
	default:
		return models.KeyLakeCenter
	}
}

func paint(tile *models.Tile, key models.SpriteKey) {
	tile.TerrainType = models.TerrainIceGrass
	tile.TerrainSpriteIndices = key
}

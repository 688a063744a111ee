package models

// Terrain is the static size x size grid, stored row-major.
// It is not modified after generation, apart from Tile.Clean.
type Terrain struct {
	Size  int     `json:"size"`
	Tiles []*Tile `json:"tiles"`
}

// NewTerrain creates a grid of bare tiles
func NewTerrain(size int) *Terrain {
	tiles := make([]*Tile, 0, size*size)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			tiles = append(tiles, NewTile(col, row))
		}
	}
	return &Terrain{
		Size:  size,
		Tiles: tiles,
	}
}

// InBounds reports whether (x, y) lies inside the grid
func (t *Terrain) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < t.Size && y < t.Size
}

// Tile returns the tile at (x, y), or nil when out of bounds
func (t *Terrain) Tile(x, y int) *Tile {
	if !t.InBounds(x, y) {
		return nil
	}
	return t.Tiles[x+y*t.Size]
}

// Left returns the tile to the left of tile, or nil at the edge
func (t *Terrain) Left(tile *Tile) *Tile {
	return t.Tile(tile.X-1, tile.Y)
}

// Right returns the tile to the right of tile, or nil at the edge
func (t *Terrain) Right(tile *Tile) *Tile {
	return t.Tile(tile.X+1, tile.Y)
}

// Top returns the tile above tile, or nil at the edge
func (t *Terrain) Top(tile *Tile) *Tile {
	return t.Tile(tile.X, tile.Y-1)
}

// Bottom returns the tile below tile, or nil at the edge
func (t *Terrain) Bottom(tile *Tile) *Tile {
	return t.Tile(tile.X, tile.Y+1)
}

// UpdateWalkable re-derives walkability for every tile
func (t *Terrain) UpdateWalkable() {
	for _, tile := range t.Tiles {
		tile.UpdateWalkable()
	}
}

// AllWalkableTiles returns every tile currently flagged walkable, row-major
func (t *Terrain) AllWalkableTiles() []*Tile {
	walkable := make([]*Tile, 0, len(t.Tiles))
	for _, tile := range t.Tiles {
		if tile.Walkable {
			walkable = append(walkable, tile)
		}
	}
	return walkable
}

package models

// SpriteKey selects a terrain or flora variant on the shared sprite sheet.
// The pair doubles as the terrain subtype used to derive walkability.
type SpriteKey [2]int

// Terrain subtype keys
var (
	KeyGround          = SpriteKey{5, 1}
	KeyGroundAlt       = SpriteKey{5, 4}
	KeyLakeTopLeft     = SpriteKey{1, 3}
	KeyLakeTop         = SpriteKey{2, 3}
	KeyLakeTopRight    = SpriteKey{3, 3}
	KeyLakeLeft        = SpriteKey{1, 4}
	KeyLakeCenter      = SpriteKey{2, 4}
	KeyLakeRight       = SpriteKey{3, 4}
	KeyLakeBottomLeft  = SpriteKey{1, 5}
	KeyLakeBottom      = SpriteKey{2, 5}
	KeyLakeBottomRight = SpriteKey{3, 5}
)

// TerrainIceGrass is the only terrain family the generator produces today
const TerrainIceGrass = "icegrass"

// walkableKeys is the whitelist of terrain subtypes a player may stand on
var walkableKeys = []SpriteKey{KeyGround, KeyGroundAlt}

// IsWalkableKey reports whether a terrain subtype is in the walkable whitelist
func IsWalkableKey(key SpriteKey) bool {
	for _, k := range walkableKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Tile is a single grid cell
type Tile struct {
	X       int            `json:"x"`
	Y       int            `json:"y"`
	State   string         `json:"state"`
	Payload map[string]any `json:"payload"`

	TerrainType          string    `json:"terrainType"`
	TerrainSpriteIndices SpriteKey `json:"terrainSpriteIndices"`

	FloraType          string    `json:"floraType,omitempty"`
	FloraSpriteIndices SpriteKey `json:"floraSpriteIndices"`

	Walkable bool `json:"walkable"`
}

// NewTile creates a bare, non-walkable tile at the given coordinates
func NewTile(x, y int) *Tile {
	return &Tile{
		X:       x,
		Y:       y,
		Payload: make(map[string]any),
	}
}

// UpdateWalkable recomputes Walkable from the terrain subtype and flora.
// Walkable must never be assigned anywhere else.
func (t *Tile) UpdateWalkable() {
	t.Walkable = t.FloraType == "" && IsWalkableKey(t.TerrainSpriteIndices)
}

// Clean resets the transient per-tile state
func (t *Tile) Clean() {
	t.State = ""
	t.Payload = make(map[string]any)
}

// CopyFrom copies every attribute of other into t, then re-derives walkability
func (t *Tile) CopyFrom(other *Tile) {
	t.X = other.X
	t.Y = other.Y
	t.State = other.State
	t.Payload = make(map[string]any, len(other.Payload))
	for k, v := range other.Payload {
		t.Payload[k] = v
	}
	t.TerrainType = other.TerrainType
	t.TerrainSpriteIndices = other.TerrainSpriteIndices
	t.FloraType = other.FloraType
	t.FloraSpriteIndices = other.FloraSpriteIndices
	t.UpdateWalkable()
}

// Position returns the tile's coordinates
func (t *Tile) Position() Position {
	return Position{X: t.X, Y: t.Y}
}

// Position is a grid coordinate
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

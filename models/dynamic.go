package models

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ArtifactType tags what an artifact does when a path crosses it
type ArtifactType string

const (
	ArtifactGems ArtifactType = "gems"
	ArtifactDoor ArtifactType = "door"
)

// ErrDuplicateArtifact is returned when two artifacts share a tile
var ErrDuplicateArtifact = errors.New("artifact already placed on tile")

// NumberGrid holds the weight of every tile, row-major
type NumberGrid struct {
	size    int
	weights []int
}

// NewNumberGrid creates a zero-weighted grid
func NewNumberGrid(size int) *NumberGrid {
	return &NumberGrid{
		size:    size,
		weights: make([]int, size*size),
	}
}

// Size returns the grid edge length
func (g *NumberGrid) Size() int {
	return g.size
}

// At returns the weight at (x, y). Out of bounds coordinates weigh 0.
func (g *NumberGrid) At(x, y int) int {
	if x < 0 || y < 0 || x >= g.size || y >= g.size {
		return 0
	}
	return g.weights[x+y*g.size]
}

// Set assigns the weight at (x, y)
func (g *NumberGrid) Set(x, y, weight int) {
	if x < 0 || y < 0 || x >= g.size || y >= g.size {
		return
	}
	g.weights[x+y*g.size] = weight
}

// MarshalJSON encodes the grid as an array of rows, indexed [y][x]
func (g *NumberGrid) MarshalJSON() ([]byte, error) {
	rows := make([][]int, g.size)
	for y := 0; y < g.size; y++ {
		rows[y] = g.weights[y*g.size : (y+1)*g.size]
	}
	return json.Marshal(rows)
}

// UnmarshalJSON decodes an array of rows produced by MarshalJSON
func (g *NumberGrid) UnmarshalJSON(data []byte) error {
	var rows [][]int
	if err := json.Unmarshal(data, &rows); err != nil {
		return err
	}

	g.size = len(rows)
	g.weights = make([]int, 0, g.size*g.size)
	for y, row := range rows {
		if len(row) != g.size {
			return fmt.Errorf("numbers grid row %d has %d entries, want %d", y, len(row), g.size)
		}
		g.weights = append(g.weights, row...)
	}
	return nil
}

// Artifact is an item placed on a walkable tile
type Artifact struct {
	X            int          `json:"x"`
	Y            int          `json:"y"`
	ArtifactType ArtifactType `json:"artifactType"`
	ScoreBonus   int          `json:"scoreBonus,omitempty"`
}

// DynamicMap is the weight layer plus the placed artifacts
type DynamicMap struct {
	NumbersGrid *NumberGrid `json:"numbersGrid"`
	Artifacts   []Artifact  `json:"artifacts"`

	byPosition map[Position]int
}

// NewDynamicMap indexes artifacts by position. At most one artifact may occupy a tile.
func NewDynamicMap(grid *NumberGrid, artifacts []Artifact) (*DynamicMap, error) {
	dm := &DynamicMap{
		NumbersGrid: grid,
		Artifacts:   make([]Artifact, 0, len(artifacts)),
		byPosition:  make(map[Position]int, len(artifacts)),
	}

	for _, a := range artifacts {
		pos := Position{X: a.X, Y: a.Y}
		if _, exists := dm.byPosition[pos]; exists {
			return nil, fmt.Errorf("%w: (%d,%d)", ErrDuplicateArtifact, a.X, a.Y)
		}
		dm.byPosition[pos] = len(dm.Artifacts)
		dm.Artifacts = append(dm.Artifacts, a)
	}

	return dm, nil
}

// WeightAt returns the weight of the tile at (x, y)
func (dm *DynamicMap) WeightAt(x, y int) int {
	return dm.NumbersGrid.At(x, y)
}

// ArtifactAt returns the artifact on (x, y), if any
func (dm *DynamicMap) ArtifactAt(x, y int) (Artifact, bool) {
	// decoded maps carry no index
	if dm.byPosition == nil {
		for _, a := range dm.Artifacts {
			if a.X == x && a.Y == y {
				return a, true
			}
		}
		return Artifact{}, false
	}

	i, ok := dm.byPosition[Position{X: x, Y: y}]
	if !ok {
		return Artifact{}, false
	}
	return dm.Artifacts[i], true
}

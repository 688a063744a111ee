package models

// World is the terrain and dynamic layer shared by every session of a run.
// Both halves are read-only once generated.
type World struct {
	Terrain    *Terrain
	DynamicMap *DynamicMap
}

package services

import "numcom/server/models"

// DefaultMaxDepth is the longest path a single number command may produce
const DefaultMaxDepth = 7

// WeightSource returns the weight paid for entering a tile
type WeightSource interface {
	WeightAt(x, y int) int
}

// neighbourFunc returns the adjacent tile in one direction, or nil at the edge
type neighbourFunc func(t *models.Terrain, tile *models.Tile) *models.Tile

// searchOrder is the priority in which neighbours are tried at every step
var searchOrder = [...]neighbourFunc{
	(*models.Terrain).Bottom,
	(*models.Terrain).Right,
	(*models.Terrain).Top,
	(*models.Terrain).Left,
}

type searchFrame struct {
	tile  *models.Tile
	score int
	next  int
}

// SearchPath looks for a walk from start whose entered tile weights add up to
// exactly target. The start tile's own weight is not counted. Tiles are never
// entered twice in one path and at most maxDepth tiles are entered.
//
// The search is depth first and neighbours are tried bottom, right, top, left,
// so identical inputs always return the identical path. ok is false when no
// such walk exists.
func SearchPath(terrain *models.Terrain, weights WeightSource, start *models.Tile, target, maxDepth int) (path []*models.Tile, ok bool) {
	if start == nil || target < 0 || maxDepth <= 0 {
		return nil, false
	}

	// frame i sits at path depth i; the arena never grows past maxDepth+1
	frames := make([]searchFrame, 1, maxDepth+1)
	frames[0] = searchFrame{tile: start}
	walked := make([]*models.Tile, 0, maxDepth)

	for len(frames) > 0 {
		depth := len(frames) - 1
		top := &frames[depth]

		if depth == maxDepth || top.next == len(searchOrder) {
			frames = frames[:depth]
			if depth > 0 {
				walked = walked[:depth-1]
			}
			continue
		}

		step := searchOrder[top.next]
		top.next++

		next := step(terrain, top.tile)
		if next == nil || !next.Walkable || contains(walked, next) {
			continue
		}

		score := top.score + weights.WeightAt(next.X, next.Y)
		if score > target {
			continue
		}

		walked = append(walked, next)
		if score == target {
			result := make([]*models.Tile, len(walked))
			copy(result, walked)
			return result, true
		}

		frames = append(frames, searchFrame{tile: next, score: score})
	}

	return nil, false
}

func contains(path []*models.Tile, tile *models.Tile) bool {
	for _, t := range path {
		if t == tile {
			return true
		}
	}
	return false
}

package services

import (
	"sync"

	"go.uber.org/zap"

	"numcom/server/models"
	"numcom/server/network"
	"numcom/server/persistence"
)

// openTerrain builds a size x size grid of walkable ground
func openTerrain(size int) *models.Terrain {
	terrain := models.NewTerrain(size)
	for _, tile := range terrain.Tiles {
		tile.TerrainType = models.TerrainIceGrass
		tile.TerrainSpriteIndices = models.KeyGround
	}
	terrain.UpdateWalkable()
	return terrain
}

// block plants flora on the given tiles so they cannot be entered
func block(terrain *models.Terrain, coords ...[2]int) {
	for _, c := range coords {
		tile := terrain.Tile(c[0], c[1])
		tile.FloraType = "tree"
		tile.UpdateWalkable()
	}
}

// uniformGrid weights every tile with w
func uniformGrid(size, w int) *models.NumberGrid {
	grid := models.NewNumberGrid(size)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			grid.Set(x, y, w)
		}
	}
	return grid
}

func mustDynamicMap(grid *models.NumberGrid, artifacts ...models.Artifact) *models.DynamicMap {
	dm, err := models.NewDynamicMap(grid, artifacts)
	if err != nil {
		panic(err)
	}
	return dm
}

// recordingSender captures every message queued for one client
type recordingSender struct {
	mutex    sync.Mutex
	messages []interface{}
}

func (s *recordingSender) SendMessage(msg interface{}) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.messages = append(s.messages, msg)
	return nil
}

func (s *recordingSender) all() []interface{} {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	out := make([]interface{}, len(s.messages))
	copy(out, s.messages)
	return out
}

// fakeNotifier fans messages out to recordingSenders the way ClientManager does
type fakeNotifier struct {
	mutex   sync.Mutex
	clients map[string]network.Sender
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{clients: make(map[string]network.Sender)}
}

func (n *fakeNotifier) AddClient(playerID string, sender network.Sender) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	n.clients[playerID] = sender
}

func (n *fakeNotifier) RemoveClient(playerID string) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	delete(n.clients, playerID)
}

func (n *fakeNotifier) SendTo(playerID string, msg interface{}) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	if c, ok := n.clients[playerID]; ok {
		c.SendMessage(msg)
	}
}

func (n *fakeNotifier) BroadcastToAll(msg interface{}) {
	n.BroadcastToOthers("", msg)
}

func (n *fakeNotifier) BroadcastToOthers(excludePlayerID string, msg interface{}) {
	n.mutex.Lock()
	defer n.mutex.Unlock()
	for id, c := range n.clients {
		if id != excludePlayerID {
			c.SendMessage(msg)
		}
	}
}

// newTestGame builds a coordinator whose world is already installed
func newTestGame(world *models.World) (*GameService, *fakeNotifier, *persistence.MemoryStore) {
	ws := NewWorldService(testWorldConfig(), testDynamicConfig(), zap.NewNop())
	if world != nil {
		ws.world.Store(world)
	}
	notifier := newFakeNotifier()
	store := persistence.NewMemoryStore()
	return NewGameService(ws, NewPlayerService(), notifier, store, "test", zap.NewNop()), notifier, store
}

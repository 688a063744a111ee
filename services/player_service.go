package services

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"numcom/server/models"
)

var (
	ErrPlayerNotFound  = errors.New("player not found")
	ErrPlayerExists    = errors.New("player already registered")
	ErrNoWalkableTiles = errors.New("no walkable tile to spawn on")
)

// PlayerService is the registry of connected players, keyed by connection id
type PlayerService struct {
	players map[string]*models.Player
	joined  int
	mutex   sync.RWMutex
}

// NewPlayerService creates an empty registry
func NewPlayerService() *PlayerService {
	return &PlayerService{
		players: make(map[string]*models.Player),
	}
}

// Register adds a player standing on spawn. Names are handed out in join order.
func (ps *PlayerService) Register(id string, spawn *models.Tile) (models.Player, error) {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	if _, exists := ps.players[id]; exists {
		return models.Player{}, fmt.Errorf("%w: %s", ErrPlayerExists, id)
	}

	ps.joined++
	player := &models.Player{
		ID:        id,
		Name:      fmt.Sprintf("num%d", ps.joined),
		Tile:      spawn,
		JoinOrder: ps.joined,
	}
	ps.players[id] = player

	return *player, nil
}

// Get returns a copy of the player's current state
func (ps *PlayerService) Get(id string) (models.Player, error) {
	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	player, exists := ps.players[id]
	if !exists {
		return models.Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	return *player, nil
}

// Remove deletes a player. It reports whether the player was registered.
func (ps *PlayerService) Remove(id string) bool {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	if _, exists := ps.players[id]; !exists {
		return false
	}
	delete(ps.players, id)
	return true
}

// Others returns every registered player except id, oldest first
func (ps *PlayerService) Others(id string) []models.Player {
	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	others := make([]models.Player, 0, len(ps.players))
	for pid, p := range ps.players {
		if pid != id {
			others = append(others, *p)
		}
	}
	sortByJoin(others)
	return others
}

// MoveTo sets a player's authoritative tile and adds bonus to its score
func (ps *PlayerService) MoveTo(id string, tile *models.Tile, bonus int) (models.Player, error) {
	ps.mutex.Lock()
	defer ps.mutex.Unlock()

	player, exists := ps.players[id]
	if !exists {
		return models.Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	player.Tile = tile
	player.Score += bonus
	return *player, nil
}

// Scoreboard snapshots every registered player, highest score first
func (ps *PlayerService) Scoreboard() []models.ScoreEntry {
	ps.mutex.RLock()
	defer ps.mutex.RUnlock()

	players := make([]models.Player, 0, len(ps.players))
	for _, p := range ps.players {
		players = append(players, *p)
	}
	sortByJoin(players)

	board := make([]models.ScoreEntry, 0, len(players))
	for _, p := range players {
		board = append(board, models.ScoreEntry{ID: p.ID, Name: p.Name, Score: p.Score})
	}
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].Score > board[j].Score
	})
	return board
}

// Count returns the number of registered players
func (ps *PlayerService) Count() int {
	ps.mutex.RLock()
	defer ps.mutex.RUnlock()
	return len(ps.players)
}

func sortByJoin(players []models.Player) {
	sort.Slice(players, func(i, j int) bool {
		return players[i].JoinOrder < players[j].JoinOrder
	})
}

package services

import (
	"encoding/json"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"numcom/server/messages"
	"numcom/server/models"
	"numcom/server/network"
	"numcom/server/persistence"
)

// Notifier delivers outgoing messages to connections by player id
type Notifier interface {
	AddClient(playerID string, sender network.Sender)
	RemoveClient(playerID string)
	SendTo(playerID string, msg interface{})
	BroadcastToAll(msg interface{})
	BroadcastToOthers(excludePlayerID string, msg interface{})
}

// GameService coordinates sessions: it owns the world and the player registry
// and turns inbound events into authoritative updates for every connection.
// Join, number commands and disconnects are serialized so their effects and
// broadcasts never interleave.
type GameService struct {
	world    *WorldService
	players  *PlayerService
	notifier Notifier
	store    persistence.Storage
	logger   *zap.Logger

	mutex    sync.Mutex
	spawnRNG *rand.Rand
}

// NewGameService wires the coordinator. spawnSeed makes spawn points reproducible.
func NewGameService(world *WorldService, players *PlayerService, notifier Notifier, store persistence.Storage, spawnSeed string, logger *zap.Logger) *GameService {
	return &GameService{
		world:    world,
		players:  players,
		notifier: notifier,
		store:    store,
		logger:   logger,
		spawnRNG: seededRNG(spawnSeed, "spawn"),
	}
}

// Players exposes the registry for read-only queries
func (gs *GameService) Players() *PlayerService {
	return gs.players
}

// World exposes the world service for read-only queries
func (gs *GameService) World() *WorldService {
	return gs.world
}

// Join registers playerID on a random walkable tile, generating the world if
// this is the first join of the run. sender starts receiving broadcasts only
// once the player is registered, so its first message is always the snapshot.
func (gs *GameService) Join(playerID string, sender network.Sender) error {
	gs.mutex.Lock()
	defer gs.mutex.Unlock()

	world, err := gs.world.EnsureWorld()
	if err != nil {
		gs.logger.Error("world unavailable", zap.String("player_id", playerID), zap.Error(err))
		return err
	}

	walkable := world.Terrain.AllWalkableTiles()
	if len(walkable) == 0 {
		gs.logger.Error("cannot spawn player", zap.String("player_id", playerID), zap.Error(ErrNoWalkableTiles))
		return ErrNoWalkableTiles
	}
	spawn := walkable[gs.spawnRNG.Intn(len(walkable))]

	player, err := gs.players.Register(playerID, spawn)
	if err != nil {
		gs.logger.Warn("join rejected", zap.String("player_id", playerID), zap.Error(err))
		return err
	}
	gs.notifier.AddClient(player.ID, sender)

	gs.logger.Info("player joined",
		zap.String("player_id", player.ID),
		zap.String("name", player.Name),
		zap.Int("x", spawn.X),
		zap.Int("y", spawn.Y),
	)

	gs.notifier.SendTo(player.ID, messages.BaseMessage{
		Type: messages.MessageTypeWorldSnapshot,
		Payload: messages.WorldSnapshotMessage{
			Terrain:    world.Terrain,
			DynamicMap: world.DynamicMap,
			Player: messages.PlayerDescriptor{
				ID:   player.ID,
				Tile: player.Tile,
				Name: player.Name,
			},
		},
	})

	gs.notifier.BroadcastToOthers(player.ID, messages.BaseMessage{
		Type:    messages.MessageTypePlayerJoined,
		Payload: messages.PlayerJoinedMessage{ID: player.ID, Tile: player.Tile},
	})

	for _, other := range gs.players.Others(player.ID) {
		gs.notifier.SendTo(player.ID, messages.BaseMessage{
			Type:    messages.MessageTypePlayerJoined,
			Payload: messages.PlayerJoinedMessage{ID: other.ID, Tile: other.Tile},
		})
	}

	return nil
}

// NumberCommand handles a raw number command payload. A payload that is not
// an integer is treated like a search that found nothing: every connection
// gets an empty move result.
func (gs *GameService) NumberCommand(playerID string, payload json.RawMessage) {
	target, err := messages.ParseTargetScore(payload)
	if err != nil {
		gs.logger.Debug("malformed number command",
			zap.String("player_id", playerID),
			zap.ByteString("payload", payload),
		)
		gs.answerEmpty(playerID, gs.notifier.BroadcastToAll)
		return
	}

	gs.Move(playerID, target)
}

// RejectCommand answers a number command that was refused before parsing,
// such as a rate limited one. Only the issuer hears about it.
func (gs *GameService) RejectCommand(playerID string) {
	gs.answerEmpty(playerID, func(msg interface{}) {
		gs.notifier.SendTo(playerID, msg)
	})
}

func (gs *GameService) answerEmpty(playerID string, send func(msg interface{})) {
	gs.mutex.Lock()
	defer gs.mutex.Unlock()

	if _, err := gs.players.Get(playerID); err != nil {
		gs.logger.Info("ignoring command", zap.String("player_id", playerID), zap.Error(err))
		return
	}
	send(emptyMoveResult(playerID))
}

// Move searches for a walk from the player's tile summing exactly to target
// and, if one exists, applies it and broadcasts the outcome to everyone
func (gs *GameService) Move(playerID string, target int) {
	gs.mutex.Lock()

	player, err := gs.players.Get(playerID)
	if err != nil {
		gs.mutex.Unlock()
		gs.logger.Info("ignoring command", zap.String("player_id", playerID), zap.Error(err))
		return
	}

	world := gs.world.World()
	if world == nil {
		gs.mutex.Unlock()
		gs.logger.Error("registered player without a world", zap.String("player_id", playerID))
		return
	}

	path, ok := SearchPath(world.Terrain, world.DynamicMap, player.Tile, target, gs.world.MaxDepth())
	if !ok {
		gs.notifier.BroadcastToAll(emptyMoveResult(playerID))
		gs.mutex.Unlock()
		gs.logger.Debug("no path for target", zap.String("player_id", playerID), zap.Int("target", target))
		return
	}

	collected := make([]models.Artifact, 0)
	bonus := 0
	gameEnded := false
	for _, tile := range path {
		artifact, found := world.DynamicMap.ArtifactAt(tile.X, tile.Y)
		if !found {
			continue
		}
		switch artifact.ArtifactType {
		case models.ArtifactGems:
			collected = append(collected, artifact)
			bonus += artifact.ScoreBonus
		case models.ArtifactDoor:
			gameEnded = true
		}
	}

	player, err = gs.players.MoveTo(playerID, path[len(path)-1], bonus)
	if err != nil {
		gs.mutex.Unlock()
		gs.logger.Error("moving player", zap.String("player_id", playerID), zap.Error(err))
		return
	}

	scoreboard := make([]models.ScoreEntry, 0)
	if gameEnded {
		scoreboard = gs.players.Scoreboard()
	}

	gs.notifier.BroadcastToAll(messages.BaseMessage{
		Type: messages.MessageTypeMoveResult,
		Payload: messages.MoveResultMessage{
			ID:             playerID,
			Path:           path,
			CollectedItems: collected,
			GameEnded:      gameEnded,
			Scoreboard:     scoreboard,
		},
	})
	gs.mutex.Unlock()

	gs.logger.Info("player moved",
		zap.String("player_id", playerID),
		zap.Int("target", target),
		zap.Int("path_len", len(path)),
		zap.Int("bonus", bonus),
		zap.Int("score", player.Score),
		zap.Bool("game_ended", gameEnded),
	)

	if gameEnded {
		gs.archive(playerID, scoreboard)
	}
}

// Disconnect removes playerID and tells the remaining connections.
// It reports whether the player was registered.
func (gs *GameService) Disconnect(playerID string) bool {
	gs.mutex.Lock()
	defer gs.mutex.Unlock()

	gs.notifier.RemoveClient(playerID)
	if !gs.players.Remove(playerID) {
		gs.logger.Warn("disconnect for unknown player", zap.String("player_id", playerID))
		return false
	}

	gs.notifier.BroadcastToOthers(playerID, messages.BaseMessage{
		Type:    messages.MessageTypePlayerLeft,
		Payload: messages.PlayerLeftMessage{ID: playerID},
	})
	gs.logger.Info("player left", zap.String("player_id", playerID))
	return true
}

func (gs *GameService) archive(winnerID string, scoreboard []models.ScoreEntry) {
	if gs.store == nil {
		return
	}

	result := &models.MatchResult{
		ID:         uuid.New().String(),
		WinnerID:   winnerID,
		EndedAt:    time.Now().UTC(),
		Scoreboard: scoreboard,
	}
	if err := gs.store.SaveMatch(result); err != nil {
		gs.logger.Error("archiving match", zap.String("match_id", result.ID), zap.Error(err))
	}
}

func emptyMoveResult(playerID string) messages.BaseMessage {
	return messages.BaseMessage{
		Type:    messages.MessageTypeMoveResult,
		Payload: messages.EmptyMoveResult(playerID),
	}
}

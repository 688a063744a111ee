package messages

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"

	"numcom/server/models"
)

// MessageType defines the type of message being sent
type MessageType string

const (
	MessageTypeJoin          MessageType = "join"
	MessageTypeNumberCommand MessageType = "numcom"
	MessageTypeWorldSnapshot MessageType = "world_snapshot"
	MessageTypePlayerJoined  MessageType = "player_joined"
	MessageTypePlayerLeft    MessageType = "player_left"
	MessageTypeMoveResult    MessageType = "move_result"
)

// ErrNotNumeric is returned when a number command payload is not an integer
var ErrNotNumeric = errors.New("number command payload is not an integer")

// BaseMessage is the base structure for all outgoing messages
type BaseMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload"`
}

// InboundMessage is the envelope read from a client. The payload is kept raw
// so each handler decodes only what it needs.
type InboundMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// PlayerDescriptor identifies a player in a world snapshot
type PlayerDescriptor struct {
	ID   string       `json:"id"`
	Tile *models.Tile `json:"tile"`
	Name string       `json:"name"`
}

// WorldSnapshotMessage is sent only to a joining connection
type WorldSnapshotMessage struct {
	Terrain    *models.Terrain    `json:"terrain"`
	DynamicMap *models.DynamicMap `json:"dynamicMap"`
	Player     PlayerDescriptor   `json:"player"`
}

// PlayerJoinedMessage announces a player and its position
type PlayerJoinedMessage struct {
	ID   string       `json:"id"`
	Tile *models.Tile `json:"tile"`
}

// PlayerLeftMessage announces a removed player
type PlayerLeftMessage struct {
	ID string `json:"id"`
}

// MoveResultMessage is the outcome of a number command
type MoveResultMessage struct {
	ID             string              `json:"id"`
	Path           []*models.Tile      `json:"path"`
	CollectedItems []models.Artifact   `json:"collectedItems"`
	GameEnded      bool                `json:"gameEnded"`
	Scoreboard     []models.ScoreEntry `json:"scoreboard"`
}

// EmptyMoveResult is the well-formed outcome for a command that produced no move
func EmptyMoveResult(playerID string) MoveResultMessage {
	return MoveResultMessage{
		ID:             playerID,
		Path:           []*models.Tile{},
		CollectedItems: []models.Artifact{},
		GameEnded:      false,
		Scoreboard:     []models.ScoreEntry{},
	}
}

// ParseTargetScore decodes a number command payload. Both a JSON number and a
// numeric string are accepted.
func ParseTargetScore(payload json.RawMessage) (int, error) {
	if len(payload) == 0 {
		return 0, ErrNotNumeric
	}

	var number json.Number
	if err := json.Unmarshal(payload, &number); err == nil {
		n, err := strconv.Atoi(number.String())
		if err != nil {
			return 0, ErrNotNumeric
		}
		return n, nil
	}

	var text string
	if err := json.Unmarshal(payload, &text); err != nil {
		return 0, ErrNotNumeric
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, ErrNotNumeric
	}
	return n, nil
}

package models

import "time"

// Player is one connected session's authoritative state
type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Tile      *Tile  `json:"tile"`
	Score     int    `json:"score"`
	JoinOrder int    `json:"-"`
}

// ScoreEntry is one row of the end of game scoreboard
type ScoreEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// MatchResult is the archived outcome of a game that reached a door
type MatchResult struct {
	ID         string       `json:"id"`
	WinnerID   string       `json:"winner_id"`
	EndedAt    time.Time    `json:"ended_at"`
	Scoreboard []ScoreEntry `json:"scoreboard"`
}

package persistence

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"numcom/server/models"

	_ "github.com/lib/pq" // PostgreSQL driver
)

const matchSchema = `
CREATE TABLE IF NOT EXISTS matches (
	id TEXT PRIMARY KEY,
	winner_id TEXT NOT NULL,
	scoreboard JSONB NOT NULL,
	ended_at TIMESTAMP WITH TIME ZONE NOT NULL
);

CREATE INDEX IF NOT EXISTS matches_ended_at_idx ON matches (ended_at DESC);
`

// PostgresStore archives matches in a PostgreSQL table
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPostgresStore connects, verifies the connection and creates the matches table if needed
func NewPostgresStore(connectionString string, logger *zap.Logger) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.Exec(matchSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &PostgresStore{db: db, logger: logger}, nil
}

// SaveMatch inserts a result. Saving the same match id twice is a no-op.
func (ps *PostgresStore) SaveMatch(result *models.MatchResult) error {
	scoreboard, err := json.Marshal(result.Scoreboard)
	if err != nil {
		return fmt.Errorf("failed to marshal scoreboard: %w", err)
	}

	_, err = ps.db.Exec(
		`INSERT INTO matches (id, winner_id, scoreboard, ended_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO NOTHING`,
		result.ID, result.WinnerID, string(scoreboard), result.EndedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save match: %w", err)
	}

	return nil
}

// RecentMatches loads up to limit matches, newest first. A limit of zero loads all of them.
func (ps *PostgresStore) RecentMatches(limit int) ([]*models.MatchResult, error) {
	query := `SELECT id, winner_id, scoreboard, ended_at FROM matches ORDER BY ended_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := ps.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}
	defer rows.Close()

	matches := make([]*models.MatchResult, 0)
	for rows.Next() {
		var match models.MatchResult
		var scoreboard []byte

		if err := rows.Scan(&match.ID, &match.WinnerID, &scoreboard, &match.EndedAt); err != nil {
			return nil, fmt.Errorf("failed to scan match: %w", err)
		}
		if err := json.Unmarshal(scoreboard, &match.Scoreboard); err != nil {
			return nil, fmt.Errorf("failed to unmarshal scoreboard for %s: %w", match.ID, err)
		}
		matches = append(matches, &match)
	}

	return matches, rows.Err()
}

func (ps *PostgresStore) Close() error {
	ps.logger.Info("closing match archive connection")
	return ps.db.Close()
}

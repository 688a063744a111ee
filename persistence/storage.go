package persistence

import "numcom/server/models"

// Storage archives the outcome of finished games. Nothing in it is ever read
// back into the live world or player registry.
type Storage interface {
	SaveMatch(result *models.MatchResult) error
	// RecentMatches returns up to limit results, newest first
	RecentMatches(limit int) ([]*models.MatchResult, error)
	Close() error
}

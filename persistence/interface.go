// persistence/interface.go
package persistence

import (
	"errors"

	"github.com/twobob/blockduel/models"
)

// Database is the persistence collaborator. The game core hands finished
// games here and reads nothing back on its hot path; leaderboard queries
// serve the external dashboard.
type Database interface {
	SaveGameRecord(rec *models.GameRecord) error
	TopScores(limit int) ([]models.ScoreEntry, error)
	PlayerStats(playerName string) (*models.PlayerStats, error)
	Close() error
}

var (
	ErrRecordNotFound = errors.New("record not found")
)

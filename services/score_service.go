// services/score_service.go
package services

import (
	"time"

	"github.com/twobob/blockduel/logger"
	"github.com/twobob/blockduel/models"
	"github.com/twobob/blockduel/persistence"
	"github.com/twobob/blockduel/room"
)

// ScoreService records finished games and answers leaderboard queries for
// the external dashboard. It implements room.Recorder.
type ScoreService struct {
	db persistence.Database
}

func NewScoreService(db persistence.Database) *ScoreService {
	return &ScoreService{db: db}
}

// RecordGameOver persists one row per seat. Writes happen off the
// simulation path; a storage failure is logged and the game result is
// lost, never retried into the room.
func (s *ScoreService) RecordGameOver(roomID, gameMode string, duration time.Duration, results []room.SeatResult) {
	go func() {
		for _, res := range results {
			rec := &models.GameRecord{
				RoomID:     roomID,
				GameMode:   gameMode,
				PlayerName: res.PlayerName,
				Score:      res.Score,
				Lines:      res.Lines,
				Level:      res.Level,
				Outcome:    res.Outcome,
				Duration:   int(duration.Seconds()),
				CreatedAt:  time.Now(),
			}
			if err := s.db.SaveGameRecord(rec); err != nil {
				logger.Log.Errorf("failed to save game record for %s: %v", res.PlayerName, err)
			}
		}
	}()
}

// Leaderboard returns the top scores.
func (s *ScoreService) Leaderboard(limit int) ([]models.ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}
	return s.db.TopScores(limit)
}

// PlayerStats aggregates one player's finished games.
func (s *ScoreService) PlayerStats(playerName string) (*models.PlayerStats, error) {
	return s.db.PlayerStats(playerName)
}

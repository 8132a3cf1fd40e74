// models/models.go
package models

import (
	"time"
)

// GameRecord is the fact handed off per player per finished game.
type GameRecord struct {
	RoomID     string    `json:"room_id"`
	GameMode   string    `json:"game_mode"`
	PlayerName string    `json:"player_name"`
	Score      int       `json:"score"`
	Lines      int       `json:"lines"`
	Level      int       `json:"level"`
	Outcome    string    `json:"outcome"` // win/lose/draw
	Duration   int       `json:"duration"` // seconds
	CreatedAt  time.Time `json:"created_at"`
}

// ScoreEntry is one leaderboard row.
type ScoreEntry struct {
	Rank       int    `json:"rank"`
	PlayerName string `json:"player_name"`
	Score      int    `json:"score"`
	Lines      int    `json:"lines"`
	Level      int    `json:"level"`
	GameMode   string `json:"game_mode"`
}

// PlayerStats aggregates a player's finished games.
type PlayerStats struct {
	PlayerName string `json:"player_name"`
	TotalGames int    `json:"total_games"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	Draws      int    `json:"draws"`
	BestScore  int    `json:"best_score"`
	TotalLines int    `json:"total_lines"`
}

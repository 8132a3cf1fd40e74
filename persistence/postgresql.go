// persistence/postgresql.go
package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/twobob/blockduel/models"
)

// PostgreSQL is the plain database/sql implementation.
type PostgreSQL struct {
	db *sql.DB
}

// NewPostgreSQL opens a connection pool and ensures the schema.
func NewPostgreSQL(host string, port int, user, password, dbname string) (*PostgreSQL, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(time.Hour)

	p := &PostgreSQL{db: db}
	if err := p.ensureSchema(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *PostgreSQL) ensureSchema() error {
	_, err := p.db.Exec(`
		CREATE TABLE IF NOT EXISTS game_records (
			id BIGSERIAL PRIMARY KEY,
			room_id TEXT NOT NULL,
			game_mode TEXT NOT NULL,
			player_name TEXT NOT NULL,
			score INT NOT NULL DEFAULT 0,
			lines INT NOT NULL DEFAULT 0,
			level INT NOT NULL DEFAULT 1,
			outcome TEXT NOT NULL,
			duration INT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS idx_game_records_player ON game_records (player_name);
		CREATE INDEX IF NOT EXISTS idx_game_records_score ON game_records (score DESC);
	`)
	return err
}

// SaveGameRecord inserts one finished-game row.
func (p *PostgreSQL) SaveGameRecord(rec *models.GameRecord) error {
	_, err := p.db.Exec(`
		INSERT INTO game_records (room_id, game_mode, player_name, score, lines, level, outcome, duration)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.RoomID, rec.GameMode, rec.PlayerName, rec.Score, rec.Lines, rec.Level, rec.Outcome, rec.Duration,
	)
	return err
}

// TopScores returns the leaderboard, best score first.
func (p *PostgreSQL) TopScores(limit int) ([]models.ScoreEntry, error) {
	rows, err := p.db.Query(`
		SELECT player_name, score, lines, level, game_mode
		FROM game_records
		ORDER BY score DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.ScoreEntry
	rank := 0
	for rows.Next() {
		rank++
		e := models.ScoreEntry{Rank: rank}
		if err := rows.Scan(&e.PlayerName, &e.Score, &e.Lines, &e.Level, &e.GameMode); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PlayerStats aggregates a player's finished games.
func (p *PostgreSQL) PlayerStats(playerName string) (*models.PlayerStats, error) {
	stats := &models.PlayerStats{PlayerName: playerName}
	err := p.db.QueryRow(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE outcome = 'win'),
			COUNT(*) FILTER (WHERE outcome = 'lose'),
			COUNT(*) FILTER (WHERE outcome = 'draw'),
			COALESCE(MAX(score), 0),
			COALESCE(SUM(lines), 0)
		FROM game_records
		WHERE player_name = $1`,
		playerName,
	).Scan(&stats.TotalGames, &stats.Wins, &stats.Losses, &stats.Draws, &stats.BestScore, &stats.TotalLines)
	if err != nil {
		return nil, err
	}
	if stats.TotalGames == 0 {
		return nil, ErrRecordNotFound
	}
	return stats, nil
}

// Close closes the pool.
func (p *PostgreSQL) Close() error {
	return p.db.Close()
}

// persistence/gorm_postgresql.go
package persistence

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/twobob/blockduel/models"
)

// GormPostgreSQL is the GORM implementation of Database.
type GormPostgreSQL struct {
	db *gorm.DB
}

// NewGormPostgreSQL opens a pooled connection and auto-migrates the
// schema.
func NewGormPostgreSQL(host string, port int, user, password, dbname string) (*GormPostgreSQL, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	gormLogger := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold: time.Second,
			LogLevel:      gormlogger.Silent,
			Colorful:      false,
		},
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(&models.GormGameRecord{}); err != nil {
		return nil, err
	}

	return &GormPostgreSQL{db: db}, nil
}

// SaveGameRecord inserts one finished-game row.
func (p *GormPostgreSQL) SaveGameRecord(rec *models.GameRecord) error {
	row := models.GormGameRecord{
		RoomID:     rec.RoomID,
		GameMode:   rec.GameMode,
		PlayerName: rec.PlayerName,
		Score:      rec.Score,
		Lines:      rec.Lines,
		Level:      rec.Level,
		Outcome:    rec.Outcome,
		Duration:   rec.Duration,
	}
	return p.db.Create(&row).Error
}

// TopScores returns the leaderboard, best score first.
func (p *GormPostgreSQL) TopScores(limit int) ([]models.ScoreEntry, error) {
	var rows []models.GormGameRecord
	if err := p.db.Order("score DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}

	entries := make([]models.ScoreEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, models.ScoreEntry{
			Rank:       i + 1,
			PlayerName: row.PlayerName,
			Score:      row.Score,
			Lines:      row.Lines,
			Level:      row.Level,
			GameMode:   row.GameMode,
		})
	}
	return entries, nil
}

// PlayerStats aggregates a player's finished games with one raw query.
func (p *GormPostgreSQL) PlayerStats(playerName string) (*models.PlayerStats, error) {
	stats := &models.PlayerStats{PlayerName: playerName}
	err := p.db.Raw(`
		SELECT
			COUNT(*) AS total_games,
			COUNT(*) FILTER (WHERE outcome = 'win') AS wins,
			COUNT(*) FILTER (WHERE outcome = 'lose') AS losses,
			COUNT(*) FILTER (WHERE outcome = 'draw') AS draws,
			COALESCE(MAX(score), 0) AS best_score,
			COALESCE(SUM(lines), 0) AS total_lines
		FROM game_records
		WHERE player_name = ?`,
		playerName,
	).Scan(stats).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	if stats.TotalGames == 0 {
		return nil, ErrRecordNotFound
	}
	return stats, nil
}

// Transaction runs fn atomically.
func (p *GormPostgreSQL) Transaction(fn func(tx *gorm.DB) error) error {
	return p.db.Transaction(fn)
}

// Close closes the underlying pool.
func (p *GormPostgreSQL) Close() error {
	sqlDB, err := p.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

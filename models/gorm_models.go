// models/gorm_models.go
package models

import (
	"gorm.io/gorm"
)

// GormGameRecord is the persisted form of GameRecord.
type GormGameRecord struct {
	gorm.Model
	RoomID     string `gorm:"index;not null"`
	GameMode   string `gorm:"index;not null"`
	PlayerName string `gorm:"index;not null"`
	Score      int    `gorm:"not null;default:0"`
	Lines      int    `gorm:"not null;default:0"`
	Level      int    `gorm:"not null;default:1"`
	Outcome    string `gorm:"not null"`
	Duration   int    `gorm:"default:0"` // seconds
}

func (GormGameRecord) TableName() string {
	return "game_records"
}

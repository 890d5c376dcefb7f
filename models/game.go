package models

import (
	"time"
)

const (
	GameStatusActive      = "active"
	GameStatusMaintenance = "maintenance"
	GameStatusRetired     = "retired"
)

type Game struct {
	ID              int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Name            string    `json:"name" gorm:"not null"`
	Slug            string    `json:"slug" gorm:"uniqueIndex"`
	ImageURL        string    `json:"image_url"`
	Description     string    `json:"description" gorm:"type:text"`
	Status          string    `json:"status" gorm:"default:'active'"`
	PlayerCount     int       `json:"player_count" gorm:"default:0"`
	TournamentCount int       `json:"tournament_count" gorm:"default:0"`
	IsFeatured      bool      `json:"is_featured" gorm:"default:false"`
	Badge           string    `json:"badge"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

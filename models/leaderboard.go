package models

import (
	"time"
)

const (
	LeaderboardPeriodWeekly  = "weekly"
	LeaderboardPeriodMonthly = "monthly"
	LeaderboardPeriodAllTime = "all_time"
)

// LeaderboardEntry is a ranking snapshot. At most one entry exists per
// (user|team, game, period); updates merge into the existing row.
type LeaderboardEntry struct {
	ID           int       `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID       *int      `json:"user_id,omitempty" gorm:"index"`
	TeamID       *int      `json:"team_id,omitempty" gorm:"index"`
	GameID       *int      `json:"game_id,omitempty" gorm:"index"`
	Points       int       `json:"points" gorm:"default:0"`
	Wins         int       `json:"wins" gorm:"default:0"`
	TotalMatches int       `json:"total_matches" gorm:"default:0"`
	KDRatio      float64   `json:"kd_ratio" gorm:"default:0"`
	Earnings     int       `json:"earnings" gorm:"default:0"`
	Rank         int       `json:"rank" gorm:"default:0"`
	Period       string    `json:"period" gorm:"index;default:'all_time'"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// LeaderboardRow is an entry joined with the minimal user display fields
// the leaderboard page needs.
type LeaderboardRow struct {
	LeaderboardEntry
	Username     string `json:"username,omitempty"`
	DisplayName  string `json:"display_name,omitempty"`
	ProfileImage string `json:"profile_image,omitempty"`
}

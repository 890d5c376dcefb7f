package models

import (
	"time"
)

const (
	MatchStatusScheduled  = "scheduled"
	MatchStatusInProgress = "in_progress"
	MatchStatusCompleted  = "completed"
	MatchStatusCancelled  = "cancelled"
)

// Match is one bracket slot. Team slots and scores stay nil until the
// bracket resolves / the match is played. Listing order is (round asc,
// match_number asc) and bracket rendering depends on it.
type Match struct {
	ID            int        `json:"id" gorm:"primaryKey;autoIncrement"`
	TournamentID  int        `json:"tournament_id" gorm:"index;not null"`
	Round         int        `json:"round" gorm:"not null"`
	MatchNumber   int        `json:"match_number" gorm:"not null"`
	Team1ID       *int       `json:"team1_id,omitempty"`
	Team2ID       *int       `json:"team2_id,omitempty"`
	Team1Score    *int       `json:"team1_score,omitempty"`
	Team2Score    *int       `json:"team2_score,omitempty"`
	WinnerID      *int       `json:"winner_id,omitempty"`
	Status        string     `json:"status" gorm:"default:'scheduled'"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	StreamURL     string     `json:"stream_url"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt     time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

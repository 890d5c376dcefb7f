package models

import (
	"time"
)

const (
	TournamentStatusUpcoming  = "upcoming"
	TournamentStatusOngoing   = "ongoing"
	TournamentStatusCompleted = "completed"
	TournamentStatusCancelled = "cancelled"
)

const (
	GameModeSolo   = "solo"
	GameModeDuo    = "duo"
	GameModeSquad  = "squad"
	GameModeCustom = "custom"
)

const (
	RegistrationStatusPending  = "pending"
	RegistrationStatusAccepted = "accepted"
	RegistrationStatusRejected = "rejected"
)

// Tournament. CurrentPlayers is a derived counter maintained by the
// registration paths; the max-capacity check is the caller's responsibility,
// storage never enforces it.
type Tournament struct {
	ID                  int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Name                string    `json:"name" gorm:"not null"`
	Slug                string    `json:"slug" gorm:"index"`
	GameID              int       `json:"game_id" gorm:"index;not null"`
	Description         string    `json:"description" gorm:"type:text"`
	StartDate           time.Time `json:"start_date"`
	EndDate             time.Time `json:"end_date"`
	RegistrationEndDate time.Time `json:"registration_end_date"`
	EntryFee            int       `json:"entry_fee" gorm:"default:0"`
	PrizePool           int       `json:"prize_pool" gorm:"default:0"`
	MaxPlayers          int       `json:"max_players" gorm:"default:0"`
	CurrentPlayers      int       `json:"current_players" gorm:"default:0"`
	MinParticipants     int       `json:"min_participants" gorm:"default:0"`
	Status              string    `json:"status" gorm:"default:'upcoming'"`
	GameMode            string    `json:"game_mode" gorm:"default:'solo'"`
	TournamentType      string    `json:"tournament_type"`
	Rules               string    `json:"rules" gorm:"type:text"`
	EligibilityCriteria string    `json:"eligibility_criteria" gorm:"type:text"`
	ImageURL            string    `json:"image_url"`
	IsFeatured          bool      `json:"is_featured" gorm:"default:false"`
	CreatedAt           time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt           time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	Registrations []TournamentRegistration `json:"registrations,omitempty" gorm:"foreignKey:TournamentID"`
	Matches       []Match                  `json:"matches,omitempty" gorm:"foreignKey:TournamentID"`
}

// TournamentRegistration is a user's (or team's) claim on a tournament slot.
// TeamID nil means a solo entry.
type TournamentRegistration struct {
	ID           int       `json:"id" gorm:"primaryKey;autoIncrement"`
	TournamentID int       `json:"tournament_id" gorm:"index;not null"`
	UserID       int       `json:"user_id" gorm:"index;not null"`
	TeamID       *int      `json:"team_id,omitempty"`
	Status       string    `json:"status" gorm:"default:'pending'"`
	RegisteredAt time.Time `json:"registered_at" gorm:"autoCreateTime"`
}

package models

import (
	"time"
)

const (
	TeamRoleCaptain = "captain"
	TeamRolePlayer  = "player"
	TeamRoleSub     = "substitute"
)

// Team groups players under a captain. MemberCount is recomputed from the
// team_members rows on every membership change, not blindly incremented.
type Team struct {
	ID            int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Name          string    `json:"name" gorm:"not null"`
	Description   string    `json:"description" gorm:"type:text"`
	CaptainID     int       `json:"captain_id" gorm:"index;not null"`
	Wins          int       `json:"wins" gorm:"default:0"`
	TotalEarnings int       `json:"total_earnings" gorm:"default:0"`
	MemberCount   int       `json:"member_count" gorm:"default:0"`
	Badge         string    `json:"badge"`
	CreatedAt     time.Time `json:"created_at" gorm:"autoCreateTime"`

	Members []TeamMember `json:"members,omitempty" gorm:"foreignKey:TeamID"`
}

type TeamMember struct {
	ID       int       `json:"id" gorm:"primaryKey;autoIncrement"`
	TeamID   int       `json:"team_id" gorm:"index;not null"`
	UserID   int       `json:"user_id" gorm:"index;not null"`
	Role     string    `json:"role" gorm:"default:'player'"`
	JoinedAt time.Time `json:"joined_at" gorm:"autoCreateTime"`
}

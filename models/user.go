package models

import (
	"time"
)

// User is a platform account. WalletBalance is derived state: it is only
// ever adjusted through a WalletTransaction, never written directly.
type User struct {
	ID            int        `json:"id" gorm:"primaryKey;autoIncrement"`
	Username      string     `json:"username" gorm:"uniqueIndex;not null"`
	Password      string     `json:"-" gorm:"not null"`
	DisplayName   string     `json:"display_name"`
	Email         string     `json:"email"`
	ProfileImage  string     `json:"profile_image"`
	WalletBalance int        `json:"wallet_balance" gorm:"default:0"`
	CreatedAt     time.Time  `json:"created_at" gorm:"autoCreateTime"`
	LastLogin     *time.Time `json:"last_login,omitempty"`
}

// AdminAuditLog records an admin action. Append-only.
type AdminAuditLog struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	AdminID   int       `json:"admin_id" gorm:"index;not null"`
	Action    string    `json:"action" gorm:"type:text;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"autoCreateTime"`
}

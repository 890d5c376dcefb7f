package models

import (
	"time"
)

// TransactionType indicates where the money moved.
// Sign convention is enforced at the service boundary: deposit, prize and
// referral amounts are positive; withdrawal and fee amounts are negative.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypePrize      TransactionType = "prize"
	TransactionTypeFee        TransactionType = "fee"
	TransactionTypeReferral   TransactionType = "referral"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusRejected  TransactionStatus = "rejected"
)

// WalletTransaction is the only path that moves a user's wallet balance.
// Creating one adjusts the owning user's balance by Amount; rejecting a
// pending withdrawal reverses that adjustment.
type WalletTransaction struct {
	ID          int               `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID      int               `json:"user_id" gorm:"index;not null"`
	Type        TransactionType   `json:"type" gorm:"not null"`
	Amount      int               `json:"amount" gorm:"not null"`
	Status      TransactionStatus `json:"status" gorm:"default:'completed'"`
	Description string            `json:"description" gorm:"type:text"`
	Timestamp   time.Time         `json:"timestamp" gorm:"autoCreateTime"`
}

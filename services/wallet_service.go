package services

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"esports-tournament-system/models"
	"esports-tournament-system/storage"
)

type WalletService struct {
	Store storage.Storage
}

func NewWalletService(store storage.Storage) *WalletService {
	return &WalletService{Store: store}
}

type createTransactionRequest struct {
	Type        string `json:"type" validate:"required,oneof=deposit withdrawal prize fee referral"`
	Amount      int    `json:"amount" validate:"required"`
	Description string `json:"description" validate:"max=255"`
}

// amountSignValid enforces the sign convention: money in is positive,
// money out is negative.
func amountSignValid(txType models.TransactionType, amount int) bool {
	switch txType {
	case models.TransactionTypeDeposit, models.TransactionTypePrize, models.TransactionTypeReferral:
		return amount > 0
	case models.TransactionTypeWithdrawal, models.TransactionTypeFee:
		return amount < 0
	}
	return false
}

// GetWallet returns the current balance with the transaction history.
func (s *WalletService) GetWallet(c *fiber.Ctx) error {
	userID, ok := paramID(c, "userId")
	if !ok {
		return nil
	}
	u, err := s.Store.GetUser(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch wallet"})
	}
	if u == nil {
		return c.Status(404).JSON(fiber.Map{"error": "user not found"})
	}
	history, err := s.Store.GetWalletTransactions(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch wallet"})
	}
	return c.JSON(fiber.Map{
		"balance":      u.WalletBalance,
		"transactions": history,
	})
}

// CreateTransaction moves money. The storage layer adjusts the balance by
// the signed amount as part of transaction creation; withdrawals start out
// pending so an admin can review them.
func (s *WalletService) CreateTransaction(c *fiber.Ctx) error {
	userID, ok := paramID(c, "userId")
	if !ok {
		return nil
	}
	var req createTransactionRequest
	if !parseBody(c, &req) {
		return nil
	}

	txType := models.TransactionType(req.Type)
	if !amountSignValid(txType, req.Amount) {
		return c.Status(400).JSON(fiber.Map{"error": "amount sign does not match transaction type"})
	}

	status := models.TransactionStatusCompleted
	if txType == models.TransactionTypeWithdrawal {
		status = models.TransactionStatusPending
	}
	t := &models.WalletTransaction{
		UserID:      userID,
		Type:        txType,
		Amount:      req.Amount,
		Status:      status,
		Description: req.Description,
	}
	u, err := s.Store.CreateWalletTransaction(t)
	if err != nil {
		if err == storage.ErrNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "user not found"})
		}
		log.Printf("[WALLET] transaction for user %d failed: %v", userID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create transaction"})
	}
	return c.Status(201).JSON(fiber.Map{
		"transaction": t,
		"balance":     u.WalletBalance,
	})
}

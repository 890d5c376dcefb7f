package services

import (
	"fmt"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"esports-tournament-system/models"
	"esports-tournament-system/storage"
)

type AdminService struct {
	Store storage.Storage
}

func NewAdminService(store storage.Storage) *AdminService {
	return &AdminService{Store: store}
}

type rejectWithdrawalRequest struct {
	Reason string `json:"reason" validate:"required,max=255"`
}

// adminID comes from the X-Admin-ID header the admin panel sends alongside
// the admin token. Zero when absent.
func adminID(c *fiber.Ctx) int {
	id, _ := strconv.Atoi(c.Get("X-Admin-ID"))
	return id
}

func (s *AdminService) audit(c *fiber.Ctx, format string, args ...interface{}) {
	entry := &models.AdminAuditLog{
		AdminID: adminID(c),
		Action:  fmt.Sprintf(format, args...),
	}
	if err := s.Store.CreateAuditLog(entry); err != nil {
		log.Printf("[ADMIN] audit log write failed: %v", err)
	}
}

func (s *AdminService) GetDashboardStats(c *fiber.Ctx) error {
	stats, err := s.Store.GetDashboardStats()
	if err != nil {
		log.Printf("[ADMIN] stats failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch stats"})
	}
	return c.JSON(stats)
}

func (s *AdminService) GetUsers(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 25)
	offset := c.QueryInt("offset", 0)
	if limit > 200 {
		limit = 200
	}
	users, total, err := s.Store.GetUsers(limit, offset)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch users"})
	}
	return c.JSON(fiber.Map{
		"users":  users,
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (s *AdminService) GetPendingWithdrawals(c *fiber.Ctx) error {
	out, err := s.Store.GetPendingWithdrawals()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch withdrawals"})
	}
	return c.JSON(out)
}

func (s *AdminService) ApproveWithdrawal(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	t, err := s.Store.ApproveWithdrawal(id)
	if err != nil {
		switch err {
		case storage.ErrNotFound:
			return c.Status(404).JSON(fiber.Map{"error": "withdrawal not found"})
		case storage.ErrNotPending:
			return c.Status(400).JSON(fiber.Map{"error": "can only approve pending withdrawals"})
		}
		log.Printf("[ADMIN] approve withdrawal %d failed: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to approve withdrawal"})
	}
	s.audit(c, "approved withdrawal %d for user %d", t.ID, t.UserID)
	return c.JSON(t)
}

// RejectWithdrawal refunds the held amount and records why.
func (s *AdminService) RejectWithdrawal(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	var req rejectWithdrawalRequest
	if !parseBody(c, &req) {
		return nil
	}
	t, err := s.Store.RejectWithdrawal(id, req.Reason)
	if err != nil {
		switch err {
		case storage.ErrNotFound:
			return c.Status(404).JSON(fiber.Map{"error": "withdrawal not found"})
		case storage.ErrNotPending:
			return c.Status(400).JSON(fiber.Map{"error": "can only reject pending withdrawals"})
		}
		log.Printf("[ADMIN] reject withdrawal %d failed: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to reject withdrawal"})
	}
	s.audit(c, "rejected withdrawal %d for user %d: %s", t.ID, t.UserID, req.Reason)
	return c.JSON(t)
}

func (s *AdminService) GetAuditLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	logs, err := s.Store.GetAuditLogs(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch audit logs"})
	}
	return c.JSON(logs)
}

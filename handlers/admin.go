package handlers

import (
	"github.com/gofiber/fiber/v2"

	"esports-tournament-system/middleware"
	"esports-tournament-system/services"
)

func SetupAdminRoutes(api fiber.Router, admin *services.AdminService, adminToken string) {
	group := api.Group("/admin", middleware.AdminAuthMiddleware(adminToken))
	group.Get("/stats", admin.GetDashboardStats)
	group.Get("/users", admin.GetUsers)
	group.Get("/withdrawals", admin.GetPendingWithdrawals)
	group.Post("/withdrawals/:id/approve", admin.ApproveWithdrawal)
	group.Post("/withdrawals/:id/reject", admin.RejectWithdrawal)
	group.Get("/audit-logs", admin.GetAuditLogs)
}

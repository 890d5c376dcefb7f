package handlers

import (
	"github.com/gofiber/fiber/v2"

	"esports-tournament-system/services"
)

func SetupLeaderboardRoutes(api fiber.Router, leaderboard *services.LeaderboardService) {
	api.Get("/leaderboard", leaderboard.GetLeaderboard)
	api.Post("/leaderboard", leaderboard.UpsertEntry)
}

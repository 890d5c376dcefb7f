package services

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"esports-tournament-system/models"
	"esports-tournament-system/storage"
)

type LeaderboardService struct {
	Store storage.Storage
}

func NewLeaderboardService(store storage.Storage) *LeaderboardService {
	return &LeaderboardService{Store: store}
}

type upsertLeaderboardRequest struct {
	UserID       *int    `json:"user_id" validate:"omitempty,gt=0"`
	TeamID       *int    `json:"team_id" validate:"omitempty,gt=0"`
	GameID       *int    `json:"game_id" validate:"omitempty,gt=0"`
	Points       int     `json:"points" validate:"gte=0"`
	Wins         int     `json:"wins" validate:"gte=0"`
	TotalMatches int     `json:"total_matches" validate:"gte=0"`
	KDRatio      float64 `json:"kd_ratio" validate:"gte=0"`
	Earnings     int     `json:"earnings" validate:"gte=0"`
	Rank         int     `json:"rank" validate:"gte=0"`
	Period       string  `json:"period" validate:"omitempty,oneof=weekly monthly all_time"`
}

func (s *LeaderboardService) GetLeaderboard(c *fiber.Ctx) error {
	var gameID *int
	if v := c.QueryInt("gameId", 0); v > 0 {
		gameID = &v
	}
	period := c.Query("period", "")
	limit := c.QueryInt("limit", 50)

	rows, err := s.Store.GetLeaderboard(gameID, period, limit)
	if err != nil {
		log.Printf("[LEADERBOARD] query failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch leaderboard"})
	}
	return c.JSON(rows)
}

// UpsertEntry creates or merges the entry for (user|team, game, period).
func (s *LeaderboardService) UpsertEntry(c *fiber.Ctx) error {
	var req upsertLeaderboardRequest
	if !parseBody(c, &req) {
		return nil
	}
	if req.UserID == nil && req.TeamID == nil {
		return c.Status(400).JSON(fiber.Map{"error": "user_id or team_id is required"})
	}
	period := req.Period
	if period == "" {
		period = models.LeaderboardPeriodAllTime
	}
	entry, err := s.Store.UpdateLeaderboardEntry(&models.LeaderboardEntry{
		UserID:       req.UserID,
		TeamID:       req.TeamID,
		GameID:       req.GameID,
		Points:       req.Points,
		Wins:         req.Wins,
		TotalMatches: req.TotalMatches,
		KDRatio:      req.KDRatio,
		Earnings:     req.Earnings,
		Rank:         req.Rank,
		Period:       period,
	})
	if err != nil {
		log.Printf("[LEADERBOARD] upsert failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to update leaderboard"})
	}
	return c.Status(201).JSON(entry)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"

	"esports-tournament-system/services"
)

func SetupTeamRoutes(api fiber.Router, teams *services.TeamService) {
	api.Get("/teams", teams.GetTeams)
	api.Get("/teams/top", teams.GetTopTeams)
	api.Get("/teams/user/:userId", teams.GetUserTeams)
	api.Get("/teams/:id", teams.GetTeam)
	api.Post("/teams", teams.CreateTeam)
	api.Put("/teams/:id", teams.UpdateTeam)
	api.Delete("/teams/:id", teams.DeleteTeam)
	api.Post("/teams/:id/members", teams.AddMember)
	api.Delete("/teams/:id/members/:userId", teams.RemoveMember)
}

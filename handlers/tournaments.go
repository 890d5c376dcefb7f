package handlers

import (
	"github.com/gofiber/fiber/v2"

	"esports-tournament-system/services"
)

func SetupTournamentRoutes(api fiber.Router, tournaments *services.TournamentService) {
	api.Get("/tournaments", tournaments.GetTournaments)
	api.Get("/tournaments/upcoming", tournaments.GetUpcomingTournaments)
	api.Get("/tournaments/featured", tournaments.GetFeaturedTournaments)
	api.Get("/tournaments/game/:gameId", tournaments.GetTournamentsByGame)
	api.Get("/tournaments/:id", tournaments.GetTournament)
	api.Post("/tournaments", tournaments.CreateTournament)
	api.Put("/tournaments/:id", tournaments.UpdateTournament)
	api.Delete("/tournaments/:id", tournaments.DeleteTournament)
	api.Get("/tournaments/:id/registrations", tournaments.GetRegistrations)
	api.Post("/tournaments/:id/register", tournaments.Register)
	api.Post("/tournaments/:id/image", tournaments.UploadTournamentImage)
	api.Put("/registrations/:id/status", tournaments.SetRegistrationStatus)
	api.Delete("/registrations/:id", tournaments.CancelRegistration)

	// Bracket
	api.Get("/tournaments/:id/matches", tournaments.GetMatches)
	api.Post("/tournaments/:id/matches", tournaments.CreateMatch)
	api.Get("/matches/:id", tournaments.GetMatch)
	api.Put("/matches/:id", tournaments.UpdateMatch)
	api.Put("/matches/:id/result", tournaments.SetMatchResult)
}

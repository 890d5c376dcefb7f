package handlers

import (
	"github.com/gofiber/fiber/v2"

	"esports-tournament-system/services"
)

func SetupGameRoutes(api fiber.Router, games *services.GameService) {
	api.Get("/games", games.GetGames)
	api.Get("/games/featured", games.GetFeaturedGames)
	api.Get("/games/:id", games.GetGame)
	api.Post("/games", games.CreateGame)
	api.Put("/games/:id", games.UpdateGame)
	api.Delete("/games/:id", games.DeleteGame)
	api.Post("/games/:id/image", games.UploadGameImage)
}

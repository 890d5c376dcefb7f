package handlers

import (
	"github.com/gofiber/fiber/v2"

	"esports-tournament-system/services"
)

func SetupUserRoutes(api fiber.Router, users *services.UserService, wallet *services.WalletService) {
	api.Post("/users", users.CreateUser)
	api.Post("/users/login", users.Login)
	api.Get("/users/:id", users.GetUser)
	api.Put("/users/:id", users.UpdateUser)
	api.Get("/users/:userId/registrations", users.GetUserRegistrations)

	// Wallet rides under the user resource
	api.Get("/users/:userId/wallet", wallet.GetWallet)
	api.Post("/users/:userId/wallet/transactions", wallet.CreateTransaction)
}

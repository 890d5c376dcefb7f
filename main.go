package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"esports-tournament-system/config"
	"esports-tournament-system/handlers"
	"esports-tournament-system/services"
	"esports-tournament-system/storage"
	"esports-tournament-system/utils"
)

func buildStorage(cfg *config.Config) (storage.Storage, error) {
	if cfg.StorageBackend == config.BackendMemory {
		log.Println("[STORAGE] using in-memory backend")
		return storage.NewMemoryStorage(), nil
	}

	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	store := storage.NewDatabaseStorage(db)
	if err := store.Migrate(); err != nil {
		return nil, err
	}
	log.Println("[STORAGE] using postgres backend")
	return store, nil
}

func main() {
	cfg := config.Load()

	store, err := buildStorage(cfg)
	if err != nil {
		log.Fatal("failed to initialize storage: ", err)
	}

	if err := utils.InitMediaStorage(); err != nil {
		log.Fatal("failed to initialize media storage: ", err)
	}
	if err := utils.EnsureUploadDir(); err != nil {
		log.Fatal("failed to ensure upload dir: ", err)
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 20 * 1024 * 1024, // room for banner uploads
	})

	origins := strings.Split(cfg.AllowedOrigins, ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(origins, ","),
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, X-Admin-Token, X-Admin-ID",
	}))

	userService := services.NewUserService(store)
	gameService := services.NewGameService(store)
	teamService := services.NewTeamService(store)
	tournamentService := services.NewTournamentService(store)
	leaderboardService := services.NewLeaderboardService(store)
	walletService := services.NewWalletService(store)
	adminService := services.NewAdminService(store)

	api := app.Group("/api")
	handlers.SetupUserRoutes(api, userService, walletService)
	handlers.SetupGameRoutes(api, gameService)
	handlers.SetupTeamRoutes(api, teamService)
	handlers.SetupTournamentRoutes(api, tournamentService)
	handlers.SetupLeaderboardRoutes(api, leaderboardService)
	handlers.SetupAdminRoutes(api, adminService, cfg.AdminToken)

	app.Static("/uploads", "./uploads")

	sched, err := tournamentService.StartStatusScheduler()
	if err != nil {
		log.Fatal("failed to start status scheduler: ", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("server error: %v", err)
		}
	}()
	log.Printf("server running on http://localhost:%s (%s storage)", cfg.Port, cfg.StorageBackend)

	<-ctx.Done()
	log.Println("shutting down...")
	_ = sched.Shutdown()
	_ = app.Shutdown()
}

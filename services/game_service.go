package services

import (
	"log"
	"path/filepath"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"esports-tournament-system/models"
	"esports-tournament-system/storage"
	"esports-tournament-system/utils"
)

type GameService struct {
	Store storage.Storage
}

func NewGameService(store storage.Storage) *GameService {
	return &GameService{Store: store}
}

type createGameRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	ImageURL    string `json:"image_url"`
	Description string `json:"description"`
	Status      string `json:"status" validate:"omitempty,oneof=active maintenance retired"`
	PlayerCount int    `json:"player_count" validate:"gte=0"`
	IsFeatured  bool   `json:"is_featured"`
	Badge       string `json:"badge" validate:"max=32"`
}

func (s *GameService) GetGames(c *fiber.Ctx) error {
	games, err := s.Store.GetGames()
	if err != nil {
		log.Printf("[GAMES] list failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch games"})
	}
	return c.JSON(games)
}

func (s *GameService) GetFeaturedGames(c *fiber.Ctx) error {
	games, err := s.Store.GetFeaturedGames()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch games"})
	}
	return c.JSON(games)
}

func (s *GameService) GetGame(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	g, err := s.Store.GetGame(id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch game"})
	}
	if g == nil {
		return c.Status(404).JSON(fiber.Map{"error": "game not found"})
	}
	return c.JSON(g)
}

func (s *GameService) CreateGame(c *fiber.Ctx) error {
	var req createGameRequest
	if !parseBody(c, &req) {
		return nil
	}
	if req.Status == "" {
		req.Status = models.GameStatusActive
	}
	g := &models.Game{
		Name:        req.Name,
		Slug:        slug.Make(req.Name),
		ImageURL:    req.ImageURL,
		Description: req.Description,
		Status:      req.Status,
		PlayerCount: req.PlayerCount,
		IsFeatured:  req.IsFeatured,
		Badge:       req.Badge,
	}
	if err := s.Store.CreateGame(g); err != nil {
		log.Printf("[GAMES] create %q failed: %v", req.Name, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create game"})
	}
	return c.Status(201).JSON(g)
}

func (s *GameService) UpdateGame(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	g, err := s.Store.GetGame(id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update game"})
	}
	if g == nil {
		return c.Status(404).JSON(fiber.Map{"error": "game not found"})
	}

	var req createGameRequest
	if !parseBody(c, &req) {
		return nil
	}
	g.Name = req.Name
	g.Slug = slug.Make(req.Name)
	g.ImageURL = req.ImageURL
	g.Description = req.Description
	if req.Status != "" {
		g.Status = req.Status
	}
	g.PlayerCount = req.PlayerCount
	g.IsFeatured = req.IsFeatured
	g.Badge = req.Badge
	if err := s.Store.UpdateGame(g); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update game"})
	}
	return c.JSON(g)
}

func (s *GameService) DeleteGame(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	if err := s.Store.DeleteGame(id); err != nil {
		if err == storage.ErrNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "game not found"})
		}
		log.Printf("[GAMES] delete %d failed: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete game"})
	}
	return c.JSON(fiber.Map{"ok": true})
}

// UploadGameImage stores a cover image and writes its URL onto the game.
func (s *GameService) UploadGameImage(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	g, err := s.Store.GetGame(id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch game"})
	}
	if g == nil {
		return c.Status(404).JSON(fiber.Map{"error": "game not found"})
	}

	file, err := c.FormFile("image")
	if err != nil || file.Size == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "image file is required"})
	}
	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := "games/" + uuid.NewString() + ext
	url, err := utils.UploadImage(file, key)
	if err != nil {
		log.Printf("[GAMES] image upload for %d failed: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to upload image"})
	}

	g.ImageURL = url
	if err := s.Store.UpdateGame(g); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update game"})
	}
	return c.JSON(g)
}

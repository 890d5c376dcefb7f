package services

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"esports-tournament-system/models"
	"esports-tournament-system/storage"
)

type UserService struct {
	Store storage.Storage
}

func NewUserService(store storage.Storage) *UserService {
	return &UserService{Store: store}
}

type createUserRequest struct {
	Username     string `json:"username" validate:"required,min=3,max=32"`
	Password     string `json:"password" validate:"required,min=6"`
	DisplayName  string `json:"display_name" validate:"max=64"`
	Email        string `json:"email" validate:"omitempty,email"`
	ProfileImage string `json:"profile_image"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type updateUserRequest struct {
	DisplayName  *string `json:"display_name" validate:"omitempty,max=64"`
	Email        *string `json:"email" validate:"omitempty,email"`
	ProfileImage *string `json:"profile_image"`
}

func (s *UserService) GetUser(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	u, err := s.Store.GetUser(id)
	if err != nil {
		log.Printf("[USERS] fetch %d failed: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch user"})
	}
	if u == nil {
		return c.Status(404).JSON(fiber.Map{"error": "user not found"})
	}
	return c.JSON(u)
}

func (s *UserService) CreateUser(c *fiber.Ctx) error {
	var req createUserRequest
	if !parseBody(c, &req) {
		return nil
	}

	existing, err := s.Store.GetUserByUsername(req.Username)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create user"})
	}
	if existing != nil {
		return c.Status(400).JSON(fiber.Map{"error": "username already taken"})
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create user"})
	}

	u := &models.User{
		Username:     req.Username,
		Password:     string(hash),
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		ProfileImage: req.ProfileImage,
	}
	if err := s.Store.CreateUser(u); err != nil {
		log.Printf("[USERS] create %q failed: %v", req.Username, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create user"})
	}
	return c.Status(201).JSON(u)
}

// Login checks credentials and touches lastLogin, which feeds the
// active-user dashboard count.
func (s *UserService) Login(c *fiber.Ctx) error {
	var req loginRequest
	if !parseBody(c, &req) {
		return nil
	}
	u, err := s.Store.GetUserByUsername(req.Username)
	if err != nil {
		log.Printf("[USERS] login lookup for %q failed: %v", req.Username, err)
		return c.Status(500).JSON(fiber.Map{"error": "login failed"})
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		return c.Status(401).JSON(fiber.Map{"error": "invalid credentials"})
	}
	if err := s.Store.UpdateLastLogin(u.ID); err != nil {
		log.Printf("[USERS] last login update for %d failed: %v", u.ID, err)
	}
	now := time.Now()
	u.LastLogin = &now
	return c.JSON(u)
}

func (s *UserService) UpdateUser(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	var req updateUserRequest
	if !parseBody(c, &req) {
		return nil
	}

	u, err := s.Store.GetUser(id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update user"})
	}
	if u == nil {
		return c.Status(404).JSON(fiber.Map{"error": "user not found"})
	}
	if req.DisplayName != nil {
		u.DisplayName = *req.DisplayName
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.ProfileImage != nil {
		u.ProfileImage = *req.ProfileImage
	}
	if err := s.Store.UpdateUser(u); err != nil {
		log.Printf("[USERS] update %d failed: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to update user"})
	}
	return c.JSON(u)
}

func (s *UserService) GetUserRegistrations(c *fiber.Ctx) error {
	id, ok := paramID(c, "userId")
	if !ok {
		return nil
	}
	regs, err := s.Store.GetUserRegistrations(id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch registrations"})
	}
	return c.JSON(regs)
}

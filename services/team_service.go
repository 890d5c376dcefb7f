package services

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"esports-tournament-system/models"
	"esports-tournament-system/storage"
)

type TeamService struct {
	Store storage.Storage
}

func NewTeamService(store storage.Storage) *TeamService {
	return &TeamService{Store: store}
}

type createTeamRequest struct {
	Name        string `json:"name" validate:"required,max=64"`
	Description string `json:"description"`
	CaptainID   int    `json:"captain_id" validate:"required,gt=0"`
	Badge       string `json:"badge" validate:"max=32"`
}

type updateTeamRequest struct {
	Name        *string `json:"name" validate:"omitempty,max=64"`
	Description *string `json:"description"`
	Badge       *string `json:"badge" validate:"omitempty,max=32"`
}

type addMemberRequest struct {
	UserID int    `json:"user_id" validate:"required,gt=0"`
	Role   string `json:"role" validate:"omitempty,oneof=captain player substitute"`
}

func (s *TeamService) GetTeams(c *fiber.Ctx) error {
	teams, err := s.Store.GetTeams()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch teams"})
	}
	return c.JSON(teams)
}

func (s *TeamService) GetTopTeams(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)
	teams, err := s.Store.GetTopTeams(limit)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch teams"})
	}
	return c.JSON(teams)
}

func (s *TeamService) GetUserTeams(c *fiber.Ctx) error {
	userID, ok := paramID(c, "userId")
	if !ok {
		return nil
	}
	teams, err := s.Store.GetTeamsByUser(userID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch teams"})
	}
	return c.JSON(teams)
}

func (s *TeamService) GetTeam(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	t, err := s.Store.GetTeam(id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch team"})
	}
	if t == nil {
		return c.Status(404).JSON(fiber.Map{"error": "team not found"})
	}
	return c.JSON(t)
}

// CreateTeam creates the team and enrolls the captain as its first member.
func (s *TeamService) CreateTeam(c *fiber.Ctx) error {
	var req createTeamRequest
	if !parseBody(c, &req) {
		return nil
	}

	captain, err := s.Store.GetUser(req.CaptainID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create team"})
	}
	if captain == nil {
		return c.Status(400).JSON(fiber.Map{"error": "captain not found"})
	}

	t := &models.Team{
		Name:        req.Name,
		Description: req.Description,
		CaptainID:   req.CaptainID,
		Badge:       req.Badge,
	}
	if err := s.Store.CreateTeam(t); err != nil {
		log.Printf("[TEAMS] create %q failed: %v", req.Name, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create team"})
	}
	if err := s.Store.AddTeamMember(&models.TeamMember{
		TeamID: t.ID,
		UserID: req.CaptainID,
		Role:   models.TeamRoleCaptain,
	}); err != nil {
		log.Printf("[TEAMS] enroll captain for team %d failed: %v", t.ID, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create team"})
	}

	created, err := s.Store.GetTeam(t.ID)
	if err != nil || created == nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create team"})
	}
	return c.Status(201).JSON(created)
}

func (s *TeamService) UpdateTeam(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	var req updateTeamRequest
	if !parseBody(c, &req) {
		return nil
	}

	t, err := s.Store.GetTeam(id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update team"})
	}
	if t == nil {
		return c.Status(404).JSON(fiber.Map{"error": "team not found"})
	}
	if req.Name != nil {
		t.Name = *req.Name
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Badge != nil {
		t.Badge = *req.Badge
	}
	if err := s.Store.UpdateTeam(t); err != nil {
		log.Printf("[TEAMS] update %d failed: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to update team"})
	}
	return c.JSON(t)
}

func (s *TeamService) AddMember(c *fiber.Ctx) error {
	teamID, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	var req addMemberRequest
	if !parseBody(c, &req) {
		return nil
	}

	u, err := s.Store.GetUser(req.UserID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to add member"})
	}
	if u == nil {
		return c.Status(400).JSON(fiber.Map{"error": "user not found"})
	}

	members, err := s.Store.GetTeamMembers(teamID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to add member"})
	}
	for _, m := range members {
		if m.UserID == req.UserID {
			return c.Status(400).JSON(fiber.Map{"error": "user is already a member"})
		}
	}

	role := req.Role
	if role == "" {
		role = models.TeamRolePlayer
	}
	member := &models.TeamMember{TeamID: teamID, UserID: req.UserID, Role: role}
	if err := s.Store.AddTeamMember(member); err != nil {
		if err == storage.ErrNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "team not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to add member"})
	}
	return c.Status(201).JSON(member)
}

func (s *TeamService) RemoveMember(c *fiber.Ctx) error {
	teamID, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	userID, ok := paramID(c, "userId")
	if !ok {
		return nil
	}
	if err := s.Store.RemoveTeamMember(teamID, userID); err != nil {
		if err == storage.ErrNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "member not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to remove member"})
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (s *TeamService) DeleteTeam(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	if err := s.Store.DeleteTeam(id); err != nil {
		if err == storage.ErrNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "team not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete team"})
	}
	return c.JSON(fiber.Map{"ok": true})
}

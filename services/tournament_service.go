package services

import (
	"log"
	"path/filepath"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"esports-tournament-system/models"
	"esports-tournament-system/storage"
	"esports-tournament-system/utils"
)

type TournamentService struct {
	Store storage.Storage
}

func NewTournamentService(store storage.Storage) *TournamentService {
	return &TournamentService{Store: store}
}

type createTournamentRequest struct {
	Name                string     `json:"name" validate:"required,max=120"`
	GameID              int        `json:"game_id" validate:"required,gt=0"`
	Description         string     `json:"description"`
	StartDate           time.Time  `json:"start_date" validate:"required"`
	EndDate             time.Time  `json:"end_date"`
	RegistrationEndDate time.Time  `json:"registration_end_date"`
	EntryFee            int        `json:"entry_fee" validate:"gte=0"`
	PrizePool           int        `json:"prize_pool" validate:"gte=0"`
	MaxPlayers          int        `json:"max_players" validate:"gte=0"`
	MinParticipants     int        `json:"min_participants" validate:"gte=0"`
	Status              string     `json:"status" validate:"omitempty,oneof=upcoming ongoing completed cancelled"`
	GameMode            string     `json:"game_mode" validate:"omitempty,oneof=solo duo squad custom"`
	TournamentType      string     `json:"tournament_type"`
	Rules               string     `json:"rules"`
	EligibilityCriteria string     `json:"eligibility_criteria"`
	IsFeatured          bool       `json:"is_featured"`
}

type registerRequest struct {
	UserID int  `json:"user_id" validate:"required,gt=0"`
	TeamID *int `json:"team_id" validate:"omitempty,gt=0"`
}

type createMatchRequest struct {
	Round         int        `json:"round" validate:"required,gt=0"`
	MatchNumber   int        `json:"match_number" validate:"required,gt=0"`
	Team1ID       *int       `json:"team1_id" validate:"omitempty,gt=0"`
	Team2ID       *int       `json:"team2_id" validate:"omitempty,gt=0"`
	ScheduledTime *time.Time `json:"scheduled_time"`
	StreamURL     string     `json:"stream_url"`
}

type updateMatchRequest struct {
	Team1ID       *int       `json:"team1_id" validate:"omitempty,gt=0"`
	Team2ID       *int       `json:"team2_id" validate:"omitempty,gt=0"`
	ScheduledTime *time.Time `json:"scheduled_time"`
	StreamURL     *string    `json:"stream_url"`
	Status        *string    `json:"status" validate:"omitempty,oneof=scheduled in_progress completed cancelled"`
}

type registrationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending accepted rejected"`
}

type matchResultRequest struct {
	WinnerID   int `json:"winner_id" validate:"required,gt=0"`
	Team1Score int `json:"team1_score" validate:"gte=0"`
	Team2Score int `json:"team2_score" validate:"gte=0"`
}

func (s *TournamentService) GetTournaments(c *fiber.Ctx) error {
	out, err := s.Store.GetTournaments()
	if err != nil {
		log.Printf("[TOURNAMENTS] list failed: %v", err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch tournaments"})
	}
	return c.JSON(out)
}

func (s *TournamentService) GetUpcomingTournaments(c *fiber.Ctx) error {
	out, err := s.Store.GetUpcomingTournaments()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch tournaments"})
	}
	return c.JSON(out)
}

func (s *TournamentService) GetFeaturedTournaments(c *fiber.Ctx) error {
	out, err := s.Store.GetFeaturedTournaments()
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch tournaments"})
	}
	return c.JSON(out)
}

func (s *TournamentService) GetTournamentsByGame(c *fiber.Ctx) error {
	gameID, ok := paramID(c, "gameId")
	if !ok {
		return nil
	}
	out, err := s.Store.GetTournamentsByGame(gameID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch tournaments"})
	}
	return c.JSON(out)
}

// GetTournament returns the tournament with registrations and matches
// preloaded for the detail page.
func (s *TournamentService) GetTournament(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	t, err := s.Store.GetTournament(id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch tournament"})
	}
	if t == nil {
		return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
	}
	return c.JSON(t)
}

func (s *TournamentService) CreateTournament(c *fiber.Ctx) error {
	var req createTournamentRequest
	if !parseBody(c, &req) {
		return nil
	}

	game, err := s.Store.GetGame(req.GameID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to create tournament"})
	}
	if game == nil {
		return c.Status(400).JSON(fiber.Map{"error": "game_id not found"})
	}

	status := req.Status
	if status == "" {
		status = models.TournamentStatusUpcoming
	}
	gameMode := req.GameMode
	if gameMode == "" {
		gameMode = models.GameModeSolo
	}
	t := &models.Tournament{
		Name:                req.Name,
		Slug:                slug.Make(req.Name),
		GameID:              req.GameID,
		Description:         req.Description,
		StartDate:           req.StartDate,
		EndDate:             req.EndDate,
		RegistrationEndDate: req.RegistrationEndDate,
		EntryFee:            req.EntryFee,
		PrizePool:           req.PrizePool,
		MaxPlayers:          req.MaxPlayers,
		MinParticipants:     req.MinParticipants,
		Status:              status,
		GameMode:            gameMode,
		TournamentType:      req.TournamentType,
		Rules:               req.Rules,
		EligibilityCriteria: req.EligibilityCriteria,
		IsFeatured:          req.IsFeatured,
	}
	if err := s.Store.CreateTournament(t); err != nil {
		log.Printf("[TOURNAMENTS] create %q failed: %v", req.Name, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to create tournament"})
	}
	return c.Status(201).JSON(t)
}

func (s *TournamentService) UpdateTournament(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	t, err := s.Store.GetTournament(id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update tournament"})
	}
	if t == nil {
		return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
	}

	var req createTournamentRequest
	if !parseBody(c, &req) {
		return nil
	}
	t.Name = req.Name
	t.Slug = slug.Make(req.Name)
	t.Description = req.Description
	t.StartDate = req.StartDate
	t.EndDate = req.EndDate
	t.RegistrationEndDate = req.RegistrationEndDate
	t.EntryFee = req.EntryFee
	t.PrizePool = req.PrizePool
	t.MaxPlayers = req.MaxPlayers
	t.MinParticipants = req.MinParticipants
	if req.Status != "" {
		t.Status = req.Status
	}
	if req.GameMode != "" {
		t.GameMode = req.GameMode
	}
	t.TournamentType = req.TournamentType
	t.Rules = req.Rules
	t.EligibilityCriteria = req.EligibilityCriteria
	t.IsFeatured = req.IsFeatured
	if err := s.Store.UpdateTournament(t); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update tournament"})
	}
	return c.JSON(t)
}

func (s *TournamentService) DeleteTournament(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	if err := s.Store.DeleteTournament(id); err != nil {
		if err == storage.ErrNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		log.Printf("[TOURNAMENTS] delete %d failed: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to delete tournament"})
	}
	return c.JSON(fiber.Map{"ok": true})
}

// Register claims a slot. The capacity check lives here, not in storage:
// storage only counts, the route layer decides.
func (s *TournamentService) Register(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	var req registerRequest
	if !parseBody(c, &req) {
		return nil
	}

	t, err := s.Store.GetTournament(id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to register"})
	}
	if t == nil {
		return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
	}
	if t.MaxPlayers > 0 && t.CurrentPlayers >= t.MaxPlayers {
		return c.Status(400).JSON(fiber.Map{"error": "Tournament is full"})
	}

	u, err := s.Store.GetUser(req.UserID)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to register"})
	}
	if u == nil {
		return c.Status(400).JSON(fiber.Map{"error": "user not found"})
	}
	for _, r := range t.Registrations {
		if r.UserID == req.UserID {
			return c.Status(400).JSON(fiber.Map{"error": "already registered"})
		}
	}

	reg := &models.TournamentRegistration{
		TournamentID: id,
		UserID:       req.UserID,
		TeamID:       req.TeamID,
	}
	if err := s.Store.RegisterForTournament(reg); err != nil {
		log.Printf("[TOURNAMENTS] registration for %d failed: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to register"})
	}
	return c.Status(201).JSON(reg)
}

func (s *TournamentService) GetRegistrations(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	regs, err := s.Store.GetTournamentRegistrations(id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch registrations"})
	}
	return c.JSON(regs)
}

// SetRegistrationStatus lets the organizer accept or reject a pending
// registration. The slot stays claimed either way; freeing it is
// CancelRegistration's job.
func (s *TournamentService) SetRegistrationStatus(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	var req registrationStatusRequest
	if !parseBody(c, &req) {
		return nil
	}
	if err := s.Store.UpdateRegistrationStatus(id, req.Status); err != nil {
		if err == storage.ErrNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "registration not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to update registration"})
	}
	return c.JSON(fiber.Map{"ok": true})
}

// CancelRegistration withdraws a registration and releases the slot.
func (s *TournamentService) CancelRegistration(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	if err := s.Store.DeleteRegistration(id); err != nil {
		if err == storage.ErrNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "registration not found"})
		}
		log.Printf("[TOURNAMENTS] cancel registration %d failed: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to cancel registration"})
	}
	return c.JSON(fiber.Map{"ok": true})
}

func (s *TournamentService) GetMatches(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	matches, err := s.Store.GetMatches(id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch matches"})
	}
	return c.JSON(matches)
}

func (s *TournamentService) CreateMatch(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	var req createMatchRequest
	if !parseBody(c, &req) {
		return nil
	}
	m := &models.Match{
		TournamentID:  id,
		Round:         req.Round,
		MatchNumber:   req.MatchNumber,
		Team1ID:       req.Team1ID,
		Team2ID:       req.Team2ID,
		ScheduledTime: req.ScheduledTime,
		StreamURL:     req.StreamURL,
	}
	if err := s.Store.CreateMatch(m); err != nil {
		if err == storage.ErrNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
		}
		return c.Status(500).JSON(fiber.Map{"error": "failed to create match"})
	}
	return c.Status(201).JSON(m)
}

func (s *TournamentService) GetMatch(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	m, err := s.Store.GetMatch(id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch match"})
	}
	if m == nil {
		return c.Status(404).JSON(fiber.Map{"error": "match not found"})
	}
	return c.JSON(m)
}

// UpdateMatch reschedules or reslots a match without touching its result.
func (s *TournamentService) UpdateMatch(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	var req updateMatchRequest
	if !parseBody(c, &req) {
		return nil
	}
	m, err := s.Store.GetMatch(id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update match"})
	}
	if m == nil {
		return c.Status(404).JSON(fiber.Map{"error": "match not found"})
	}
	if req.Team1ID != nil {
		m.Team1ID = req.Team1ID
	}
	if req.Team2ID != nil {
		m.Team2ID = req.Team2ID
	}
	if req.ScheduledTime != nil {
		m.ScheduledTime = req.ScheduledTime
	}
	if req.StreamURL != nil {
		m.StreamURL = *req.StreamURL
	}
	if req.Status != nil {
		m.Status = *req.Status
	}
	if err := s.Store.UpdateMatch(m); err != nil {
		log.Printf("[MATCHES] update %d failed: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to update match"})
	}
	return c.JSON(m)
}

// SetMatchResult records the winner and scores and completes the match.
func (s *TournamentService) SetMatchResult(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	var req matchResultRequest
	if !parseBody(c, &req) {
		return nil
	}
	m, err := s.Store.UpdateMatchResult(id, req.WinnerID, req.Team1Score, req.Team2Score)
	if err != nil {
		if err == storage.ErrNotFound {
			return c.Status(404).JSON(fiber.Map{"error": "match not found"})
		}
		log.Printf("[MATCHES] result for %d failed: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to update match result"})
	}
	return c.JSON(m)
}

// UploadTournamentImage stores a banner image and writes its URL onto the
// tournament.
func (s *TournamentService) UploadTournamentImage(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	t, err := s.Store.GetTournament(id)
	if err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to fetch tournament"})
	}
	if t == nil {
		return c.Status(404).JSON(fiber.Map{"error": "tournament not found"})
	}

	file, err := c.FormFile("image")
	if err != nil || file.Size == 0 {
		return c.Status(400).JSON(fiber.Map{"error": "image file is required"})
	}
	ext := filepath.Ext(file.Filename)
	if ext == "" {
		ext = ".jpg"
	}
	key := "tournaments/" + uuid.NewString() + ext
	url, err := utils.UploadImage(file, key)
	if err != nil {
		log.Printf("[TOURNAMENTS] image upload for %d failed: %v", id, err)
		return c.Status(500).JSON(fiber.Map{"error": "failed to upload image"})
	}

	t.ImageURL = url
	if err := s.Store.UpdateTournament(t); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": "failed to update tournament"})
	}
	return c.JSON(t)
}

package storage

import (
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"esports-tournament-system/models"
)

// MemoryStorage keeps every entity in an id-keyed map guarded by one lock,
// with per-entity monotonic id counters starting at 1. It exists for tests
// and demo runs; a fresh store per test gives full isolation.
type MemoryStorage struct {
	mu sync.RWMutex

	users         map[int]*models.User
	games         map[int]*models.Game
	teams         map[int]*models.Team
	teamMembers   map[int]*models.TeamMember
	tournaments   map[int]*models.Tournament
	registrations map[int]*models.TournamentRegistration
	matches       map[int]*models.Match
	leaderboard   map[int]*models.LeaderboardEntry
	transactions  map[int]*models.WalletTransaction
	auditLogs     map[int]*models.AdminAuditLog

	userID         int
	gameID         int
	teamID         int
	teamMemberID   int
	tournamentID   int
	registrationID int
	matchID        int
	leaderboardID  int
	transactionID  int
	auditLogID     int
}

func NewMemoryStorage() *MemoryStorage {
	s := &MemoryStorage{
		users:         make(map[int]*models.User),
		games:         make(map[int]*models.Game),
		teams:         make(map[int]*models.Team),
		teamMembers:   make(map[int]*models.TeamMember),
		tournaments:   make(map[int]*models.Tournament),
		registrations: make(map[int]*models.TournamentRegistration),
		matches:       make(map[int]*models.Match),
		leaderboard:   make(map[int]*models.LeaderboardEntry),
		transactions:  make(map[int]*models.WalletTransaction),
		auditLogs:     make(map[int]*models.AdminAuditLog),
	}
	s.seed()
	return s
}

// seed loads fixture data so a demo run has something to show.
func (s *MemoryStorage) seed() {
	hash, _ := bcrypt.GenerateFromPassword([]byte("demo1234"), bcrypt.MinCost)

	admin := &models.User{Username: "admin", Password: string(hash), DisplayName: "Platform Admin", Email: "admin@example.com", WalletBalance: 0}
	demo := &models.User{Username: "demo_player", Password: string(hash), DisplayName: "Demo Player", Email: "demo@example.com", WalletBalance: 500}
	s.CreateUser(admin)
	s.CreateUser(demo)

	freefire := &models.Game{Name: "Free Fire", Slug: "free-fire", Status: models.GameStatusActive, PlayerCount: 1200, IsFeatured: true, Badge: "popular"}
	bgmi := &models.Game{Name: "BGMI", Slug: "bgmi", Status: models.GameStatusActive, PlayerCount: 800, IsFeatured: true}
	valorant := &models.Game{Name: "Valorant", Slug: "valorant", Status: models.GameStatusActive, PlayerCount: 450}
	s.CreateGame(freefire)
	s.CreateGame(bgmi)
	s.CreateGame(valorant)

	now := time.Now()
	s.CreateTournament(&models.Tournament{
		Name:                "Free Fire Weekly Cup",
		Slug:                "free-fire-weekly-cup",
		GameID:              freefire.ID,
		Description:         "Weekly solo cup, open bracket.",
		StartDate:           now.Add(48 * time.Hour),
		EndDate:             now.Add(72 * time.Hour),
		RegistrationEndDate: now.Add(36 * time.Hour),
		EntryFee:            50,
		PrizePool:           2000,
		MaxPlayers:          64,
		MinParticipants:     8,
		Status:              models.TournamentStatusUpcoming,
		GameMode:            models.GameModeSolo,
		IsFeatured:          true,
	})
	s.CreateTournament(&models.Tournament{
		Name:                "BGMI Squad Showdown",
		Slug:                "bgmi-squad-showdown",
		GameID:              bgmi.ID,
		Description:         "Squads of four, double elimination.",
		StartDate:           now.Add(96 * time.Hour),
		EndDate:             now.Add(120 * time.Hour),
		RegistrationEndDate: now.Add(84 * time.Hour),
		EntryFee:            100,
		PrizePool:           5000,
		MaxPlayers:          16,
		MinParticipants:     4,
		Status:              models.TournamentStatusUpcoming,
		GameMode:            models.GameModeSquad,
	})

	demoID := demo.ID
	gameID := freefire.ID
	s.UpdateLeaderboardEntry(&models.LeaderboardEntry{
		UserID: &demoID, GameID: &gameID, Points: 320, Wins: 4,
		TotalMatches: 12, KDRatio: 2.1, Earnings: 600, Rank: 1,
		Period: models.LeaderboardPeriodWeekly,
	})
}

func intPtrEq(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// ---- Users ----

func (s *MemoryStorage) GetUser(id int) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (s *MemoryStorage) GetUserByUsername(username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Username, username) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (s *MemoryStorage) GetUsers(limit, offset int) ([]models.User, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	all := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	total := int64(len(all))
	if offset >= len(all) {
		return []models.User{}, total, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (s *MemoryStorage) CreateUser(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID++
	u.ID = s.userID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *MemoryStorage) UpdateUser(u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.users[u.ID]
	if !ok {
		return ErrNotFound
	}
	// walletBalance only moves through transactions
	u.WalletBalance = existing.WalletBalance
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *MemoryStorage) UpdateUserWallet(userID, amount int) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adjustWalletLocked(userID, amount)
}

func (s *MemoryStorage) adjustWalletLocked(userID, amount int) (*models.User, error) {
	u, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	u.WalletBalance += amount
	cp := *u
	return &cp, nil
}

func (s *MemoryStorage) UpdateLastLogin(userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return ErrNotFound
	}
	now := time.Now()
	u.LastLogin = &now
	return nil
}

// ---- Games ----

func (s *MemoryStorage) GetGames() ([]models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Game, 0, len(s.games))
	for _, g := range s.games {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStorage) GetFeaturedGames() ([]models.Game, error) {
	all, _ := s.GetGames()
	out := make([]models.Game, 0)
	for _, g := range all {
		if g.IsFeatured {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *MemoryStorage) GetGame(id int) (*models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	return &cp, nil
}

func (s *MemoryStorage) CreateGame(g *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameID++
	g.ID = s.gameID
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	g.UpdatedAt = time.Now()
	cp := *g
	s.games[g.ID] = &cp
	return nil
}

func (s *MemoryStorage) UpdateGame(g *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[g.ID]; !ok {
		return ErrNotFound
	}
	g.UpdatedAt = time.Now()
	cp := *g
	s.games[g.ID] = &cp
	return nil
}

// DeleteGame cascades every tournament of the game (with their matches and
// registrations) and then the game row, all under one lock acquisition so
// no tournament can slip in mid-cascade.
func (s *MemoryStorage) DeleteGame(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return ErrNotFound
	}
	for tid, t := range s.tournaments {
		if t.GameID == id {
			if err := s.deleteTournamentLocked(tid); err != nil {
				return err
			}
		}
	}
	delete(s.games, id)
	return nil
}

// ---- Teams ----

func (s *MemoryStorage) GetTeams() ([]models.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Team, 0, len(s.teams))
	for _, t := range s.teams {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStorage) GetTopTeams(limit int) ([]models.Team, error) {
	out, _ := s.GetTeams()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Wins != out[j].Wins {
			return out[i].Wins > out[j].Wins
		}
		return out[i].TotalEarnings > out[j].TotalEarnings
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStorage) GetTeamsByUser(userID int) ([]models.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Team, 0)
	for _, m := range s.teamMembers {
		if m.UserID == userID {
			if t, ok := s.teams[m.TeamID]; ok {
				out = append(out, *t)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStorage) GetTeam(id int) (*models.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	cp.Members = s.membersOfLocked(id)
	return &cp, nil
}

func (s *MemoryStorage) CreateTeam(t *models.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teamID++
	t.ID = s.teamID
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	cp := *t
	cp.Members = nil
	s.teams[t.ID] = &cp
	return nil
}

func (s *MemoryStorage) UpdateTeam(t *models.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[t.ID]; !ok {
		return ErrNotFound
	}
	cp := *t
	cp.Members = nil
	s.teams[t.ID] = &cp
	return nil
}

func (s *MemoryStorage) DeleteTeam(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[id]; !ok {
		return ErrNotFound
	}
	for mid, m := range s.teamMembers {
		if m.TeamID == id {
			delete(s.teamMembers, mid)
		}
	}
	delete(s.teams, id)
	return nil
}

func (s *MemoryStorage) membersOfLocked(teamID int) []models.TeamMember {
	out := make([]models.TeamMember, 0)
	for _, m := range s.teamMembers {
		if m.TeamID == teamID {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemoryStorage) GetTeamMembers(teamID int) ([]models.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.membersOfLocked(teamID), nil
}

func (s *MemoryStorage) AddTeamMember(m *models.TeamMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.teams[m.TeamID]
	if !ok {
		return ErrNotFound
	}
	s.teamMemberID++
	m.ID = s.teamMemberID
	if m.JoinedAt.IsZero() {
		m.JoinedAt = time.Now()
	}
	cp := *m
	s.teamMembers[m.ID] = &cp
	// recount instead of blind increment so the counter self-corrects
	team.MemberCount = len(s.membersOfLocked(m.TeamID))
	return nil
}

func (s *MemoryStorage) RemoveTeamMember(teamID, userID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.teams[teamID]
	if !ok {
		return ErrNotFound
	}
	found := false
	for mid, m := range s.teamMembers {
		if m.TeamID == teamID && m.UserID == userID {
			delete(s.teamMembers, mid)
			found = true
		}
	}
	if !found {
		return ErrNotFound
	}
	team.MemberCount = len(s.membersOfLocked(teamID))
	return nil
}

// ---- Tournaments ----

func (s *MemoryStorage) GetTournaments() ([]models.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Tournament, 0, len(s.tournaments))
	for _, t := range s.tournaments {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (s *MemoryStorage) GetUpcomingTournaments() ([]models.Tournament, error) {
	all, _ := s.GetTournaments()
	out := make([]models.Tournament, 0)
	for _, t := range all {
		if t.Status == models.TournamentStatusUpcoming {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *MemoryStorage) GetFeaturedTournaments() ([]models.Tournament, error) {
	all, _ := s.GetTournaments()
	out := make([]models.Tournament, 0)
	for _, t := range all {
		if t.IsFeatured {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *MemoryStorage) GetTournamentsByGame(gameID int) ([]models.Tournament, error) {
	all, _ := s.GetTournaments()
	out := make([]models.Tournament, 0)
	for _, t := range all {
		if t.GameID == gameID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *MemoryStorage) GetTournament(id int) (*models.Tournament, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tournaments[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	cp.Registrations = s.registrationsOfLocked(id)
	cp.Matches = s.matchesOfLocked(id)
	return &cp, nil
}

func (s *MemoryStorage) CreateTournament(t *models.Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tournamentID++
	t.ID = s.tournamentID
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	t.UpdatedAt = time.Now()
	cp := *t
	cp.Registrations = nil
	cp.Matches = nil
	s.tournaments[t.ID] = &cp
	if g, ok := s.games[t.GameID]; ok {
		g.TournamentCount++
	}
	return nil
}

func (s *MemoryStorage) UpdateTournament(t *models.Tournament) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.tournaments[t.ID]
	if !ok {
		return ErrNotFound
	}
	// currentPlayers only moves through registration paths
	t.CurrentPlayers = existing.CurrentPlayers
	t.UpdatedAt = time.Now()
	cp := *t
	cp.Registrations = nil
	cp.Matches = nil
	s.tournaments[t.ID] = &cp
	return nil
}

func (s *MemoryStorage) DeleteTournament(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteTournamentLocked(id)
}

func (s *MemoryStorage) deleteTournamentLocked(id int) error {
	t, ok := s.tournaments[id]
	if !ok {
		return ErrNotFound
	}
	for mid, m := range s.matches {
		if m.TournamentID == id {
			delete(s.matches, mid)
		}
	}
	for rid, r := range s.registrations {
		if r.TournamentID == id {
			delete(s.registrations, rid)
		}
	}
	if g, ok := s.games[t.GameID]; ok && g.TournamentCount > 0 {
		g.TournamentCount--
	}
	delete(s.tournaments, id)
	return nil
}

// ---- Registrations ----

func (s *MemoryStorage) registrationsOfLocked(tournamentID int) []models.TournamentRegistration {
	out := make([]models.TournamentRegistration, 0)
	for _, r := range s.registrations {
		if r.TournamentID == tournamentID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemoryStorage) GetTournamentRegistrations(tournamentID int) ([]models.TournamentRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.registrationsOfLocked(tournamentID), nil
}

func (s *MemoryStorage) GetUserRegistrations(userID int) ([]models.TournamentRegistration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.TournamentRegistration, 0)
	for _, r := range s.registrations {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStorage) RegisterForTournament(r *models.TournamentRegistration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tournaments[r.TournamentID]
	if !ok {
		return ErrNotFound
	}
	s.registrationID++
	r.ID = s.registrationID
	if r.Status == "" {
		r.Status = models.RegistrationStatusPending
	}
	if r.RegisteredAt.IsZero() {
		r.RegisteredAt = time.Now()
	}
	cp := *r
	s.registrations[r.ID] = &cp
	t.CurrentPlayers++
	return nil
}

func (s *MemoryStorage) UpdateRegistrationStatus(id int, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.registrations[id]
	if !ok {
		return ErrNotFound
	}
	r.Status = status
	return nil
}

func (s *MemoryStorage) DeleteRegistration(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.registrations[id]
	if !ok {
		return ErrNotFound
	}
	if t, ok := s.tournaments[r.TournamentID]; ok && t.CurrentPlayers > 0 {
		t.CurrentPlayers--
	}
	delete(s.registrations, id)
	return nil
}

// ---- Matches ----

func (s *MemoryStorage) matchesOfLocked(tournamentID int) []models.Match {
	out := make([]models.Match, 0)
	for _, m := range s.matches {
		if m.TournamentID == tournamentID {
			out = append(out, *m)
		}
	}
	// bracket order: round asc, then match number asc
	sort.Slice(out, func(i, j int) bool {
		if out[i].Round != out[j].Round {
			return out[i].Round < out[j].Round
		}
		return out[i].MatchNumber < out[j].MatchNumber
	})
	return out
}

func (s *MemoryStorage) GetMatches(tournamentID int) ([]models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.matchesOfLocked(tournamentID), nil
}

func (s *MemoryStorage) GetMatch(id int) (*models.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.matches[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (s *MemoryStorage) CreateMatch(m *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tournaments[m.TournamentID]; !ok {
		return ErrNotFound
	}
	s.matchID++
	m.ID = s.matchID
	if m.Status == "" {
		m.Status = models.MatchStatusScheduled
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	m.UpdatedAt = time.Now()
	cp := *m
	s.matches[m.ID] = &cp
	return nil
}

func (s *MemoryStorage) UpdateMatch(m *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.matches[m.ID]; !ok {
		return ErrNotFound
	}
	m.UpdatedAt = time.Now()
	cp := *m
	s.matches[m.ID] = &cp
	return nil
}

func (s *MemoryStorage) UpdateMatchResult(matchID, winnerID, team1Score, team2Score int) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.matches[matchID]
	if !ok {
		return nil, ErrNotFound
	}
	m.WinnerID = &winnerID
	m.Team1Score = &team1Score
	m.Team2Score = &team2Score
	m.Status = models.MatchStatusCompleted
	m.UpdatedAt = time.Now()
	cp := *m
	return &cp, nil
}

// ---- Leaderboard ----

func (s *MemoryStorage) GetLeaderboard(gameID *int, period string, limit int) ([]models.LeaderboardRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.LeaderboardRow, 0)
	for _, e := range s.leaderboard {
		if gameID != nil && !intPtrEq(e.GameID, gameID) {
			continue
		}
		if period != "" && e.Period != period {
			continue
		}
		row := models.LeaderboardRow{LeaderboardEntry: *e}
		if e.UserID != nil {
			if u, ok := s.users[*e.UserID]; ok {
				row.Username = u.Username
				row.DisplayName = u.DisplayName
				row.ProfileImage = u.ProfileImage
			}
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Rank != out[j].Rank {
			return out[i].Rank < out[j].Rank
		}
		return out[i].Points > out[j].Points
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStorage) UpdateLeaderboardEntry(e *models.LeaderboardEntry) (*models.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.leaderboard {
		if intPtrEq(existing.UserID, e.UserID) &&
			intPtrEq(existing.TeamID, e.TeamID) &&
			intPtrEq(existing.GameID, e.GameID) &&
			existing.Period == e.Period {
			existing.Points = e.Points
			existing.Wins = e.Wins
			existing.TotalMatches = e.TotalMatches
			existing.KDRatio = e.KDRatio
			existing.Earnings = e.Earnings
			existing.Rank = e.Rank
			existing.UpdatedAt = time.Now()
			cp := *existing
			return &cp, nil
		}
	}
	s.leaderboardID++
	e.ID = s.leaderboardID
	e.UpdatedAt = time.Now()
	cp := *e
	s.leaderboard[e.ID] = &cp
	return e, nil
}

// ---- Wallet ----

func (s *MemoryStorage) GetWalletTransactions(userID int) ([]models.WalletTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.WalletTransaction, 0)
	for _, t := range s.transactions {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *MemoryStorage) CreateWalletTransaction(t *models.WalletTransaction) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[t.UserID]; !ok {
		return nil, ErrNotFound
	}
	s.transactionID++
	t.ID = s.transactionID
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	if t.Status == "" {
		t.Status = models.TransactionStatusCompleted
	}
	cp := *t
	s.transactions[t.ID] = &cp
	// balance is derived state, only ever moved by the signed amount
	return s.adjustWalletLocked(t.UserID, t.Amount)
}

func (s *MemoryStorage) GetPendingWithdrawals() ([]models.WalletTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.WalletTransaction, 0)
	for _, t := range s.transactions {
		if t.Type == models.TransactionTypeWithdrawal && t.Status == models.TransactionStatusPending {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStorage) ApproveWithdrawal(id int) (*models.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if t.Status != models.TransactionStatusPending {
		return nil, ErrNotPending
	}
	t.Status = models.TransactionStatusCompleted
	cp := *t
	return &cp, nil
}

func (s *MemoryStorage) RejectWithdrawal(id int, reason string) (*models.WalletTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.transactions[id]
	if !ok {
		return nil, ErrNotFound
	}
	if t.Status != models.TransactionStatusPending {
		return nil, ErrNotPending
	}
	refund := t.Amount
	if refund < 0 {
		refund = -refund
	}
	if _, err := s.adjustWalletLocked(t.UserID, refund); err != nil {
		return nil, err
	}
	t.Status = models.TransactionStatusRejected
	t.Description = t.Description + " - Rejected: " + reason
	cp := *t
	return &cp, nil
}

// ---- Admin ----

func (s *MemoryStorage) CreateAuditLog(l *models.AdminAuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditLogID++
	l.ID = s.auditLogID
	if l.Timestamp.IsZero() {
		l.Timestamp = time.Now()
	}
	cp := *l
	s.auditLogs[l.ID] = &cp
	return nil
}

func (s *MemoryStorage) GetAuditLogs(limit int) ([]models.AdminAuditLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AdminAuditLog, 0, len(s.auditLogs))
	for _, l := range s.auditLogs {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStorage) GetDashboardStats() (*DashboardStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats := &DashboardStats{
		TotalUsers:        int64(len(s.users)),
		TotalTransactions: int64(len(s.transactions)),
	}
	cutoff := time.Now().AddDate(0, 0, -30)
	for _, u := range s.users {
		if u.LastLogin != nil && u.LastLogin.After(cutoff) {
			stats.ActiveUsers++
		}
	}
	for _, t := range s.transactions {
		if t.Type == models.TransactionTypeFee && t.Status == models.TransactionStatusCompleted {
			amt := t.Amount
			if amt < 0 {
				amt = -amt
			}
			stats.TotalRevenue += int64(amt)
		}
		if t.Type == models.TransactionTypeWithdrawal && t.Status == models.TransactionStatusPending {
			stats.PendingWithdrawals++
		}
	}
	for _, t := range s.tournaments {
		if t.Status == models.TournamentStatusOngoing {
			stats.OngoingTournaments++
		}
	}
	return stats, nil
}

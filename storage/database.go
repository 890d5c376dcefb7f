package storage

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"esports-tournament-system/models"
)

// DatabaseStorage is the production backend, GORM over Postgres. Multi-step
// operations (cascading deletes, counter adjustments) run as sequential
// statements; the database engine provides row durability only.
type DatabaseStorage struct {
	DB *gorm.DB
}

func NewDatabaseStorage(db *gorm.DB) *DatabaseStorage {
	return &DatabaseStorage{DB: db}
}

// Migrate creates/updates the schema for every entity.
func (s *DatabaseStorage) Migrate() error {
	return s.DB.AutoMigrate(
		&models.User{},
		&models.Game{},
		&models.Team{},
		&models.TeamMember{},
		&models.Tournament{},
		&models.TournamentRegistration{},
		&models.Match{},
		&models.LeaderboardEntry{},
		&models.WalletTransaction{},
		&models.AdminAuditLog{},
	)
}

func absent(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// ---- Users ----

func (s *DatabaseStorage) GetUser(id int) (*models.User, error) {
	var u models.User
	if err := s.DB.First(&u, "id = ?", id).Error; err != nil {
		if absent(err) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (s *DatabaseStorage) GetUserByUsername(username string) (*models.User, error) {
	var u models.User
	if err := s.DB.First(&u, "LOWER(username) = LOWER(?)", username).Error; err != nil {
		if absent(err) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// GetUsers pages by slicing the full ordered set in memory. Less efficient
// than LIMIT/OFFSET but the total count comes for free.
func (s *DatabaseStorage) GetUsers(limit, offset int) ([]models.User, int64, error) {
	var all []models.User
	if err := s.DB.Order("id ASC").Find(&all).Error; err != nil {
		return nil, 0, err
	}
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

func (s *DatabaseStorage) CreateUser(u *models.User) error {
	return s.DB.Create(u).Error
}

func (s *DatabaseStorage) UpdateUser(u *models.User) error {
	var count int64
	s.DB.Model(&models.User{}).Where("id = ?", u.ID).Count(&count)
	if count == 0 {
		return ErrNotFound
	}
	// wallet_balance only moves through transactions
	return s.DB.Omit("wallet_balance", "created_at").Save(u).Error
}

func (s *DatabaseStorage) UpdateUserWallet(userID, amount int) (*models.User, error) {
	res := s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("wallet_balance", gorm.Expr("wallet_balance + ?", amount))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetUser(userID)
}

func (s *DatabaseStorage) UpdateLastLogin(userID int) error {
	res := s.DB.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_login", time.Now())
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ---- Games ----

func (s *DatabaseStorage) GetGames() ([]models.Game, error) {
	var games []models.Game
	err := s.DB.Order("id ASC").Find(&games).Error
	return games, err
}

func (s *DatabaseStorage) GetFeaturedGames() ([]models.Game, error) {
	var games []models.Game
	err := s.DB.Where("is_featured = ?", true).Order("id ASC").Find(&games).Error
	return games, err
}

func (s *DatabaseStorage) GetGame(id int) (*models.Game, error) {
	var g models.Game
	if err := s.DB.First(&g, "id = ?", id).Error; err != nil {
		if absent(err) {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (s *DatabaseStorage) CreateGame(g *models.Game) error {
	return s.DB.Create(g).Error
}

func (s *DatabaseStorage) UpdateGame(g *models.Game) error {
	var count int64
	s.DB.Model(&models.Game{}).Where("id = ?", g.ID).Count(&count)
	if count == 0 {
		return ErrNotFound
	}
	return s.DB.Omit("created_at").Save(g).Error
}

func (s *DatabaseStorage) DeleteGame(id int) error {
	g, err := s.GetGame(id)
	if err != nil {
		return err
	}
	if g == nil {
		return ErrNotFound
	}
	var tournaments []models.Tournament
	if err := s.DB.Where("game_id = ?", id).Find(&tournaments).Error; err != nil {
		return err
	}
	for _, t := range tournaments {
		if err := s.DeleteTournament(t.ID); err != nil {
			return err
		}
	}
	return s.DB.Delete(&models.Game{}, "id = ?", id).Error
}

// ---- Teams ----

func (s *DatabaseStorage) GetTeams() ([]models.Team, error) {
	var teams []models.Team
	err := s.DB.Order("id ASC").Find(&teams).Error
	return teams, err
}

func (s *DatabaseStorage) GetTopTeams(limit int) ([]models.Team, error) {
	var teams []models.Team
	q := s.DB.Order("wins DESC, total_earnings DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&teams).Error
	return teams, err
}

func (s *DatabaseStorage) GetTeamsByUser(userID int) ([]models.Team, error) {
	var teams []models.Team
	err := s.DB.
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ?", userID).
		Order("teams.id ASC").
		Find(&teams).Error
	return teams, err
}

func (s *DatabaseStorage) GetTeam(id int) (*models.Team, error) {
	var t models.Team
	err := s.DB.Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&t, "id = ?", id).Error
	if err != nil {
		if absent(err) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (s *DatabaseStorage) CreateTeam(t *models.Team) error {
	return s.DB.Omit("Members").Create(t).Error
}

func (s *DatabaseStorage) UpdateTeam(t *models.Team) error {
	var count int64
	s.DB.Model(&models.Team{}).Where("id = ?", t.ID).Count(&count)
	if count == 0 {
		return ErrNotFound
	}
	return s.DB.Omit("Members", "created_at").Save(t).Error
}

func (s *DatabaseStorage) DeleteTeam(id int) error {
	t, err := s.GetTeam(id)
	if err != nil {
		return err
	}
	if t == nil {
		return ErrNotFound
	}
	if err := s.DB.Delete(&models.TeamMember{}, "team_id = ?", id).Error; err != nil {
		return err
	}
	return s.DB.Delete(&models.Team{}, "id = ?", id).Error
}

func (s *DatabaseStorage) GetTeamMembers(teamID int) ([]models.TeamMember, error) {
	var members []models.TeamMember
	err := s.DB.Where("team_id = ?", teamID).Order("id ASC").Find(&members).Error
	return members, err
}

func (s *DatabaseStorage) recountTeamMembers(teamID int) error {
	var count int64
	if err := s.DB.Model(&models.TeamMember{}).Where("team_id = ?", teamID).Count(&count).Error; err != nil {
		return err
	}
	return s.DB.Model(&models.Team{}).Where("id = ?", teamID).
		UpdateColumn("member_count", count).Error
}

func (s *DatabaseStorage) AddTeamMember(m *models.TeamMember) error {
	var count int64
	s.DB.Model(&models.Team{}).Where("id = ?", m.TeamID).Count(&count)
	if count == 0 {
		return ErrNotFound
	}
	if err := s.DB.Create(m).Error; err != nil {
		return err
	}
	// recount instead of blind increment so the counter self-corrects
	return s.recountTeamMembers(m.TeamID)
}

func (s *DatabaseStorage) RemoveTeamMember(teamID, userID int) error {
	res := s.DB.Delete(&models.TeamMember{}, "team_id = ? AND user_id = ?", teamID, userID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return s.recountTeamMembers(teamID)
}

// ---- Tournaments ----

func (s *DatabaseStorage) GetTournaments() ([]models.Tournament, error) {
	var out []models.Tournament
	err := s.DB.Order("start_date ASC").Find(&out).Error
	return out, err
}

func (s *DatabaseStorage) GetUpcomingTournaments() ([]models.Tournament, error) {
	var out []models.Tournament
	err := s.DB.Where("status = ?", models.TournamentStatusUpcoming).
		Order("start_date ASC").Find(&out).Error
	return out, err
}

func (s *DatabaseStorage) GetFeaturedTournaments() ([]models.Tournament, error) {
	var out []models.Tournament
	err := s.DB.Where("is_featured = ?", true).Order("start_date ASC").Find(&out).Error
	return out, err
}

func (s *DatabaseStorage) GetTournamentsByGame(gameID int) ([]models.Tournament, error) {
	var out []models.Tournament
	err := s.DB.Where("game_id = ?", gameID).Order("start_date ASC").Find(&out).Error
	return out, err
}

func (s *DatabaseStorage) GetTournament(id int) (*models.Tournament, error) {
	var t models.Tournament
	err := s.DB.
		Preload("Registrations", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Matches", func(db *gorm.DB) *gorm.DB {
			return db.Order("round ASC, match_number ASC")
		}).
		First(&t, "id = ?", id).Error
	if err != nil {
		if absent(err) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (s *DatabaseStorage) CreateTournament(t *models.Tournament) error {
	if err := s.DB.Omit("Registrations", "Matches").Create(t).Error; err != nil {
		return err
	}
	return s.DB.Model(&models.Game{}).Where("id = ?", t.GameID).
		UpdateColumn("tournament_count", gorm.Expr("tournament_count + 1")).Error
}

func (s *DatabaseStorage) UpdateTournament(t *models.Tournament) error {
	var count int64
	s.DB.Model(&models.Tournament{}).Where("id = ?", t.ID).Count(&count)
	if count == 0 {
		return ErrNotFound
	}
	// current_players only moves through registration paths
	return s.DB.Omit("Registrations", "Matches", "current_players", "created_at").Save(t).Error
}

// DeleteTournament cascades to dependents. Order matters for the foreign
// keys: matches, then registrations, then the game counter, then the row.
func (s *DatabaseStorage) DeleteTournament(id int) error {
	var t models.Tournament
	if err := s.DB.First(&t, "id = ?", id).Error; err != nil {
		if absent(err) {
			return ErrNotFound
		}
		return err
	}
	if err := s.DB.Delete(&models.Match{}, "tournament_id = ?", id).Error; err != nil {
		return err
	}
	if err := s.DB.Delete(&models.TournamentRegistration{}, "tournament_id = ?", id).Error; err != nil {
		return err
	}
	if err := s.DB.Model(&models.Game{}).
		Where("id = ? AND tournament_count > 0", t.GameID).
		UpdateColumn("tournament_count", gorm.Expr("tournament_count - 1")).Error; err != nil {
		return err
	}
	return s.DB.Delete(&models.Tournament{}, "id = ?", id).Error
}

// ---- Registrations ----

func (s *DatabaseStorage) GetTournamentRegistrations(tournamentID int) ([]models.TournamentRegistration, error) {
	var out []models.TournamentRegistration
	err := s.DB.Where("tournament_id = ?", tournamentID).Order("id ASC").Find(&out).Error
	return out, err
}

func (s *DatabaseStorage) GetUserRegistrations(userID int) ([]models.TournamentRegistration, error) {
	var out []models.TournamentRegistration
	err := s.DB.Where("user_id = ?", userID).Order("id ASC").Find(&out).Error
	return out, err
}

func (s *DatabaseStorage) RegisterForTournament(r *models.TournamentRegistration) error {
	var count int64
	s.DB.Model(&models.Tournament{}).Where("id = ?", r.TournamentID).Count(&count)
	if count == 0 {
		return ErrNotFound
	}
	if r.Status == "" {
		r.Status = models.RegistrationStatusPending
	}
	if err := s.DB.Create(r).Error; err != nil {
		return err
	}
	return s.DB.Model(&models.Tournament{}).Where("id = ?", r.TournamentID).
		UpdateColumn("current_players", gorm.Expr("current_players + 1")).Error
}

func (s *DatabaseStorage) UpdateRegistrationStatus(id int, status string) error {
	res := s.DB.Model(&models.TournamentRegistration{}).
		Where("id = ?", id).UpdateColumn("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *DatabaseStorage) DeleteRegistration(id int) error {
	var r models.TournamentRegistration
	if err := s.DB.First(&r, "id = ?", id).Error; err != nil {
		if absent(err) {
			return ErrNotFound
		}
		return err
	}
	if err := s.DB.Delete(&models.TournamentRegistration{}, "id = ?", id).Error; err != nil {
		return err
	}
	return s.DB.Model(&models.Tournament{}).
		Where("id = ? AND current_players > 0", r.TournamentID).
		UpdateColumn("current_players", gorm.Expr("current_players - 1")).Error
}

// ---- Matches ----

func (s *DatabaseStorage) GetMatches(tournamentID int) ([]models.Match, error) {
	var out []models.Match
	// bracket order: round asc, then match number asc
	err := s.DB.Where("tournament_id = ?", tournamentID).
		Order("round ASC, match_number ASC").Find(&out).Error
	return out, err
}

func (s *DatabaseStorage) GetMatch(id int) (*models.Match, error) {
	var m models.Match
	if err := s.DB.First(&m, "id = ?", id).Error; err != nil {
		if absent(err) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (s *DatabaseStorage) CreateMatch(m *models.Match) error {
	var count int64
	s.DB.Model(&models.Tournament{}).Where("id = ?", m.TournamentID).Count(&count)
	if count == 0 {
		return ErrNotFound
	}
	if m.Status == "" {
		m.Status = models.MatchStatusScheduled
	}
	return s.DB.Create(m).Error
}

func (s *DatabaseStorage) UpdateMatch(m *models.Match) error {
	var count int64
	s.DB.Model(&models.Match{}).Where("id = ?", m.ID).Count(&count)
	if count == 0 {
		return ErrNotFound
	}
	return s.DB.Omit("created_at").Save(m).Error
}

func (s *DatabaseStorage) UpdateMatchResult(matchID, winnerID, team1Score, team2Score int) (*models.Match, error) {
	res := s.DB.Model(&models.Match{}).Where("id = ?", matchID).Updates(map[string]interface{}{
		"winner_id":   winnerID,
		"team1_score": team1Score,
		"team2_score": team2Score,
		"status":      models.MatchStatusCompleted,
	})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetMatch(matchID)
}

// ---- Leaderboard ----

func (s *DatabaseStorage) GetLeaderboard(gameID *int, period string, limit int) ([]models.LeaderboardRow, error) {
	q := s.DB.Table("leaderboard_entries").
		Select("leaderboard_entries.*, users.username, users.display_name, users.profile_image").
		Joins("LEFT JOIN users ON users.id = leaderboard_entries.user_id")
	if gameID != nil {
		q = q.Where("leaderboard_entries.game_id = ?", *gameID)
	}
	if period != "" {
		q = q.Where("leaderboard_entries.period = ?", period)
	}
	q = q.Order("leaderboard_entries.rank ASC, leaderboard_entries.points DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []models.LeaderboardRow
	err := q.Scan(&rows).Error
	return rows, err
}

func nullableCond(q *gorm.DB, column string, v *int) *gorm.DB {
	if v == nil {
		return q.Where(column + " IS NULL")
	}
	return q.Where(column+" = ?", *v)
}

// UpdateLeaderboardEntry upserts on (user|team, game, period): an existing
// row is merged and refreshed, otherwise a new row is created.
func (s *DatabaseStorage) UpdateLeaderboardEntry(e *models.LeaderboardEntry) (*models.LeaderboardEntry, error) {
	q := s.DB.Model(&models.LeaderboardEntry{}).Where("period = ?", e.Period)
	q = nullableCond(q, "user_id", e.UserID)
	q = nullableCond(q, "team_id", e.TeamID)
	q = nullableCond(q, "game_id", e.GameID)

	var existing models.LeaderboardEntry
	err := q.First(&existing).Error
	if err != nil {
		if !absent(err) {
			return nil, err
		}
		if err := s.DB.Create(e).Error; err != nil {
			return nil, err
		}
		return e, nil
	}

	updates := map[string]interface{}{
		"points":        e.Points,
		"wins":          e.Wins,
		"total_matches": e.TotalMatches,
		"kd_ratio":      e.KDRatio,
		"earnings":      e.Earnings,
		"rank":          e.Rank,
		"updated_at":    time.Now(),
	}
	if err := s.DB.Model(&models.LeaderboardEntry{}).
		Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
		return nil, err
	}
	var out models.LeaderboardEntry
	if err := s.DB.First(&out, "id = ?", existing.ID).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- Wallet ----

func (s *DatabaseStorage) GetWalletTransactions(userID int) ([]models.WalletTransaction, error) {
	var out []models.WalletTransaction
	err := s.DB.Where("user_id = ?", userID).Order("id DESC").Find(&out).Error
	return out, err
}

func (s *DatabaseStorage) CreateWalletTransaction(t *models.WalletTransaction) (*models.User, error) {
	u, err := s.GetUser(t.UserID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrNotFound
	}
	if t.Status == "" {
		t.Status = models.TransactionStatusCompleted
	}
	if err := s.DB.Create(t).Error; err != nil {
		return nil, err
	}
	// balance is derived state, only ever moved by the signed amount
	return s.UpdateUserWallet(t.UserID, t.Amount)
}

func (s *DatabaseStorage) GetPendingWithdrawals() ([]models.WalletTransaction, error) {
	var out []models.WalletTransaction
	err := s.DB.
		Where("type = ? AND status = ?", models.TransactionTypeWithdrawal, models.TransactionStatusPending).
		Order("id ASC").Find(&out).Error
	return out, err
}

func (s *DatabaseStorage) ApproveWithdrawal(id int) (*models.WalletTransaction, error) {
	var t models.WalletTransaction
	if err := s.DB.First(&t, "id = ?", id).Error; err != nil {
		if absent(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if t.Status != models.TransactionStatusPending {
		return nil, ErrNotPending
	}
	t.Status = models.TransactionStatusCompleted
	if err := s.DB.Model(&models.WalletTransaction{}).Where("id = ?", id).
		UpdateColumn("status", models.TransactionStatusCompleted).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// RejectWithdrawal refunds the absolute amount and appends the reason to
// the transaction description.
func (s *DatabaseStorage) RejectWithdrawal(id int, reason string) (*models.WalletTransaction, error) {
	var t models.WalletTransaction
	if err := s.DB.First(&t, "id = ?", id).Error; err != nil {
		if absent(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if t.Status != models.TransactionStatusPending {
		return nil, ErrNotPending
	}
	refund := t.Amount
	if refund < 0 {
		refund = -refund
	}
	if _, err := s.UpdateUserWallet(t.UserID, refund); err != nil {
		return nil, err
	}
	t.Status = models.TransactionStatusRejected
	t.Description = t.Description + " - Rejected: " + reason
	if err := s.DB.Model(&models.WalletTransaction{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":      t.Status,
		"description": t.Description,
	}).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// ---- Admin ----

func (s *DatabaseStorage) CreateAuditLog(l *models.AdminAuditLog) error {
	return s.DB.Create(l).Error
}

func (s *DatabaseStorage) GetAuditLogs(limit int) ([]models.AdminAuditLog, error) {
	var out []models.AdminAuditLog
	q := s.DB.Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&out).Error
	return out, err
}

// GetDashboardStats runs six independent aggregate reads. The snapshot is
// not transactionally consistent across them.
func (s *DatabaseStorage) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.DB.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	cutoff := time.Now().AddDate(0, 0, -30)
	if err := s.DB.Model(&models.User{}).
		Where("last_login IS NOT NULL AND last_login > ?", cutoff).
		Count(&stats.ActiveUsers).Error; err != nil {
		return nil, err
	}
	var revenue *int64
	if err := s.DB.Model(&models.WalletTransaction{}).
		Where("type = ? AND status = ?", models.TransactionTypeFee, models.TransactionStatusCompleted).
		Select("SUM(ABS(amount))").Scan(&revenue).Error; err != nil {
		return nil, err
	}
	if revenue != nil {
		stats.TotalRevenue = *revenue
	}
	if err := s.DB.Model(&models.WalletTransaction{}).
		Where("type = ? AND status = ?", models.TransactionTypeWithdrawal, models.TransactionStatusPending).
		Count(&stats.PendingWithdrawals).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Tournament{}).
		Where("status = ?", models.TournamentStatusOngoing).
		Count(&stats.OngoingTournaments).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.WalletTransaction{}).Count(&stats.TotalTransactions).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

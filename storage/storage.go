package storage

import (
	"errors"

	"esports-tournament-system/models"
)

// ErrNotFound is returned by mutating operations whose target id does not
// exist. Plain lookups return (nil, nil) for absent records instead.
var ErrNotFound = errors.New("record not found")

// ErrNotPending is returned when a withdrawal review targets a transaction
// that is not in the pending state.
var ErrNotPending = errors.New("transaction is not pending")

// DashboardStats is a composite snapshot assembled from independent reads;
// no cross-query consistency is guaranteed.
type DashboardStats struct {
	TotalUsers         int64 `json:"total_users"`
	ActiveUsers        int64 `json:"active_users"`
	TotalRevenue       int64 `json:"total_revenue"`
	PendingWithdrawals int64 `json:"pending_withdrawals"`
	OngoingTournaments int64 `json:"ongoing_tournaments"`
	TotalTransactions  int64 `json:"total_transactions"`
}

// Storage is the contract both backends satisfy. Route handlers are
// backend-agnostic; the implementation is picked once at startup.
//
// Business rules (capacity checks, duplicate usernames, wallet sign
// convention) live above this interface in the service layer.
type Storage interface {
	// Users
	GetUser(id int) (*models.User, error)
	GetUserByUsername(username string) (*models.User, error)
	GetUsers(limit, offset int) ([]models.User, int64, error)
	CreateUser(u *models.User) error
	UpdateUser(u *models.User) error
	UpdateUserWallet(userID, amount int) (*models.User, error)
	UpdateLastLogin(userID int) error

	// Games
	GetGames() ([]models.Game, error)
	GetFeaturedGames() ([]models.Game, error)
	GetGame(id int) (*models.Game, error)
	CreateGame(g *models.Game) error
	UpdateGame(g *models.Game) error
	DeleteGame(id int) error

	// Teams
	GetTeams() ([]models.Team, error)
	GetTopTeams(limit int) ([]models.Team, error)
	GetTeamsByUser(userID int) ([]models.Team, error)
	GetTeam(id int) (*models.Team, error)
	CreateTeam(t *models.Team) error
	UpdateTeam(t *models.Team) error
	DeleteTeam(id int) error
	GetTeamMembers(teamID int) ([]models.TeamMember, error)
	AddTeamMember(m *models.TeamMember) error
	RemoveTeamMember(teamID, userID int) error

	// Tournaments
	GetTournaments() ([]models.Tournament, error)
	GetUpcomingTournaments() ([]models.Tournament, error)
	GetFeaturedTournaments() ([]models.Tournament, error)
	GetTournamentsByGame(gameID int) ([]models.Tournament, error)
	GetTournament(id int) (*models.Tournament, error)
	CreateTournament(t *models.Tournament) error
	UpdateTournament(t *models.Tournament) error
	DeleteTournament(id int) error

	// Registrations
	GetTournamentRegistrations(tournamentID int) ([]models.TournamentRegistration, error)
	GetUserRegistrations(userID int) ([]models.TournamentRegistration, error)
	RegisterForTournament(r *models.TournamentRegistration) error
	UpdateRegistrationStatus(id int, status string) error
	DeleteRegistration(id int) error

	// Matches
	GetMatches(tournamentID int) ([]models.Match, error)
	GetMatch(id int) (*models.Match, error)
	CreateMatch(m *models.Match) error
	UpdateMatch(m *models.Match) error
	UpdateMatchResult(matchID, winnerID, team1Score, team2Score int) (*models.Match, error)

	// Leaderboard
	GetLeaderboard(gameID *int, period string, limit int) ([]models.LeaderboardRow, error)
	UpdateLeaderboardEntry(e *models.LeaderboardEntry) (*models.LeaderboardEntry, error)

	// Wallet
	GetWalletTransactions(userID int) ([]models.WalletTransaction, error)
	CreateWalletTransaction(t *models.WalletTransaction) (*models.User, error)
	GetPendingWithdrawals() ([]models.WalletTransaction, error)
	ApproveWithdrawal(id int) (*models.WalletTransaction, error)
	RejectWithdrawal(id int, reason string) (*models.WalletTransaction, error)

	// Admin
	CreateAuditLog(l *models.AdminAuditLog) error
	GetAuditLogs(limit int) ([]models.AdminAuditLog, error)
	GetDashboardStats() (*DashboardStats, error)
}

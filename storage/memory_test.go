package storage

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esports-tournament-system/models"
)

func newUser(t *testing.T, s *MemoryStorage, username string, balance int) *models.User {
	t.Helper()
	u := &models.User{Username: username, Password: "x", WalletBalance: balance}
	require.NoError(t, s.CreateUser(u))
	return u
}

func newTournament(t *testing.T, s *MemoryStorage, gameID, maxPlayers int) *models.Tournament {
	t.Helper()
	tr := &models.Tournament{
		Name:       "Test Cup",
		GameID:     gameID,
		StartDate:  time.Now().Add(24 * time.Hour),
		MaxPlayers: maxPlayers,
		Status:     models.TournamentStatusUpcoming,
	}
	require.NoError(t, s.CreateTournament(tr))
	return tr
}

func TestWalletTransactionAdjustsBalance(t *testing.T) {
	s := NewMemoryStorage()
	u := newUser(t, s, "wallet_user", 100)

	cases := []struct {
		txType  models.TransactionType
		amount  int
		balance int
	}{
		{models.TransactionTypeDeposit, 50, 150},
		{models.TransactionTypeWithdrawal, -40, 110},
		{models.TransactionTypePrize, 200, 310},
		{models.TransactionTypeFee, -10, 300},
	}
	for _, c := range cases {
		updated, err := s.CreateWalletTransaction(&models.WalletTransaction{
			UserID: u.ID, Type: c.txType, Amount: c.amount,
		})
		require.NoError(t, err)
		assert.Equal(t, c.balance, updated.WalletBalance, "after %s of %d", c.txType, c.amount)
	}
}

func TestWalletTransactionUnknownUser(t *testing.T) {
	s := NewMemoryStorage()
	_, err := s.CreateWalletTransaction(&models.WalletTransaction{
		UserID: 9999, Type: models.TransactionTypeDeposit, Amount: 10,
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRejectWithdrawalRefunds(t *testing.T) {
	s := NewMemoryStorage()
	u := newUser(t, s, "kyc_user", 100)

	tx := &models.WalletTransaction{
		UserID:      u.ID,
		Type:        models.TransactionTypeWithdrawal,
		Amount:      -40,
		Status:      models.TransactionStatusPending,
		Description: "Withdrawal request",
	}
	after, err := s.CreateWalletTransaction(tx)
	require.NoError(t, err)
	assert.Equal(t, 60, after.WalletBalance)

	rejected, err := s.RejectWithdrawal(tx.ID, "KYC incomplete")
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusRejected, rejected.Status)
	assert.True(t, strings.HasSuffix(rejected.Description, "- Rejected: KYC incomplete"),
		"description %q should carry the reason", rejected.Description)

	refunded, err := s.GetUser(u.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, refunded.WalletBalance)

	// a second review attempt must fail, the refund already happened
	_, err = s.RejectWithdrawal(tx.ID, "again")
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestApproveWithdrawalKeepsBalance(t *testing.T) {
	s := NewMemoryStorage()
	u := newUser(t, s, "payout_user", 100)

	tx := &models.WalletTransaction{
		UserID: u.ID, Type: models.TransactionTypeWithdrawal,
		Amount: -30, Status: models.TransactionStatusPending,
	}
	_, err := s.CreateWalletTransaction(tx)
	require.NoError(t, err)

	approved, err := s.ApproveWithdrawal(tx.ID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, approved.Status)

	after, _ := s.GetUser(u.ID)
	assert.Equal(t, 70, after.WalletBalance)

	pending, _ := s.GetPendingWithdrawals()
	assert.Empty(t, pending)
}

func TestRegistrationMovesCurrentPlayers(t *testing.T) {
	s := NewMemoryStorage()
	u := newUser(t, s, "reg_user", 0)
	tr := newTournament(t, s, 1, 10)

	reg := &models.TournamentRegistration{TournamentID: tr.ID, UserID: u.ID}
	require.NoError(t, s.RegisterForTournament(reg))

	got, _ := s.GetTournament(tr.ID)
	assert.Equal(t, 1, got.CurrentPlayers)
	assert.Len(t, got.Registrations, 1)

	require.NoError(t, s.DeleteRegistration(reg.ID))
	got, _ = s.GetTournament(tr.ID)
	assert.Equal(t, 0, got.CurrentPlayers)
	assert.Empty(t, got.Registrations)
}

func TestMatchOrdering(t *testing.T) {
	s := NewMemoryStorage()
	tr := newTournament(t, s, 1, 8)

	// insert out of order on purpose
	for _, rm := range [][2]int{{2, 1}, {1, 3}, {3, 1}, {1, 1}, {2, 2}, {1, 2}} {
		require.NoError(t, s.CreateMatch(&models.Match{
			TournamentID: tr.ID, Round: rm[0], MatchNumber: rm[1],
		}))
	}

	matches, err := s.GetMatches(tr.ID)
	require.NoError(t, err)
	require.Len(t, matches, 6)
	for i := 1; i < len(matches); i++ {
		prev, cur := matches[i-1], matches[i]
		ordered := prev.Round < cur.Round ||
			(prev.Round == cur.Round && prev.MatchNumber < cur.MatchNumber)
		assert.True(t, ordered, "matches[%d]=(%d,%d) before matches[%d]=(%d,%d)",
			i-1, prev.Round, prev.MatchNumber, i, cur.Round, cur.MatchNumber)
	}
}

func TestUpdateMatchResultCompletes(t *testing.T) {
	s := NewMemoryStorage()
	tr := newTournament(t, s, 1, 8)
	m := &models.Match{TournamentID: tr.ID, Round: 1, MatchNumber: 1}
	require.NoError(t, s.CreateMatch(m))

	updated, err := s.UpdateMatchResult(m.ID, 7, 13, 9)
	require.NoError(t, err)
	assert.Equal(t, models.MatchStatusCompleted, updated.Status)
	assert.Equal(t, 7, *updated.WinnerID)
	assert.Equal(t, 13, *updated.Team1Score)
	assert.Equal(t, 9, *updated.Team2Score)

	_, err = s.UpdateMatchResult(9999, 1, 0, 0)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTournamentCascades(t *testing.T) {
	s := NewMemoryStorage()
	u := newUser(t, s, "cascade_user", 0)

	game := &models.Game{Name: "Cascade Game"}
	require.NoError(t, s.CreateGame(game))

	tr := newTournament(t, s, game.ID, 8)
	before, _ := s.GetGame(game.ID)
	require.Equal(t, 1, before.TournamentCount)

	require.NoError(t, s.RegisterForTournament(&models.TournamentRegistration{TournamentID: tr.ID, UserID: u.ID}))
	require.NoError(t, s.CreateMatch(&models.Match{TournamentID: tr.ID, Round: 1, MatchNumber: 1}))

	require.NoError(t, s.DeleteTournament(tr.ID))

	gone, _ := s.GetTournament(tr.ID)
	assert.Nil(t, gone)
	matches, _ := s.GetMatches(tr.ID)
	assert.Empty(t, matches)
	regs, _ := s.GetTournamentRegistrations(tr.ID)
	assert.Empty(t, regs)
	after, _ := s.GetGame(game.ID)
	assert.Equal(t, 0, after.TournamentCount)
}

func TestDeleteGameCascades(t *testing.T) {
	s := NewMemoryStorage()
	u := newUser(t, s, "gc_user", 0)

	game := &models.Game{Name: "Doomed Game"}
	require.NoError(t, s.CreateGame(game))
	tr := newTournament(t, s, game.ID, 8)
	require.NoError(t, s.RegisterForTournament(&models.TournamentRegistration{TournamentID: tr.ID, UserID: u.ID}))
	require.NoError(t, s.CreateMatch(&models.Match{TournamentID: tr.ID, Round: 1, MatchNumber: 1}))

	require.NoError(t, s.DeleteGame(game.ID))

	gone, _ := s.GetGame(game.ID)
	assert.Nil(t, gone)
	trGone, _ := s.GetTournament(tr.ID)
	assert.Nil(t, trGone)
	matches, _ := s.GetMatches(tr.ID)
	assert.Empty(t, matches)
	regs, _ := s.GetTournamentRegistrations(tr.ID)
	assert.Empty(t, regs)

	assert.ErrorIs(t, s.DeleteGame(game.ID), ErrNotFound)
}

func TestGetTopTeamsOrdering(t *testing.T) {
	s := NewMemoryStorage()
	u := newUser(t, s, "top_captain", 0)

	mk := func(name string, wins, earnings int) {
		require.NoError(t, s.CreateTeam(&models.Team{
			Name: name, CaptainID: u.ID, Wins: wins, TotalEarnings: earnings,
		}))
	}
	mk("bronze", 1, 100)
	mk("gold", 5, 100)
	mk("silver", 3, 900)
	mk("silver_rich", 3, 2000) // earnings break the wins tie

	top, err := s.GetTopTeams(3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, "gold", top[0].Name)
	assert.Equal(t, "silver_rich", top[1].Name)
	assert.Equal(t, "silver", top[2].Name)
}

func TestLeaderboardRankOrdering(t *testing.T) {
	s := NewMemoryStorage()
	game := &models.Game{Name: "Ranked Game"}
	require.NoError(t, s.CreateGame(game))

	ranks := []int{3, 1, 2}
	for i, rank := range ranks {
		u := newUser(t, s, fmt.Sprintf("rk_%d", i), 0)
		_, err := s.UpdateLeaderboardEntry(&models.LeaderboardEntry{
			UserID: &u.ID, GameID: &game.ID, Rank: rank, Points: 100 * rank,
			Period: models.LeaderboardPeriodAllTime,
		})
		require.NoError(t, err)
	}

	rows, err := s.GetLeaderboard(&game.ID, models.LeaderboardPeriodAllTime, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	for i := 1; i < len(rows); i++ {
		assert.Less(t, rows[i-1].Rank, rows[i].Rank)
	}
}

func TestLeaderboardUpsertSingleRow(t *testing.T) {
	s := NewMemoryStorage()
	u := newUser(t, s, "board_user", 0)
	game := &models.Game{Name: "Board Game"}
	require.NoError(t, s.CreateGame(game))

	key := models.LeaderboardEntry{
		UserID: &u.ID, GameID: &game.ID,
		Period: models.LeaderboardPeriodWeekly,
	}

	first := key
	first.Points = 100
	created, err := s.UpdateLeaderboardEntry(&first)
	require.NoError(t, err)

	second := key
	second.Points = 250
	second.Wins = 3
	merged, err := s.UpdateLeaderboardEntry(&second)
	require.NoError(t, err)
	assert.Equal(t, created.ID, merged.ID, "upsert must reuse the existing row")
	assert.Equal(t, 250, merged.Points)
	assert.Equal(t, 3, merged.Wins)

	rows, err := s.GetLeaderboard(&game.ID, models.LeaderboardPeriodWeekly, 0)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, u.Username, rows[0].Username)
}

func TestLeaderboardSeparatePeriods(t *testing.T) {
	s := NewMemoryStorage()
	u := newUser(t, s, "period_user", 0)
	game := &models.Game{Name: "Period Game"}
	require.NoError(t, s.CreateGame(game))

	for _, period := range []string{models.LeaderboardPeriodWeekly, models.LeaderboardPeriodMonthly} {
		_, err := s.UpdateLeaderboardEntry(&models.LeaderboardEntry{
			UserID: &u.ID, GameID: &game.ID, Period: period, Points: 10,
		})
		require.NoError(t, err)
	}
	weekly, _ := s.GetLeaderboard(&game.ID, models.LeaderboardPeriodWeekly, 0)
	monthly, _ := s.GetLeaderboard(&game.ID, models.LeaderboardPeriodMonthly, 0)
	assert.Len(t, weekly, 1)
	assert.Len(t, monthly, 1)
}

func TestTeamMemberCountRecounts(t *testing.T) {
	s := NewMemoryStorage()
	captain := newUser(t, s, "captain", 0)
	mate := newUser(t, s, "mate", 0)

	team := &models.Team{Name: "Recount", CaptainID: captain.ID}
	require.NoError(t, s.CreateTeam(team))
	require.NoError(t, s.AddTeamMember(&models.TeamMember{TeamID: team.ID, UserID: captain.ID, Role: models.TeamRoleCaptain}))
	require.NoError(t, s.AddTeamMember(&models.TeamMember{TeamID: team.ID, UserID: mate.ID}))

	got, _ := s.GetTeam(team.ID)
	assert.Equal(t, 2, got.MemberCount)
	assert.Len(t, got.Members, 2)

	require.NoError(t, s.RemoveTeamMember(team.ID, mate.ID))
	got, _ = s.GetTeam(team.ID)
	assert.Equal(t, 1, got.MemberCount)
}

func TestUpdateUserKeepsWalletBalance(t *testing.T) {
	s := NewMemoryStorage()
	u := newUser(t, s, "profile_user", 75)

	u.DisplayName = "Renamed"
	u.WalletBalance = 9999 // must be ignored
	require.NoError(t, s.UpdateUser(u))

	got, _ := s.GetUser(u.ID)
	assert.Equal(t, "Renamed", got.DisplayName)
	assert.Equal(t, 75, got.WalletBalance)
}

func TestGetUsersPagination(t *testing.T) {
	s := NewMemoryStorage()
	for _, name := range []string{"pg_a", "pg_b", "pg_c", "pg_d"} {
		newUser(t, s, name, 0)
	}

	all, total, err := s.GetUsers(0, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(len(all)), total)

	page, _, err := s.GetUsers(2, 1)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, all[1].ID, page[0].ID)
	assert.Equal(t, all[2].ID, page[1].ID)

	empty, _, err := s.GetUsers(2, int(total)+10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestGetUsersOrderedByID(t *testing.T) {
	s := NewMemoryStorage()
	for _, name := range []string{"ord_c", "ord_a", "ord_b"} {
		newUser(t, s, name, 0)
	}
	users, _, err := s.GetUsers(0, 0)
	require.NoError(t, err)
	for i := 1; i < len(users); i++ {
		assert.Less(t, users[i-1].ID, users[i].ID)
	}
}

func TestAbsentLookupsReturnNil(t *testing.T) {
	s := NewMemoryStorage()
	u, err := s.GetUser(9999)
	assert.NoError(t, err)
	assert.Nil(t, u)

	g, err := s.GetGame(9999)
	assert.NoError(t, err)
	assert.Nil(t, g)

	tr, err := s.GetTournament(9999)
	assert.NoError(t, err)
	assert.Nil(t, tr)
}

func TestDashboardStats(t *testing.T) {
	s := NewMemoryStorage()
	u := newUser(t, s, "stats_user", 100)
	require.NoError(t, s.UpdateLastLogin(u.ID))

	_, err := s.CreateWalletTransaction(&models.WalletTransaction{
		UserID: u.ID, Type: models.TransactionTypeFee, Amount: -25,
	})
	require.NoError(t, err)
	_, err = s.CreateWalletTransaction(&models.WalletTransaction{
		UserID: u.ID, Type: models.TransactionTypeWithdrawal, Amount: -10,
		Status: models.TransactionStatusPending,
	})
	require.NoError(t, err)

	stats, err := s.GetDashboardStats()
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.ActiveUsers)
	assert.Equal(t, int64(25), stats.TotalRevenue)
	assert.Equal(t, int64(1), stats.PendingWithdrawals)
	assert.Equal(t, int64(2), stats.TotalTransactions)
	assert.GreaterOrEqual(t, stats.TotalUsers, int64(1))
}

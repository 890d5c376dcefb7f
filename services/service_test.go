package services_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esports-tournament-system/handlers"
	"esports-tournament-system/services"
	"esports-tournament-system/storage"
)

const testAdminToken = "test-admin-token"

func newTestApp(adminToken string) (*fiber.App, *storage.MemoryStorage) {
	store := storage.NewMemoryStorage()
	app := fiber.New()
	api := app.Group("/api")
	handlers.SetupUserRoutes(api, services.NewUserService(store), services.NewWalletService(store))
	handlers.SetupGameRoutes(api, services.NewGameService(store))
	handlers.SetupTeamRoutes(api, services.NewTeamService(store))
	handlers.SetupTournamentRoutes(api, services.NewTournamentService(store))
	handlers.SetupLeaderboardRoutes(api, services.NewLeaderboardService(store))
	handlers.SetupAdminRoutes(api, services.NewAdminService(store), adminToken)
	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, headers map[string]string) (*http.Response, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	out := map[string]interface{}{}
	dec := json.NewDecoder(resp.Body)
	// list endpoints return arrays, callers decode those themselves
	_ = dec.Decode(&out)
	return resp, out
}

func doJSONList(t *testing.T, app *fiber.App, path string, headers map[string]string) []map[string]interface{} {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)

	var out []map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createUser(t *testing.T, app *fiber.App, username string) int {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/users", fiber.Map{
		"username": username,
		"password": "secret99",
	}, nil)
	require.Equal(t, 201, resp.StatusCode, "creating %s: %v", username, body)
	return int(body["id"].(float64))
}

func adminHeaders() map[string]string {
	return map[string]string{"X-Admin-Token": testAdminToken, "X-Admin-ID": "1"}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	app, store := newTestApp(testAdminToken)

	createUser(t, app, "duptest")

	resp, body := doJSON(t, app, http.MethodPost, "/api/users", fiber.Map{
		"username": "duptest",
		"password": "another1",
	}, nil)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "username already taken", body["error"])

	u, err := store.GetUserByUsername("duptest")
	require.NoError(t, err)
	require.NotNil(t, u)
}

func TestCreateUserNeverExposesPassword(t *testing.T) {
	app, store := newTestApp(testAdminToken)

	resp, body := doJSON(t, app, http.MethodPost, "/api/users", fiber.Map{
		"username": "hidden_pw",
		"password": "secret99",
	}, nil)
	require.Equal(t, 201, resp.StatusCode)
	_, leaked := body["password"]
	assert.False(t, leaked, "password field must not appear in responses")

	u, err := store.GetUserByUsername("hidden_pw")
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.NotEqual(t, "secret99", u.Password, "password must be stored hashed")

	id := int(body["id"].(float64))
	resp, body = doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/users/%d", id), nil, nil)
	require.Equal(t, 200, resp.StatusCode)
	_, leaked = body["password"]
	assert.False(t, leaked)
}

func TestLogin(t *testing.T) {
	app, store := newTestApp(testAdminToken)
	createUser(t, app, "login_user")

	resp, _ := doJSON(t, app, http.MethodPost, "/api/users/login",
		fiber.Map{"username": "login_user", "password": "wrong999"}, nil)
	assert.Equal(t, 401, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, "/api/users/login",
		fiber.Map{"username": "login_user", "password": "secret99"}, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "login_user", body["username"])
	assert.NotEmpty(t, body["last_login"])

	u, err := store.GetUserByUsername("login_user")
	require.NoError(t, err)
	require.NotNil(t, u.LastLogin)
}

func TestCreateUserValidation(t *testing.T) {
	app, _ := newTestApp(testAdminToken)

	resp, body := doJSON(t, app, http.MethodPost, "/api/users", fiber.Map{
		"username": "ab", // too short
		"password": "secret99",
	}, nil)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "validation failed", body["error"])
	assert.NotEmpty(t, body["details"])
}

func createTournament(t *testing.T, app *fiber.App, name string, maxPlayers int) int {
	t.Helper()
	resp, body := doJSON(t, app, http.MethodPost, "/api/tournaments", fiber.Map{
		"name":        name,
		"game_id":     1,
		"start_date":  time.Now().Add(24 * time.Hour).Format(time.RFC3339),
		"max_players": maxPlayers,
	}, nil)
	require.Equal(t, 201, resp.StatusCode, "creating tournament: %v", body)
	return int(body["id"].(float64))
}

func TestTournamentCapacity(t *testing.T) {
	app, _ := newTestApp(testAdminToken)

	tid := createTournament(t, app, "Tiny Cup", 2)
	a := createUser(t, app, "cap_a")
	b := createUser(t, app, "cap_b")
	c := createUser(t, app, "cap_c")

	register := func(userID int) (*http.Response, map[string]interface{}) {
		return doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/tournaments/%d/register", tid),
			fiber.Map{"user_id": userID}, nil)
	}

	resp, _ := register(a)
	assert.Equal(t, 201, resp.StatusCode)
	resp, _ = register(b)
	assert.Equal(t, 201, resp.StatusCode)

	resp, body := register(c)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "Tournament is full", body["error"])

	resp, detail := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/tournaments/%d", tid), nil, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(2), detail["current_players"])
}

func TestTournamentDuplicateRegistration(t *testing.T) {
	app, _ := newTestApp(testAdminToken)

	tid := createTournament(t, app, "Dup Cup", 8)
	uid := createUser(t, app, "dup_reg")

	resp, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/tournaments/%d/register", tid),
		fiber.Map{"user_id": uid}, nil)
	require.Equal(t, 201, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/tournaments/%d/register", tid),
		fiber.Map{"user_id": uid}, nil)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "already registered", body["error"])
}

func TestMatchResultRoute(t *testing.T) {
	app, _ := newTestApp(testAdminToken)

	tid := createTournament(t, app, "Bracket Cup", 8)
	resp, match := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/tournaments/%d/matches", tid),
		fiber.Map{"round": 1, "match_number": 1}, nil)
	require.Equal(t, 201, resp.StatusCode)
	matchID := int(match["id"].(float64))

	resp, body := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/matches/%d/result", matchID),
		fiber.Map{"winner_id": 7, "team1_score": 13, "team2_score": 9}, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "completed", body["status"])
	assert.Equal(t, float64(7), body["winner_id"])

	resp, _ = doJSON(t, app, http.MethodPut, "/api/matches/9999/result",
		fiber.Map{"winner_id": 1, "team1_score": 1, "team2_score": 0}, nil)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestMatchReschedule(t *testing.T) {
	app, _ := newTestApp(testAdminToken)

	tid := createTournament(t, app, "Resched Cup", 8)
	resp, match := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/tournaments/%d/matches", tid),
		fiber.Map{"round": 1, "match_number": 1}, nil)
	require.Equal(t, 201, resp.StatusCode)
	matchID := int(match["id"].(float64))

	when := time.Now().Add(48 * time.Hour).UTC().Truncate(time.Second)
	resp, body := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/matches/%d", matchID),
		fiber.Map{"scheduled_time": when.Format(time.RFC3339), "stream_url": "https://tv.example/m1"}, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "https://tv.example/m1", body["stream_url"])
	assert.Equal(t, "scheduled", body["status"], "reschedule must not change status")

	resp, got := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/matches/%d", matchID), nil, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, body["scheduled_time"], got["scheduled_time"])
}

func TestCancelRegistrationFreesSlot(t *testing.T) {
	app, _ := newTestApp(testAdminToken)

	tid := createTournament(t, app, "Churn Cup", 2)
	a := createUser(t, app, "churn_a")
	b := createUser(t, app, "churn_b")

	resp, reg := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/tournaments/%d/register", tid),
		fiber.Map{"user_id": a}, nil)
	require.Equal(t, 201, resp.StatusCode)
	regID := int(reg["id"].(float64))
	resp, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/tournaments/%d/register", tid),
		fiber.Map{"user_id": b}, nil)
	require.Equal(t, 201, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/registrations/%d", regID), nil, nil)
	require.Equal(t, 200, resp.StatusCode)

	// the freed slot is immediately reusable
	c := createUser(t, app, "churn_c")
	resp, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/tournaments/%d/register", tid),
		fiber.Map{"user_id": c}, nil)
	assert.Equal(t, 201, resp.StatusCode)
}

func TestRegistrationStatusReview(t *testing.T) {
	app, store := newTestApp(testAdminToken)

	tid := createTournament(t, app, "Review Cup", 8)
	uid := createUser(t, app, "review_reg")

	resp, reg := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/tournaments/%d/register", tid),
		fiber.Map{"user_id": uid}, nil)
	require.Equal(t, 201, resp.StatusCode)
	regID := int(reg["id"].(float64))

	resp, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/registrations/%d/status", regID),
		fiber.Map{"status": "accepted"}, nil)
	require.Equal(t, 200, resp.StatusCode)

	regs, err := store.GetTournamentRegistrations(tid)
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, "accepted", regs[0].Status)

	resp, _ = doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/registrations/%d/status", regID),
		fiber.Map{"status": "waitlisted"}, nil)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestLeaderboardUpsertRoute(t *testing.T) {
	app, _ := newTestApp(testAdminToken)
	uid := createUser(t, app, "board_http")

	post := func(points int) (*http.Response, map[string]interface{}) {
		return doJSON(t, app, http.MethodPost, "/api/leaderboard", fiber.Map{
			"user_id": uid,
			"game_id": 2,
			"points":  points,
			"period":  "monthly",
		}, nil)
	}

	resp, first := post(100)
	require.Equal(t, 201, resp.StatusCode)
	resp, second := post(250)
	require.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, first["id"], second["id"])

	rows := doJSONList(t, app, "/api/leaderboard?gameId=2&period=monthly", nil)
	require.Len(t, rows, 1)
	assert.Equal(t, float64(250), rows[0]["points"])
	assert.Equal(t, "board_http", rows[0]["username"])
}

func TestLeaderboardRequiresSubject(t *testing.T) {
	app, _ := newTestApp(testAdminToken)
	resp, body := doJSON(t, app, http.MethodPost, "/api/leaderboard",
		fiber.Map{"game_id": 1, "points": 10}, nil)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "user_id or team_id is required", body["error"])
}

func TestWalletSignConvention(t *testing.T) {
	app, _ := newTestApp(testAdminToken)
	uid := createUser(t, app, "sign_user")

	// a negative deposit and a positive withdrawal both violate the convention
	for _, tx := range []fiber.Map{
		{"type": "deposit", "amount": -50},
		{"type": "withdrawal", "amount": 50},
	} {
		resp, body := doJSON(t, app, http.MethodPost,
			fmt.Sprintf("/api/users/%d/wallet/transactions", uid), tx, nil)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, "amount sign does not match transaction type", body["error"])
	}

	resp, body := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/users/%d/wallet/transactions", uid),
		fiber.Map{"type": "deposit", "amount": 150}, nil)
	require.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, float64(150), body["balance"])
}

func TestWithdrawalReviewFlow(t *testing.T) {
	app, _ := newTestApp(testAdminToken)
	uid := createUser(t, app, "review_user")

	deposit := fiber.Map{"type": "deposit", "amount": 600, "description": "Top up"}
	resp, _ := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/users/%d/wallet/transactions", uid), deposit, nil)
	require.Equal(t, 201, resp.StatusCode)

	withdrawal := fiber.Map{"type": "withdrawal", "amount": -200, "description": "Withdrawal request"}
	resp, body := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/users/%d/wallet/transactions", uid), withdrawal, nil)
	require.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, float64(400), body["balance"])
	tx := body["transaction"].(map[string]interface{})
	assert.Equal(t, "pending", tx["status"])
	txID := int(tx["id"].(float64))

	pending := doJSONList(t, app, "/api/admin/withdrawals", adminHeaders())
	require.Len(t, pending, 1)

	resp, rejected := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/admin/withdrawals/%d/reject", txID),
		fiber.Map{"reason": "KYC incomplete"}, adminHeaders())
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "rejected", rejected["status"])
	assert.True(t, strings.HasSuffix(rejected["description"].(string), "- Rejected: KYC incomplete"))

	resp, wallet := doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/users/%d/wallet", uid), nil, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(600), wallet["balance"], "rejected withdrawal must refund")

	resp, body = doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/admin/withdrawals/%d/reject", txID),
		fiber.Map{"reason": "again"}, adminHeaders())
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "can only reject pending withdrawals", body["error"])

	logs := doJSONList(t, app, "/api/admin/audit-logs", adminHeaders())
	require.NotEmpty(t, logs)
	assert.Contains(t, logs[0]["action"], "KYC incomplete")
}

func TestApproveWithdrawalRoute(t *testing.T) {
	app, _ := newTestApp(testAdminToken)
	uid := createUser(t, app, "approve_user")

	doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/users/%d/wallet/transactions", uid),
		fiber.Map{"type": "deposit", "amount": 300}, nil)
	_, body := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/users/%d/wallet/transactions", uid),
		fiber.Map{"type": "withdrawal", "amount": -100}, nil)
	txID := int(body["transaction"].(map[string]interface{})["id"].(float64))

	resp, approved := doJSON(t, app, http.MethodPost,
		fmt.Sprintf("/api/admin/withdrawals/%d/approve", txID), nil, adminHeaders())
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "completed", approved["status"])

	_, wallet := doJSON(t, app, http.MethodGet,
		fmt.Sprintf("/api/users/%d/wallet", uid), nil, nil)
	assert.Equal(t, float64(200), wallet["balance"], "approval pays out, no refund")
}

func TestAdminTokenGate(t *testing.T) {
	app, _ := newTestApp(testAdminToken)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/admin/stats", nil, nil)
	assert.Equal(t, 401, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/api/admin/stats", nil,
		map[string]string{"X-Admin-Token": "wrong"})
	assert.Equal(t, 401, resp.StatusCode)

	resp, stats := doJSON(t, app, http.MethodGet, "/api/admin/stats", nil, adminHeaders())
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, stats, "total_users")
}

func TestAdminGateUnconfigured(t *testing.T) {
	app, _ := newTestApp("")
	resp, body := doJSON(t, app, http.MethodGet, "/api/admin/stats", nil, adminHeaders())
	assert.Equal(t, 503, resp.StatusCode)
	assert.Equal(t, "admin API is not configured", body["error"])
}

func TestAdminUsersPagination(t *testing.T) {
	app, _ := newTestApp(testAdminToken)
	for i := 0; i < 3; i++ {
		createUser(t, app, fmt.Sprintf("page_user_%d", i))
	}

	resp, body := doJSON(t, app, http.MethodGet, "/api/admin/users?limit=2&offset=0", nil, adminHeaders())
	require.Equal(t, 200, resp.StatusCode)
	users := body["users"].([]interface{})
	assert.Len(t, users, 2)
	assert.GreaterOrEqual(t, body["total"].(float64), float64(5)) // seeded users plus ours
	assert.Equal(t, float64(2), body["limit"])
}

func TestUpdateGameReplacesResource(t *testing.T) {
	app, _ := newTestApp(testAdminToken)

	resp, game := doJSON(t, app, http.MethodPost, "/api/games", fiber.Map{
		"name":        "Putter",
		"image_url":   "/uploads/games/putter.png",
		"description": "first cut",
		"badge":       "new",
	}, nil)
	require.Equal(t, 201, resp.StatusCode)
	id := int(game["id"].(float64))

	// PUT replaces the whole resource: omitted fields are cleared, not kept
	resp, updated := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/games/%d", id),
		fiber.Map{"name": "Putter"}, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Empty(t, updated["image_url"])
	assert.Empty(t, updated["description"])
	assert.Empty(t, updated["badge"])
	assert.Equal(t, "putter", updated["slug"])
}

func TestGameNotFound(t *testing.T) {
	app, _ := newTestApp(testAdminToken)

	resp, _ := doJSON(t, app, http.MethodGet, "/api/games/9999", nil, nil)
	assert.Equal(t, 404, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodDelete, "/api/games/9999", nil, nil)
	assert.Equal(t, 404, resp.StatusCode)
}

func TestTeamMembership(t *testing.T) {
	app, _ := newTestApp(testAdminToken)
	captain := createUser(t, app, "team_captain")
	mate := createUser(t, app, "team_mate")

	resp, team := doJSON(t, app, http.MethodPost, "/api/teams",
		fiber.Map{"name": "HTTP Squad", "captain_id": captain}, nil)
	require.Equal(t, 201, resp.StatusCode)
	teamID := int(team["id"].(float64))

	resp, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/teams/%d/members", teamID),
		fiber.Map{"user_id": mate}, nil)
	require.Equal(t, 201, resp.StatusCode)

	resp, body := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/teams/%d/members", teamID),
		fiber.Map{"user_id": mate}, nil)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "user is already a member", body["error"])

	resp, got := doJSON(t, app, http.MethodGet, fmt.Sprintf("/api/teams/%d", teamID), nil, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, float64(2), got["member_count"], "captain joins on creation")

	resp, updated := doJSON(t, app, http.MethodPut, fmt.Sprintf("/api/teams/%d", teamID),
		fiber.Map{"badge": "pro"}, nil)
	require.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "pro", updated["badge"])
	assert.Equal(t, "HTTP Squad", updated["name"], "untouched fields survive a partial update")
}

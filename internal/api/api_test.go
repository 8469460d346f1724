package api_test

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/liarsdice-go/internal/api"
	"github.com/mcoot/liarsdice-go/internal/api/apierr"
	"github.com/mcoot/liarsdice-go/internal/api/response"
	"github.com/mcoot/liarsdice-go/internal/commitment"
	"github.com/mcoot/liarsdice-go/internal/factory"
	"github.com/mcoot/liarsdice-go/internal/model"
)

const testAdminToken = "let-me-in"

type testServer struct {
	handler http.Handler
	app     *factory.App
}

func newTestServer(t *testing.T, adminToken string) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	// API tests are integration tests - use production factory with real random/clock
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(app.Close)

	router := api.NewRouter(api.RouterConfig{
		Logger:                logger,
		AuthService:           app.AuthService,
		ProfileService:        app.ProfileService,
		MatchmakingController: app.MatchmakingController,
		GameController:        app.GameController,
		LeaderboardService:    app.LeaderboardService,
		Ledger:                app.Ledger,
		HubManager:            app.HubManager,
		AdminToken:            adminToken,
	})

	return &testServer{handler: router, app: app}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	reqBody := bytes.NewBuffer(nil)
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), rr.Body.String())
	return v
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	return decodeBody[apierr.ErrorResponse](t, rr).Error.Code
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodGet, "/api/v1/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestCreateGuestPlayer(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodPost, "/api/v1/players/guest", map[string]string{"display_name": "Alice"}, "")
	assert.Equal(t, http.StatusCreated, rr.Code)

	resp := decodeBody[response.AuthResponse](t, rr)
	assert.Equal(t, "Alice", resp.Player.DisplayName)
	assert.True(t, resp.Player.IsGuest)
	assert.NotEmpty(t, resp.SessionToken)
}

func TestRegisterAndLogin(t *testing.T) {
	ts := newTestServer(t, "")

	registerBody := map[string]string{
		"username":     "alice",
		"password":     "secret123",
		"display_name": "Alice",
	}
	rr := ts.request(http.MethodPost, "/api/v1/players/register", registerBody, "")
	require.Equal(t, http.StatusCreated, rr.Code)
	registered := decodeBody[response.AuthResponse](t, rr)
	assert.False(t, registered.Player.IsGuest)

	rr = ts.request(http.MethodPost, "/api/v1/players/register", registerBody, "")
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/players/login", map[string]string{"username": "alice", "password": "secret123"}, "")
	require.Equal(t, http.StatusOK, rr.Code)
	loggedIn := decodeBody[response.AuthResponse](t, rr)
	assert.Equal(t, registered.Player.ID, loggedIn.Player.ID)

	rr = ts.request(http.MethodPost, "/api/v1/players/login", map[string]string{"username": "alice", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestGetMe(t *testing.T) {
	ts := newTestServer(t, "")
	token, id := createGuestPlayer(t, ts, "Alice")

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	me := decodeBody[response.Player](t, rr)
	assert.Equal(t, id, me.ID)
	assert.Equal(t, "Alice", me.DisplayName)
}

func TestLogoutRevokesToken(t *testing.T) {
	ts := newTestServer(t, "")
	token, _ := createGuestPlayer(t, ts, "Alice")

	rr := ts.request(http.MethodPost, "/api/v1/players/logout", nil, token)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/players/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestTokenInQueryString(t *testing.T) {
	ts := newTestServer(t, "")
	token, _ := createGuestPlayer(t, ts, "Alice")

	rr := ts.request(http.MethodGet, "/api/v1/players/me?token="+token, nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUnauthorizedWithoutToken(t *testing.T) {
	ts := newTestServer(t, "")

	for _, path := range []string{"/api/v1/players/me", "/api/v1/profile", "/api/v1/matchmaking", "/api/v1/balance", "/api/v1/games/ABC123"} {
		rr := ts.request(http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, path)
	}

	rr := ts.request(http.MethodGet, "/api/v1/players/me", nil, "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProfileLifecycle(t *testing.T) {
	ts := newTestServer(t, "")
	token, id := createGuestPlayer(t, ts, "Alice")

	rr := ts.request(http.MethodGet, "/api/v1/profile", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	p := decodeBody[response.Profile](t, rr)
	assert.Equal(t, model.StartingRating, p.Rating)
	assert.Equal(t, "idle", p.Status)

	rr = ts.request(http.MethodPut, "/api/v1/profile", map[string]string{"name": "Captain Alice"}, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Captain Alice", decodeBody[response.Profile](t, rr).Name)

	rr = ts.request(http.MethodGet, "/api/v1/profiles/"+id, nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Captain Alice", decodeBody[response.Profile](t, rr).Name)

	rr = ts.request(http.MethodPut, "/api/v1/profile", map[string]string{"name": ""}, token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidName, errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/profiles/nobody", nil, "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestMatchmaking(t *testing.T) {
	ts := newTestServer(t, "")
	aliceToken, aliceID := createGuestPlayer(t, ts, "Alice")
	bobToken, bobID := createGuestPlayer(t, ts, "Bob")

	rr := ts.request(http.MethodPost, "/api/v1/matchmaking", nil, aliceToken)
	require.Equal(t, http.StatusAccepted, rr.Code)
	searching := decodeBody[response.MatchResponse](t, rr)
	assert.Equal(t, response.MatchSearching, searching.Status)
	assert.Equal(t, 1, searching.QueueSize)

	rr = ts.request(http.MethodPost, "/api/v1/matchmaking", nil, aliceToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeAlreadyQueued, errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/matchmaking", nil, bobToken)
	require.Equal(t, http.StatusOK, rr.Code)
	queue := decodeBody[response.Queue](t, rr)
	assert.Equal(t, 1, queue.Size)
	assert.Equal(t, aliceID, queue.Entries[0].PlayerID)

	rr = ts.request(http.MethodPost, "/api/v1/matchmaking", nil, bobToken)
	require.Equal(t, http.StatusCreated, rr.Code)
	matched := decodeBody[response.MatchResponse](t, rr)
	assert.Equal(t, response.MatchFound, matched.Status)
	require.NotNil(t, matched.Game)
	require.NotNil(t, matched.Opponent)
	assert.Equal(t, aliceID, matched.Opponent.PlayerID)
	assert.Equal(t, "committing", matched.Game.Phase)
	assert.Equal(t, aliceID, matched.Game.Seats[0].PlayerID)
	assert.Equal(t, bobID, matched.Game.Seats[1].PlayerID)

	// Matched players are no longer queued
	rr = ts.request(http.MethodDelete, "/api/v1/matchmaking", nil, aliceToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/profile", nil, aliceToken)
	require.Equal(t, http.StatusOK, rr.Code)
	p := decodeBody[response.Profile](t, rr)
	assert.Equal(t, "playing", p.Status)
	assert.Equal(t, matched.Game.ID, p.CurrentGame)
}

func TestLeaveMatchmaking(t *testing.T) {
	ts := newTestServer(t, "")
	token, _ := createGuestPlayer(t, ts, "Alice")

	rr := ts.request(http.MethodPost, "/api/v1/matchmaking", nil, token)
	require.Equal(t, http.StatusAccepted, rr.Code)

	rr = ts.request(http.MethodDelete, "/api/v1/matchmaking", nil, token)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/matchmaking", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 0, decodeBody[response.Queue](t, rr).Size)
}

func TestServerDealtRound(t *testing.T) {
	ts := newTestServer(t, "")
	aliceToken, aliceID, bobToken, _, gameID := startGame(t, ts)
	base := "/api/v1/games/" + gameID

	rr := ts.request(http.MethodPost, base+"/roll", nil, aliceToken)
	require.Equal(t, http.StatusCreated, rr.Code)
	hand := decodeBody[response.PrivateHand](t, rr)
	assert.Len(t, hand.Dice, model.StartingDice)
	assert.Len(t, hand.Salt, 64)
	assert.Len(t, hand.Commitment, 64)

	// The dealt hand is only visible to its owner
	rr = ts.request(http.MethodGet, base+"/hand", nil, aliceToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, hand.Dice, decodeBody[response.PrivateHand](t, rr).Dice)

	rr = ts.request(http.MethodGet, base+"/hand", nil, bobToken)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	// Bidding waits for every commitment
	rr = ts.request(http.MethodPost, base+"/bid", map[string]int{"quantity": 1, "face": 2}, aliceToken)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = ts.request(http.MethodPost, base+"/roll", nil, bobToken)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodGet, base, nil, bobToken)
	require.Equal(t, http.StatusOK, rr.Code)
	g := decodeBody[response.Game](t, rr)
	assert.Equal(t, "bidding", g.Phase)
	assert.Equal(t, aliceID, g.TurnHolder)
	for _, s := range g.Seats {
		assert.True(t, s.Committed)
		assert.Nil(t, s.Hand, "hands stay hidden until revealed")
	}

	rr = ts.request(http.MethodPost, base+"/bid", map[string]int{"quantity": 1, "face": 2}, bobToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, apierr.CodeNotYourTurn, errorCode(t, rr))

	rr = ts.request(http.MethodPost, base+"/bid", map[string]int{"quantity": 0, "face": 2}, aliceToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// An overbid can never be true
	rr = ts.request(http.MethodPost, base+"/bid", map[string]int{"quantity": g.TotalDice + 1, "face": 6}, aliceToken)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodPost, base+"/liar", nil, aliceToken)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.request(http.MethodPost, base+"/liar", nil, bobToken)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "revealing", decodeBody[response.Game](t, rr).Phase)

	rr = ts.request(http.MethodPost, base+"/reveal", nil, aliceToken)
	require.Equal(t, http.StatusOK, rr.Code)
	first := decodeBody[response.RevealResponse](t, rr)
	assert.True(t, first.Honest)
	assert.Nil(t, first.Outcome)
	assert.Equal(t, hand.Dice, first.Game.Seats[0].Hand)

	rr = ts.request(http.MethodPost, base+"/reveal", nil, bobToken)
	require.Equal(t, http.StatusOK, rr.Code)
	second := decodeBody[response.RevealResponse](t, rr)
	require.NotNil(t, second.Outcome)
	assert.Equal(t, aliceID, second.Outcome.Loser)
	assert.False(t, second.Outcome.BidValid)
	assert.Equal(t, 2, second.Game.Round)
	assert.Equal(t, model.StartingDice-1, second.Game.Seats[0].DiceCount)
}

func TestClientCommitmentRound(t *testing.T) {
	ts := newTestServer(t, "")
	aliceToken, _, bobToken, bobID, gameID := startGame(t, ts)
	base := "/api/v1/games/" + gameID

	aliceHand := model.Hand{2, 2, 3, 4, 5}
	bobHand := model.Hand{2, 6, 6, 1, 1}
	aliceSalt := testSalt(0x11)
	bobSalt := testSalt(0x22)

	rr := ts.request(http.MethodPost, base+"/commit", map[string]string{"hash": "zz"}, aliceToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	commit := func(token string, hand model.Hand, salt [commitment.SaltSize]byte) {
		hash := commitment.Commit(hand.Bytes(), salt)
		rr := ts.request(http.MethodPost, base+"/commit", map[string]string{"hash": hex.EncodeToString(hash[:])}, token)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	}
	commit(aliceToken, aliceHand, aliceSalt)

	rr = ts.request(http.MethodPost, base+"/commit", map[string]string{"hash": hex.EncodeToString(make([]byte, 32))}, aliceToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeAlreadyCommitted, errorCode(t, rr))

	commit(bobToken, bobHand, bobSalt)

	// Three twos plus two wild ones, so three twos holds
	rr = ts.request(http.MethodPost, base+"/bid", map[string]int{"quantity": 3, "face": 2}, aliceToken)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = ts.request(http.MethodPost, base+"/liar", nil, bobToken)
	require.Equal(t, http.StatusOK, rr.Code)

	reveal := func(token string, hand model.Hand, salt [commitment.SaltSize]byte) response.RevealResponse {
		dice := make([]int, len(hand))
		for i, d := range hand {
			dice[i] = int(d)
		}
		body := map[string]any{"dice": dice, "salt": hex.EncodeToString(salt[:])}
		rr := ts.request(http.MethodPost, base+"/reveal", body, token)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		return decodeBody[response.RevealResponse](t, rr)
	}

	assert.True(t, reveal(aliceToken, aliceHand, aliceSalt).Honest)
	res := reveal(bobToken, bobHand, bobSalt)
	assert.True(t, res.Honest)
	require.NotNil(t, res.Outcome)
	assert.True(t, res.Outcome.BidValid)
	assert.Equal(t, bobID, res.Outcome.Loser)
}

func TestDishonestReveal(t *testing.T) {
	ts := newTestServer(t, "")
	aliceToken, _, bobToken, bobID, gameID := startGame(t, ts)
	base := "/api/v1/games/" + gameID

	salt := testSalt(0x33)
	hash := commitment.Commit(model.Hand{1, 1, 1, 1, 1}.Bytes(), salt)
	rr := ts.request(http.MethodPost, base+"/commit", map[string]string{"hash": hex.EncodeToString(hash[:])}, aliceToken)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = ts.request(http.MethodPost, base+"/roll", nil, bobToken)
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = ts.request(http.MethodPost, base+"/bid", map[string]int{"quantity": 1, "face": 6}, aliceToken)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = ts.request(http.MethodPost, base+"/liar", nil, bobToken)
	require.Equal(t, http.StatusOK, rr.Code)

	body := map[string]any{"dice": []int{6, 6, 6, 6, 6}, "salt": hex.EncodeToString(salt[:])}
	rr = ts.request(http.MethodPost, base+"/reveal", body, aliceToken)
	require.Equal(t, http.StatusOK, rr.Code)
	res := decodeBody[response.RevealResponse](t, rr)
	assert.False(t, res.Honest)
	assert.True(t, res.Game.Seats[0].Cheater)
	assert.True(t, res.Game.Seats[0].Eliminated)
	assert.Equal(t, "game_over", res.Game.Phase)
	require.NotNil(t, res.Outcome)
	assert.True(t, res.Outcome.Uncontested)
	assert.Equal(t, bobID, res.Outcome.Winner)

	rr = ts.request(http.MethodPost, base+"/reveal", map[string]any{"dice": []int{1}, "salt": "nope"}, bobToken)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	late := testSalt(0x44)
	rr = ts.request(http.MethodPost, base+"/reveal", map[string]any{"dice": []int{1}, "salt": hex.EncodeToString(late[:])}, bobToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestForfeitEndsGame(t *testing.T) {
	ts := newTestServer(t, "")
	aliceToken, aliceID, bobToken, bobID, gameID := startGame(t, ts)
	base := "/api/v1/games/" + gameID

	rr := ts.request(http.MethodPost, base+"/forfeit", nil, aliceToken)
	require.Equal(t, http.StatusOK, rr.Code)
	g := decodeBody[response.Game](t, rr)
	assert.Equal(t, "game_over", g.Phase)
	assert.Equal(t, bobID, g.Winner)

	rr = ts.request(http.MethodPost, base+"/roll", nil, bobToken)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/leaderboard", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	rows := decodeBody[[]response.Ranked](t, rr)
	require.Len(t, rows, 2)
	assert.Equal(t, bobID, rows[0].Profile.PlayerID)
	assert.Equal(t, uint64(1216), rows[0].Value)
	assert.Equal(t, aliceID, rows[1].Profile.PlayerID)

	rr = ts.request(http.MethodGet, "/api/v1/leaderboard/entries?limit=1", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	entries := decodeBody[[]response.LeaderboardEntry](t, rr)
	require.Len(t, entries, 1)
	assert.Equal(t, bobID, entries[0].PlayerID)
	assert.Equal(t, uint64(1), entries[0].GamesWon)
}

func TestCheckTimeoutBeforeDeadline(t *testing.T) {
	ts := newTestServer(t, "")
	aliceToken, _, _, _, gameID := startGame(t, ts)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/timeout", nil, aliceToken)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeWrongPhase, errorCode(t, rr))
}

func TestGameAccess(t *testing.T) {
	ts := newTestServer(t, "")
	_, _, _, _, gameID := startGame(t, ts)
	outsider, _ := createGuestPlayer(t, ts, "Eve")

	rr := ts.request(http.MethodGet, "/api/v1/games/NOPE99", nil, outsider)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+gameID+"/roll", nil, outsider)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, apierr.CodeNotInGame, errorCode(t, rr))
}

func TestLeaderboardValidation(t *testing.T) {
	ts := newTestServer(t, "")

	rr := ts.request(http.MethodGet, "/api/v1/leaderboard?metric=shoe_size", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeUnknownMetric, errorCode(t, rr))

	rr = ts.request(http.MethodGet, "/api/v1/leaderboard?limit=-1", nil, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = ts.request(http.MethodGet, "/api/v1/leaderboard?metric=win_rate&limit=5", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAdminMint(t *testing.T) {
	ts := newTestServer(t, testAdminToken)
	token, id := createGuestPlayer(t, ts, "Alice")

	mint := func(adminToken string, amount int64) *httptest.ResponseRecorder {
		b, _ := json.Marshal(map[string]any{"player_id": id, "amount": amount})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/mint", bytes.NewReader(b))
		if adminToken != "" {
			req.Header.Set("X-Admin-Token", adminToken)
		}
		rr := httptest.NewRecorder()
		ts.handler.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusForbidden, mint("", 100).Code)
	assert.Equal(t, http.StatusForbidden, mint("guess", 100).Code)
	assert.Equal(t, http.StatusBadRequest, mint(testAdminToken, 0).Code)

	rr := mint(testAdminToken, 100)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(100), decodeBody[response.Balance](t, rr).Balance)

	rr = ts.request(http.MethodGet, "/api/v1/balance", nil, token)
	require.Equal(t, http.StatusOK, rr.Code)
	bal := decodeBody[response.Balance](t, rr)
	assert.Equal(t, id, bal.PlayerID)
	assert.Equal(t, int64(100), bal.Balance)
}

func TestAdminDisabledWithoutToken(t *testing.T) {
	ts := newTestServer(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/mint", bytes.NewReader([]byte(`{"player_id":"p","amount":1}`)))
	req.Header.Set("X-Admin-Token", "")
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t, "")
	ts.request(http.MethodGet, "/api/v1/health", nil, "")

	rr := ts.request(http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "liarsdice_http_requests_total")
	assert.Contains(t, rr.Body.String(), `route="/api/v1/health"`)
}

// Helper functions

func createGuestPlayer(t *testing.T, ts *testServer, displayName string) (token, id string) {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/players/guest", map[string]string{"display_name": displayName}, "")
	require.Equal(t, http.StatusCreated, rr.Code)

	resp := decodeBody[response.AuthResponse](t, rr)
	return resp.SessionToken, resp.Player.ID
}

// startGame matches two fresh guests; Alice holds seat 0
func startGame(t *testing.T, ts *testServer) (aliceToken, aliceID, bobToken, bobID, gameID string) {
	t.Helper()

	aliceToken, aliceID = createGuestPlayer(t, ts, "Alice")
	bobToken, bobID = createGuestPlayer(t, ts, "Bob")

	rr := ts.request(http.MethodPost, "/api/v1/matchmaking", nil, aliceToken)
	require.Equal(t, http.StatusAccepted, rr.Code)
	rr = ts.request(http.MethodPost, "/api/v1/matchmaking", nil, bobToken)
	require.Equal(t, http.StatusCreated, rr.Code)

	matched := decodeBody[response.MatchResponse](t, rr)
	require.NotNil(t, matched.Game)
	return aliceToken, aliceID, bobToken, bobID, matched.Game.ID
}

func testSalt(b byte) [commitment.SaltSize]byte {
	var salt [commitment.SaltSize]byte
	for i := range salt {
		salt[i] = b
	}
	return salt
}

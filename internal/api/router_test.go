package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"codeclub/internal/app/service"
	"codeclub/internal/common/security"
	"codeclub/internal/domain/model"
	"codeclub/internal/domain/repository/memory"
	"codeclub/internal/platform/cache"
	"codeclub/internal/platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	config.Load()
	security.InitJWT()
	os.Exit(m.Run())
}

type testEnv struct {
	router http.Handler
	store  *memory.Store
}

func newTestEnv() *testEnv {
	store := memory.NewStore()
	tokens := cache.NewLocalTokenStore()
	logger := zap.NewNop().Sugar()

	authService := service.NewAuthService(store.Users(), tokens)
	userService := service.NewUserService(store.Users())
	eventService := service.NewEventService(store.Events())
	forumService := service.NewForumService(store.Forum())
	resourceService := service.NewResourceService(store.Resources())
	leaderboardService := service.NewLeaderboardService(store.Contests(), store.Events(), store.Users(), nil, logger)

	router := NewRouter(
		authService, userService, eventService,
		forumService, resourceService, leaderboardService,
		tokens,
	)
	return &testEnv{router: router, store: store}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) signup(t *testing.T, username string) (int64, string) {
	t.Helper()
	rec := e.do(t, http.MethodPost, "/api/register", "", map[string]string{
		"username": username,
		"email":    username + "@club.test",
		"password": "hunter22",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		User  model.User `json:"user"`
		Token string     `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.User.ID, resp.Token
}

// promote flips the stored role and issues a fresh admin token.
func (e *testEnv) promote(t *testing.T, userID int64) string {
	t.Helper()
	user, err := e.store.Users().FindByID(context.Background(), userID)
	require.NoError(t, err)
	user.Role = model.RoleAdmin
	require.NoError(t, e.store.Users().Update(context.Background(), user))
	token, err := security.GenerateToken(userID, model.RoleAdmin)
	require.NoError(t, err)
	return token
}

func TestHealth(t *testing.T) {
	env := newTestEnv()
	rec := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthGates(t *testing.T) {
	env := newTestEnv()
	_, token := env.signup(t, "alice")

	// Profile requires a token.
	rec := env.do(t, http.MethodGet, "/api/user", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/user", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Event creation is admin-only.
	rec = env.do(t, http.MethodPost, "/api/events", token, map[string]any{
		"title": "Meetup", "event_type": "meetup", "date": "2026-09-05T18:00:00Z",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv()
	_, token := env.signup(t, "alice")

	rec := env.do(t, http.MethodPost, "/api/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/user", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEventRegistrationFlow(t *testing.T) {
	env := newTestEnv()
	adminID, _ := env.signup(t, "admin")
	adminToken := env.promote(t, adminID)
	_, memberToken := env.signup(t, "bob")

	rec := env.do(t, http.MethodPost, "/api/events", adminToken, map[string]any{
		"title": "Spring Sprint", "event_type": "contest", "date": "2026-09-05T18:00:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var event model.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &event))

	rec = env.do(t, http.MethodPost, "/api/events/1/register", memberToken, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Second registration is an idempotent failure.
	rec = env.do(t, http.MethodPost, "/api/events/1/register", memberToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.do(t, http.MethodDelete, "/api/events/1/register", memberToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLeaderboardEndpoint(t *testing.T) {
	env := newTestEnv()
	adminID, _ := env.signup(t, "admin")
	adminToken := env.promote(t, adminID)
	bobID, _ := env.signup(t, "bob")

	rec := env.do(t, http.MethodPost, "/api/events", adminToken, map[string]any{
		"title": "Sprint", "event_type": "contest", "date": "2026-09-05T18:00:00Z",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/events/1/results", adminToken, map[string]any{
		"user_id": bobID, "score": 80,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	// Admin adjustment via the leaderboard endpoint.
	rec = env.do(t, http.MethodPost, "/api/leaderboard/2", adminToken, map[string]any{
		"delta": 20, "reason": "organizing bonus",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/leaderboard", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var entries []model.LeaderboardEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, bobID, entries[0].UserID)
	assert.Equal(t, 100, entries[0].Score)
	assert.Equal(t, 1, entries[0].ContestCount)

	// Adjustments are admin-only.
	_, memberToken := env.signup(t, "carol")
	rec = env.do(t, http.MethodPost, "/api/leaderboard/2", memberToken, map[string]any{"delta": 5})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestForumFlow(t *testing.T) {
	env := newTestEnv()
	_, authorToken := env.signup(t, "author")
	_, replierToken := env.signup(t, "replier")

	rec := env.do(t, http.MethodPost, "/api/forum", authorToken, map[string]any{
		"title": "Fast IO in Go", "content": "bufio or bust", "tags": []string{"go"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var post model.ForumPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &post))

	rec = env.do(t, http.MethodPost, "/api/forum/1/replies", replierToken, map[string]any{"content": "use bufio.Scanner"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var reply model.ForumReply
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reply))

	// Only the post author may pick the best answer.
	rec = env.do(t, http.MethodPost, "/api/forum/1/best-answer/1", replierToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/forum/1/best-answer/1", authorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/forum/replies/1/upvote", authorToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(t, http.MethodPost, "/api/forum/replies/1/upvote", authorToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Reading the post bumps views and carries replies.
	rec = env.do(t, http.MethodGet, "/api/forum/1", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var read model.ForumPost
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &read))
	assert.Equal(t, 1, read.Views)
	require.Len(t, read.Replies, 1)
	assert.True(t, read.Replies[0].IsBestAnswer)

	// Malformed id is a 400, not a 404.
	rec = env.do(t, http.MethodGet, "/api/forum/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

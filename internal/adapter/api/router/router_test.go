package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"skillswap/internal/adapter/api"
	"skillswap/internal/adapter/api/handler"
	"skillswap/internal/adapter/api/middleware"
	"skillswap/internal/adapter/repository"
	"skillswap/internal/domain/entity"
	domainrepo "skillswap/internal/domain/repository"
	"skillswap/internal/infrastructure/auth"
	"skillswap/internal/infrastructure/ratelimit"
	"skillswap/internal/infrastructure/seed"
	"skillswap/internal/infrastructure/websocket"
	"skillswap/internal/usecase"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	e    *echo.Echo
	repo domainrepo.Repository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	store := repository.NewMemoryStore()
	repo := repository.NewRecordRepository(store)
	_, err := seed.NewSeeder(repo).WithCost(bcrypt.MinCost).Run(ctx, "")
	require.NoError(t, err)

	tokens := auth.NewTokenManager("test-secret", time.Hour)
	limiter := ratelimit.NewRateLimiter()
	gate := usecase.NewWriteGate()

	notifications := usecase.NewNotificationUseCase(ctx, repo, usecase.SynchronizerOptions{Gate: gate})
	t.Cleanup(notifications.Shutdown)

	handler.Setup(
		usecase.NewAuthUseCase(repo, tokens, gate).WithHashCost(bcrypt.MinCost),
		usecase.NewUserUseCase(repo, gate),
		usecase.NewSwapUseCase(repo, gate),
		usecase.NewFeedbackUseCase(repo, gate),
		usecase.NewChatUseCase(repo, gate, limiter),
		notifications,
		usecase.NewAdminUseCase(repo, gate, nil),
	)
	handler.SetupHealthHandler(store, "memory")
	handler.SetupDevTokenHandler(tokens, repo)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	e := echo.New()
	e.Validator = api.NewValidator()
	Setup(e, middleware.NewAuthMiddleware(tokens, repo), middleware.NewAdminMiddleware(repo), limiter,
		handler.NewWebSocketHandler(ctx, wsManager, notifications))
	SetupDevRouter(e, "development")

	return &testServer{e: e, repo: repo}
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func (s *testServer) login(t *testing.T, email string) string {
	t.Helper()
	rec, env := s.do(t, http.MethodPost, "/v1/auth/login", "", `{"email":"`+email+`","password":"password"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var result struct {
		Token string      `json:"token"`
		User  entity.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	require.NotEmpty(t, result.Token)
	assert.Empty(t, result.User.Password)
	return result.Token
}

func TestAuthRoutes(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodPost, "/v1/auth/login", "", `{"email":"user@demo.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "Invalid email or password", env.Error.Message)

	rec, env = s.do(t, http.MethodPost, "/v1/auth/signup", "", `{"name":"Ana","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	rec, env = s.do(t, http.MethodPost, "/v1/auth/signup", "", `{"name":"Ana","email":"ana@example.com","password":"`+strings.Repeat("a", 73)+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)

	rec, _ = s.do(t, http.MethodPost, "/v1/auth/signup", "", `{"name":"Ana","email":"ana@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	token := s.login(t, "ana@example.com")
	rec, env = s.do(t, http.MethodGet, "/v1/auth/me", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var me entity.User
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "Ana", me.Name)

	rec, _ = s.do(t, http.MethodGet, "/v1/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/v1/auth/me", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/v1/auth/logout", token, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSwapFlow(t *testing.T) {
	s := newTestServer(t)
	john := s.login(t, "user@demo.com")
	sarah := s.login(t, "sarah@demo.com")

	rec, env := s.do(t, http.MethodPost, "/v1/swaps", john, `{"toUserId":"3","fromSkill":"React","toSkill":"Photoshop","message":"Trade?"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var swap entity.SwapRequest
	require.NoError(t, json.Unmarshal(env.Data, &swap))
	assert.Equal(t, entity.SwapPending, swap.Status)
	base := "/v1/swaps/" + swap.ID

	rec, _ = s.do(t, http.MethodPost, base+"/accept", john, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = s.do(t, http.MethodPost, base+"/complete", sarah, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_TRANSITION", env.Error.Code)

	rec, _ = s.do(t, http.MethodGet, base+"/messages", john, "")
	assert.Equal(t, http.StatusForbidden, rec.Code, "chat opens on acceptance")

	rec, _ = s.do(t, http.MethodPost, base+"/accept", sarah, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(t, http.MethodGet, base+"/messages", john, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var transcript []entity.ChatMessage
	require.NoError(t, json.Unmarshal(env.Data, &transcript))
	require.Len(t, transcript, 1)
	assert.Equal(t, entity.MessageTypeBot, transcript[0].Type)

	rec, _ = s.do(t, http.MethodPost, base+"/messages", john, `{"content":"Saturday works"}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = s.do(t, http.MethodDelete, base, john, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code, "accepted swaps cannot be deleted")

	rec, _ = s.do(t, http.MethodPost, base+"/complete", john, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodPost, base+"/feedback", sarah, `{"rating":5,"comment":"Patient and clear"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = s.do(t, http.MethodPost, base+"/feedback", sarah, `{"rating":4}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = s.do(t, http.MethodPost, base+"/feedback", john, `{"rating":9}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/v1/users/2/feedback", sarah, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var received []entity.Feedback
	require.NoError(t, json.Unmarshal(env.Data, &received))
	require.Len(t, received, 1)
	assert.Equal(t, 5, received[0].Rating)

	rec, env = s.do(t, http.MethodGet, "/v1/swaps?direction=sent&status=completed", john, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var sent []entity.SwapRequest
	require.NoError(t, json.Unmarshal(env.Data, &sent))
	assert.Len(t, sent, 1)
}

func TestUserRoutes(t *testing.T) {
	s := newTestServer(t)
	john := s.login(t, "user@demo.com")

	rec, env := s.do(t, http.MethodGet, "/v1/users?skill=photo&limit=5", john, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Items    []entity.User `json:"items"`
		Total    int64         `json:"total"`
		PageSize int           `json:"pageSize"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Sarah Johnson", page.Items[0].Name)
	assert.Equal(t, 5, page.PageSize)

	rec, env = s.do(t, http.MethodPatch, "/v1/users/me", john, `{"bio":"Now teaching Go","isPublic":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var updated entity.User
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Now teaching Go", updated.Bio)
	assert.False(t, updated.IsPublic)

	rec, _ = s.do(t, http.MethodPost, "/v1/users/me/skills/offered", john, `{"label":"Go"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	rec, env = s.do(t, http.MethodDelete, "/v1/users/me/skills/offered/Go", john, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.NotContains(t, updated.SkillsOffered, "Go")

	sarah := s.login(t, "sarah@demo.com")
	rec, _ = s.do(t, http.MethodGet, "/v1/users/2", sarah, "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "private profile")
}

func TestNotificationRoutes(t *testing.T) {
	s := newTestServer(t)
	john := s.login(t, "user@demo.com")

	require.NoError(t, s.repo.SetNotifications(context.Background(), "2", []entity.Notification{
		{ID: "platform_p1", Type: entity.NotificationPlatformMessage, Title: "📢 Platform Announcement"},
		{ID: "platform_p2", Type: entity.NotificationPlatformMessage, Title: "📢 Platform Announcement"},
	}))

	rec, env := s.do(t, http.MethodGet, "/v1/notifications", john, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var feed usecase.NotificationFeed
	require.NoError(t, json.Unmarshal(env.Data, &feed))
	assert.Len(t, feed.Notifications, 2)
	assert.Equal(t, 2, feed.UnreadCount)

	rec, env = s.do(t, http.MethodPost, "/v1/notifications/platform_p1/read", john, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"unreadCount":1}`, string(env.Data))

	rec, env = s.do(t, http.MethodDelete, "/v1/notifications/platform_p2", john, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"unreadCount":0}`, string(env.Data))

	rec, env = s.do(t, http.MethodPost, "/v1/notifications/read-all", john, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"unreadCount":0}`, string(env.Data))
}

func TestAdminRoutes(t *testing.T) {
	s := newTestServer(t)
	john := s.login(t, "user@demo.com")
	admin := s.login(t, "admin@demo.com")

	rec, _ := s.do(t, http.MethodGet, "/v1/admin/stats", john, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env := s.do(t, http.MethodGet, "/v1/admin/stats", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var stats usecase.PlatformStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 3, stats.TotalUsers)

	mike := s.login(t, "mike@demo.com")
	rec, _ = s.do(t, http.MethodPost, "/v1/admin/users/4/ban", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = s.do(t, http.MethodGet, "/v1/swaps", mike, "")
	assert.Equal(t, http.StatusForbidden, rec.Code, "tokens issued before the ban stop working")
	rec, _ = s.do(t, http.MethodPost, "/v1/auth/login", "", `{"email":"mike@demo.com","password":"password"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code, "banned users cannot log in")

	rec, _ = s.do(t, http.MethodPost, "/v1/admin/users/1/ban", admin, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = s.do(t, http.MethodPost, "/v1/admin/broadcasts", admin, `{"content":"Welcome to SkillSwap"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var msg entity.PlatformMessage
	require.NoError(t, json.Unmarshal(env.Data, &msg))
	assert.Equal(t, []string{"2", "3"}, msg.TargetUsers)

	rec, _ = s.do(t, http.MethodDelete, "/v1/admin/users/3/skills/offered/Photoshop", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/v1/admin/reports/users", admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get(echo.HeaderContentType))
	assert.Contains(t, rec.Header().Get(echo.HeaderContentDisposition), "users.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "id,name,email"))
}

func TestHealthRoutes(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = s.do(t, http.MethodGet, "/health/store", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDevTokenRoutes(t *testing.T) {
	s := newTestServer(t)

	rec, env := s.do(t, http.MethodGet, "/_dev/token/admin", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var result usecase.AuthResult
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "1", result.User.ID)

	rec, _ = s.do(t, http.MethodGet, "/v1/admin/stats", result.Token, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.do(t, http.MethodGet, "/_dev/token/user", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, "2", result.User.ID)

	e := echo.New()
	SetupDevRouter(e, "production")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/_dev/token/user", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

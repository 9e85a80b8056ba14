package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/sharehub-app/sharehub-backend/internal/admin"
	"github.com/sharehub-app/sharehub-backend/internal/auth"
	item "github.com/sharehub-app/sharehub-backend/internal/items"
	pkgAuth "github.com/sharehub-app/sharehub-backend/pkg/auth"
	"github.com/sharehub-app/sharehub-backend/pkg/auth/session"
	"github.com/sharehub-app/sharehub-backend/pkg/config"
	"github.com/sharehub-app/sharehub-backend/pkg/enums"
	"github.com/sharehub-app/sharehub-backend/pkg/geo"
	"github.com/sharehub-app/sharehub-backend/pkg/logger"
	"github.com/sharehub-app/sharehub-backend/pkg/pagination"
	"github.com/sharehub-app/sharehub-backend/pkg/search"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

type stubRedisStore struct {
	records map[string]string
}

func (s *stubRedisStore) Get(_ context.Context, key string) (string, error) {
	return s.records[key], nil
}

func (s *stubRedisStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if s.records == nil {
		s.records = map[string]string{}
	}
	if _, ok := s.records[key]; ok {
		return false, nil
	}
	s.records[key] = value.(string)
	return true, nil
}

func (s *stubRedisStore) IdempotencyKey(scope, id string) string { return "idem:" + scope + ":" + id }

func (s *stubRedisStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.records, key)
	}
	return nil
}

func (s *stubRedisStore) FixedWindowAllow(context.Context, string, int64, time.Duration) (bool, int64, error) {
	return true, 1, nil
}

func (s *stubRedisStore) Ping(context.Context) error { return nil }

type stubSessionChecker struct{ ok bool }

func (s stubSessionChecker) HasSession(context.Context, string) (bool, error) { return s.ok, nil }

type stubItemService struct {
	listCalls int
}

func (s *stubItemService) CreateItem(context.Context, uuid.UUID, item.CreateItemInput) (*item.ItemDTO, error) {
	return &item.ItemDTO{}, nil
}

func (s *stubItemService) UpdateItem(context.Context, uuid.UUID, uuid.UUID, item.UpdateItemInput) (*item.ItemDTO, error) {
	return &item.ItemDTO{}, nil
}

func (s *stubItemService) DeleteItem(context.Context, uuid.UUID, bool, uuid.UUID) error {
	return nil
}

func (s *stubItemService) GetItem(context.Context, uuid.UUID, *geo.Point) (*item.ItemDTO, error) {
	return &item.ItemDTO{}, nil
}

func (s *stubItemService) ListItems(context.Context, item.ListItemsInput) (*item.ItemListResult, error) {
	s.listCalls++
	return &item.ItemListResult{Items: []item.ItemDTO{}, Meta: pagination.Meta{Page: 1, Limit: 20}}, nil
}

func (s *stubItemService) ListOwnItems(context.Context, uuid.UUID, search.Filters) (*item.ItemListResult, error) {
	return &item.ItemListResult{Items: []item.ItemDTO{}}, nil
}

func (s *stubItemService) SetStatus(context.Context, uuid.UUID, uuid.UUID, enums.ItemStatus) (*item.ItemDTO, error) {
	return &item.ItemDTO{}, nil
}

func (s *stubItemService) RecordView(context.Context, uuid.UUID) error { return nil }

type stubAuthService struct {
	registered int
}

func (s *stubAuthService) Register(context.Context, auth.RegisterRequest) (*auth.AuthResponse, error) {
	s.registered++
	return &auth.AuthResponse{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (s *stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.AuthResponse, error) {
	return &auth.AuthResponse{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (s *stubAuthService) Refresh(context.Context, auth.RefreshRequest) (*auth.AuthResponse, error) {
	return &auth.AuthResponse{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (s *stubAuthService) Logout(context.Context, string) error { return nil }

type stubAdminService struct{}

func (stubAdminService) Dashboard(context.Context) (*admin.DashboardStats, error) {
	return &admin.DashboardStats{TotalUsers: 1}, nil
}

func (stubAdminService) ListUsers(context.Context, pagination.Params) (*admin.UsersPage, error) {
	return &admin.UsersPage{}, nil
}

func (stubAdminService) SetUserActive(context.Context, uuid.UUID, bool) error { return nil }

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "8080"},
		JWT: config.JWTConfig{Secret: "secret", Issuer: "sharehub", ExpirationMinutes: 60},
	}
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "router-test", Level: zerolog.ErrorLevel, Output: io.Discard})
}

func mintToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	require.NoError(t, err)
	return token
}

func testRouter(t *testing.T, mutate func(*Params)) http.Handler {
	t.Helper()
	params := Params{
		Config:         testConfig(),
		Logger:         testLogger(),
		DB:             stubPinger{},
		Redis:          &stubRedisStore{},
		SessionManager: stubSessionChecker{ok: true},
		ItemsService:   &stubItemService{},
		AuthService:    &stubAuthService{},
		AdminService:   stubAdminService{},
	}
	if mutate != nil {
		mutate(&params)
	}
	return NewRouter(params)
}

func TestHealthLive(t *testing.T) {
	router := testRouter(t, nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, "test", resp.Header().Get("X-ShareHub-Env"))
}

func TestHealthReadyReportsDependencyFailure(t *testing.T) {
	router := testRouter(t, func(p *Params) {
		p.DB = stubPinger{err: context.DeadlineExceeded}
	})

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
}

func TestItemsListIsPublic(t *testing.T) {
	items := &stubItemService{}
	router := testRouter(t, func(p *Params) { p.ItemsService = items })

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/items?category=books", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, 1, items.listCalls)
}

func TestItemsSearchRequiresTerm(t *testing.T) {
	items := &stubItemService{}
	router := testRouter(t, func(p *Params) { p.ItemsService = items })

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/items/search", nil))
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/items/search?search=coat", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, 1, items.listCalls)
}

func TestItemsNearbyRequiresCoordinates(t *testing.T) {
	items := &stubItemService{}
	router := testRouter(t, func(p *Params) { p.ItemsService = items })

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/items/nearby?radius=5", nil))
	require.Equal(t, http.StatusBadRequest, resp.Code)

	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/items/nearby?latitude=31.52&longitude=74.35", nil))
	require.Equal(t, http.StatusOK, resp.Code)
	require.Equal(t, 1, items.listCalls)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	router := testRouter(t, nil)

	for _, path := range []string{
		"/api/v1/users/me",
		"/api/v1/favorites",
		"/api/v1/notifications",
	} {
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusUnauthorized, resp.Code, path)
	}
}

func TestAdminRoutesRequireAdminRole(t *testing.T) {
	cfg := testConfig()
	router := testRouter(t, func(p *Params) { p.Config = cfg })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleMember))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusForbidden, resp.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestNGORegistrationRequiresNGORole(t *testing.T) {
	cfg := testConfig()
	router := testRouter(t, func(p *Params) { p.Config = cfg })

	req := httptest.NewRequest(http.MethodPost, "/api/v1/ngos", bytes.NewBufferString(`{}`))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleMember))
	req.Header.Set("Idempotency-Key", "k1")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusForbidden, resp.Code)
}

func TestRegisterRequiresIdempotencyKey(t *testing.T) {
	router := testRouter(t, nil)

	body := `{"first_name":"Ayesha","last_name":"Khan","email":"ayesha@example.com","password":"sturdy-pass-1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString(body))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestRegisterReplaysStoredResponse(t *testing.T) {
	authSvc := &stubAuthService{}
	router := testRouter(t, func(p *Params) { p.AuthService = authSvc })

	body := `{"first_name":"Ayesha","last_name":"Khan","email":"ayesha@example.com","password":"sturdy-pass-1"}`
	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register", bytes.NewBufferString(body))
		req.Header.Set("Idempotency-Key", "reg-1")
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp
	}

	first := send()
	require.Equal(t, http.StatusCreated, first.Code)
	second := send()
	require.Equal(t, http.StatusCreated, second.Code)
	require.Equal(t, 1, authSvc.registered)
	require.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestRevokedSessionIsRejected(t *testing.T) {
	cfg := testConfig()
	router := testRouter(t, func(p *Params) {
		p.Config = cfg
		p.SessionManager = stubSessionChecker{ok: false}
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleMember))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := testRouter(t, nil)

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, resp.Code)
}

func TestAdminDashboardPayload(t *testing.T) {
	cfg := testConfig()
	router := testRouter(t, func(p *Params) { p.Config = cfg })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, cfg, enums.UserRoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Data admin.DashboardStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	require.Equal(t, int64(1), envelope.Data.TotalUsers)
}

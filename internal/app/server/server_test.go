package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/propertyease/propertyease/internal/app/config"
	appservices "github.com/propertyease/propertyease/internal/app/services"
	"github.com/propertyease/propertyease/internal/domain/services"
	"github.com/propertyease/propertyease/internal/infrastructure/cache"
	"github.com/propertyease/propertyease/internal/infrastructure/database/models"
	"github.com/propertyease/propertyease/internal/infrastructure/repositories/postgresql"
	"github.com/propertyease/propertyease/internal/infrastructure/repositories/postgresql/testutil"
	"github.com/propertyease/propertyease/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenTable accepts tokens that are user IDs of known users.
type tokenTable map[string]*models.User

func (t tokenTable) ValidateToken(ctx context.Context, accessToken string) (*services.AuthUser, error) {
	user, ok := t[accessToken]
	if !ok {
		return nil, errors.New("invalid JWT")
	}
	return &services.AuthUser{ID: user.ID, Email: user.Email}, nil
}

type testServer struct {
	server *Server
	tokens tokenTable
	db     *testutil.TestDB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	t.Cleanup(func() { db.Cleanup(t) })

	cfg := &config.Config{
		Environment: "test",
		Server:      config.ServerConfig{Port: "0", AllowedOrigins: []string{"http://localhost:3000"}},
		Analytics: config.AnalyticsConfig{
			DataSource:   config.DataSourceGORM,
			DefaultRange: "30d",
			FetchTimeout: 5 * time.Second,
		},
	}

	log := logger.NewForTesting()
	repos := postgresql.NewRepositories(db.DB)
	tokens := tokenTable{}
	sm := &appservices.ServiceManager{
		Config:       cfg,
		DB:           db.DB,
		Repositories: repos,
		CacheService: cache.NewMemoryCache(),
		AuthService:  tokens,
		AnalyticsService: services.NewAnalyticsService(repos.AnalyticsRepo, nil, log, services.AnalyticsServiceConfig{
			FetchTimeout: cfg.Analytics.FetchTimeout,
		}, nil),
	}

	return &testServer{server: NewWithServices(cfg, log, sm), tokens: tokens, db: db}
}

func (ts *testServer) get(path, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.server.Router().ServeHTTP(w, req)
	return w
}

func TestHealthAndStatus(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get("/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)

	w = ts.get("/api/v1/status", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":"healthy"`)
	assert.Contains(t, w.Body.String(), `"cache":"healthy"`)
}

func TestAnalyticsEndpoints(t *testing.T) {
	ts := newTestServer(t)
	now := time.Now().UTC()

	admin := ts.db.CreateTestUser(t, models.UserRoleAdmin, now.AddDate(-1, 0, 0))
	owner := ts.db.CreateTestUser(t, models.UserRoleOwner, now.AddDate(0, 0, -3))
	otherOwner := ts.db.CreateTestUser(t, models.UserRoleOwner, now.AddDate(0, 0, -3))
	tenant := ts.db.CreateTestUser(t, models.UserRoleTenant, now.AddDate(0, 0, -2))

	property := ts.db.CreateTestProperty(t, owner, "Makati", now.AddDate(0, 0, -5))
	tenancy := ts.db.CreateTestTenancy(t, property, tenant, now.AddDate(0, 0, -5))
	ts.db.CreateTestPayment(t, tenancy, 15000, models.PaymentPaid, now.AddDate(0, 0, -1))

	otherProperty := ts.db.CreateTestProperty(t, otherOwner, "Cebu", now.AddDate(0, 0, -5))
	otherTenancy := ts.db.CreateTestTenancy(t, otherProperty, tenant, now.AddDate(0, 0, -5))
	ts.db.CreateTestPayment(t, otherTenancy, 5000, models.PaymentPaid, now.AddDate(0, 0, -1))

	ts.tokens["admin-token"] = admin
	ts.tokens["owner-token"] = owner
	ts.tokens["tenant-token"] = tenant

	t.Run("admin sees the whole system", func(t *testing.T) {
		w := ts.get("/api/v1/admin/analytics?range=7d", "admin-token")
		require.Equal(t, http.StatusOK, w.Code)

		var report services.Report
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, "7d", string(report.Period.Range))
		assert.Equal(t, 20000.0, report.Revenue.Total)
		assert.Equal(t, 4, report.Users.Total)
		assert.Equal(t, 2, report.Properties.Total)
	})

	t.Run("owner sees only their portfolio", func(t *testing.T) {
		w := ts.get("/api/v1/owner/analytics", "owner-token")
		require.Equal(t, http.StatusOK, w.Code)

		var report services.Report
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
		assert.Equal(t, "30d", string(report.Period.Range))
		assert.Equal(t, 15000.0, report.Revenue.Total)
		assert.Equal(t, 1, report.Properties.Total)
		require.Len(t, report.Geographic.TopCities, 1)
		assert.Equal(t, "Makati", report.Geographic.TopCities[0].City)
	})

	t.Run("tenant is forbidden", func(t *testing.T) {
		w := ts.get("/api/v1/owner/analytics", "tenant-token")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		w := ts.get("/api/v1/admin/analytics", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAnalyticsEndpoint_DatabaseDown(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.db.CreateTestUser(t, models.UserRoleAdmin, time.Now())
	ts.tokens["admin-token"] = admin

	// Resolve the user first, then break the analytics reads
	require.NoError(t, ts.db.Migrator().DropTable(&models.Payment{}))

	w := ts.get("/api/v1/admin/analytics", "admin-token")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"analytics_unavailable"`)
	assert.Contains(t, w.Body.String(), `"retryable":true`)
}

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/minhnd/parklot/internal/domain"
	"github.com/minhnd/parklot/internal/pkg/config"
	"github.com/minhnd/parklot/internal/pkg/jwt"
	"github.com/minhnd/parklot/internal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const routerTestSecret = "test-secret-key"

func newTestRouter(ownerService *MockOwnerService) http.Handler {
	log := logger.NewNoop()
	tokenService := jwt.NewTokenService(routerTestSecret, 15*time.Minute, 24*time.Hour)
	cfg := &config.Config{
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		},
	}

	rt := NewRouter(
		NewGateHandler(new(MockScanService), new(MockStatusService), new(MockSuffixSearchService), log),
		NewAuthHandler(new(MockAuthService), log),
		NewAdminHandler(ownerService, new(MockStatsService), log),
		NewInventoryHandler(new(MockInventoryService), log),
		tokenService,
		cfg,
		log,
	)
	return rt.Setup()
}

func adminRequest(t *testing.T, role domain.StaffRole) *http.Request {
	t.Helper()
	token, err := CreateTestJWTToken(CreateTestStaff("staff", role), routerTestSecret)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestRouter_AdminRoutesRequireAdminRole(t *testing.T) {
	t.Run("no token", func(t *testing.T) {
		ownerService := new(MockOwnerService)
		handler := newTestRouter(ownerService)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		ownerService.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("operator is rejected", func(t *testing.T) {
		ownerService := new(MockOwnerService)
		handler := newTestRouter(ownerService)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, adminRequest(t, domain.RoleOperator))

		assert.Equal(t, http.StatusForbidden, rec.Code)
		ownerService.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("admin gets through", func(t *testing.T) {
		ownerService := new(MockOwnerService)
		ownerService.On("List", mock.Anything, 0, 0).Return([]*domain.Owner{}, nil)
		handler := newTestRouter(ownerService)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, adminRequest(t, domain.RoleAdmin))

		assert.Equal(t, http.StatusOK, rec.Code)
		ownerService.AssertExpectations(t)
	})
}

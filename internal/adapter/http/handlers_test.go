package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/tokelab/vaultyield-backend/internal/domain"
	"github.com/tokelab/vaultyield-backend/internal/usecase/reporting"
)

const testToken = "test-token"

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

type MockInvestmentRepository struct {
	mock.Mock
}

func (m *MockInvestmentRepository) ListPaginated(ctx context.Context, offset, limit int, filters domain.ListFilters) ([]*domain.InvestmentWithRelations, error) {
	args := m.Called(ctx, offset, limit, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.InvestmentWithRelations), args.Error(1)
}

func (m *MockInvestmentRepository) Count(ctx context.Context, filters domain.ListFilters) (int, error) {
	args := m.Called(ctx, filters)
	return args.Int(0), args.Error(1)
}

func (m *MockInvestmentRepository) ListByUserPaginated(ctx context.Context, userID uuid.UUID, offset, limit int, filters domain.ListFilters) ([]*domain.InvestmentWithRelations, error) {
	args := m.Called(ctx, userID, offset, limit, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.InvestmentWithRelations), args.Error(1)
}

func (m *MockInvestmentRepository) CountByUser(ctx context.Context, userID uuid.UUID, filters domain.ListFilters) (int, error) {
	args := m.Called(ctx, userID, filters)
	return args.Int(0), args.Error(1)
}

type MockMonthlyPerformanceRepository struct {
	mock.Mock
}

func (m *MockMonthlyPerformanceRepository) GetByMonth(ctx context.Context, month string) (*domain.MonthlyPerformance, error) {
	args := m.Called(ctx, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyPerformance), args.Error(1)
}

func setupRouter(invRepo *MockInvestmentRepository, perfRepo *MockMonthlyPerformanceRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	service := reporting.NewService(invRepo, perfRepo)
	service.Now = func() time.Time { return testNow }
	return NewRouter(NewHandler(service), testToken)
}

func doRequest(router *gin.Engine, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func authHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer " + testToken}
}

func userHeaders(userID uuid.UUID) map[string]string {
	h := authHeaders()
	h["X-User-Id"] = userID.String()
	return h
}

func activeInvestment() *domain.InvestmentWithRelations {
	amount, _ := decimal.NewFromString("10000")
	pending, _ := decimal.NewFromString("100")
	return &domain.InvestmentWithRelations{
		Investment: domain.Investment{
			ID:        uuid.New(),
			UserID:    uuid.New(),
			Amount:    amount,
			Currency:  "USDT",
			Status:    domain.InvestmentStatusActive,
			StartDate: testNow.AddDate(0, 0, -110),
			EndDate:   testNow.AddDate(0, 0, 255),
		},
		UserEmail: "alice@example.com",
		ModelConfig: domain.ModelConfig{
			ID:           uuid.New(),
			Type:         domain.ModelTypeVariable,
			DurationDays: 365,
		},
		Yields: []domain.YieldRecord{
			{Amount: pending, Status: domain.YieldStatusPending},
		},
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := setupRouter(new(MockInvestmentRepository), new(MockMonthlyPerformanceRepository))

	w := doRequest(router, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	router := setupRouter(new(MockInvestmentRepository), new(MockMonthlyPerformanceRepository))

	w := doRequest(router, "/api/admin/investments", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "missing authorization header")
}

func TestAuthRejectsWrongToken(t *testing.T) {
	router := setupRouter(new(MockInvestmentRepository), new(MockMonthlyPerformanceRepository))

	w := doRequest(router, "/api/admin/investments", map[string]string{"Authorization": "Bearer wrong"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid token")
}

func TestAuthRejectsMalformedUserID(t *testing.T) {
	router := setupRouter(new(MockInvestmentRepository), new(MockMonthlyPerformanceRepository))

	h := authHeaders()
	h["X-User-Id"] = "not-a-uuid"
	w := doRequest(router, "/api/investments", h)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid user id")
}

func TestUserRoutesRequireUserIdentity(t *testing.T) {
	router := setupRouter(new(MockInvestmentRepository), new(MockMonthlyPerformanceRepository))

	for _, path := range []string{"/api/investments", "/api/investments/summary"} {
		w := doRequest(router, path, authHeaders())
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Contains(t, w.Body.String(), "missing user identity", path)
	}
}

func TestListAllInvestments_InvalidQueryParams(t *testing.T) {
	router := setupRouter(new(MockInvestmentRepository), new(MockMonthlyPerformanceRepository))

	cases := []struct {
		name  string
		query string
	}{
		{"zero page", "?page=0"},
		{"non-numeric page", "?page=abc"},
		{"zero limit", "?limit=0"},
		{"limit over cap", "?limit=101"},
		{"unknown status", "?status=PAUSED"},
		{"unknown model type", "?modelType=HYBRID"},
		{"bad dateFrom", "?dateFrom=15-06-2025"},
		{"bad dateTo", "?dateTo=June"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(router, "/api/admin/investments"+tc.query, authHeaders())
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestListAllInvestments_Success(t *testing.T) {
	mockInvRepo := new(MockInvestmentRepository)
	mockPerfRepo := new(MockMonthlyPerformanceRepository)
	router := setupRouter(mockInvRepo, mockPerfRepo)

	active := domain.InvestmentStatusActive
	filters := domain.ListFilters{Status: &active}
	mockInvRepo.On("ListPaginated", mock.Anything, 0, 10, filters).
		Return([]*domain.InvestmentWithRelations{activeInvestment()}, nil)
	mockInvRepo.On("Count", mock.Anything, filters).Return(1, nil)
	mockPerfRepo.On("GetByMonth", mock.Anything, "2025-05").Return(nil, nil)

	w := doRequest(router, "/api/admin/investments?status=ACTIVE&limit=10", authHeaders())

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []struct {
			UserEmail    string `json:"userEmail"`
			AccruedYield string `json:"accruedYield"`
		} `json:"data"`
		Pagination struct {
			Total int `json:"total"`
			Pages int `json:"pages"`
		} `json:"pagination"`
	}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Data, 1)
	assert.Equal(t, "alice@example.com", body.Data[0].UserEmail)
	assert.Equal(t, "100.000000", body.Data[0].AccruedYield)
	assert.Equal(t, 1, body.Pagination.Total)
	assert.Equal(t, 1, body.Pagination.Pages)

	mockInvRepo.AssertExpectations(t)
}

func TestListUserInvestments_Success(t *testing.T) {
	mockInvRepo := new(MockInvestmentRepository)
	mockPerfRepo := new(MockMonthlyPerformanceRepository)
	router := setupRouter(mockInvRepo, mockPerfRepo)

	userID := uuid.New()
	mockInvRepo.On("ListByUserPaginated", mock.Anything, userID, 0, 20, domain.ListFilters{}).
		Return([]*domain.InvestmentWithRelations{activeInvestment()}, nil)
	mockInvRepo.On("CountByUser", mock.Anything, userID, domain.ListFilters{}).Return(1, nil)
	mockPerfRepo.On("GetByMonth", mock.Anything, "2025-05").Return(nil, nil)

	w := doRequest(router, "/api/investments", userHeaders(userID))

	assert.Equal(t, http.StatusOK, w.Code)
	// unlinked pending yield on a VARIABLE investment is not claimable yet
	assert.Contains(t, w.Body.String(), `"claimStatus":"Pending"`)

	mockInvRepo.AssertExpectations(t)
}

func TestGetClaimableSummary_Success(t *testing.T) {
	mockInvRepo := new(MockInvestmentRepository)
	mockPerfRepo := new(MockMonthlyPerformanceRepository)
	router := setupRouter(mockInvRepo, mockPerfRepo)

	userID := uuid.New()
	active := domain.InvestmentStatusActive
	mockInvRepo.On("ListByUserPaginated", mock.Anything, userID, 0, 500, domain.ListFilters{Status: &active}).
		Return([]*domain.InvestmentWithRelations{}, nil)

	w := doRequest(router, "/api/investments/summary", userHeaders(userID))

	assert.Equal(t, http.StatusOK, w.Code)

	var summary reporting.ClaimableSummary
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, "0.000000", summary.TotalAvailableToClaim)
	assert.Equal(t, "USDT", summary.Currency)
}

func TestListAllInvestments_ServiceErrorReturns500(t *testing.T) {
	mockInvRepo := new(MockInvestmentRepository)
	mockPerfRepo := new(MockMonthlyPerformanceRepository)
	router := setupRouter(mockInvRepo, mockPerfRepo)

	mockInvRepo.On("ListPaginated", mock.Anything, 0, 20, domain.ListFilters{}).
		Return(nil, errors.New("connection refused"))
	mockInvRepo.On("Count", mock.Anything, domain.ListFilters{}).Return(0, nil).Maybe()
	mockPerfRepo.On("GetByMonth", mock.Anything, "2025-05").Return(nil, nil).Maybe()

	w := doRequest(router, "/api/admin/investments", authHeaders())

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal server error")
}

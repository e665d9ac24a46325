package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"petbroker/config"
	"petbroker/models"
	"petbroker/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) VerifyUser(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

type mockBalanceService struct {
	mock.Mock
}

func (m *mockBalanceService) GetBalances(ctx context.Context, username string) (map[string]int64, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

func (m *mockBalanceService) GetAvailablePets(ctx context.Context, username string) ([]*models.AvailablePet, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AvailablePet), args.Error(1)
}

type mockTradeService struct {
	mock.Mock
}

func (m *mockTradeService) SubmitDeposit(ctx context.Context, username, bot string, petCounts models.PetCounts, petDetails []models.PetDetail) (*models.TradeRequest, error) {
	args := m.Called(ctx, username, bot, petCounts, petDetails)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TradeRequest), args.Error(1)
}

func (m *mockTradeService) SubmitWithdraw(ctx context.Context, username, bot string, petCounts models.PetCounts, petDetails []models.PetDetail) (*models.TradeRequest, error) {
	args := m.Called(ctx, username, bot, petCounts, petDetails)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TradeRequest), args.Error(1)
}

func (m *mockTradeService) ListPending(ctx context.Context, bot string) ([]*models.TradeRequest, error) {
	args := m.Called(ctx, bot)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TradeRequest), args.Error(1)
}

func (m *mockTradeService) CompleteDeposit(ctx context.Context, username, bot string, success bool, petCounts models.PetCounts, petDetails []models.PetDetail) error {
	args := m.Called(ctx, username, bot, success, petCounts, petDetails)
	return args.Error(0)
}

func (m *mockTradeService) CompleteWithdraw(ctx context.Context, username, bot string, success bool, petCounts models.PetCounts, petDetails []models.PetDetail) error {
	args := m.Called(ctx, username, bot, success, petCounts, petDetails)
	return args.Error(0)
}

type mockHistoryService struct {
	mock.Mock
}

func (m *mockHistoryService) GetHistory(ctx context.Context, username *string, limit int) ([]*models.TradeHistoryRecord, error) {
	args := m.Called(ctx, username, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.TradeHistoryRecord), args.Error(1)
}

type testServices struct {
	users    *mockUserService
	balances *mockBalanceService
	trades   *mockTradeService
	history  *mockHistoryService
}

func setupTestRouter() (http.Handler, *testServices) {
	services := &testServices{
		users:    new(mockUserService),
		balances: new(mockBalanceService),
		trades:   new(mockTradeService),
		history:  new(mockHistoryService),
	}

	cfg := &config.Config{
		ListenAddr:  ":0",
		FrontendURL: "http://localhost:8080",
		DefaultBot:  "DefaultBot",
		Environment: "test",
	}

	handler := NewHandler(services.users, services.balances, services.trades, services.history, cfg.DefaultBot)
	return newRouter(cfg, handler), services
}

func performRequest(router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestHandler_Health(t *testing.T) {
	router, _ := setupTestRouter()

	recorder := performRequest(router, http.MethodGet, "/api/health", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestHandler_VerifyUser(t *testing.T) {
	router, services := setupTestRouter()

	services.users.On("VerifyUser", mock.Anything, "alice").Return(true, nil)

	recorder := performRequest(router, http.MethodGet, "/api/verify-user?username=alice", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, true, body["verified"])
}

func TestHandler_VerifyUser_MissingUsername(t *testing.T) {
	router, services := setupTestRouter()

	recorder := performRequest(router, http.MethodGet, "/api/verify-user", nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	services.users.AssertNotCalled(t, "VerifyUser")
}

func TestHandler_GetBalance(t *testing.T) {
	router, services := setupTestRouter()

	services.balances.On("GetBalances", mock.Anything, "alice").Return(map[string]int64{"Dragon": 3, "Griffin": 0}, nil)

	recorder := performRequest(router, http.MethodGet, "/api/user-balance/alice", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, "alice", body["username"])
	balances := body["petBalances"].(map[string]interface{})
	assert.Equal(t, float64(3), balances["Dragon"])
	assert.Equal(t, float64(0), balances["Griffin"])
}

func TestHandler_GetAvailablePets(t *testing.T) {
	router, services := setupTestRouter()

	available := []*models.AvailablePet{{Name: "Dragon", Count: 3}}
	services.balances.On("GetAvailablePets", mock.Anything, "alice").Return(available, nil)

	recorder := performRequest(router, http.MethodGet, "/api/user-available-pets/alice", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	pets := body["availablePets"].([]interface{})
	require.Len(t, pets, 1)
	pet := pets[0].(map[string]interface{})
	assert.Equal(t, "Dragon", pet["name"])
	assert.Equal(t, float64(3), pet["count"])
}

func TestHandler_Deposit(t *testing.T) {
	router, services := setupTestRouter()

	requestID := uuid.New()
	request := &models.TradeRequest{ID: requestID, Username: "alice", Type: models.TradeTypeDeposit, Bot: "B1", Status: models.TradeStatusPending}
	services.trades.On("SubmitDeposit", mock.Anything, "alice", "B1", mock.Anything, mock.Anything).Return(request, nil)

	recorder := performRequest(router, http.MethodPost, "/api/deposit", map[string]interface{}{
		"username":   "alice",
		"bot":        "B1",
		"petDetails": []map[string]interface{}{{"name": "Dragon"}},
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, requestID.String(), body["requestId"])
}

func TestHandler_Deposit_DefaultBot(t *testing.T) {
	router, services := setupTestRouter()

	request := &models.TradeRequest{ID: uuid.New(), Username: "alice", Type: models.TradeTypeDeposit, Bot: "DefaultBot", Status: models.TradeStatusPending}
	services.trades.On("SubmitDeposit", mock.Anything, "alice", "DefaultBot", mock.Anything, mock.Anything).Return(request, nil)

	recorder := performRequest(router, http.MethodPost, "/api/deposit", map[string]interface{}{
		"username": "alice",
	})

	// An omitted bot falls back to the configured default
	assert.Equal(t, http.StatusOK, recorder.Code)
	services.trades.AssertExpectations(t)
}

func TestHandler_Deposit_MissingUsername(t *testing.T) {
	router, services := setupTestRouter()

	recorder := performRequest(router, http.MethodPost, "/api/deposit", map[string]interface{}{
		"bot": "B1",
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	services.trades.AssertNotCalled(t, "SubmitDeposit")
}

func TestHandler_Deposit_DuplicatePending(t *testing.T) {
	router, services := setupTestRouter()

	services.trades.On("SubmitDeposit", mock.Anything, "alice", "B1", mock.Anything, mock.Anything).Return(nil, service.ErrPendingRequestExists)

	recorder := performRequest(router, http.MethodPost, "/api/deposit", map[string]interface{}{
		"username": "alice",
		"bot":      "B1",
	})

	assert.Equal(t, http.StatusConflict, recorder.Code)
}

func TestHandler_Withdraw_InsufficientBalance(t *testing.T) {
	router, services := setupTestRouter()

	insufficientErr := &service.InsufficientBalanceError{
		PetName:   "Dragon",
		Available: []*models.AvailablePet{{Name: "Unicorn", Count: 2}},
	}
	services.trades.On("SubmitWithdraw", mock.Anything, "alice", "B1", mock.Anything, mock.Anything).Return(nil, insufficientErr)

	recorder := performRequest(router, http.MethodPost, "/api/withdraw", map[string]interface{}{
		"username":   "alice",
		"bot":        "B1",
		"petDetails": []map[string]interface{}{{"name": "Dragon"}},
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Contains(t, body["error"], "Dragon")
	pets := body["availablePets"].([]interface{})
	require.Len(t, pets, 1)
	assert.Equal(t, "Unicorn", pets[0].(map[string]interface{})["name"])
}

func TestHandler_GetPendingRequests(t *testing.T) {
	router, services := setupTestRouter()

	pending := []*models.TradeRequest{
		{ID: uuid.New(), Username: "alice", Type: models.TradeTypeDeposit, Bot: "B1", Status: models.TradeStatusPending},
	}
	services.trades.On("ListPending", mock.Anything, "B1").Return(pending, nil)

	recorder := performRequest(router, http.MethodGet, "/api/get-pending-requests?bot=B1", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	requests := body["requests"].([]interface{})
	require.Len(t, requests, 1)
	first := requests[0].(map[string]interface{})
	assert.Equal(t, "alice", first["username"])
	assert.NotEmpty(t, first["requestId"])
}

func TestHandler_CompleteDeposit(t *testing.T) {
	router, services := setupTestRouter()

	services.trades.On("CompleteDeposit", mock.Anything, "alice", "B1", true, mock.Anything, mock.Anything).Return(nil)

	recorder := performRequest(router, http.MethodPost, "/api/complete-deposit", map[string]interface{}{
		"username":   "alice",
		"bot":        "B1",
		"success":    true,
		"petDetails": []map[string]interface{}{{"name": "Dragon"}},
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, true, body["success"])
}

func TestHandler_CompleteDeposit_NoPendingRequest(t *testing.T) {
	router, services := setupTestRouter()

	services.trades.On("CompleteDeposit", mock.Anything, "alice", "B1", true, mock.Anything, mock.Anything).Return(service.ErrNoPendingRequest)

	recorder := performRequest(router, http.MethodPost, "/api/complete-deposit", map[string]interface{}{
		"username": "alice",
		"bot":      "B1",
		"success":  true,
	})

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestHandler_CompleteWithdraw_Failure(t *testing.T) {
	router, services := setupTestRouter()

	services.trades.On("CompleteWithdraw", mock.Anything, "alice", "B1", false, mock.Anything, mock.Anything).Return(nil)

	recorder := performRequest(router, http.MethodPost, "/api/complete-withdraw", map[string]interface{}{
		"username": "alice",
		"bot":      "B1",
		"success":  false,
	})

	assert.Equal(t, http.StatusOK, recorder.Code)
	services.trades.AssertExpectations(t)
}

func TestHandler_GetTradeHistory(t *testing.T) {
	router, services := setupTestRouter()

	records := []*models.TradeHistoryRecord{
		{ID: 1, Username: "alice", Type: models.TradeTypeDeposit, Bot: "B1", Status: models.TradeStatusCompleted},
	}
	services.history.On("GetHistory", mock.Anything, (*string)(nil), service.DefaultHistoryLimit).Return(records, nil)

	recorder := performRequest(router, http.MethodGet, "/api/trade-history", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	body := decodeBody(t, recorder)
	history := body["history"].([]interface{})
	require.Len(t, history, 1)
}

func TestHandler_GetTradeHistory_WithFilters(t *testing.T) {
	router, services := setupTestRouter()

	username := "alice"
	services.history.On("GetHistory", mock.Anything, &username, 5).Return([]*models.TradeHistoryRecord{}, nil)

	recorder := performRequest(router, http.MethodGet, "/api/trade-history?username=alice&limit=5", nil)

	assert.Equal(t, http.StatusOK, recorder.Code)
	services.history.AssertExpectations(t)
}

func TestHandler_GetTradeHistory_InvalidLimit(t *testing.T) {
	router, services := setupTestRouter()

	recorder := performRequest(router, http.MethodGet, "/api/trade-history?limit=abc", nil)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	services.history.AssertNotCalled(t, "GetHistory")
}

func TestHandler_ServerError(t *testing.T) {
	router, services := setupTestRouter()

	services.users.On("VerifyUser", mock.Anything, "alice").Return(false, assert.AnError)

	recorder := performRequest(router, http.MethodGet, "/api/verify-user?username=alice", nil)

	// Storage faults are not leaked to clients
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	body := decodeBody(t, recorder)
	assert.Equal(t, "Server error", body["error"])
}

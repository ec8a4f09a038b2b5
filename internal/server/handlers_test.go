package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zenithfin/zenith/internal/app"
	"github.com/zenithfin/zenith/internal/common"
	"github.com/zenithfin/zenith/internal/interfaces"
	"github.com/zenithfin/zenith/internal/models"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	config := common.NewDefaultConfig()
	config.Storage.Path = t.TempDir()
	config.Clients.UseSimulated = true

	a, err := app.NewAppWithDeps(config, common.NewSilentLogger())
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })

	return NewServer(a)
}

func doJSON(t *testing.T, handler http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthAndVersion(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = doJSON(t, s.Handler(), http.MethodGet, "/api/version", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.NotEmpty(t, body["version"])
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.Handler(), http.MethodDelete, "/api/sync", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "POST", rec.Header().Get("Allow"))
}

func TestBrokerListDefaults(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/brokers", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	brokers := decodeBody[[]brokerView](t, rec)
	require.Len(t, brokers, 3)
	for _, b := range brokers {
		assert.False(t, b.IsConnected)
	}
	// secrets never leave the server
	assert.NotContains(t, rec.Body.String(), "clientSecret")
}

func TestBrokerConnectAndSync(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/brokers/upstox/connect", connectRequest{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/api/brokers", nil)
	brokers := decodeBody[[]brokerView](t, rec)
	for _, b := range brokers {
		if b.ID == models.BrokerUpstox {
			assert.True(t, b.IsConnected)
		}
	}

	rec = doJSON(t, h, http.MethodPost, "/api/sync", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[syncResponse](t, rec)
	assert.Equal(t, "Successfully synced 3 holdings", resp.Message)
	assert.Equal(t, 3, resp.Report.TotalSynced)

	rec = doJSON(t, h, http.MethodGet, "/api/holdings", nil)
	holdings := decodeBody[[]models.Holding](t, rec)
	assert.Len(t, holdings, 3)
}

func TestSyncWithoutConnectedBrokers(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/sync", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "no_brokers_connected", resp.Code)
	assert.Contains(t, resp.Error, "connect to at least one broker")
}

func TestBrokerConnectValidation(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/brokers/zerodha/connect", connectRequest{ClientID: "a", ClientSecret: "b"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/brokers/upstox/connect", connectRequest{ClientSecret: "b"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "invalid_credentials", resp.Code)
}

func TestBrokerDisconnect(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/brokers/fyers/connect", connectRequest{ClientID: "a", ClientSecret: "b"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/brokers/fyers/disconnect", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/brokers", nil)
	brokers := decodeBody[[]brokerView](t, rec)
	for _, b := range brokers {
		assert.False(t, b.IsConnected)
	}
}

func TestManualHoldingLifecycle(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/holdings", models.Holding{
		Name: "Gold Bond", Quantity: 5, AvgPrice: 6000, CurrentPrice: 7000,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	added := decodeBody[models.Holding](t, rec)
	require.NotEmpty(t, added.ID)

	rec = doJSON(t, h, http.MethodDelete, "/api/holdings/"+added.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, h, http.MethodDelete, "/api/holdings/"+added.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPortfolioSummaryAndChart(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/holdings", models.Holding{
		Name: "NIFTYBEES", Type: models.InstrumentETF, Quantity: 50, AvgPrice: 220, CurrentPrice: 225.5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/portfolio/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decodeBody[interfaces.PortfolioSummary](t, rec)
	assert.Equal(t, 1, summary.Holdings)
	assert.InDelta(t, 11275, summary.CurrentValue, 0.01)
	assert.Contains(t, summary.ByBroker, "manual")

	rec = doJSON(t, h, http.MethodGet, "/api/portfolio/allocation.png", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, rec.Body.Bytes()[:4])
}

func TestAllocationChartEmptyPortfolio(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.Handler(), http.MethodGet, "/api/portfolio/allocation.png", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestTransactionsAndMonthlySummary(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/transactions", models.Transaction{
		Type: models.TransactionIncome, Category: "Salary", Amount: 90000, Date: "2026-08-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodPost, "/api/transactions", models.Transaction{
		Type: models.TransactionExpense, Category: "Rent", Amount: 30000, Date: "2026-08-03",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/reports/summary?month=2026-08", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decodeBody[interfaces.MonthlySummary](t, rec)
	assert.Equal(t, 90000.0, summary.Income)
	assert.Equal(t, 30000.0, summary.Expenses)
	assert.Equal(t, 60000.0, summary.Net)

	rec = doJSON(t, h, http.MethodGet, "/api/reports/summary?month=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBudgetUpdateAndDelete(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/budgets", models.Budget{Category: "Food", Amount: 8000})
	require.Equal(t, http.StatusCreated, rec.Code)
	budget := decodeBody[models.Budget](t, rec)

	rec = doJSON(t, h, http.MethodPut, "/api/budgets/"+budget.ID, models.Budget{Category: "Food", Amount: 9000})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/budgets", nil)
	budgets := decodeBody[[]models.Budget](t, rec)
	require.Len(t, budgets, 1)
	assert.Equal(t, 9000.0, budgets[0].Amount)

	rec = doJSON(t, h, http.MethodDelete, "/api/budgets/"+budget.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestExportCSV(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	rec := doJSON(t, h, http.MethodPost, "/api/transactions", models.Transaction{
		Type: models.TransactionExpense, Category: "Travel", Amount: 1200, Date: "2026-08-10",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/export/transactions.csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "transactions.csv")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,type,category,amount,date,description,recurring", lines[0])
	assert.Contains(t, lines[1], "Travel")

	rec = doJSON(t, h, http.MethodGet, "/api/export/holdings.csv", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "avg_price")
}

func TestPINGate(t *testing.T) {
	s := newTestServer(t)
	h := s.Handler()

	// no PIN yet: login succeeds but reports pinSet=false
	rec := doJSON(t, h, http.MethodPost, "/api/auth/login", loginRequest{PIN: "anything"})
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[map[string]bool](t, rec)
	assert.False(t, resp["pinSet"])

	rec = doJSON(t, h, http.MethodPost, "/api/auth/pin", pinRequest{PIN: "123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "too short")

	rec = doJSON(t, h, http.MethodPost, "/api/auth/pin", pinRequest{PIN: "4321"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/login", loginRequest{PIN: "4321"})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/login", loginRequest{PIN: "9999"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// changing requires the current PIN
	rec = doJSON(t, h, http.MethodPost, "/api/auth/pin", pinRequest{PIN: "5678"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/pin", pinRequest{PIN: "5678", CurrentPIN: "4321"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAssistantUnconfigured(t *testing.T) {
	s := newTestServer(t)

	rec := doJSON(t, s.Handler(), http.MethodPost, "/api/assistant/chat", chatRequest{Message: "hi"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	rec = doJSON(t, s.Handler(), http.MethodGet, "/api/assistant/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/holdings", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorrelationIDPropagation(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Correlation-ID"))
}

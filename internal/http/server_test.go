package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"financehub/internal/core"
	"financehub/internal/services"
	"financehub/internal/storage"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	txService := services.NewTransactionService(repo, nil)
	s := NewServer("127.0.0.1:0", Deps{
		Transactions: txService,
		Analytics:    services.NewAnalyticsService(repo),
		Recurring:    services.NewRecurringProcessor(repo, txService),
		Quotes:       services.NewQuoteService(repo),
		Envelopes:    services.NewEnvelopeService(repo, txService),
		Access:       core.NewResolver(),
	})
	t.Cleanup(func() {
		s.cacheManager.Stop()
		s.rateLimiter.stop()
		repo.Close()
	})
	return s
}

func doRequest(t *testing.T, s *Server, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

var premiumHeaders = map[string]string{
	"X-User-Email":   "user@example.com",
	"X-User-Premium": "true",
}

func createTransaction(t *testing.T, s *Server, body string) map[string]any {
	t.Helper()
	rec := doRequest(t, s, http.MethodPost, "/api/transactions", body, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction: status %d, body %s", rec.Code, rec.Body.String())
	}
	return decodeBody(t, rec)
}

func TestTransactionEndpoints(t *testing.T) {
	s := newTestServer(t)

	created := createTransaction(t, s,
		`{"type":"expense","amount":"50.00","category":"Groceries","date":"2024-01-15","description":"weekly shop"}`)
	id, _ := created["id"].(string)
	if id == "" {
		t.Fatalf("created transaction has no id: %v", created)
	}
	if created["amount"] != "50.00" || created["amount_cents"] != float64(5000) {
		t.Fatalf("amount mismatch: %v", created)
	}

	rec := doRequest(t, s, http.MethodGet, "/api/transactions/"+id, "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get: status %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/transactions", "", nil)
	body := decodeBody(t, rec)
	if list, ok := body["transactions"].([]any); !ok || len(list) != 1 {
		t.Fatalf("expected 1 transaction, got %v", body)
	}

	rec = doRequest(t, s, http.MethodDelete, "/api/transactions/"+id, "", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete: status %d", rec.Code)
	}
	rec = doRequest(t, s, http.MethodGet, "/api/transactions/"+id, "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("deleted transaction should 404, got %d", rec.Code)
	}
}

func TestCreateTransaction_Validation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name string
		body string
	}{
		{"bad amount", `{"type":"expense","amount":"-5","category":"X","date":"2024-01-15"}`},
		{"bad date", `{"type":"expense","amount":"5.00","category":"X","date":"15/01/2024"}`},
		{"bad type", `{"type":"transfer","amount":"5.00","category":"X","date":"2024-01-15"}`},
		{"empty category", `{"type":"expense","amount":"5.00","category":"  ","date":"2024-01-15"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, s, http.MethodPost, "/api/transactions", tt.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d (%s)", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestSummaryReflectsMutations(t *testing.T) {
	s := newTestServer(t)

	createTransaction(t, s, `{"type":"income","amount":"100.00","category":"Salary","date":"2024-01-01"}`)
	rec := doRequest(t, s, http.MethodGet, "/api/summary", "", nil)
	body := decodeBody(t, rec)
	if body["balance"] != "100.00" {
		t.Fatalf("balance after income: %v", body)
	}

	// The cached summary must not survive a new transaction.
	createTransaction(t, s, `{"type":"expense","amount":"30.00","category":"Groceries","date":"2024-01-02"}`)
	createTransaction(t, s, `{"type":"investment","amount":"20.00","category":"ETF","date":"2024-01-03"}`)

	rec = doRequest(t, s, http.MethodGet, "/api/summary", "", nil)
	body = decodeBody(t, rec)
	if body["balance"] != "50.00" {
		t.Fatalf("balance should be income - expenses - investments, got %v", body)
	}
}

func TestTrendsEndpoint(t *testing.T) {
	s := newTestServer(t)
	createTransaction(t, s, `{"type":"expense","amount":"50.00","category":"Groceries","date":"2024-01-15"}`)
	createTransaction(t, s, `{"type":"expense","amount":"30.00","category":"Groceries","date":"2024-02-10"}`)
	createTransaction(t, s, `{"type":"expense","amount":"99.00","category":"Transport","date":"2024-01-20"}`)

	rec := doRequest(t, s, http.MethodGet,
		"/api/trends?granularity=month&direction=asc&category=Groceries&match=exact", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("trends: status %d (%s)", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	buckets := body["buckets"].([]any)
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %v", body)
	}
	first := buckets[0].(map[string]any)
	if first["period_key"] != "2024-01" || first["label"] != "Jan 2024" {
		t.Fatalf("unexpected first bucket: %v", first)
	}

	// Direction is mandatory.
	rec = doRequest(t, s, http.MethodGet, "/api/trends?granularity=month", "", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing direction should 400, got %d", rec.Code)
	}
}

func TestCategorySearch_ShortTerm(t *testing.T) {
	s := newTestServer(t)
	createTransaction(t, s, `{"type":"expense","amount":"50.00","category":"Groceries","date":"2024-01-15"}`)

	rec := doRequest(t, s, http.MethodGet, "/api/categories/search?term=g", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("search: status %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if buckets := body["buckets"].([]any); len(buckets) != 0 {
		t.Fatalf("one-character term should match nothing, got %v", buckets)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/categories/search?term=gro", "", nil)
	body = decodeBody(t, rec)
	if buckets := body["buckets"].([]any); len(buckets) != 1 {
		t.Fatalf("substring search should find Groceries, got %v", body)
	}
}

func TestAccessEndpoint(t *testing.T) {
	s := newTestServer(t)

	// Anonymous caller is a guest with locked premium features.
	rec := doRequest(t, s, http.MethodGet, "/api/access", "", nil)
	body := decodeBody(t, rec)
	if body["tier"] != "guest" || body["has_premium_access"] != false {
		t.Fatalf("anonymous access state: %v", body)
	}
	if locked := body["locked_features"].([]any); len(locked) == 0 {
		t.Fatal("guest should have locked features")
	}

	rec = doRequest(t, s, http.MethodGet, "/api/access", "", map[string]string{
		"X-User-Email": "Admin@FinanceHub.com",
	})
	body = decodeBody(t, rec)
	if body["tier"] != "admin" || body["has_premium_access"] != true {
		t.Fatalf("admin access state: %v", body)
	}
}

func TestRecurringEndpointsGated(t *testing.T) {
	s := newTestServer(t)
	ruleBody := `{"type":"expense","amount":"12.99","category":"Streaming","frequency":"monthly","start_date":"2024-01-01"}`

	rec := doRequest(t, s, http.MethodPost, "/api/recurring", ruleBody, map[string]string{
		"X-User-Email": "free@example.com",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("free tier should be denied, got %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodPost, "/api/recurring", ruleBody, premiumHeaders)
	if rec.Code != http.StatusCreated {
		t.Fatalf("premium create rule: status %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, s, http.MethodGet, "/api/recurring", "", premiumHeaders)
	body := decodeBody(t, rec)
	if rules := body["rules"].([]any); len(rules) != 1 {
		t.Fatalf("expected 1 rule, got %v", body)
	}
}

func TestQuoteEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/quote", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("quote: status %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["text"] == "" || body["author"] == "" {
		t.Fatalf("empty quote: %v", body)
	}

	// Refresh requires premium.
	rec = doRequest(t, s, http.MethodPost, "/api/quote/refresh", "", map[string]string{
		"X-User-Email": "free@example.com",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("free refresh should 403, got %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodPost, "/api/quote/refresh", "", premiumHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("premium refresh: status %d (%s)", rec.Code, rec.Body.String())
	}

	// Once per day.
	rec = doRequest(t, s, http.MethodPost, "/api/quote/refresh", "", premiumHeaders)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("second refresh should 403, got %d", rec.Code)
	}
}

func TestCurrencyConvert(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/currency/convert?amount=100&from=USD&to=EUR", "", nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("guest conversion should 403, got %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/currency/convert?amount=100&from=USD&to=EUR", "", premiumHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("convert: status %d (%s)", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["amount"] != "92.00" || body["estimated"] != true {
		t.Fatalf("100 USD should be 92.00 EUR estimated, got %v", body)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/currency/convert?amount=100&from=USD&to=XXX", "", premiumHeaders)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown currency should 400, got %d", rec.Code)
	}
}

func TestEnvelopeEndpoints(t *testing.T) {
	s := newTestServer(t)
	envelopeBody := `{"name":"Vacation","target_amount":"1000.00"}`

	rec := doRequest(t, s, http.MethodPost, "/api/envelopes", envelopeBody, map[string]string{
		"X-User-Email": "free@example.com",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("free tier should be denied, got %d", rec.Code)
	}

	rec = doRequest(t, s, http.MethodPost, "/api/envelopes", envelopeBody, premiumHeaders)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create envelope: status %d (%s)", rec.Code, rec.Body.String())
	}
	created := decodeBody(t, rec)
	id, _ := created["id"].(string)
	if id == "" || created["current_amount"] != "0.00" {
		t.Fatalf("created envelope: %v", created)
	}

	rec = doRequest(t, s, http.MethodPost, "/api/envelopes/"+id+"/allocate", `{"amount":"250.00"}`, premiumHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("allocate: status %d (%s)", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["new_amount"] != "250.00" {
		t.Fatalf("allocation result: %v", body)
	}

	// The allocation shows up in the main budget as a transfer expense.
	rec = doRequest(t, s, http.MethodGet, "/api/transactions", "", nil)
	body = decodeBody(t, rec)
	if list := body["transactions"].([]any); len(list) != 1 {
		t.Fatalf("expected 1 mirrored transaction, got %v", body)
	}

	rec = doRequest(t, s, http.MethodPost, "/api/envelopes/"+id+"/transactions",
		`{"type":"expense","amount":"100.00","category":"Flights","date":"2024-06-10"}`, premiumHeaders)
	if rec.Code != http.StatusCreated {
		t.Fatalf("envelope spend: status %d (%s)", rec.Code, rec.Body.String())
	}

	rec = doRequest(t, s, http.MethodGet, "/api/envelopes", "", premiumHeaders)
	body = decodeBody(t, rec)
	envelopes := body["envelopes"].([]any)
	if len(envelopes) != 1 {
		t.Fatalf("expected 1 envelope, got %v", body)
	}
	first := envelopes[0].(map[string]any)
	if first["current_amount"] != "150.00" || first["progress"] != float64(15) {
		t.Fatalf("envelope after spend: %v", first)
	}

	rec = doRequest(t, s, http.MethodGet, "/api/envelopes/"+id+"/transactions", "", premiumHeaders)
	body = decodeBody(t, rec)
	if list := body["transactions"].([]any); len(list) != 1 {
		t.Fatalf("expected 1 movement, got %v", body)
	}

	rec = doRequest(t, s, http.MethodDelete, "/api/envelopes/"+id, "", premiumHeaders)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete envelope: status %d", rec.Code)
	}
	rec = doRequest(t, s, http.MethodDelete, "/api/envelopes/"+id, "", premiumHeaders)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("deleted envelope should 404, got %d", rec.Code)
	}
}

func TestPortfolioEndpoint(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/api/portfolio", "", map[string]string{
		"X-User-Email": "free@example.com",
	})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("free tier should be denied, got %d", rec.Code)
	}

	createTransaction(t, s,
		`{"type":"investment","amount":"300.00","category":"Stocks","date":"2024-01-15","asset":"AAPL","quantity":2}`)

	rec = doRequest(t, s, http.MethodGet, "/api/portfolio", "", premiumHeaders)
	if rec.Code != http.StatusOK {
		t.Fatalf("portfolio: status %d (%s)", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	holdings := body["holdings"].([]any)
	if len(holdings) != 1 {
		t.Fatalf("expected 1 holding, got %v", body)
	}
	holding := holdings[0].(map[string]any)
	if holding["asset"] != "AAPL" || holding["quantity"] != float64(2) {
		t.Fatalf("holding: %v", holding)
	}
	// 2 shares valued at the static 185.50 price.
	if holding["current_value"] != "371.00" || holding["gain_loss"] != "71.00" {
		t.Fatalf("valuation: %v", holding)
	}
	if body["total_invested"] != "300.00" || body["current_value"] != "371.00" {
		t.Fatalf("totals: %v", body)
	}
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := doRequest(t, s, http.MethodGet, "/healthz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthz: status %d", rec.Code)
	}
	rec = doRequest(t, s, http.MethodGet, "/readyz", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("readyz: status %d", rec.Code)
	}
}

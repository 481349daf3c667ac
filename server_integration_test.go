package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func setupTestServer(t *testing.T) *gin.Engine {
	// integration tests are opt-in. Set DB_DSN_TEST=1 and DB_DSN to run them.
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	gin.SetMode(gin.TestMode)
	initDB()
	seedDB()
	r := gin.Default()
	setupRoutes(r)
	return r
}

func TestFullFlow(t *testing.T) {
	r := setupTestServer(t)

	// 1. Register user
	regBody, _ := json.Marshal(map[string]string{"username": "user1", "password": "pass123"})
	resp := performRequest(r, http.MethodPost, "/register", bytes.NewBuffer(regBody), "")
	if resp.Code != 200 && resp.Code != 409 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 2. Login
	loginBody, _ := json.Marshal(map[string]string{"username": "user1", "password": "pass123"})
	resp = performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(loginBody), "")
	if resp.Code != 200 {
		t.Fatalf("login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)
	if token == "" {
		t.Fatalf("empty token in login response: %+v", loginResp)
	}

	// 3. Create payment method
	pmBody, _ := json.Marshal(map[string]any{"name": "Dompet", "balance": 500000})
	resp = performRequest(r, http.MethodPost, "/payment-methods", bytes.NewBuffer(pmBody), token)
	if resp.Code != 200 {
		t.Fatalf("create payment method failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var pmResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &pmResp)
	pmID, _ := pmResp["id"].(float64)
	if pmID == 0 {
		t.Fatalf("missing payment method id in response: %+v", pmResp)
	}

	// 4. Record income and an expense against the method
	today := time.Now().Format("2006-01-02")
	incBody, _ := json.Marshal(map[string]any{
		"date": today, "type": "income", "category": "Pemasukan",
		"subcategory": "Gaji bulanan", "amount": 2000000, "payment_method_id": pmID,
	})
	resp = performRequest(r, http.MethodPost, "/transactions", bytes.NewBuffer(incBody), token)
	if resp.Code != 200 {
		t.Fatalf("create income failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	expBody, _ := json.Marshal(map[string]any{
		"date": today, "type": "expense", "category": "Kebutuhan",
		"subcategory": "Belanja Mingguan", "description": "mingguan", "amount": 150000, "payment_method_id": pmID,
	})
	resp = performRequest(r, http.MethodPost, "/transactions", bytes.NewBuffer(expBody), token)
	if resp.Code != 200 {
		t.Fatalf("create expense failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 5. List transactions
	resp = performRequest(r, http.MethodGet, "/transactions", nil, token)
	if resp.Code != 200 {
		t.Fatalf("list transactions failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 6. Monthly report
	month := time.Now().Format("2006-01")
	resp = performRequest(r, http.MethodGet, "/reports/monthly?month="+month, nil, token)
	if resp.Code != 200 {
		t.Fatalf("monthly report failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var monthly map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &monthly)
	if monthly["total_income"] == nil {
		t.Fatalf("monthly report missing totals: %s", resp.Body.String())
	}

	// 7. Upsert a budget, then realization report
	budBody, _ := json.Marshal(map[string]any{"category": "Kebutuhan", "subcategory": "Belanja Mingguan", "monthly_budget": 200000})
	resp = performRequest(r, http.MethodPut, "/budgets", bytes.NewBuffer(budBody), token)
	if resp.Code != 200 {
		t.Fatalf("upsert budget failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, "/reports/realization?month="+month, nil, token)
	if resp.Code != 200 {
		t.Fatalf("realization report failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 8. Daily report
	resp = performRequest(r, http.MethodGet, "/reports/daily?filter=7days", nil, token)
	if resp.Code != 200 {
		t.Fatalf("daily report failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 9. Categories with taxonomy
	resp = performRequest(r, http.MethodGet, "/categories", nil, token)
	if resp.Code != 200 {
		t.Fatalf("list categories failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 10. Month note round trip
	noteBody, _ := json.Marshal(map[string]string{"month": month, "note": "bulan hemat"})
	resp = performRequest(r, http.MethodPut, "/notes", bytes.NewBuffer(noteBody), token)
	if resp.Code != 200 {
		t.Fatalf("upsert note failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	resp = performRequest(r, http.MethodGet, "/notes?month="+month, nil, token)
	if resp.Code != 200 {
		t.Fatalf("get note failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// 11. Unauthorized access to protected endpoint should be 401
	unauth := performRequest(r, http.MethodGet, "/transactions", nil, "")
	if unauth.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for unauthorized list transactions got %d", unauth.Code)
	}
}

func TestTransferFlow(t *testing.T) {
	r := setupTestServer(t)

	regBody, _ := json.Marshal(map[string]string{"username": "user2", "password": "pass123"})
	resp := performRequest(r, http.MethodPost, "/register", bytes.NewBuffer(regBody), "")
	if resp.Code != 200 && resp.Code != 409 {
		t.Fatalf("register failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	loginBody, _ := json.Marshal(map[string]string{"username": "user2", "password": "pass123"})
	resp = performRequest(r, http.MethodPost, "/login", bytes.NewBuffer(loginBody), "")
	if resp.Code != 200 {
		t.Fatalf("login failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var loginResp map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &loginResp)
	token, _ := loginResp["token"].(string)

	makeMethod := func(name string, balance int) float64 {
		body, _ := json.Marshal(map[string]any{"name": name, "balance": balance})
		resp := performRequest(r, http.MethodPost, "/payment-methods", bytes.NewBuffer(body), token)
		if resp.Code != 200 {
			t.Fatalf("create payment method %s failed status=%d body=%s", name, resp.Code, resp.Body.String())
		}
		var out map[string]any
		_ = json.Unmarshal(resp.Body.Bytes(), &out)
		id, _ := out["id"].(float64)
		return id
	}
	fromID := makeMethod("BCA", 100000)
	toID := makeMethod("Gopay", 0)

	trBody, _ := json.Marshal(map[string]any{"from_method_id": fromID, "to_method_id": toID, "amount": 40000, "date": time.Now().Format("2006-01-02")})
	resp = performRequest(r, http.MethodPost, "/transfers", bytes.NewBuffer(trBody), token)
	if resp.Code != 200 {
		t.Fatalf("create transfer failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// transfer to the same method must be rejected
	sameBody, _ := json.Marshal(map[string]any{"from_method_id": fromID, "to_method_id": fromID, "amount": 1000, "date": time.Now().Format("2006-01-02")})
	resp = performRequest(r, http.MethodPost, "/transfers", bytes.NewBuffer(sameBody), token)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("same-method transfer should be 400, got %d", resp.Code)
	}

	// balances moved
	resp = performRequest(r, http.MethodGet, "/payment-methods", nil, token)
	if resp.Code != 200 {
		t.Fatalf("list payment methods failed status=%d body=%s", resp.Code, resp.Body.String())
	}
	var methods []map[string]any
	_ = json.Unmarshal(resp.Body.Bytes(), &methods)
	balances := map[float64]string{}
	for _, m := range methods {
		id, _ := m["id"].(float64)
		balances[id] = fmt.Sprintf("%v", m["balance"])
	}
	if balances[fromID] != "60000" {
		t.Errorf("source balance = %s, want 60000", balances[fromID])
	}
	if balances[toID] != "40000" {
		t.Errorf("destination balance = %s, want 40000", balances[toID])
	}
}

func TestMigrateCommand(t *testing.T) {
	if os.Getenv("DB_DSN_TEST") != "1" {
		t.Skip("integration tests are disabled; set DB_DSN_TEST=1 to enable")
	}
	initDB()
}

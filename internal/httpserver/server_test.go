package httpserver

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/healthyfood/calorie-hub/internal/config"
)

func TestHealthz(t *testing.T) {
	cfg := &config.Config{Port: 8080}
	srv := New(cfg)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var resp map[string]string
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status=ok, got %s", resp["status"])
	}
}

func TestHealthzMethodNotAllowed(t *testing.T) {
	cfg := &config.Config{Port: 8080}
	srv := New(cfg)

	req := httptest.NewRequest(http.MethodPost, "/healthz", nil)
	w := httptest.NewRecorder()

	srv.mux.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", w.Code)
	}
}

// TestFullFlow проходит полный путь: регистрация, логин, каталог, дневник.
func TestFullFlow(t *testing.T) {
	cfg := &config.Config{
		Port:                8080,
		JWTSecret:           "test_secret",
		JWTIssuer:           "calorie-hub-test",
		JWTTTLMinutes:       60,
		ReportsMaxRangeDays: 90,
		ReportsListLimit:    50,
	}
	srv := New(cfg)
	handler := srv.authMiddleware.RequireAuth(srv.mux)

	do := func(method, target, token, body string) *httptest.ResponseRecorder {
		t.Helper()
		var req *http.Request
		if body == "" {
			req = httptest.NewRequest(method, target, nil)
		} else {
			req = httptest.NewRequest(method, target, strings.NewReader(body))
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		return w
	}

	// Без токена закрытые маршруты недоступны
	if w := do(http.MethodGet, "/v1/food-items", "", ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated list: expected 401, got %d", w.Code)
	}

	w := do(http.MethodPost, "/v1/auth/register", "", `{"username":"alice","email":"alice@example.com","password":"secret123"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d, body=%s", w.Code, w.Body.String())
	}
	var registerResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(w.Body).Decode(&registerResp); err != nil {
		t.Fatalf("failed to decode register response: %v", err)
	}
	if registerResp.AccessToken == "" {
		t.Fatal("register: expected access_token in response")
	}

	w = do(http.MethodPost, "/v1/auth/login", "", `{"username":"alice","password":"secret123"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}
	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(w.Body).Decode(&tokenResp); err != nil {
		t.Fatalf("failed to decode token response: %v", err)
	}
	token := tokenResp.AccessToken

	w = do(http.MethodPost, "/v1/food-items", token, `{"name":"Apple","calories":52,"protein":0.3,"carbohydrates":14,"fat":0.2}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create food item: expected 201, got %d, body=%s", w.Code, w.Body.String())
	}
	var item struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(w.Body).Decode(&item); err != nil {
		t.Fatalf("failed to decode food item: %v", err)
	}

	logBody := fmt.Sprintf(`{"food_item_id":"%s","quantity":2,"log_date":"2026-08-27"}`, item.ID)
	w = do(http.MethodPost, "/v1/calorie-logs", token, logBody)
	if w.Code != http.StatusCreated {
		t.Fatalf("create calorie log: expected 201, got %d, body=%s", w.Code, w.Body.String())
	}
	var entry struct {
		CaloriesConsumed float64 `json:"calories_consumed"`
	}
	if err := json.NewDecoder(w.Body).Decode(&entry); err != nil {
		t.Fatalf("failed to decode calorie log: %v", err)
	}
	if entry.CaloriesConsumed != 104 {
		t.Errorf("calories_consumed = %v, want 104", entry.CaloriesConsumed)
	}

	w = do(http.MethodGet, "/v1/calorie-logs/daily/2026-08-27", token, "")
	if w.Code != http.StatusOK {
		t.Fatalf("daily summary: expected 200, got %d, body=%s", w.Code, w.Body.String())
	}
	var daily struct {
		TotalCalories float64 `json:"total_calories"`
	}
	if err := json.NewDecoder(w.Body).Decode(&daily); err != nil {
		t.Fatalf("failed to decode daily summary: %v", err)
	}
	if daily.TotalCalories != 104 {
		t.Errorf("total_calories = %v, want 104", daily.TotalCalories)
	}
}

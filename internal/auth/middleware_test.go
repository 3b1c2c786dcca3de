package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/healthyfood/calorie-hub/internal/storage/memory"
)

func newTestMiddleware() (*Middleware, *Service) {
	users := memory.NewUsersMemoryStorage()
	svc := NewService(testConfig(), users)
	return NewMiddleware(svc, users), svc
}

func TestRequireAuthMissingToken(t *testing.T) {
	mw, _ := newTestMiddleware()

	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be reached without a token")
	}))

	req := httptest.NewRequest("GET", "/v1/food-items", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"unauthenticated"`) {
		t.Errorf("body = %s, want unauthenticated code", w.Body.String())
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	mw, _ := newTestMiddleware()

	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not be reached with a bad token")
	}))

	req := httptest.NewRequest("GET", "/v1/food-items", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"unauthenticated"`) {
		t.Errorf("body = %s, want unauthenticated code", w.Body.String())
	}
}

func TestRequireAuthValidToken(t *testing.T) {
	mw, svc := newTestMiddleware()

	user, err := svc.Register(context.Background(), &RegisterRequest{
		Username: "frank", Email: "frank@example.com", Password: "pw",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	tokens, err := svc.IssueTokens(user.ID)
	if err != nil {
		t.Fatalf("IssueTokens() error = %v", err)
	}

	reached := false
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest("GET", "/v1/food-items", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if !reached {
		t.Fatal("handler was not reached with a valid token")
	}
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/healthyfood/calorie-hub/internal/storage/memory"
	"github.com/healthyfood/calorie-hub/internal/userctx"
)

func newTestHandlers() (*Handlers, *Service) {
	users := memory.NewUsersMemoryStorage()
	svc := NewService(testConfig(), users)
	return NewHandlers(svc, users), svc
}

func TestHandleRegister(t *testing.T) {
	handlers, svc := newTestHandlers()

	body := `{"username":"alice","email":"alice@example.com","password":"secret123"}`
	req := httptest.NewRequest("POST", "/v1/auth/register", strings.NewReader(body))
	w := httptest.NewRecorder()

	handlers.HandleRegister(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body=%s", w.Code, w.Body.String())
	}

	var resp RegisterResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.User.Username != "alice" || resp.User.Email != "alice@example.com" {
		t.Errorf("unexpected response %+v", resp)
	}
	if resp.AccessToken == "" {
		t.Fatal("empty access token in register response")
	}
	if resp.TokenType != "Bearer" {
		t.Errorf("token_type = %q, want Bearer", resp.TokenType)
	}
	userID, err := svc.VerifyJWT(resp.AccessToken)
	if err != nil {
		t.Fatalf("VerifyJWT() error = %v", err)
	}
	if userID != resp.User.ID {
		t.Errorf("token sub = %s, want %s", userID, resp.User.ID)
	}
	if strings.Contains(w.Body.String(), "secret123") {
		t.Error("response leaks password")
	}
}

func TestHandleRegisterInvalidJSON(t *testing.T) {
	handlers, _ := newTestHandlers()

	req := httptest.NewRequest("POST", "/v1/auth/register", strings.NewReader("{broken"))
	w := httptest.NewRecorder()

	handlers.HandleRegister(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHandleRegisterDuplicate(t *testing.T) {
	handlers, _ := newTestHandlers()

	body := `{"username":"bob","email":"bob@example.com","password":"pw"}`
	w := httptest.NewRecorder()
	handlers.HandleRegister(w, httptest.NewRequest("POST", "/v1/auth/register", strings.NewReader(body)))
	if w.Code != http.StatusCreated {
		t.Fatalf("first register: status = %d", w.Code)
	}

	w = httptest.NewRecorder()
	handlers.HandleRegister(w, httptest.NewRequest("POST", "/v1/auth/register", strings.NewReader(body)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate register: status = %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "username_taken") {
		t.Errorf("body = %s, want username_taken code", w.Body.String())
	}
}

func TestHandleLogin(t *testing.T) {
	handlers, svc := newTestHandlers()

	if _, err := svc.Register(context.Background(), &RegisterRequest{
		Username: "carol", Email: "carol@example.com", Password: "pw123",
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	req := httptest.NewRequest("POST", "/v1/auth/login", strings.NewReader(`{"username":"carol","password":"pw123"}`))
	w := httptest.NewRecorder()

	handlers.HandleLogin(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body=%s", w.Code, w.Body.String())
	}

	var resp TokenResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("empty access token")
	}
}

func TestHandleLoginBadPassword(t *testing.T) {
	handlers, svc := newTestHandlers()

	if _, err := svc.Register(context.Background(), &RegisterRequest{
		Username: "dave", Email: "dave@example.com", Password: "right",
	}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	req := httptest.NewRequest("POST", "/v1/auth/login", strings.NewReader(`{"username":"dave","password":"wrong"}`))
	w := httptest.NewRecorder()

	handlers.HandleLogin(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestHandleMe(t *testing.T) {
	handlers, svc := newTestHandlers()

	user, err := svc.Register(context.Background(), &RegisterRequest{
		Username: "erin", Email: "erin@example.com", Password: "pw",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	req := httptest.NewRequest("GET", "/v1/auth/me", nil)
	ctx := userctx.WithIdentity(req.Context(), userctx.Identity{UserID: user.ID, IsActive: true})
	w := httptest.NewRecorder()

	handlers.HandleMe(w, req.WithContext(ctx))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp UserResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.ID != user.ID {
		t.Errorf("ID = %v, want %v", resp.ID, user.ID)
	}
}

func TestHandleMeWithoutIdentity(t *testing.T) {
	handlers, _ := newTestHandlers()

	w := httptest.NewRecorder()
	handlers.HandleMe(w, httptest.NewRequest("GET", "/v1/auth/me", nil))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRequireAuthMiddleware(t *testing.T) {
	users := memory.NewUsersMemoryStorage()
	svc := NewService(testConfig(), users)
	mw := NewMiddleware(svc, users)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := userctx.GetUserID(r.Context()); !ok {
			t.Error("user id missing from context")
		}
		w.WriteHeader(http.StatusOK)
	})
	protected := mw.RequireAuth(next)

	t.Run("missing token", func(t *testing.T) {
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, httptest.NewRequest("GET", "/v1/food-items", nil))
		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", w.Code)
		}
	})

	t.Run("public path passes", func(t *testing.T) {
		open := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		w := httptest.NewRecorder()
		open.ServeHTTP(w, httptest.NewRequest("GET", "/healthz", nil))
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", w.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		user, err := svc.Register(context.Background(), &RegisterRequest{
			Username: "frank", Email: "frank@example.com", Password: "pw",
		})
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		tokens, _, err := svc.Login(context.Background(), &LoginRequest{Username: "frank", Password: "pw"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		req := httptest.NewRequest("GET", "/v1/food-items", nil)
		req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("status = %d, want 200, body=%s", w.Code, w.Body.String())
		}
		_ = user
	})

	t.Run("inactive account", func(t *testing.T) {
		user, err := svc.Register(context.Background(), &RegisterRequest{
			Username: "grace", Email: "grace@example.com", Password: "pw",
		})
		if err != nil {
			t.Fatalf("Register() error = %v", err)
		}
		tokens, _, err := svc.Login(context.Background(), &LoginRequest{Username: "grace", Password: "pw"})
		if err != nil {
			t.Fatalf("Login() error = %v", err)
		}

		user.IsActive = false
		if err := users.UpdateUser(context.Background(), user); err != nil {
			t.Fatalf("UpdateUser() error = %v", err)
		}

		req := httptest.NewRequest("GET", "/v1/food-items", nil)
		req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
		w := httptest.NewRecorder()
		protected.ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403, body=%s", w.Code, w.Body.String())
		}
		if !strings.Contains(w.Body.String(), "inactive_account") {
			t.Errorf("body = %s, want inactive_account code", w.Body.String())
		}
	})
}

package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/healthyfood/calorie-hub/internal/storage"
	"github.com/healthyfood/calorie-hub/internal/userctx"
)

// Middleware — middleware для проверки авторизации
type Middleware struct {
	service *Service
	users   storage.UsersStorage
}

func NewMiddleware(service *Service, users storage.UsersStorage) *Middleware {
	return &Middleware{
		service: service,
		users:   users,
	}
}

// RequireAuth — middleware для защиты эндпоинтов. Токен проверяется,
// пользователь загружается из хранилища; деактивированный аккаунт получает 403.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublicPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := m.authenticateHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "Invalid or expired token")
			return
		}

		user, err := m.users.GetUser(r.Context(), userID)
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "Invalid or expired token")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
			return
		}

		if !user.IsActive {
			writeError(w, http.StatusForbidden, "inactive_account", "Account is deactivated")
			return
		}

		identity := userctx.Identity{UserID: user.ID, IsActive: user.IsActive}
		next.ServeHTTP(w, r.WithContext(userctx.WithIdentity(r.Context(), identity)))
	})
}

func (m *Middleware) authenticateHeader(authHeader string) (uuid.UUID, error) {
	if authHeader == "" {
		return uuid.Nil, ErrInvalidToken
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return uuid.Nil, ErrInvalidToken
	}

	return m.service.VerifyJWT(parts[1])
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":{"code":"` + code + `","message":"` + message + `"}}`))
}

func isPublicPath(path string) bool {
	return path == "/healthz" ||
		path == "/v1/auth/register" ||
		path == "/v1/auth/login"
}

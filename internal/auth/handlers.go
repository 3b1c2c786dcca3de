package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/healthyfood/calorie-hub/internal/apperr"
	"github.com/healthyfood/calorie-hub/internal/storage"
	"github.com/healthyfood/calorie-hub/internal/userctx"
)

type Handlers struct {
	service *Service
	users   storage.UsersStorage
}

func NewHandlers(service *Service, users storage.UsersStorage) *Handlers {
	return &Handlers{service: service, users: users}
}

// HandleRegister handles POST /v1/auth/register
func (h *Handlers) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	user, err := h.service.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	tokens, err := h.service.IssueTokens(user.ID)
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "internal_error", "Internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, RegisterResponse{
		User:        toUserResponse(user),
		AccessToken: tokens.AccessToken,
		TokenType:   tokens.TokenType,
		ExpiresIn:   tokens.ExpiresIn,
	})
}

// HandleLogin handles POST /v1/auth/login
func (h *Handlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	tokens, _, err := h.service.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, tokens)
}

// HandleMe handles GET /v1/auth/me
func (h *Handlers) HandleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := userctx.GetIdentity(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "unauthenticated", "Unauthorized")
		return
	}

	user, err := h.users.GetUser(r.Context(), identity.UserID)
	if errors.Is(err, storage.ErrNotFound) {
		writeErrorResponse(w, http.StatusUnauthorized, "unauthenticated", "Unauthorized")
		return
	}
	if err != nil {
		writeErrorResponse(w, http.StatusInternalServerError, "internal_error", "Internal server error")
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// HandleLogout handles POST /v1/auth/logout.
// Токены stateless, сервер ничего не хранит; клиент просто забывает токен.
func (h *Handlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func toUserResponse(user *storage.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

func writeServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := apperr.As(err); ok {
		writeErrorResponse(w, appErr.HTTPStatus(), appErr.Code, appErr.Message)
		return
	}
	writeErrorResponse(w, http.StatusInternalServerError, "internal_error", "Internal server error")
}

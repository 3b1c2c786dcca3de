package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/healthyfood/calorie-hub/internal/apperr"
	"github.com/healthyfood/calorie-hub/internal/config"
	"github.com/healthyfood/calorie-hub/internal/storage"
)

var (
	ErrInvalidToken = errors.New("invalid token")
)

// Service — сервис регистрации и авторизации
type Service struct {
	config *config.Config
	users  storage.UsersStorage
}

func NewService(cfg *config.Config, users storage.UsersStorage) *Service {
	return &Service{
		config: cfg,
		users:  users,
	}
}

// Register — регистрация нового пользователя.
// Дубликат username проверяется раньше дубликата email.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*storage.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)

	if username == "" {
		return nil, apperr.Validation("invalid_request", "username is required")
	}
	if email == "" {
		return nil, apperr.Validation("invalid_request", "email is required")
	}
	if req.Password == "" {
		return nil, apperr.Validation("invalid_request", "password is required")
	}

	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, apperr.Validation("username_taken", "Username already registered")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.Persistence(err)
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, apperr.Validation("email_taken", "Email already registered")
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.Persistence(err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &storage.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		IsActive:     true,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, apperr.Persistence(err)
	}

	return user, nil
}

// IssueTokens — выдача access token для пользователя. Используется
// и при логине, и сразу после регистрации.
func (s *Service) IssueTokens(userID uuid.UUID) (*TokenResponse, error) {
	ttl := time.Duration(s.config.JWTTTLMinutes) * time.Minute
	accessToken, err := s.generateJWTWithTTL(userID, ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate JWT: %w", err)
	}

	return &TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ttl.Seconds()),
	}, nil
}

// Login — проверка пароля и выдача JWT.
// Несуществующий пользователь и неверный пароль дают одинаковый ответ.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, *storage.User, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(req.Username))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil, apperr.Unauthenticated("Incorrect username or password")
	}
	if err != nil {
		return nil, nil, apperr.Persistence(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, apperr.Unauthenticated("Incorrect username or password")
	}

	if !user.IsActive {
		return nil, nil, apperr.InactiveAccount()
	}

	tokens, err := s.IssueTokens(user.ID)
	if err != nil {
		return nil, nil, err
	}

	return tokens, user, nil
}

func (s *Service) generateJWTWithTTL(userID uuid.UUID, ttl time.Duration) (string, error) {
	now := time.Now()
	exp := now.Add(ttl)

	claims := jwt.MapClaims{
		"sub": userID.String(),
		"iss": s.config.JWTIssuer,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// VerifyJWT — проверка JWT токена, возвращает user ID из sub
func (s *Service) VerifyJWT(tokenString string) (uuid.UUID, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})

	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return uuid.Nil, ErrInvalidToken
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return uuid.Nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return userID, nil
}

package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/webshop/storefront/internal/apperr"
	"github.com/webshop/storefront/internal/hash"
	"github.com/webshop/storefront/internal/logging"
	"github.com/webshop/storefront/internal/models"
	"github.com/webshop/storefront/internal/mykafka"
	"github.com/webshop/storefront/internal/repo"
)

const (
	accessTokenTTL  = 30 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	Repo          *repo.GormRepo
	Producer      *mykafka.Producer
	JWTSecret     []byte
	RefreshSecret []byte
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type LoginResult struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if strings.TrimSpace(req.Username) == "" {
		return nil, fmt.Errorf("username required: %w", apperr.ErrValidation)
	}
	if strings.TrimSpace(req.Email) == "" || !strings.Contains(req.Email, "@") {
		return nil, fmt.Errorf("valid email required: %w", apperr.ErrValidation)
	}
	if req.Password == "" {
		return nil, fmt.Errorf("password required: %w", apperr.ErrValidation)
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, fmt.Errorf("full name required: %w", apperr.ErrValidation)
	}

	passwordHash, err := hash.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		FullName:     req.FullName,
		IsActive:     true,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, user.ID, map[string]any{
		"type":     "user_registered",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password required: %w", apperr.ErrValidation)
	}

	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("incorrect username or password: %w", apperr.ErrUnauthenticated)
	}
	if !user.IsActive || !hash.CheckPassword(user.PasswordHash, password) {
		return nil, fmt.Errorf("incorrect username or password: %w", apperr.ErrUnauthenticated)
	}

	access, err := s.createAccessToken(user.ID, time.Now().Add(accessTokenTTL))
	if err != nil {
		return nil, err
	}

	refreshExp := time.Now().Add(refreshTokenTTL)
	refresh, err := s.createRefreshToken(user.ID, refreshExp)
	if err != nil {
		return nil, err
	}
	err = s.Repo.SaveRefreshToken(ctx, &models.RefreshToken{
		Token:     refresh,
		UserID:    user.ID,
		ExpiresAt: refreshExp,
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, user.ID, map[string]any{
		"type":     "user_logged_in",
		"user_id":  user.ID,
		"username": user.Username,
	})

	return &LoginResult{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

func (s *AuthService) LogOut(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	return s.Repo.RevokeRefreshToken(ctx, refreshToken)
}

func (s *AuthService) createAccessToken(userID uint, exp time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": fmt.Sprint(userID),
		"exp": exp.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.JWTSecret)
}

func (s *AuthService) createRefreshToken(userID uint, exp time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub": fmt.Sprint(userID),
		"exp": exp.Unix(),
		"jti": uuid.NewString(),
		"typ": "refresh",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.RefreshSecret)
}

func (s *AuthService) publish(ctx context.Context, userID uint, event map[string]any) {
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(publishCtx, mykafka.TopicUserEvents, fmt.Sprint(userID), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish failed", "topic", mykafka.TopicUserEvents, "error", err)
	}
}

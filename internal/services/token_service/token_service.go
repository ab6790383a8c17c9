package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"rental_showcase/internal/domain/models"
	"rental_showcase/internal/lib/jwt"
	"rental_showcase/internal/lib/logger/sl"
	"rental_showcase/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrInvalidToken      = fmt.Errorf("invalid token: %w", models.ErrUnauthorized)
	ErrTokenNotInStorage = errors.New("token not found in storage")
)

const (
	AccessTokenExpire  = 15 * time.Minute
	RefreshTokenExpire = 7 * 24 * time.Hour
)

type TokenService struct {
	log        *slog.Logger
	repo       repository.TokenRepository
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(log *slog.Logger, repo repository.TokenRepository, secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = AccessTokenExpire
	}
	if refreshTTL <= 0 {
		refreshTTL = RefreshTokenExpire
	}

	return &TokenService{
		log:        log,
		repo:       repo,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *TokenService) GenerateTokens(ctx context.Context, user models.User) (*models.TokenPair, error) {
	const op = "token_service.GenerateTokens"

	accessToken, err := jwt.NewToken(user, s.secret, jwt.AccessToken, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	refreshToken, err := jwt.NewToken(user, s.secret, jwt.RefreshToken, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.SaveRefreshToken(ctx, user.ID.String(), refreshToken, s.refreshTTL); err != nil {
		s.log.Error("failed to save refresh token", slog.String("op", op), sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// RefreshTokens меняет действующий refresh-токен на новую пару; старый отзывается
func (s *TokenService) RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	const op = "token_service.RefreshTokens"

	log := s.log.With(slog.String("op", op))

	claims, err := jwt.ParseToken(s.secret, refreshToken, jwt.RefreshToken)
	if err != nil {
		log.Warn("refresh token rejected", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}

	userID := claims.UserID.String()

	exists, err := s.repo.GetRefreshToken(ctx, userID, refreshToken)
	if err != nil {
		log.Error("failed to read refresh token", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrInvalidToken, ErrTokenNotInStorage)
	}

	if err := s.repo.DeleteRefreshToken(ctx, userID, refreshToken); err != nil {
		log.Error("failed to revoke refresh token", sl.Err(err))

		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		ID:    claims.UserID,
		Email: claims.Email,
	}

	return s.GenerateTokens(ctx, user)
}

// ValidateAccessToken возвращает id пользователя из действующего access-токена
func (s *TokenService) ValidateAccessToken(accessToken string) (uuid.UUID, error) {
	claims, err := jwt.ParseToken(s.secret, accessToken, jwt.AccessToken)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return claims.UserID, nil
}

// Logout отзывает все refresh-токены пользователя
func (s *TokenService) Logout(ctx context.Context, userID uuid.UUID) error {
	const op = "token_service.Logout"

	if err := s.repo.DeleteAllUserTokens(ctx, userID.String()); err != nil {
		s.log.Error("failed to revoke tokens", slog.String("op", op), sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

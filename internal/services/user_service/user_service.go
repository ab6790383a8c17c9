package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"rental_showcase/internal/domain/models"
	"rental_showcase/internal/lib/logger/sl"
	"rental_showcase/internal/repository"
	"rental_showcase/internal/storage"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", models.ErrUnauthorized)
	ErrUserNotFound       = errors.New("user not found")
)

const minPasswordLength = 8

type TokenGenerator interface {
	GenerateTokens(ctx context.Context, user models.User) (*models.TokenPair, error)
}

type UserService struct {
	log    *slog.Logger
	repo   repository.UserRepository
	tokens TokenGenerator
}

func NewUserService(log *slog.Logger, repo repository.UserRepository, tokens TokenGenerator) *UserService {
	return &UserService{
		log:    log,
		repo:   repo,
		tokens: tokens,
	}
}

func (s *UserService) Login(ctx context.Context, email, password string) (models.User, *models.TokenPair, error) {
	const op = "user_service.Login"

	log := s.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	log.Info("attempting to login user")

	user, err := s.repo.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			log.Warn("user not found", sl.Err(err))

			return models.User{}, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		log.Error("failed to get user", sl.Err(err))

		return models.User{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))

		return models.User{}, nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	tokens, err := s.tokens.GenerateTokens(ctx, user)
	if err != nil {
		log.Error("failed to generate tokens", sl.Err(err))

		return models.User{}, nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.TouchLastLogin(ctx, user.ID); err != nil {
		// вход уже состоялся, отметка времени не критична
		log.Warn("failed to update last login", sl.Err(err))
	}

	log.Info("user logged in successfully")

	return user, tokens, nil
}

// EnsureAdmin создаёт учётную запись владельца, если её ещё нет.
// Существующая учётная запись не изменяется.
func (s *UserService) EnsureAdmin(ctx context.Context, name, email, password string) (uuid.UUID, error) {
	const op = "user_service.EnsureAdmin"

	log := s.log.With(
		slog.String("op", op),
		slog.String("email", email),
	)

	if strings.TrimSpace(email) == "" || password == "" {
		log.Info("admin credentials not configured, skipping")

		return uuid.Nil, nil
	}

	existing, err := s.repo.UserByEmail(ctx, email)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, storage.ErrUserNotFound) {
		log.Error("failed to look up admin", sl.Err(err))

		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	passHash, err := hashPassword(password)
	if err != nil {
		log.Error("failed to generate password hash", sl.Err(err))

		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.SaveUser(ctx, models.User{
		Name:     name,
		Email:    email,
		Password: passHash,
		IsAdmin:  true,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			// создан параллельно другим экземпляром
			user, err := s.repo.UserByEmail(ctx, email)
			if err != nil {
				return uuid.Nil, fmt.Errorf("%s: %w", op, err)
			}
			return user.ID, nil
		}
		log.Error("failed to save admin", sl.Err(err))

		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("admin created", slog.String("user_id", id.String()))

	return id, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	const op = "user_service.ChangePassword"

	log := s.log.With(
		slog.String("op", op),
		slog.String("user_id", userID.String()),
	)

	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%s: %w", op,
			models.NewValidationError("new_password", fmt.Sprintf("must be at least %d characters", minPasswordLength)))
	}

	user, err := s.GetUserById(ctx, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.Password, []byte(oldPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	passHash, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, models.NewValidationError("new_password", err.Error()))
	}

	if err := s.repo.UpdatePassword(ctx, userID, passHash); err != nil {
		log.Error("failed to update password", sl.Err(err))

		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("password changed")

	return nil
}

func (s *UserService) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	const op = "user_service.IsAdmin"

	isAdmin, err := s.repo.IsAdmin(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return isAdmin, nil
}

func (s *UserService) GetUserById(ctx context.Context, userID uuid.UUID) (models.User, error) {
	const op = "user_service.GetUserById"

	user, err := s.repo.GetUserById(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return models.User{}, fmt.Errorf("%s: %w: %w", op, ErrUserNotFound, storage.ErrNotFound)
		}
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}

	return user, nil
}

func hashPassword(password string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
}

package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"rental_showcase/internal/domain/models"
	"rental_showcase/internal/lib/jwt"
	"rental_showcase/internal/lib/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTokenRepository struct {
	mock.Mock
}

func (m *MockTokenRepository) SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error {
	args := m.Called(ctx, userID, token, exp)
	return args.Error(0)
}

func (m *MockTokenRepository) GetRefreshToken(ctx context.Context, userID, token string) (bool, error) {
	args := m.Called(ctx, userID, token)
	return args.Bool(0), args.Error(1)
}

func (m *MockTokenRepository) DeleteRefreshToken(ctx context.Context, userID, token string) error {
	args := m.Called(ctx, userID, token)
	return args.Error(0)
}

func (m *MockTokenRepository) DeleteAllUserTokens(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

const testSecret = "test"

var (
	testUser = models.User{
		ID:    uuid.MustParse("123e4567-e89b-12d3-a456-426614174000"),
		Email: "test@example.com",
	}
	testCtx = context.Background()
)

func newService(repo *MockTokenRepository) *TokenService {
	return NewTokenService(logger.Discard(), repo, testSecret, time.Minute, time.Hour)
}

func TestGenerateTokens_Success(t *testing.T) {
	repo := new(MockTokenRepository)
	service := newService(repo)

	repo.On("SaveRefreshToken", testCtx, testUser.ID.String(), mock.Anything, time.Hour).
		Return(nil)

	tokens, err := service.GenerateTokens(testCtx, testUser)

	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, testUser.ID, tokens.UserID)

	userID, err := service.ValidateAccessToken(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, testUser.ID, userID)

	_, err = service.ValidateAccessToken(tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken, "refresh token is not an access token")
	repo.AssertExpectations(t)
}

func TestGenerateTokens_RepoError(t *testing.T) {
	repo := new(MockTokenRepository)
	service := newService(repo)

	expectedErr := errors.New("storage error")
	repo.On("SaveRefreshToken", testCtx, testUser.ID.String(), mock.Anything, mock.Anything).
		Return(expectedErr)

	tokens, err := service.GenerateTokens(testCtx, testUser)

	assert.ErrorIs(t, err, expectedErr)
	assert.Nil(t, tokens)
	repo.AssertExpectations(t)
}

func TestRefreshTokens_Success(t *testing.T) {
	repo := new(MockTokenRepository)
	service := newService(repo)

	refreshToken, err := jwt.NewToken(testUser, testSecret, jwt.RefreshToken, time.Hour)
	require.NoError(t, err)

	repo.On("GetRefreshToken", testCtx, testUser.ID.String(), refreshToken).
		Return(true, nil)
	repo.On("DeleteRefreshToken", testCtx, testUser.ID.String(), refreshToken).
		Return(nil)
	repo.On("SaveRefreshToken", testCtx, testUser.ID.String(), mock.Anything, mock.Anything).
		Return(nil)

	newTokens, err := service.RefreshTokens(testCtx, refreshToken)

	require.NoError(t, err)
	assert.NotEmpty(t, newTokens.AccessToken)
	assert.NotEqual(t, refreshToken, newTokens.RefreshToken)
	repo.AssertExpectations(t)
}

func TestRefreshTokens_InvalidToken(t *testing.T) {
	repo := new(MockTokenRepository)
	service := newService(repo)

	_, err := service.RefreshTokens(testCtx, "invalid.token.string")

	assert.ErrorIs(t, err, ErrInvalidToken)
	repo.AssertNotCalled(t, "GetRefreshToken", mock.Anything, mock.Anything, mock.Anything)
}

func TestRefreshTokens_AccessTokenRejected(t *testing.T) {
	repo := new(MockTokenRepository)
	service := newService(repo)

	accessToken, err := jwt.NewToken(testUser, testSecret, jwt.AccessToken, time.Hour)
	require.NoError(t, err)

	_, err = service.RefreshTokens(testCtx, accessToken)

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshTokens_TokenNotInStorage(t *testing.T) {
	repo := new(MockTokenRepository)
	service := newService(repo)

	refreshToken, _ := jwt.NewToken(testUser, testSecret, jwt.RefreshToken, time.Hour)

	repo.On("GetRefreshToken", testCtx, testUser.ID.String(), refreshToken).
		Return(false, nil)

	_, err := service.RefreshTokens(testCtx, refreshToken)

	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.ErrorIs(t, err, ErrTokenNotInStorage)
	repo.AssertExpectations(t)
}

func TestRefreshTokens_StorageError(t *testing.T) {
	repo := new(MockTokenRepository)
	service := newService(repo)

	refreshToken, _ := jwt.NewToken(testUser, testSecret, jwt.RefreshToken, time.Hour)
	expectedErr := errors.New("storage error")

	repo.On("GetRefreshToken", testCtx, testUser.ID.String(), refreshToken).
		Return(false, expectedErr)

	_, err := service.RefreshTokens(testCtx, refreshToken)

	assert.ErrorIs(t, err, expectedErr)
	repo.AssertExpectations(t)
}

func TestRefreshTokens_ExpiredToken(t *testing.T) {
	repo := new(MockTokenRepository)
	service := newService(repo)

	expiredToken, _ := jwt.NewToken(testUser, testSecret, jwt.RefreshToken, -time.Hour)

	_, err := service.RefreshTokens(testCtx, expiredToken)

	assert.ErrorIs(t, err, ErrInvalidToken)
	repo.AssertExpectations(t)
}

func TestRefreshTokens_DeleteTokenError(t *testing.T) {
	repo := new(MockTokenRepository)
	service := newService(repo)

	refreshToken, _ := jwt.NewToken(testUser, testSecret, jwt.RefreshToken, time.Hour)
	expectedErr := errors.New("delete error")

	repo.On("GetRefreshToken", testCtx, testUser.ID.String(), refreshToken).
		Return(true, nil)
	repo.On("DeleteRefreshToken", testCtx, testUser.ID.String(), refreshToken).
		Return(expectedErr)

	_, err := service.RefreshTokens(testCtx, refreshToken)

	assert.ErrorIs(t, err, expectedErr)
	repo.AssertExpectations(t)
}

func TestLogout(t *testing.T) {
	repo := new(MockTokenRepository)
	service := newService(repo)

	repo.On("DeleteAllUserTokens", testCtx, testUser.ID.String()).Return(nil)

	require.NoError(t, service.Logout(testCtx, testUser.ID))
	repo.AssertExpectations(t)
}

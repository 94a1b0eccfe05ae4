package services_test

import (
	"context"
	"testing"
	"time"

	"gallery_app/internal/domain/models"
	libjwt "gallery_app/internal/lib/jwt"
	services "gallery_app/internal/services/token_service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

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

func testUser() models.User {
	return models.User{
		ID:    uuid.New(),
		Email: "alice@example.com",
	}
}

func TestTokenService_GenerateTokens(t *testing.T) {
	ctx := context.Background()
	user := testUser()

	mockRepo := new(MockTokenRepository)
	svc := services.NewTokenService(mockRepo, testSecret, time.Minute, time.Hour)

	mockRepo.On("SaveRefreshToken", ctx, user.ID.String(), mock.AnythingOfType("string"), time.Hour).
		Return(nil).Once()

	pair, err := svc.GenerateTokens(ctx, user)
	require.NoError(t, err)

	assert.Equal(t, user.ID, pair.UserID)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	token, err := jwt.Parse(pair.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, user.ID.String(), claims["uid"])
	assert.Equal(t, user.Email, claims["email"])

	mockRepo.AssertExpectations(t)
}

func TestTokenService_RefreshTokens(t *testing.T) {
	ctx := context.Background()
	user := testUser()

	t.Run("valid refresh rotates the token", func(t *testing.T) {
		mockRepo := new(MockTokenRepository)
		svc := services.NewTokenService(mockRepo, testSecret, time.Minute, time.Hour)

		refreshToken, err := libjwt.NewToken(user, testSecret, time.Hour)
		require.NoError(t, err)

		mockRepo.On("GetRefreshToken", ctx, user.ID.String(), refreshToken).
			Return(true, nil).Once()
		mockRepo.On("DeleteRefreshToken", ctx, user.ID.String(), refreshToken).
			Return(nil).Once()
		mockRepo.On("SaveRefreshToken", ctx, user.ID.String(), mock.AnythingOfType("string"), time.Hour).
			Return(nil).Once()

		pair, err := svc.RefreshTokens(ctx, refreshToken)
		require.NoError(t, err)

		assert.Equal(t, user.ID, pair.UserID)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)

		mockRepo.AssertExpectations(t)
	})

	t.Run("garbage token", func(t *testing.T) {
		mockRepo := new(MockTokenRepository)
		svc := services.NewTokenService(mockRepo, testSecret, time.Minute, time.Hour)

		_, err := svc.RefreshTokens(ctx, "not-a-jwt")
		require.ErrorIs(t, err, services.ErrInvalidToken)
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		mockRepo := new(MockTokenRepository)
		svc := services.NewTokenService(mockRepo, testSecret, time.Minute, time.Hour)

		forged, err := libjwt.NewToken(user, "other-secret", time.Hour)
		require.NoError(t, err)

		_, err = svc.RefreshTokens(ctx, forged)
		require.ErrorIs(t, err, services.ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		mockRepo := new(MockTokenRepository)
		svc := services.NewTokenService(mockRepo, testSecret, time.Minute, time.Hour)

		expired, err := libjwt.NewToken(user, testSecret, -time.Minute)
		require.NoError(t, err)

		_, err = svc.RefreshTokens(ctx, expired)
		require.ErrorIs(t, err, services.ErrInvalidToken)
	})

	t.Run("token already rotated out of storage", func(t *testing.T) {
		mockRepo := new(MockTokenRepository)
		svc := services.NewTokenService(mockRepo, testSecret, time.Minute, time.Hour)

		refreshToken, err := libjwt.NewToken(user, testSecret, time.Hour)
		require.NoError(t, err)

		mockRepo.On("GetRefreshToken", ctx, user.ID.String(), refreshToken).
			Return(false, nil).Once()

		_, err = svc.RefreshTokens(ctx, refreshToken)
		require.ErrorIs(t, err, services.ErrInvalidToken)

		mockRepo.AssertNotCalled(t, "DeleteRefreshToken", mock.Anything, mock.Anything, mock.Anything)
		mockRepo.AssertNotCalled(t, "SaveRefreshToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

package services_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"gallery_app/internal/domain/models"
	services "gallery_app/internal/services/user_service"
	"gallery_app/internal/storage"
	"gallery_app/internal/transport/http/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) SaveUser(ctx context.Context, user models.User) (uuid.UUID, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockUserRepository) UserByEmail(ctx context.Context, email string) (models.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserRepository) UserByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.User), args.Error(1)
}

type MockTokenProvider struct {
	mock.Mock
}

func (m *MockTokenProvider) GenerateTokens(ctx context.Context, user models.User) (*models.TokenPair, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenPair), args.Error(1)
}

func newTestUserService(repo *MockUserRepository, tokens *MockTokenProvider) *services.UserService {
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	return services.NewUserService(log, repo, tokens)
}

func TestUserService_RegisterNewUser(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes the password and normalizes the email", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := newTestUserService(mockRepo, new(MockTokenProvider))

		var saved models.User
		mockRepo.On("SaveUser", ctx, mock.AnythingOfType("models.User")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).(models.User)
			}).
			Return(uuid.New(), nil).Once()

		id, err := svc.RegisterNewUser(ctx, dto.UserRegisterInput{
			Name:     "  Alice  ",
			Email:    "  Alice@Example.COM ",
			Password: "s3cret-pass",
		})
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)

		assert.Equal(t, "Alice", saved.Name)
		assert.Equal(t, "alice@example.com", saved.Email)
		assert.NotEqual(t, uuid.Nil, saved.ID)
		assert.NotContains(t, string(saved.Password), "s3cret-pass")
		require.NoError(t, bcrypt.CompareHashAndPassword(saved.Password, []byte("s3cret-pass")))
	})

	t.Run("duplicate email maps to ErrUserExists", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := newTestUserService(mockRepo, new(MockTokenProvider))

		mockRepo.On("SaveUser", ctx, mock.AnythingOfType("models.User")).
			Return(uuid.Nil, fmt.Errorf("save: %w", storage.ErrUserExists)).Once()

		_, err := svc.RegisterNewUser(ctx, dto.UserRegisterInput{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "s3cret-pass",
		})
		require.ErrorIs(t, err, services.ErrUserExists)
	})

	t.Run("storage failure is surfaced as-is", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		svc := newTestUserService(mockRepo, new(MockTokenProvider))

		mockRepo.On("SaveUser", ctx, mock.AnythingOfType("models.User")).
			Return(uuid.Nil, errors.New("db down")).Once()

		_, err := svc.RegisterNewUser(ctx, dto.UserRegisterInput{
			Name:     "Alice",
			Email:    "alice@example.com",
			Password: "s3cret-pass",
		})
		require.Error(t, err)
		assert.NotErrorIs(t, err, services.ErrUserExists)
	})
}

func TestUserService_Login(t *testing.T) {
	ctx := context.Background()

	passHash, err := bcrypt.GenerateFromPassword([]byte("right-password"), bcrypt.DefaultCost)
	require.NoError(t, err)

	storedUser := models.User{
		ID:        uuid.New(),
		Name:      "Alice",
		Email:     "alice@example.com",
		Password:  passHash,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	t.Run("successful login returns tokens and user", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokens := new(MockTokenProvider)
		svc := newTestUserService(mockRepo, mockTokens)

		pair := &models.TokenPair{
			UserID:       storedUser.ID,
			AccessToken:  "access",
			RefreshToken: "refresh",
		}
		mockRepo.On("UserByEmail", ctx, "alice@example.com").Return(storedUser, nil).Once()
		mockTokens.On("GenerateTokens", ctx, storedUser).Return(pair, nil).Once()

		tokens, user, err := svc.Login(ctx, "  Alice@Example.com ", "right-password")
		require.NoError(t, err)
		assert.Equal(t, pair, tokens)
		assert.Equal(t, storedUser.ID, user.ID)

		mockRepo.AssertExpectations(t)
		mockTokens.AssertExpectations(t)
	})

	t.Run("wrong password and unknown user are indistinguishable", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokens := new(MockTokenProvider)
		svc := newTestUserService(mockRepo, mockTokens)

		mockRepo.On("UserByEmail", ctx, "alice@example.com").Return(storedUser, nil).Once()
		mockRepo.On("UserByEmail", ctx, "nobody@example.com").
			Return(models.User{}, fmt.Errorf("find: %w", storage.ErrUserNotFound)).Once()

		_, _, errWrongPass := svc.Login(ctx, "alice@example.com", "wrong-password")
		_, _, errNoUser := svc.Login(ctx, "nobody@example.com", "right-password")

		require.ErrorIs(t, errWrongPass, services.ErrInvalidCredentials)
		require.ErrorIs(t, errNoUser, services.ErrInvalidCredentials)

		mockTokens.AssertNotCalled(t, "GenerateTokens", mock.Anything, mock.Anything)
	})

	t.Run("token generation failure surfaces", func(t *testing.T) {
		mockRepo := new(MockUserRepository)
		mockTokens := new(MockTokenProvider)
		svc := newTestUserService(mockRepo, mockTokens)

		mockRepo.On("UserByEmail", ctx, "alice@example.com").Return(storedUser, nil).Once()
		mockTokens.On("GenerateTokens", ctx, storedUser).
			Return(nil, errors.New("redis down")).Once()

		_, _, err := svc.Login(ctx, "alice@example.com", "right-password")
		require.Error(t, err)
		assert.NotErrorIs(t, err, services.ErrInvalidCredentials)
	})
}

package services

import (
	"context"
	"errors"
	"time"

	"gallery_app/internal/domain/models"
	libjwt "gallery_app/internal/lib/jwt"
	"gallery_app/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidTokenClaims = errors.New("invalid token claims")
)

// TokenService issues HS256 access/refresh pairs. Refresh tokens are
// single-use: a successful refresh deletes the presented token and
// stores the replacement.
type TokenService struct {
	repo       repository.TokenRepository
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(repo repository.TokenRepository, secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		repo:       repo,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *TokenService) GenerateTokens(ctx context.Context, user models.User) (*models.TokenPair, error) {
	accessToken, err := libjwt.NewToken(user, s.secret, s.accessTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := libjwt.NewToken(user, s.secret, s.refreshTTL)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveRefreshToken(ctx, user.ID.String(), refreshToken, s.refreshTTL); err != nil {
		return nil, err
	}

	return &models.TokenPair{
		UserID:       user.ID,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *TokenService) RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	userID, ok := claims["uid"].(string)
	if !ok {
		return nil, ErrInvalidTokenClaims
	}
	email, ok := claims["email"].(string)
	if !ok {
		return nil, ErrInvalidTokenClaims
	}

	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrInvalidTokenClaims
	}

	exists, err := s.repo.GetRefreshToken(ctx, userID, refreshToken)
	if err != nil || !exists {
		return nil, ErrInvalidToken
	}

	if err := s.repo.DeleteRefreshToken(ctx, userID, refreshToken); err != nil {
		return nil, err
	}

	user := models.User{
		ID:    id,
		Email: email,
	}

	return s.GenerateTokens(ctx, user)
}

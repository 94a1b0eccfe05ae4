package repository

import (
	"context"
	"time"

	"gallery_app/internal/domain/models"

	"github.com/google/uuid"
)

type UserRepository interface {
	SaveUser(ctx context.Context, user models.User) (uuid.UUID, error)
	UserByEmail(ctx context.Context, email string) (models.User, error)
	UserByID(ctx context.Context, userID uuid.UUID) (models.User, error)
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userID, token string, exp time.Duration) error
	GetRefreshToken(ctx context.Context, userID, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID, token string) error
	DeleteAllUserTokens(ctx context.Context, userID string) error
}

// GalleryRepository is the catalog of gallery records. FindAll returns a
// stable total order: newest first, id as tie-break.
type GalleryRepository interface {
	CreateItem(ctx context.Context, item models.GalleryItem) (models.GalleryItem, error)
	FindByID(ctx context.Context, id uuid.UUID) (models.GalleryItem, error)
	FindAll(ctx context.Context) ([]models.GalleryItem, error)
	UpdateItem(ctx context.Context, item models.GalleryItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// GalleryItem is a catalog record describing one uploaded image.
// ImagePath is the filename relative to the upload directory; the
// image bytes themselves live on disk, never in the catalog.
type GalleryItem struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Link        string     `json:"link" db:"link"`
	Tag         string     `json:"tag" db:"tag"`
	Category    string     `json:"category" db:"category"`
	// UserID is an opaque reference to the uploader. The catalog never
	// checks it against the users table, so orphaned references are fine.
	UserID    *string   `json:"user_id,omitempty" db:"user_id"`
	ImagePath string    `json:"image_path" db:"image_path"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// NewGalleryItem fills the fields the catalog owns: id and timestamps.
func NewGalleryItem(title, imagePath string, userID *string) GalleryItem {
	now := time.Now().UTC()
	return GalleryItem{
		ID:        uuid.New(),
		Title:     title,
		UserID:    userID,
		ImagePath: imagePath,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

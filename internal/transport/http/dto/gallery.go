package dto

import (
	"mime/multipart"
	"time"

	"gallery_app/internal/domain/models"
)

// GalleryUploadInput carries the multipart upload form. Title is the
// only required metadata field; UserID is passed through untouched.
type GalleryUploadInput struct {
	File        *multipart.FileHeader `json:"-" form:"image"`
	Title       string                `json:"title" form:"title"`
	Description string                `json:"description" form:"description"`
	Link        string                `json:"link" form:"link"`
	Tag         string                `json:"tag" form:"tag"`
	Category    string                `json:"category" form:"category"`
	UserID      string                `json:"user_id" form:"user_id"`
}

type GalleryUpdateInput struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Tag         string `json:"tag"`
	Category    string `json:"category"`
}

// GalleryItemResponse is a single listing entry. For orphan files the
// ID is the bare filename, all metadata is empty and CreatedAt is null.
type GalleryItemResponse struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Link         string     `json:"link"`
	Tag          string     `json:"tag"`
	Category     string     `json:"category"`
	UserID       *string    `json:"user_id"`
	ImagePath    string     `json:"image_path"`
	ImageURL     string     `json:"image_url"`
	FullImageURL string     `json:"full_image_url"`
	CreatedAt    *time.Time `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	Orphan       bool       `json:"orphan,omitempty"`
}

func NewGalleryItemResponse(item models.GalleryItem, fullImageURL string) GalleryItemResponse {
	createdAt := item.CreatedAt
	updatedAt := item.UpdatedAt
	return GalleryItemResponse{
		ID:           item.ID.String(),
		Title:        item.Title,
		Description:  item.Description,
		Link:         item.Link,
		Tag:          item.Tag,
		Category:     item.Category,
		UserID:       item.UserID,
		ImagePath:    item.ImagePath,
		ImageURL:     "/uploads/" + item.ImagePath,
		FullImageURL: fullImageURL,
		CreatedAt:    &createdAt,
		UpdatedAt:    &updatedAt,
	}
}

func NewOrphanFileResponse(filename, fullImageURL string) GalleryItemResponse {
	return GalleryItemResponse{
		ID:           filename,
		ImagePath:    filename,
		ImageURL:     "/uploads/" + filename,
		FullImageURL: fullImageURL,
		Orphan:       true,
	}
}

type DeleteGalleryItemResponse struct {
	DeletedID string `json:"deleted_id"`
}

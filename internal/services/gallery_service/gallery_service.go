package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gallery_app/internal/domain/models"
	"gallery_app/internal/lib/logger/sl"
	"gallery_app/internal/repository"
	storage "gallery_app/internal/storage/filestorage"
	"gallery_app/internal/transport/http/dto"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

var (
	ErrNoFile        = errors.New("image file is required")
	ErrTitleRequired = errors.New("title is required")
)

// GalleryService coordinates the catalog and the file store so that the
// two never silently diverge: uploads stage the file first and roll it
// back if the record write fails, listings reconcile both sides at read
// time.
type GalleryService struct {
	log     *slog.Logger
	repo    repository.GalleryRepository
	files   storage.FileStorage
	baseURL string
	cache   *gocache.Cache
}

func NewGalleryService(log *slog.Logger, repo repository.GalleryRepository, files storage.FileStorage, baseURL string) *GalleryService {
	return &GalleryService{
		log:     log,
		repo:    repo,
		files:   files,
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// ImageURL derives the public URL for a stored image. It is a pure
// function of the configured base URL and the relative path, so the
// HTTP layer never has to recompute it.
func (s *GalleryService) ImageURL(imagePath string) string {
	return s.baseURL + "/uploads/" + imagePath
}

// Upload stages the image on disk, then persists the catalog record.
// Any failure after the file is written triggers a compensating delete
// so no orphan is left behind by a failed upload.
func (s *GalleryService) Upload(ctx context.Context, input dto.GalleryUploadInput) (*dto.GalleryItemResponse, error) {
	const op = "gallery_service.Upload"

	log := s.log.With(
		slog.String("op", op),
		slog.String("title", input.Title),
	)

	if input.File == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNoFile)
	}

	log.Info("uploading image", slog.String("filename", input.File.Filename))

	imagePath, size, err := s.files.Save(ctx, input.File)
	if err != nil {
		log.Error("failed to save file", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log = log.With(slog.String("image_path", imagePath))

	committed := false
	defer func() {
		if committed {
			return
		}
		if err := s.files.Delete(ctx, imagePath); err != nil {
			log.Error("failed to remove staged file", sl.Err(err))
		}
	}()

	title := strings.TrimSpace(input.Title)
	if title == "" {
		log.Warn("empty title, rolling back staged file")
		return nil, fmt.Errorf("%s: %w", op, ErrTitleRequired)
	}

	var userID *string
	if trimmed := strings.TrimSpace(input.UserID); trimmed != "" {
		userID = &trimmed
	}

	item := models.NewGalleryItem(title, imagePath, userID)
	item.Description = strings.TrimSpace(input.Description)
	item.Link = strings.TrimSpace(input.Link)
	item.Tag = strings.TrimSpace(input.Tag)
	item.Category = strings.TrimSpace(input.Category)

	created, err := s.repo.CreateItem(ctx, item)
	if err != nil {
		log.Error("failed to save item to catalog", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	committed = true

	log.Info("image uploaded",
		slog.String("id", created.ID.String()),
		slog.Int64("size", size),
	)

	resp := dto.NewGalleryItemResponse(created, s.ImageURL(created.ImagePath))
	return &resp, nil
}

// List returns the reconciled view of the catalog and the upload
// directory: tracked records newest first, then orphan files.
func (s *GalleryService) List(ctx context.Context) ([]dto.GalleryItemResponse, error) {
	const op = "gallery_service.List"

	log := s.log.With(slog.String("op", op))

	items, err := s.repo.FindAll(ctx)
	if err != nil {
		log.Error("failed to list catalog", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	files, err := s.files.ListAll()
	if err != nil {
		log.Error("failed to list upload directory", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	entries := Reconcile(items, files)

	out := make([]dto.GalleryItemResponse, 0, len(entries))
	for _, e := range entries {
		if e.IsOrphan() {
			out = append(out, dto.NewOrphanFileResponse(e.Filename, s.ImageURL(e.Filename)))
			continue
		}
		out = append(out, dto.NewGalleryItemResponse(*e.Item, s.ImageURL(e.Item.ImagePath)))
	}

	log.Info("gallery listed",
		slog.Int("records", len(items)),
		slog.Int("files", len(files)),
		slog.Int("entries", len(out)),
	)

	return out, nil
}

// Get returns a single catalog record. The record is served even when
// its file is gone from disk; only listings hide diverged records.
func (s *GalleryService) Get(ctx context.Context, id uuid.UUID) (*dto.GalleryItemResponse, error) {
	const op = "gallery_service.Get"

	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id.String()),
	)

	if cached, ok := s.cache.Get(id.String()); ok {
		resp := cached.(dto.GalleryItemResponse)
		return &resp, nil
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		log.Warn("failed to get item", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp := dto.NewGalleryItemResponse(item, s.ImageURL(item.ImagePath))
	s.cache.SetDefault(id.String(), resp)

	return &resp, nil
}

// Update rewrites the metadata fields of a record. The image path is
// immutable; re-uploading is the only way to change the picture.
func (s *GalleryService) Update(ctx context.Context, id uuid.UUID, input dto.GalleryUpdateInput) (*dto.GalleryItemResponse, error) {
	const op = "gallery_service.Update"

	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id.String()),
	)

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%s: %w", op, ErrTitleRequired)
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		log.Warn("failed to get item", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	item.Title = title
	item.Description = strings.TrimSpace(input.Description)
	item.Link = strings.TrimSpace(input.Link)
	item.Tag = strings.TrimSpace(input.Tag)
	item.Category = strings.TrimSpace(input.Category)
	item.UpdatedAt = time.Now().UTC()

	if err := s.repo.UpdateItem(ctx, item); err != nil {
		log.Error("failed to update item", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Delete(id.String())

	log.Info("item updated")

	resp := dto.NewGalleryItemResponse(item, s.ImageURL(item.ImagePath))
	return &resp, nil
}

// Delete removes the record and its file. The file delete is
// best-effort: a file that is already gone is logged and skipped. The
// catalog delete is authoritative and its failure is surfaced.
func (s *GalleryService) Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	const op = "gallery_service.Delete"

	log := s.log.With(
		slog.String("op", op),
		slog.String("id", id.String()),
	)

	log.Info("deleting item")

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		log.Warn("failed to get item", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	if !s.files.Exists(item.ImagePath) {
		log.Warn("image file already missing", slog.String("image_path", item.ImagePath))
	} else if err := s.files.Delete(ctx, item.ImagePath); err != nil {
		log.Warn("failed to delete image file", sl.Err(err))
	}

	if err := s.repo.DeleteItem(ctx, id); err != nil {
		log.Error("failed to delete catalog record", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	s.cache.Delete(id.String())

	log.Info("item deleted")

	return id, nil
}

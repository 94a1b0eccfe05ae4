package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gallery_app/internal/domain/models"
	"gallery_app/internal/storage"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

var galleryColumns = []string{
	"id",
	"title",
	"description",
	"link",
	"tag",
	"category",
	"user_id",
	"image_path",
	"created_at",
	"updated_at",
}

type GalleryRepo struct {
	db *pgxpool.Pool
	sb sq.StatementBuilderType
}

func NewGalleryRepository(db *pgxpool.Pool) *GalleryRepo {
	return &GalleryRepo{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

func (r *GalleryRepo) CreateItem(ctx context.Context, item models.GalleryItem) (models.GalleryItem, error) {
	const op = "repository.gallery_repository.CreateItem"

	query, args, err := r.sb.Insert("gallery_items").
		Columns(galleryColumns...).
		Values(
			item.ID,
			item.Title,
			item.Description,
			item.Link,
			item.Tag,
			item.Category,
			item.UserID,
			item.ImagePath,
			item.CreatedAt,
			item.UpdatedAt,
		).
		Suffix("RETURNING " + columnList()).
		ToSql()
	if err != nil {
		return models.GalleryItem{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	created, err := scanItem(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return models.GalleryItem{}, fmt.Errorf("%s: %w", op, err)
	}

	return created, nil
}

func (r *GalleryRepo) FindByID(ctx context.Context, id uuid.UUID) (models.GalleryItem, error) {
	const op = "repository.gallery_repository.FindByID"

	query, args, err := r.sb.Select(galleryColumns...).
		From("gallery_items").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return models.GalleryItem{}, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	item, err := scanItem(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.GalleryItem{}, fmt.Errorf("%s: %w", op, storage.ErrItemNotFound)
		}
		return models.GalleryItem{}, fmt.Errorf("%s: %w", op, err)
	}

	return item, nil
}

// FindAll returns every catalog record, newest first with id as the
// tie-break so repeated calls see identical ordering.
func (r *GalleryRepo) FindAll(ctx context.Context) ([]models.GalleryItem, error) {
	const op = "repository.gallery_repository.FindAll"

	query, args, err := r.sb.Select(galleryColumns...).
		From("gallery_items").
		OrderBy("created_at DESC", "id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var items []models.GalleryItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: row scanning failed: %w", op, err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: rows iteration error: %w", op, err)
	}

	return items, nil
}

func (r *GalleryRepo) UpdateItem(ctx context.Context, item models.GalleryItem) error {
	const op = "repository.gallery_repository.UpdateItem"

	query, args, err := r.sb.Update("gallery_items").
		Set("title", item.Title).
		Set("description", item.Description).
		Set("link", item.Link).
		Set("tag", item.Tag).
		Set("category", item.Category).
		Set("updated_at", item.UpdatedAt).
		Where(sq.Eq{"id": item.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrItemNotFound)
	}

	return nil
}

func (r *GalleryRepo) DeleteItem(ctx context.Context, id uuid.UUID) error {
	const op = "repository.gallery_repository.DeleteItem"

	query, args, err := r.sb.Delete("gallery_items").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%s: can't build sql: %w", op, err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrItemNotFound)
	}

	return nil
}

func columnList() string {
	return strings.Join(galleryColumns, ", ")
}

func scanItem(row pgx.Row) (models.GalleryItem, error) {
	var item models.GalleryItem
	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.Link,
		&item.Tag,
		&item.Category,
		&item.UserID,
		&item.ImagePath,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return item, err
}

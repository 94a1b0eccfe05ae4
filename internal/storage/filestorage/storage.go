package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gallery_app/internal/storage"
)

// FileStorage is the contract the gallery service needs from the upload
// directory. Paths are always relative to the managed base directory.
type FileStorage interface {
	Save(ctx context.Context, file *multipart.FileHeader) (relativePath string, size int64, err error)
	Exists(relativePath string) bool
	Delete(ctx context.Context, relativePath string) error
	ListAll() ([]string, error)
	GetFullPath(relativePath string) string
	BaseDir() string
}

var allowedExts = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

var allowedMimeTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// IsImage reports whether the filename carries an accepted image
// extension. The check is case-insensitive.
func IsImage(filename string) bool {
	_, ok := allowedExts[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// LocalFileStorage keeps all uploads in a single flat directory.
// Filenames are derived from the upload timestamp, so concurrent
// writers never collide on path.
type LocalFileStorage struct {
	baseDir string
	maxSize int64
}

func NewLocalFileStorage(baseDir string, maxSize int64) (*LocalFileStorage, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}

	return &LocalFileStorage{
		baseDir: baseDir,
		maxSize: maxSize,
	}, nil
}

// Save validates the declared type and size, then writes the file under
// a fresh timestamp-based name. Nothing is left on disk when an error
// is returned.
func (s *LocalFileStorage) Save(ctx context.Context, file *multipart.FileHeader) (string, int64, error) {
	const op = "storage.filestorage.Save"

	if err := ctx.Err(); err != nil {
		return "", 0, err
	}

	if file.Size > s.maxSize {
		return "", 0, fmt.Errorf("%s: %w", op, storage.ErrFileTooLarge)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedExts[ext]; !ok {
		return "", 0, fmt.Errorf("%s: %w", op, storage.ErrInvalidFileType)
	}

	mimeType := strings.ToLower(file.Header.Get("Content-Type"))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if _, ok := allowedMimeTypes[mimeType]; !ok {
		return "", 0, fmt.Errorf("%s: %w", op, storage.ErrInvalidFileType)
	}

	src, err := file.Open()
	if err != nil {
		return "", 0, fmt.Errorf("%s: failed to open source file: %w", op, err)
	}
	defer src.Close()

	// O_EXCL guards the rare case of two uploads landing on the same
	// nanosecond; retry allocates a later timestamp.
	for attempt := 0; attempt < 3; attempt++ {
		name := strconv.FormatInt(time.Now().UnixNano(), 10) + ext
		fullPath := filepath.Join(s.baseDir, name)

		dst, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, fs.ErrExist) {
			continue
		}
		if err != nil {
			return "", 0, fmt.Errorf("%s: failed to create destination file: %w", op, err)
		}

		written, err := io.Copy(dst, io.LimitReader(src, s.maxSize+1))
		if cerr := dst.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			_ = os.Remove(fullPath)
			return "", 0, fmt.Errorf("%s: failed to copy file: %w", op, err)
		}
		if written > s.maxSize {
			_ = os.Remove(fullPath)
			return "", 0, fmt.Errorf("%s: %w", op, storage.ErrFileTooLarge)
		}

		return name, written, nil
	}

	return "", 0, fmt.Errorf("%s: could not allocate a unique filename", op)
}

// Exists reports whether the relative path currently resolves to a file.
func (s *LocalFileStorage) Exists(relativePath string) bool {
	info, err := os.Stat(filepath.Join(s.baseDir, relativePath))
	return err == nil && !info.IsDir()
}

// Delete removes the file. Deleting a path that is already gone is a
// no-op, never an error.
func (s *LocalFileStorage) Delete(ctx context.Context, relativePath string) error {
	const op = "storage.filestorage.Delete"

	if err := ctx.Err(); err != nil {
		return err
	}

	err := os.Remove(filepath.Join(s.baseDir, relativePath))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// ListAll returns a snapshot of all filenames in the upload directory,
// unfiltered. Callers decide what counts as an image.
func (s *LocalFileStorage) ListAll() ([]string, error) {
	const op = "storage.filestorage.ListAll"

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}

	return names, nil
}

func (s *LocalFileStorage) GetFullPath(relativePath string) string {
	return filepath.Join(s.baseDir, relativePath)
}

func (s *LocalFileStorage) BaseDir() string {
	return s.baseDir
}

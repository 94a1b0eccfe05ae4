package storage_test

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"

	appstorage "gallery_app/internal/storage"
	storage "gallery_app/internal/storage/filestorage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMaxSize = 1 << 20

func setupFileStorage(t *testing.T) *storage.LocalFileStorage {
	t.Helper()

	fs, err := storage.NewLocalFileStorage(t.TempDir(), testMaxSize)
	require.NoError(t, err)

	return fs
}

func createTestFile(t *testing.T, filename, contentType, content string) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename="%s"`, filename))
	h.Set("Content-Type", contentType)

	part, err := writer.CreatePart(h)
	require.NoError(t, err)

	_, err = part.Write([]byte(content))
	require.NoError(t, err)

	require.NoError(t, writer.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	file, header, err := req.FormFile("image")
	require.NoError(t, err)
	file.Close()

	return header
}

func TestLocalFileStorage_Save(t *testing.T) {
	fs := setupFileStorage(t)
	ctx := context.Background()

	t.Run("successful save", func(t *testing.T) {
		header := createTestFile(t, "beach.jpg", "image/jpeg", "jpeg bytes")

		path, size, err := fs.Save(ctx, header)
		require.NoError(t, err)

		assert.True(t, strings.HasSuffix(path, ".jpg"))
		assert.Equal(t, int64(len("jpeg bytes")), size)
		assert.True(t, fs.Exists(path))

		data, err := os.ReadFile(fs.GetFullPath(path))
		require.NoError(t, err)
		assert.Equal(t, "jpeg bytes", string(data))
	})

	t.Run("extension is normalized to lower case", func(t *testing.T) {
		header := createTestFile(t, "SHOUTING.PNG", "image/png", "png bytes")

		path, _, err := fs.Save(ctx, header)
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(path, ".png"))
	})

	t.Run("concurrent-style saves get distinct names", func(t *testing.T) {
		first, _, err := fs.Save(ctx, createTestFile(t, "a.gif", "image/gif", "one"))
		require.NoError(t, err)
		second, _, err := fs.Save(ctx, createTestFile(t, "b.gif", "image/gif", "two"))
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("rejects disallowed extension", func(t *testing.T) {
		header := createTestFile(t, "notes.txt", "image/png", "not an image")

		_, _, err := fs.Save(ctx, header)
		require.ErrorIs(t, err, appstorage.ErrInvalidFileType)
	})

	t.Run("rejects disallowed mime type", func(t *testing.T) {
		header := createTestFile(t, "fake.jpg", "text/plain", "definitely text")

		_, _, err := fs.Save(ctx, header)
		require.ErrorIs(t, err, appstorage.ErrInvalidFileType)
	})

	t.Run("accepts mime type with parameters", func(t *testing.T) {
		header := createTestFile(t, "param.webp", "image/webp; charset=binary", "webp bytes")

		_, _, err := fs.Save(ctx, header)
		require.NoError(t, err)
	})

	t.Run("rejects oversized file and leaves nothing on disk", func(t *testing.T) {
		small, err := storage.NewLocalFileStorage(t.TempDir(), 4)
		require.NoError(t, err)

		header := createTestFile(t, "big.jpg", "image/jpeg", "way past four bytes")

		_, _, err = small.Save(ctx, header)
		require.ErrorIs(t, err, appstorage.ErrFileTooLarge)

		names, err := small.ListAll()
		require.NoError(t, err)
		assert.Empty(t, names)
	})
}

func TestLocalFileStorage_Delete(t *testing.T) {
	fs := setupFileStorage(t)
	ctx := context.Background()

	path, _, err := fs.Save(ctx, createTestFile(t, "gone.png", "image/png", "bytes"))
	require.NoError(t, err)

	require.NoError(t, fs.Delete(ctx, path))
	assert.False(t, fs.Exists(path))

	// Deleting a missing path is a no-op.
	require.NoError(t, fs.Delete(ctx, path))
	require.NoError(t, fs.Delete(ctx, "never-existed.jpg"))
}

func TestLocalFileStorage_ListAll(t *testing.T) {
	fs := setupFileStorage(t)
	ctx := context.Background()

	path1, _, err := fs.Save(ctx, createTestFile(t, "one.jpg", "image/jpeg", "1"))
	require.NoError(t, err)
	path2, _, err := fs.Save(ctx, createTestFile(t, "two.webp", "image/webp", "2"))
	require.NoError(t, err)

	// ListAll is unfiltered: stray files show up too.
	require.NoError(t, os.WriteFile(fs.GetFullPath("stray.txt"), []byte("x"), 0644))

	names, err := fs.ListAll()
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{path1, path2, "stray.txt"}, names)
}

func TestIsImage(t *testing.T) {
	assert.True(t, storage.IsImage("a.jpg"))
	assert.True(t, storage.IsImage("a.JPEG"))
	assert.True(t, storage.IsImage("a.Png"))
	assert.True(t, storage.IsImage("a.gif"))
	assert.True(t, storage.IsImage("a.webp"))
	assert.False(t, storage.IsImage("a.txt"))
	assert.False(t, storage.IsImage("a.svg"))
	assert.False(t, storage.IsImage("noext"))
}

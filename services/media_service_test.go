package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"platform/services/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMedia(t *testing.T) *MediaService {
	t.Helper()
	m, err := NewMediaService(t.TempDir(), "", logger.NewDefaultLogger(logger.ErrorLevel))
	require.NoError(t, err)
	return m
}

func TestAllowedFile(t *testing.T) {
	assert.True(t, AllowedFile("photo.jpg"))
	assert.True(t, AllowedFile("photo.JPEG"))
	assert.True(t, AllowedFile("photo.png"))
	assert.True(t, AllowedFile("photo.gif"))

	assert.False(t, AllowedFile("script.php"))
	assert.False(t, AllowedFile("archive.zip"))
	assert.False(t, AllowedFile("noext"))
	assert.False(t, AllowedFile(""))
}

func TestSafeFilename(t *testing.T) {
	assert.Equal(t, "Cozy_Loft", SafeFilename("Cozy Loft"))
	assert.Equal(t, "caf_menu", SafeFilename("café menu"))
	assert.Equal(t, "a-b_c.d", SafeFilename("a-b c.d"))

	// Nothing safe left falls back to a stable name.
	assert.Equal(t, "untitled", SafeFilename("***"))
	assert.Equal(t, "untitled", SafeFilename(""))
}

func TestExistsAndURLFor(t *testing.T) {
	m := newTestMedia(t)

	require.NoError(t, os.WriteFile(filepath.Join(m.Root(), "a.jpg"), []byte("x"), 0o644))

	assert.True(t, m.Exists("a.jpg"))
	assert.False(t, m.Exists("missing.jpg"))
	assert.False(t, m.Exists(""))

	// Stored values are bare filenames; path segments are stripped.
	assert.True(t, m.Exists("../uploads/a.jpg"))

	assert.Equal(t, "/uploads/a.jpg", m.URLFor("a.jpg"))
}

func TestURLForWithBase(t *testing.T) {
	m, err := NewMediaService(t.TempDir(), "https://cdn.example.com", logger.NewDefaultLogger(logger.ErrorLevel))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/uploads/a.jpg", m.URLFor("a.jpg"))
}

func TestSaveOptimizedStoresUndecodablePayloadRaw(t *testing.T) {
	m := newTestMedia(t)

	f, err := os.Open(os.DevNull)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, m.SaveOptimized(f, "raw.jpg"))
	assert.True(t, m.Exists("raw.jpg"))
}

func TestThumbnailPathMissingOriginal(t *testing.T) {
	m := newTestMedia(t)

	_, err := m.ThumbnailPath("nope.jpg")
	assert.Error(t, err)
}

func TestCleanupThumbnails(t *testing.T) {
	m := newTestMedia(t)
	thumbDir := filepath.Join(m.Root(), "thumbnails")

	old := filepath.Join(thumbDir, "thumb_old.jpg")
	fresh := filepath.Join(thumbDir, "thumb_fresh.jpg")
	require.NoError(t, os.WriteFile(old, []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(fresh, []byte("x"), 0o644))

	stale := time.Now().Add(-8 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(old, stale, stale))

	removed := m.CleanupThumbnails(7 * 24 * time.Hour)
	assert.Equal(t, 1, removed)

	_, err := os.Stat(old)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
}

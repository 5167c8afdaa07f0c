package media

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageSaveAndGet(t *testing.T) {
	store := newTestStore(t)

	relPath, err := store.Save(AssetTypeCapture, "frame.jpg", bytes.NewReader([]byte("payload")))
	require.NoError(t, err)
	assert.Equal(t, "captures/frame.jpg", relPath)

	reader, info, err := store.Get(relPath)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	assert.Equal(t, int64(len("payload")), info.Size())
}

func TestLocalStorageSaveGeneratesUUIDName(t *testing.T) {
	store := newTestStore(t)

	relPath, err := store.Save(AssetTypeAnnotated, "", bytes.NewReader([]byte("x")))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(relPath, "annotated/"))
	assert.True(t, strings.HasSuffix(relPath, ".jpg"))
	assert.Greater(t, len(relPath), len("annotated/.jpg"))
}

func TestLocalStorageSaveRejectsTraversalHint(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Save(AssetTypeCapture, "../escape.jpg", bytes.NewReader([]byte("x")))
	assert.Error(t, err)
}

func TestLocalStorageGetFullPathRejectsEscape(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetFullPath("../../etc/passwd")
	assert.Error(t, err)
}

func TestLocalStorageDeleteMissingIsNoop(t *testing.T) {
	store := newTestStore(t)

	assert.NoError(t, store.Delete("captures/never-existed.jpg"))
	assert.NoError(t, store.Delete(""))
}

func TestIsRasterImage(t *testing.T) {
	assert.True(t, IsRasterImage("frame.JPG"))
	assert.True(t, IsRasterImage("frame.png"))
	assert.False(t, IsRasterImage("frame.txt"))
	assert.False(t, IsRasterImage("frame"))
}

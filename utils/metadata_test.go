package utils

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetCaptureMetadataWithoutEXIF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frame.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	require.NoError(t, f.Close())

	meta, err := GetCaptureMetadata(path)
	require.NoError(t, err)
	assert.Nil(t, meta.CameraMake)
	assert.Nil(t, meta.CameraModel)
	assert.Nil(t, meta.TakenAt)
}

func TestGetCaptureMetadataMissingFile(t *testing.T) {
	_, err := GetCaptureMetadata(filepath.Join(t.TempDir(), "nope.jpg"))
	assert.Error(t, err)
}

package media

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

var supportedImageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true, ".tif": true, ".tiff": true,
}

// IsRasterImage checks if the filename has a common raster image extension
func IsRasterImage(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return supportedImageExtensions[ext]
}

// GeneratePreview writes a downscaled JPEG copy of an annotated image so event
// listings do not need to ship full-resolution frames. Returns the preview's
// path relative to the store base.
func GeneratePreview(store *LocalStorage, annotatedAbsPath string, maxSize int) (string, error) {
	img, err := imaging.Open(annotatedAbsPath)
	if err != nil {
		return "", fmt.Errorf("failed to open annotated image %s: %w", annotatedAbsPath, err)
	}

	preview := imaging.Fit(img, maxSize, maxSize, imaging.Lanczos)

	previewDir, err := store.EnsureDir(AssetTypePreview)
	if err != nil {
		return "", err
	}

	previewFilename := uuid.NewString() + ".jpg"
	previewSavePath := filepath.Join(previewDir, previewFilename)

	if err := imaging.Save(preview, previewSavePath, imaging.JPEGQuality(80)); err != nil {
		return "", fmt.Errorf("failed to save preview to %s: %w", previewSavePath, err)
	}

	relativePath, err := filepath.Rel(store.basePath, previewSavePath)
	if err != nil {
		return "", fmt.Errorf("internal error calculating preview relative path: %w", err)
	}

	log.Printf("media: generated preview for %s at %s", annotatedAbsPath, previewSavePath)
	return filepath.ToSlash(relativePath), nil
}
